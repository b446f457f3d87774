// Package entities - Customer is the internal profile behind an external
// identity subject. The subject<->customer mapping is written with every save
// so subject resolution never drifts from the profile.
package entities

import (
	"strings"
	"time"

	"github.com/finbridge/walletcore/internal/domain/errors"
)

// CustomerStatus represents the lifecycle status of a customer profile.
type CustomerStatus string

const (
	CustomerStatusActive CustomerStatus = "ACTIVE"
)

// Customer represents a customer profile.
//
// Identity: a dense monotonic internal id assigned by storage (0 until the
// first save), plus the unique external subject id from the identity provider.
// Email is always set; phone and address stay nil until profile completion.
type Customer struct {
	id        int64
	userID    string // external subject id, unique
	firstName string
	lastName  string
	email     string
	phone     *string
	address   *string
	status    CustomerStatus
	createdAt time.Time
	updatedAt time.Time
}

// NewCustomer creates a customer from an explicit profile creation request.
func NewCustomer(userID, firstName, lastName, email string, phone, address *string) (*Customer, error) {
	if userID == "" {
		return nil, errors.ValidationError{
			Field:   "userId",
			Message: "external subject id is required",
		}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.ErrInvalidEmail
	}
	if firstName == "" {
		return nil, errors.ValidationError{
			Field:   "firstName",
			Message: "first name is required",
		}
	}

	now := time.Now().UTC()
	return &Customer{
		userID:    userID,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		phone:     phone,
		address:   address,
		status:    CustomerStatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewCustomerFromRegistration creates a partial customer profile from a
// USER_REGISTERED event. Phone stays nil until the customer completes the
// profile; the name is derived from the username (split on underscore,
// capitalized).
func NewCustomerFromRegistration(userID, username, email string) (*Customer, error) {
	firstName, lastName := deriveNames(username)
	return NewCustomer(userID, firstName, lastName, email, nil, nil)
}

// deriveNames splits a username on underscores into first/last name parts.
// "john_doe" -> ("John", "Doe"); "alice" -> ("Alice", "").
func deriveNames(username string) (string, string) {
	parts := strings.Split(strings.TrimSpace(username), "_")
	first := capitalize(parts[0])
	last := ""
	if len(parts) > 1 {
		last = capitalize(strings.Join(parts[1:], " "))
	}
	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ReconstructCustomer reconstructs a Customer from stored data.
func ReconstructCustomer(
	id int64,
	userID, firstName, lastName, email string,
	phone, address *string,
	status CustomerStatus,
	createdAt, updatedAt time.Time,
) *Customer {
	return &Customer{
		id:        id,
		userID:    userID,
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		phone:     phone,
		address:   address,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters

func (c *Customer) ID() int64 {
	return c.id
}

func (c *Customer) UserID() string {
	return c.userID
}

func (c *Customer) FirstName() string {
	return c.firstName
}

func (c *Customer) LastName() string {
	return c.lastName
}

func (c *Customer) Email() string {
	return c.email
}

func (c *Customer) Phone() *string {
	return c.phone
}

func (c *Customer) Address() *string {
	return c.address
}

func (c *Customer) Status() CustomerStatus {
	return c.status
}

func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Customer) UpdatedAt() time.Time {
	return c.updatedAt
}

// SetID assigns the storage-generated id after the first save.
// The repository is the only caller.
func (c *Customer) SetID(id int64) {
	c.id = id
}

// UpdateProfile applies a partial profile update: nil fields leave the
// existing values untouched.
func (c *Customer) UpdateProfile(firstName, lastName, phone, address *string) error {
	if firstName != nil {
		if *firstName == "" {
			return errors.ValidationError{
				Field:   "firstName",
				Message: "first name cannot be blank",
			}
		}
		c.firstName = *firstName
	}
	if lastName != nil {
		c.lastName = *lastName
	}
	if phone != nil {
		if *phone == "" {
			return errors.ValidationError{
				Field:   "phone",
				Message: "phone cannot be blank",
			}
		}
		c.phone = phone
	}
	if address != nil {
		c.address = address
	}

	c.updatedAt = time.Now().UTC()
	return nil
}
