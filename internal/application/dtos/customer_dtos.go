package dtos

import "time"

// ============================================
// Commands
// ============================================

// CreateCustomerCommand creates a profile for the authenticated subject.
// UserID is filled by the handler from the bearer token, never from the
// request body.
type CreateCustomerCommand struct {
	UserID    string  `json:"-"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// UpdateCustomerCommand partially updates the caller's profile. Nil fields
// keep their stored values.
type UpdateCustomerCommand struct {
	UserID    string  `json:"-"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// ============================================
// KYC commands
// ============================================

// InitiateKYCCommand starts identity verification for the caller.
type InitiateKYCCommand struct {
	UserID    string            `json:"-"`
	Documents map[string]string `json:"documents" validate:"required,min=1"`
}

// KYCWebhookCommand is the unauthenticated provider callback. VerifiedAt
// is an ISO-8601 string; unparseable values fall back to now().
type KYCWebhookCommand struct {
	CustomerID int64  `json:"customerId" validate:"required,gt=0"`
	Status     string `json:"status" validate:"required,oneof=VERIFIED REJECTED"`
	VerifiedAt string `json:"verifiedAt,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ============================================
// Response DTOs
// ============================================

// CustomerDTO is the profile representation for the API.
type CustomerDTO struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// KYCStatusDTO answers the status query. Status defaults to PENDING when
// the customer has no KYC record yet.
type KYCStatusDTO struct {
	Status          string     `json:"status"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}
