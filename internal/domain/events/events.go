// Package events defines domain events that represent significant business
// occurrences. Events are immutable facts about what happened in the past.
//
// Events are published through the transactional outbox and carried on the
// bus as JSON: each struct below is its own wire payload, so field tags
// define the published format. One struct per topic; the eventType field
// discriminates within it.
package events

import (
	"strconv"
	"time"

	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	// Topic names the bus stream this event belongs to.
	Topic() string
	// PartitionKey orders events within the topic: events with the same key
	// are delivered in publish order.
	PartitionKey() string
	OccurredAt() time.Time
}

// Topics
const (
	TopicUserEvents        = "user-events"
	TopicCustomerEvents    = "customer-events"
	TopicKYCEvents         = "kyc-events"
	TopicWalletEvents      = "wallet-events"
	TopicTransactionEvents = "transaction-events"
)

// Event types
const (
	EventTypeUserRegistered = "USER_REGISTERED"
	EventTypeUserLogin      = "USER_LOGIN"
	EventTypeUserLogout     = "USER_LOGOUT"

	EventTypeCustomerCreated = "CUSTOMER_CREATED"

	EventTypeKYCInitiated = "KYC_INITIATED"
	EventTypeKYCVerified  = "KYC_VERIFIED"
	EventTypeKYCRejected  = "KYC_REJECTED"

	EventTypeWalletCreated = "WALLET_CREATED"

	EventTypeTransactionInitiated = "TRANSACTION_INITIATED"
	EventTypeTransactionCompleted = "TRANSACTION_COMPLETED"
	EventTypeTransactionFailed    = "TRANSACTION_FAILED"
)

// Envelope constants
const (
	EventSource  = "walletcore"
	EventVersion = "1.0"
)

// EventMetadata is the shared metadata block of user and customer events.
type EventMetadata struct {
	Source  string `json:"source"`
	Version string `json:"version"`
	Action  string `json:"action"`
}

func newMetadata(action string) EventMetadata {
	return EventMetadata{
		Source:  EventSource,
		Version: EventVersion,
		Action:  action,
	}
}

// ===== User events (topic user-events, key = subject) =====

// UserEvent covers USER_REGISTERED, USER_LOGIN and USER_LOGOUT.
type UserEvent struct {
	Type      string        `json:"eventType"`
	ID        uuid.UUID     `json:"eventId"`
	UserID    string        `json:"userId"`
	Username  string        `json:"username"`
	Email     string        `json:"email,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  EventMetadata `json:"metadata"`
}

func newUserEvent(eventType, subject, username, email, action string) *UserEvent {
	return &UserEvent{
		Type:      eventType,
		ID:        uuid.New(),
		UserID:    subject,
		Username:  username,
		Email:     email,
		Timestamp: time.Now().UTC(),
		Metadata:  newMetadata(action),
	}
}

// NewUserRegistered is raised after the identity provider creates a user.
func NewUserRegistered(subject, username, email string) *UserEvent {
	return newUserEvent(EventTypeUserRegistered, subject, username, email, "register")
}

// NewUserLogin is raised after a successful password grant.
func NewUserLogin(subject, username string) *UserEvent {
	return newUserEvent(EventTypeUserLogin, subject, username, "", "login")
}

// NewUserLogout is raised on logout, even when downstream revocation is
// best-effort.
func NewUserLogout(subject, username string) *UserEvent {
	return newUserEvent(EventTypeUserLogout, subject, username, "", "logout")
}

func (e *UserEvent) EventID() uuid.UUID    { return e.ID }
func (e *UserEvent) EventType() string     { return e.Type }
func (e *UserEvent) Topic() string         { return TopicUserEvents }
func (e *UserEvent) PartitionKey() string  { return e.UserID }
func (e *UserEvent) OccurredAt() time.Time { return e.Timestamp }

// ===== Customer events (topic customer-events, key = customer id) =====

// CustomerCreated is raised after a customer profile is durably saved.
type CustomerCreated struct {
	Type       string        `json:"eventType"`
	ID         uuid.UUID     `json:"eventId"`
	CustomerID int64         `json:"customerId"`
	UserID     string        `json:"userId"`
	Timestamp  time.Time     `json:"timestamp"`
	Metadata   EventMetadata `json:"metadata"`
}

func NewCustomerCreated(customer *entities.Customer) *CustomerCreated {
	return &CustomerCreated{
		Type:       EventTypeCustomerCreated,
		ID:         uuid.New(),
		CustomerID: customer.ID(),
		UserID:     customer.UserID(),
		Timestamp:  time.Now().UTC(),
		Metadata:   newMetadata("create"),
	}
}

func (e *CustomerCreated) EventID() uuid.UUID    { return e.ID }
func (e *CustomerCreated) EventType() string     { return e.Type }
func (e *CustomerCreated) Topic() string         { return TopicCustomerEvents }
func (e *CustomerCreated) PartitionKey() string  { return strconv.FormatInt(e.CustomerID, 10) }
func (e *CustomerCreated) OccurredAt() time.Time { return e.Timestamp }

// ===== KYC events (topic kyc-events, key = customer id) =====

// KYCEvent covers KYC_INITIATED, KYC_VERIFIED and KYC_REJECTED.
type KYCEvent struct {
	Type              string            `json:"eventType"`
	ID                uuid.UUID         `json:"eventId"`
	KYCCheckID        uuid.UUID         `json:"kycCheckId"`
	CustomerID        int64             `json:"customerId"`
	UserID            string            `json:"userId"`
	Status            string            `json:"status"`
	ProviderReference string            `json:"providerReference"`
	InitiatedAt       time.Time         `json:"initiatedAt"`
	VerifiedAt        *time.Time        `json:"verifiedAt,omitempty"`
	RejectionReason   string            `json:"rejectionReason,omitempty"`
	Documents         map[string]string `json:"documents"`
	Timestamp         time.Time         `json:"timestamp"`
}

func newKYCEvent(eventType string, check *entities.KYCCheck, subject string) *KYCEvent {
	return &KYCEvent{
		Type:              eventType,
		ID:                uuid.New(),
		KYCCheckID:        check.ID(),
		CustomerID:        check.CustomerID(),
		UserID:            subject,
		Status:            string(check.Status()),
		ProviderReference: check.ProviderReference(),
		InitiatedAt:       check.InitiatedAt(),
		VerifiedAt:        check.VerifiedAt(),
		RejectionReason:   check.RejectionReason(),
		Documents:         check.Documents(),
		Timestamp:         time.Now().UTC(),
	}
}

func NewKYCInitiated(check *entities.KYCCheck, subject string) *KYCEvent {
	return newKYCEvent(EventTypeKYCInitiated, check, subject)
}

func NewKYCVerified(check *entities.KYCCheck, subject string) *KYCEvent {
	return newKYCEvent(EventTypeKYCVerified, check, subject)
}

func NewKYCRejected(check *entities.KYCCheck, subject string) *KYCEvent {
	return newKYCEvent(EventTypeKYCRejected, check, subject)
}

func (e *KYCEvent) EventID() uuid.UUID    { return e.ID }
func (e *KYCEvent) EventType() string     { return e.Type }
func (e *KYCEvent) Topic() string         { return TopicKYCEvents }
func (e *KYCEvent) PartitionKey() string  { return strconv.FormatInt(e.CustomerID, 10) }
func (e *KYCEvent) OccurredAt() time.Time { return e.Timestamp }

// ===== Wallet events (topic wallet-events, key = customer id) =====

// WalletCreated is raised after a wallet is durably saved.
type WalletCreated struct {
	Type       string    `json:"eventType"`
	ID         uuid.UUID `json:"eventId"`
	WalletID   uuid.UUID `json:"walletId"`
	CustomerID int64     `json:"customerId"`
	UserID     string    `json:"userId"`
	Currency   string    `json:"currency"`
	Balance    string    `json:"balance"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewWalletCreated(wallet *entities.Wallet, subject string) *WalletCreated {
	return &WalletCreated{
		Type:       EventTypeWalletCreated,
		ID:         uuid.New(),
		WalletID:   wallet.ID(),
		CustomerID: wallet.CustomerID(),
		UserID:     subject,
		Currency:   wallet.Currency().Code(),
		Balance:    wallet.Balance().Decimal(),
		Timestamp:  time.Now().UTC(),
	}
}

func (e *WalletCreated) EventID() uuid.UUID    { return e.ID }
func (e *WalletCreated) EventType() string     { return e.Type }
func (e *WalletCreated) Topic() string         { return TopicWalletEvents }
func (e *WalletCreated) PartitionKey() string  { return strconv.FormatInt(e.CustomerID, 10) }
func (e *WalletCreated) OccurredAt() time.Time { return e.Timestamp }

// ===== Transaction events (topic transaction-events, key = transaction id) =====

// TransactionEvent covers TRANSACTION_INITIATED, TRANSACTION_COMPLETED and
// TRANSACTION_FAILED.
type TransactionEvent struct {
	Type            string     `json:"eventType"`
	ID              uuid.UUID  `json:"eventId"`
	TransactionID   uuid.UUID  `json:"transactionId"`
	TransactionType string     `json:"transactionType"`
	Status          string     `json:"status"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	FromWalletID    *uuid.UUID `json:"fromWalletId,omitempty"`
	ToWalletID      *uuid.UUID `json:"toWalletId,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	FailureReason   string     `json:"failureReason,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

func newTransactionEvent(eventType string, tx *entities.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Type:            eventType,
		ID:              uuid.New(),
		TransactionID:   tx.ID(),
		TransactionType: string(tx.Type()),
		Status:          string(tx.Status()),
		Amount:          tx.Amount().Decimal(),
		Currency:        tx.Amount().Currency().Code(),
		FromWalletID:    tx.FromWalletID(),
		ToWalletID:      tx.ToWalletID(),
		CompletedAt:     tx.CompletedAt(),
		FailureReason:   tx.FailureReason(),
		Timestamp:       time.Now().UTC(),
	}
}

func NewTransactionInitiated(tx *entities.Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionInitiated, tx)
}

func NewTransactionCompleted(tx *entities.Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionCompleted, tx)
}

func NewTransactionFailed(tx *entities.Transaction) *TransactionEvent {
	return newTransactionEvent(EventTypeTransactionFailed, tx)
}

func (e *TransactionEvent) EventID() uuid.UUID    { return e.ID }
func (e *TransactionEvent) EventType() string     { return e.Type }
func (e *TransactionEvent) Topic() string         { return TopicTransactionEvents }
func (e *TransactionEvent) PartitionKey() string  { return e.TransactionID.String() }
func (e *TransactionEvent) OccurredAt() time.Time { return e.Timestamp }
