// Package entities - KYCCheck models one identity verification attempt.
// At most one check per customer may be IN_PROGRESS; VERIFIED and REJECTED
// are terminal for that check.
package entities

import (
	"time"

	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/google/uuid"
)

// KYCStatus represents the state of a KYC check.
type KYCStatus string

const (
	KYCStatusPending    KYCStatus = "PENDING"     // No check started (default for status queries)
	KYCStatusInProgress KYCStatus = "IN_PROGRESS" // Submitted to the provider, awaiting webhook
	KYCStatusVerified   KYCStatus = "VERIFIED"    // Terminal
	KYCStatusRejected   KYCStatus = "REJECTED"    // Terminal
)

// IsValid checks if the KYC status is valid.
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCStatusPending, KYCStatusInProgress, KYCStatusVerified, KYCStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status admits no further transitions.
func (s KYCStatus) IsTerminal() bool {
	return s == KYCStatusVerified || s == KYCStatusRejected
}

// KYCCheck represents one verification attempt for a customer.
type KYCCheck struct {
	id                uuid.UUID
	customerID        int64
	status            KYCStatus
	providerReference string // unique per check, handed to the provider
	documents         map[string]string
	initiatedAt       time.Time
	verifiedAt        *time.Time
	rejectionReason   string
}

// NewKYCCheck creates an IN_PROGRESS check with a fresh provider reference.
// Documents must be non-empty at initiation.
func NewKYCCheck(customerID int64, documents map[string]string) (*KYCCheck, error) {
	if customerID <= 0 {
		return nil, errors.ValidationError{
			Field:   "customerId",
			Message: "customer id is required",
		}
	}
	if len(documents) == 0 {
		return nil, errors.ValidationError{
			Field:   "documents",
			Message: "at least one document is required",
		}
	}

	return &KYCCheck{
		id:                uuid.New(),
		customerID:        customerID,
		status:            KYCStatusInProgress,
		providerReference: "kyc-" + uuid.NewString(),
		documents:         documents,
		initiatedAt:       time.Now().UTC(),
	}, nil
}

// ReconstructKYCCheck reconstructs a KYCCheck from stored data.
func ReconstructKYCCheck(
	id uuid.UUID,
	customerID int64,
	status KYCStatus,
	providerReference string,
	documents map[string]string,
	initiatedAt time.Time,
	verifiedAt *time.Time,
	rejectionReason string,
) *KYCCheck {
	if documents == nil {
		documents = make(map[string]string)
	}
	return &KYCCheck{
		id:                id,
		customerID:        customerID,
		status:            status,
		providerReference: providerReference,
		documents:         documents,
		initiatedAt:       initiatedAt,
		verifiedAt:        verifiedAt,
		rejectionReason:   rejectionReason,
	}
}

// Getters

func (k *KYCCheck) ID() uuid.UUID {
	return k.id
}

func (k *KYCCheck) CustomerID() int64 {
	return k.customerID
}

func (k *KYCCheck) Status() KYCStatus {
	return k.status
}

func (k *KYCCheck) ProviderReference() string {
	return k.providerReference
}

func (k *KYCCheck) Documents() map[string]string {
	return k.documents
}

func (k *KYCCheck) InitiatedAt() time.Time {
	return k.initiatedAt
}

func (k *KYCCheck) VerifiedAt() *time.Time {
	return k.verifiedAt
}

func (k *KYCCheck) RejectionReason() string {
	return k.rejectionReason
}

// IsTerminal returns true if the check is in a terminal state.
func (k *KYCCheck) IsTerminal() bool {
	return k.status.IsTerminal()
}

// State Machine Transitions

// Verify transitions the check to VERIFIED at the given time.
func (k *KYCCheck) Verify(at time.Time) error {
	if k.IsTerminal() {
		return errors.ErrKYCAlreadyVerified
	}

	k.status = KYCStatusVerified
	k.verifiedAt = &at
	return nil
}

// Reject transitions the check to REJECTED with the given reason.
func (k *KYCCheck) Reject(at time.Time, reason string) error {
	if k.IsTerminal() {
		return errors.ErrKYCAlreadyVerified
	}

	k.status = KYCStatusRejected
	k.verifiedAt = &at
	k.rejectionReason = reason
	return nil
}
