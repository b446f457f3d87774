// Package entities - Transaction represents a money movement command outcome.
// Together with its ledger entries it forms the system of record; the wallet
// balance is derived from it.
package entities

import (
	"encoding/json"
	"time"

	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// TransactionType represents the type of transaction.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"    // External money in
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL" // External money out
	TransactionTypeTransfer   TransactionType = "TRANSFER"   // Internal wallet-to-wallet move
)

// IsValid checks if the transaction type is valid.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	default:
		return false
	}
}

// TransactionStatus represents the current state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"   // Created, double entry not yet written
	TransactionStatusCompleted TransactionStatus = "COMPLETED" // Double entry committed
	TransactionStatusFailed    TransactionStatus = "FAILED"    // Ledger creation failed, reason recorded
	TransactionStatusCancelled TransactionStatus = "CANCELLED" // Reserved in schema, not emitted by commands
)

// IsValid checks if the transaction status is valid.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the status is terminal (no further transitions).
func (s TransactionStatus) IsFinal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// Transaction represents a financial transaction.
//
// Entity Pattern:
// - Has identity (ID + idempotency key)
// - State machine: PENDING -> COMPLETED | FAILED
// - Immutable after a terminal status
//
// Endpoint shape per type (also enforced as CHECK constraints in storage):
//   - DEPOSIT:    to set, from null
//   - WITHDRAWAL: from set, to null
//   - TRANSFER:   both set and distinct
type Transaction struct {
	id              uuid.UUID
	transactionType TransactionType
	status          TransactionStatus
	amount          valueobjects.Money

	fromWalletID *uuid.UUID
	toWalletID   *uuid.UUID

	// idempotencyKey is client-provided and unique across the table;
	// a repeated command returns the stored transaction unchanged.
	idempotencyKey string
	metadata       map[string]interface{}

	failureReason string

	initiatedAt time.Time
	completedAt *time.Time
	updatedAt   time.Time
}

// NewDeposit creates a PENDING deposit transaction crediting toWalletID.
func NewDeposit(toWalletID uuid.UUID, amount valueobjects.Money, idempotencyKey string) (*Transaction, error) {
	if err := validateCommand(amount, idempotencyKey); err != nil {
		return nil, err
	}
	to := toWalletID
	return newTransaction(TransactionTypeDeposit, amount, nil, &to, idempotencyKey), nil
}

// NewWithdrawal creates a PENDING withdrawal transaction debiting fromWalletID.
func NewWithdrawal(fromWalletID uuid.UUID, amount valueobjects.Money, idempotencyKey string) (*Transaction, error) {
	if err := validateCommand(amount, idempotencyKey); err != nil {
		return nil, err
	}
	from := fromWalletID
	return newTransaction(TransactionTypeWithdrawal, amount, &from, nil, idempotencyKey), nil
}

// NewTransfer creates a PENDING transfer between two distinct wallets.
func NewTransfer(fromWalletID, toWalletID uuid.UUID, amount valueobjects.Money, idempotencyKey string) (*Transaction, error) {
	if err := validateCommand(amount, idempotencyKey); err != nil {
		return nil, err
	}
	if fromWalletID == toWalletID {
		return nil, errors.ErrSameWallet
	}
	from, to := fromWalletID, toWalletID
	return newTransaction(TransactionTypeTransfer, amount, &from, &to, idempotencyKey), nil
}

func validateCommand(amount valueobjects.Money, idempotencyKey string) error {
	if idempotencyKey == "" {
		return errors.ValidationError{
			Field:   "idempotencyKey",
			Message: "idempotency key is required",
		}
	}
	if !amount.IsPositive() {
		return errors.ValidationError{
			Field:   "amount",
			Message: "transaction amount must be positive",
		}
	}
	return nil
}

func newTransaction(
	transactionType TransactionType,
	amount valueobjects.Money,
	fromWalletID, toWalletID *uuid.UUID,
	idempotencyKey string,
) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		id:              uuid.New(),
		transactionType: transactionType,
		status:          TransactionStatusPending,
		amount:          amount,
		fromWalletID:    fromWalletID,
		toWalletID:      toWalletID,
		idempotencyKey:  idempotencyKey,
		metadata:        make(map[string]interface{}),
		initiatedAt:     now,
		updatedAt:       now,
	}
}

// ReconstructTransaction reconstructs a Transaction from stored data.
func ReconstructTransaction(
	id uuid.UUID,
	transactionType TransactionType,
	status TransactionStatus,
	amount valueobjects.Money,
	fromWalletID, toWalletID *uuid.UUID,
	idempotencyKey string,
	metadataJSON []byte,
	failureReason string,
	initiatedAt time.Time,
	completedAt *time.Time,
	updatedAt time.Time,
) (*Transaction, error) {
	var metadata map[string]interface{}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, err
		}
	} else {
		metadata = make(map[string]interface{})
	}

	return &Transaction{
		id:              id,
		transactionType: transactionType,
		status:          status,
		amount:          amount,
		fromWalletID:    fromWalletID,
		toWalletID:      toWalletID,
		idempotencyKey:  idempotencyKey,
		metadata:        metadata,
		failureReason:   failureReason,
		initiatedAt:     initiatedAt,
		completedAt:     completedAt,
		updatedAt:       updatedAt,
	}, nil
}

// Getters

func (t *Transaction) ID() uuid.UUID {
	return t.id
}

func (t *Transaction) Type() TransactionType {
	return t.transactionType
}

func (t *Transaction) Status() TransactionStatus {
	return t.status
}

func (t *Transaction) Amount() valueobjects.Money {
	return t.amount
}

func (t *Transaction) FromWalletID() *uuid.UUID {
	return t.fromWalletID
}

func (t *Transaction) ToWalletID() *uuid.UUID {
	return t.toWalletID
}

func (t *Transaction) IdempotencyKey() string {
	return t.idempotencyKey
}

func (t *Transaction) Metadata() map[string]interface{} {
	return t.metadata
}

func (t *Transaction) FailureReason() string {
	return t.failureReason
}

func (t *Transaction) InitiatedAt() time.Time {
	return t.initiatedAt
}

func (t *Transaction) CompletedAt() *time.Time {
	return t.completedAt
}

func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// WalletEndpoints returns the named wallet ids for this transaction,
// in a stable from-then-to order, skipping the cash side.
func (t *Transaction) WalletEndpoints() []uuid.UUID {
	var ids []uuid.UUID
	if t.fromWalletID != nil {
		ids = append(ids, *t.fromWalletID)
	}
	if t.toWalletID != nil {
		ids = append(ids, *t.toWalletID)
	}
	return ids
}

// Business Methods

// IsPending returns true if the transaction is in pending state.
func (t *Transaction) IsPending() bool {
	return t.status == TransactionStatusPending
}

// IsCompleted returns true if the transaction completed successfully.
func (t *Transaction) IsCompleted() bool {
	return t.status == TransactionStatusCompleted
}

// IsFailed returns true if the transaction failed.
func (t *Transaction) IsFailed() bool {
	return t.status == TransactionStatusFailed
}

// IsFinal returns true if the transaction is in a terminal state.
func (t *Transaction) IsFinal() bool {
	return t.status.IsFinal()
}

// AddMetadata adds custom metadata to the transaction.
func (t *Transaction) AddMetadata(key string, value interface{}) error {
	if t.IsFinal() {
		return errors.ErrTransactionAlreadyProcessed
	}

	t.metadata[key] = value
	t.updatedAt = time.Now().UTC()
	return nil
}

// State Machine Transitions

// MarkCompleted transitions the transaction to COMPLETED.
// Business rule: only PENDING transactions complete, and completed_at is set
// iff the status is COMPLETED.
func (t *Transaction) MarkCompleted() error {
	if !t.IsPending() {
		return errors.ErrTransactionNotPending
	}

	now := time.Now().UTC()
	t.status = TransactionStatusCompleted
	t.completedAt = &now
	t.updatedAt = now
	return nil
}

// MarkFailed transitions the transaction to FAILED with a recorded reason.
func (t *Transaction) MarkFailed(reason string) error {
	if t.IsFinal() {
		return errors.ErrTransactionAlreadyProcessed
	}

	t.status = TransactionStatusFailed
	t.failureReason = reason
	t.completedAt = nil
	t.updatedAt = time.Now().UTC()
	return nil
}
