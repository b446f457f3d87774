// Package entities - LedgerEntry is one side of a double-entry pair.
// Entries are append-only: once written they are never updated or deleted,
// which is what makes the ledger the system of record.
package entities

import (
	"fmt"
	"time"

	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// EntryType is the direction of a ledger entry.
// DEBIT reduces the named account, CREDIT increases it.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// IsValid checks if the entry type is valid.
func (e EntryType) IsValid() bool {
	return e == EntryTypeDebit || e == EntryTypeCredit
}

// CashAccountType names the notional counter-party that balances deposits and
// withdrawals. It is not a tracked account.
const CashAccountType = "CASH_ACCOUNT"

// WalletAccountType builds the account type string for a wallet endpoint.
func WalletAccountType(walletID uuid.UUID) string {
	return fmt.Sprintf("WALLET_%s", walletID)
}

// LedgerEntry records one side of a transaction's double entry.
// For wallet endpoints, balanceAfter is the running balance of that wallet
// after applying this entry. For the cash account, balanceAfter records the
// entry amount (placeholder; the cash side has no tracked running balance).
type LedgerEntry struct {
	id            uuid.UUID
	transactionID uuid.UUID
	walletID      *uuid.UUID // nil for the cash side
	accountType   string
	entryType     EntryType
	amount        valueobjects.Money
	balanceAfter  valueobjects.Money
	createdAt     time.Time
}

// NewWalletEntry creates an entry against a wallet endpoint.
// balanceAfter must already account for this entry.
func NewWalletEntry(
	transactionID, walletID uuid.UUID,
	entryType EntryType,
	amount, balanceAfter valueobjects.Money,
) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, errors.ValidationError{
			Field:   "entryType",
			Message: "entry type must be DEBIT or CREDIT",
		}
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationError{
			Field:   "amount",
			Message: "entry amount must be positive",
		}
	}

	wid := walletID
	return &LedgerEntry{
		id:            uuid.New(),
		transactionID: transactionID,
		walletID:      &wid,
		accountType:   WalletAccountType(walletID),
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     time.Now().UTC(),
	}, nil
}

// NewCashEntry creates the counter-entry for a deposit or withdrawal.
func NewCashEntry(
	transactionID uuid.UUID,
	entryType EntryType,
	amount valueobjects.Money,
) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, errors.ValidationError{
			Field:   "entryType",
			Message: "entry type must be DEBIT or CREDIT",
		}
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationError{
			Field:   "amount",
			Message: "entry amount must be positive",
		}
	}

	return &LedgerEntry{
		id:            uuid.New(),
		transactionID: transactionID,
		walletID:      nil,
		accountType:   CashAccountType,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  amount, // placeholder for the untracked cash side
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructLedgerEntry reconstructs a LedgerEntry from stored data.
func ReconstructLedgerEntry(
	id, transactionID uuid.UUID,
	walletID *uuid.UUID,
	accountType string,
	entryType EntryType,
	amount, balanceAfter valueobjects.Money,
	createdAt time.Time,
) *LedgerEntry {
	return &LedgerEntry{
		id:            id,
		transactionID: transactionID,
		walletID:      walletID,
		accountType:   accountType,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     createdAt,
	}
}

// Getters

func (e *LedgerEntry) ID() uuid.UUID {
	return e.id
}

func (e *LedgerEntry) TransactionID() uuid.UUID {
	return e.transactionID
}

func (e *LedgerEntry) WalletID() *uuid.UUID {
	return e.walletID
}

func (e *LedgerEntry) AccountType() string {
	return e.accountType
}

func (e *LedgerEntry) EntryType() EntryType {
	return e.entryType
}

func (e *LedgerEntry) Amount() valueobjects.Money {
	return e.amount
}

func (e *LedgerEntry) BalanceAfter() valueobjects.Money {
	return e.balanceAfter
}

func (e *LedgerEntry) CreatedAt() time.Time {
	return e.createdAt
}

// IsCashSide returns true if this entry balances against the cash account.
func (e *LedgerEntry) IsCashSide() bool {
	return e.walletID == nil
}

// VerifyBalanced checks the double-entry invariant over a set of entries:
// the sum of DEBIT amounts must equal the sum of CREDIT amounts.
func VerifyBalanced(entries []*LedgerEntry) error {
	var debits, credits int64
	for _, entry := range entries {
		switch entry.entryType {
		case EntryTypeDebit:
			debits += entry.amount.Cents()
		case EntryTypeCredit:
			credits += entry.amount.Cents()
		}
	}

	if debits != credits {
		return errors.ErrLedgerUnbalanced
	}
	return nil
}
