// Package ports defines the interfaces the application layer depends on.
// The infrastructure layer provides the implementations, keeping use cases
// free of database, broker and HTTP-client details.
package ports

import (
	"context"
	"time"

	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// CustomerRepository stores customer profiles.
//
// Customer ids are dense integers assigned by storage: Save on a customer
// with a zero id inserts and calls SetID with the generated value.
type CustomerRepository interface {
	// Save persists the customer (insert when ID() == 0, update otherwise).
	Save(ctx context.Context, customer *entities.Customer) error

	// FindByID loads a customer by its storage id.
	FindByID(ctx context.Context, id int64) (*entities.Customer, error)

	// FindByUserID loads a customer by the identity-provider subject.
	FindByUserID(ctx context.Context, userID string) (*entities.Customer, error)

	// ResolveCustomerID maps a subject to a customer id without loading the
	// profile. Returns ErrCustomerNotFound when no profile exists yet.
	ResolveCustomerID(ctx context.Context, userID string) (int64, error)

	// ExistsByUserID reports whether a profile exists for the subject.
	ExistsByUserID(ctx context.Context, userID string) (bool, error)

	// List returns customers ordered by id with offset/limit pagination.
	List(ctx context.Context, offset, limit int) ([]*entities.Customer, error)
}

// KYCRepository stores KYC checks.
type KYCRepository interface {
	Save(ctx context.Context, check *entities.KYCCheck) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.KYCCheck, error)

	// FindByProviderReference resolves the check a provider webhook refers to.
	FindByProviderReference(ctx context.Context, ref string) (*entities.KYCCheck, error)

	// FindLatestByCustomer returns the most recently initiated check for the
	// customer, or ErrEntityNotFound when none exists.
	FindLatestByCustomer(ctx context.Context, customerID int64) (*entities.KYCCheck, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*entities.KYCCheck, error)
}

// WalletRepository stores wallets.
//
// Save enforces optimistic locking: the UPDATE matches on the loaded version
// and returns a ConcurrencyError when another writer got there first.
type WalletRepository interface {
	Save(ctx context.Context, wallet *entities.Wallet) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)

	// LockByID loads a wallet with a row lock (SELECT ... FOR UPDATE).
	// Only meaningful inside a UnitOfWork transaction; callers pass wallet
	// ids in a stable order to avoid deadlocks.
	LockByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)

	// FindByCustomer returns all wallets owned by the customer.
	FindByCustomer(ctx context.Context, customerID int64) ([]*entities.Wallet, error)

	FindByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (*entities.Wallet, error)

	ExistsByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (bool, error)

	List(ctx context.Context, filter WalletFilter, offset, limit int) ([]*entities.Wallet, error)
}

// WalletFilter narrows wallet listings.
type WalletFilter struct {
	CustomerID *int64
	Currency   *valueobjects.Currency
	Status     *entities.WalletStatus
}

// TransactionRepository stores transactions.
type TransactionRepository interface {
	Save(ctx context.Context, tx *entities.Transaction) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)

	// FindByIdempotencyKey returns the transaction recorded under the key,
	// or ErrEntityNotFound. The idempotent-replay check runs before any
	// balance work.
	FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error)

	// SumCompletedUsage returns the total amount in cents of COMPLETED
	// transactions touching the wallet (either endpoint) initiated since
	// the given instant. Feeds the daily and monthly limit windows.
	SumCompletedUsage(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error)

	// List returns transactions matching the filter in the requested
	// order, with offset/limit pagination.
	List(ctx context.Context, filter TransactionFilter, sort TransactionSort, offset, limit int) ([]*entities.Transaction, error)

	// Count returns the total number of transactions matching the filter,
	// for pagination metadata.
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	WalletID *uuid.UUID
	Type     *entities.TransactionType
	Status   *entities.TransactionStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionSort orders transaction listings. Field is one of id,
// initiatedAt, completedAt, amount, status, transactionType.
type TransactionSort struct {
	Field string
	Desc  bool
}

// LedgerEntryRepository stores the append-only double-entry ledger.
// Entries are never updated or deleted.
type LedgerEntryRepository interface {
	// Append writes the entries of one transaction. Callers verify the set
	// is balanced before appending.
	Append(ctx context.Context, entries []*entities.LedgerEntry) error

	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error)

	ListByWallet(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error)

	// WalletBalance derives the wallet balance in cents from the ledger:
	// sum of credits minus sum of debits. Used by the balance projector to
	// cross-check the stored wallet balance.
	WalletBalance(ctx context.Context, walletID uuid.UUID) (int64, error)
}

// ProcessedMarkerRepository records durable consumer-side dedup markers.
// Both methods insert-if-absent and report whether the marker was new:
// false means the work was already done and the consumer must skip it.
type ProcessedMarkerRepository interface {
	// MarkTransactionProcessed dedups balance projection per wallet and
	// transaction.
	MarkTransactionProcessed(ctx context.Context, walletID, transactionID uuid.UUID) (bool, error)

	// MarkEventProcessed dedups event handling per event type and business
	// identifier (subject, customer id, ...).
	MarkEventProcessed(ctx context.Context, eventType, businessID string) (bool, error)
}
