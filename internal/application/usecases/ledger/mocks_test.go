package ledger

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// Shared function-field mocks for the ledger use case tests.

type mockCustomerRepo struct {
	resolveCustomerIDFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *entities.Customer) error {
	return nil
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id int64) (*entities.Customer, error) {
	return nil, domainErrors.ErrCustomerNotFound
}

func (m *mockCustomerRepo) FindByUserID(ctx context.Context, userID string) (*entities.Customer, error) {
	return nil, domainErrors.ErrCustomerNotFound
}

func (m *mockCustomerRepo) ResolveCustomerID(ctx context.Context, userID string) (int64, error) {
	if m.resolveCustomerIDFunc != nil {
		return m.resolveCustomerIDFunc(ctx, userID)
	}
	return 1, nil
}

func (m *mockCustomerRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	return false, nil
}

func (m *mockCustomerRepo) List(ctx context.Context, offset, limit int) ([]*entities.Customer, error) {
	return nil, nil
}

type mockWalletRepo struct {
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	lockByIDFunc func(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
}

func (m *mockWalletRepo) Save(ctx context.Context, wallet *entities.Wallet) error {
	return nil
}

func (m *mockWalletRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) LockByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	if m.lockByIDFunc != nil {
		return m.lockByIDFunc(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *mockWalletRepo) FindByCustomer(ctx context.Context, customerID int64) ([]*entities.Wallet, error) {
	return nil, nil
}

func (m *mockWalletRepo) FindByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (*entities.Wallet, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) ExistsByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (bool, error) {
	return false, nil
}

func (m *mockWalletRepo) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, error) {
	return nil, nil
}

type mockTransactionRepo struct {
	saved []*entities.Transaction

	saveFunc                 func(ctx context.Context, tx *entities.Transaction) error
	findByIdempotencyKeyFunc func(ctx context.Context, key string) (*entities.Transaction, error)
	sumCompletedUsageFunc    func(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error)
	listFunc                 func(ctx context.Context, filter ports.TransactionFilter, sort ports.TransactionSort, offset, limit int) ([]*entities.Transaction, error)
	countFunc                func(ctx context.Context, filter ports.TransactionFilter) (int64, error)
}

func (m *mockTransactionRepo) Save(ctx context.Context, tx *entities.Transaction) error {
	m.saved = append(m.saved, tx)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockTransactionRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	if m.findByIdempotencyKeyFunc != nil {
		return m.findByIdempotencyKeyFunc(ctx, key)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockTransactionRepo) SumCompletedUsage(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error) {
	if m.sumCompletedUsageFunc != nil {
		return m.sumCompletedUsageFunc(ctx, walletID, since)
	}
	return 0, nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter ports.TransactionFilter, sort ports.TransactionSort, offset, limit int) ([]*entities.Transaction, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, sort, offset, limit)
	}
	return nil, nil
}

func (m *mockTransactionRepo) Count(ctx context.Context, filter ports.TransactionFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

type mockLedgerRepo struct {
	appended []*entities.LedgerEntry

	appendFunc        func(ctx context.Context, entries []*entities.LedgerEntry) error
	walletBalanceFunc func(ctx context.Context, walletID uuid.UUID) (int64, error)
}

func (m *mockLedgerRepo) Append(ctx context.Context, entries []*entities.LedgerEntry) error {
	m.appended = append(m.appended, entries...)
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entries)
	}
	return nil
}

func (m *mockLedgerRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error) {
	return nil, nil
}

func (m *mockLedgerRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error) {
	return nil, nil
}

func (m *mockLedgerRepo) WalletBalance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	if m.walletBalanceFunc != nil {
		return m.walletBalanceFunc(ctx, walletID)
	}
	return 0, nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, event events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, event)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, event)
	}
	return nil
}

func (m *mockEventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, batch...)
	return nil
}

type mockUoW struct{}

func (m *mockUoW) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (m *mockUoW) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}

func (m *mockUoW) ExecuteWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
