package wallet

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

// Shared function-field mocks for the wallet use case tests.

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
	saveFunc                        func(ctx context.Context, wallet *entities.Wallet) error
	findByIDFunc                    func(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	lockByIDFunc                    func(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	findByCustomerFunc              func(ctx context.Context, customerID int64) ([]*entities.Wallet, error)
	existsByCustomerAndCurrencyFunc func(ctx context.Context, customerID int64, currency valueobjects.Currency) (bool, error)
}

func (m *mockWalletRepo) Save(ctx context.Context, wallet *entities.Wallet) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, wallet)
	}
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
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) FindByCustomer(ctx context.Context, customerID int64) ([]*entities.Wallet, error) {
	if m.findByCustomerFunc != nil {
		return m.findByCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockWalletRepo) FindByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (*entities.Wallet, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) ExistsByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (bool, error) {
	if m.existsByCustomerAndCurrencyFunc != nil {
		return m.existsByCustomerAndCurrencyFunc(ctx, customerID, currency)
	}
	return false, nil
}

func (m *mockWalletRepo) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, error) {
	return nil, nil
}

type mockBalanceCache struct {
	getFunc        func(ctx context.Context, walletID uuid.UUID) (*ports.BalanceSnapshot, error)
	setFunc        func(ctx context.Context, snapshot *ports.BalanceSnapshot, ttl time.Duration) error
	invalidateFunc func(ctx context.Context, walletID uuid.UUID) error
}

func (m *mockBalanceCache) Get(ctx context.Context, walletID uuid.UUID) (*ports.BalanceSnapshot, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, walletID)
	}
	return nil, nil
}

func (m *mockBalanceCache) Set(ctx context.Context, snapshot *ports.BalanceSnapshot, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, snapshot, ttl)
	}
	return nil
}

func (m *mockBalanceCache) Invalidate(ctx context.Context, walletID uuid.UUID) error {
	if m.invalidateFunc != nil {
		return m.invalidateFunc(ctx, walletID)
	}
	return nil
}

type mockMarkerRepo struct {
	markEventFunc func(ctx context.Context, eventType, businessID string) (bool, error)
}

func (m *mockMarkerRepo) MarkTransactionProcessed(ctx context.Context, walletID, transactionID uuid.UUID) (bool, error) {
	return true, nil
}

func (m *mockMarkerRepo) MarkEventProcessed(ctx context.Context, eventType, businessID string) (bool, error) {
	if m.markEventFunc != nil {
		return m.markEventFunc(ctx, eventType, businessID)
	}
	return true, nil
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
