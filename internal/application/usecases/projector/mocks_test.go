package projector

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// Shared function-field mocks for the projector tests.

type mockWalletRepo struct {
	saved []*entities.Wallet

	saveFunc     func(ctx context.Context, wallet *entities.Wallet) error
	lockByIDFunc func(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
}

func (m *mockWalletRepo) Save(ctx context.Context, wallet *entities.Wallet) error {
	m.saved = append(m.saved, wallet)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, wallet)
	}
	return nil
}

func (m *mockWalletRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) LockByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	if m.lockByIDFunc != nil {
		return m.lockByIDFunc(ctx, id)
	}
	return nil, domainErrors.ErrEntityNotFound
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

type mockMarkerRepo struct {
	markTransactionFunc func(ctx context.Context, walletID, transactionID uuid.UUID) (bool, error)
}

func (m *mockMarkerRepo) MarkTransactionProcessed(ctx context.Context, walletID, transactionID uuid.UUID) (bool, error) {
	if m.markTransactionFunc != nil {
		return m.markTransactionFunc(ctx, walletID, transactionID)
	}
	return true, nil
}

func (m *mockMarkerRepo) MarkEventProcessed(ctx context.Context, eventType, businessID string) (bool, error) {
	return true, nil
}

type mockBalanceCache struct {
	setCalls []*ports.BalanceSnapshot
	setFunc  func(ctx context.Context, snapshot *ports.BalanceSnapshot, ttl time.Duration) error
}

func (m *mockBalanceCache) Get(ctx context.Context, walletID uuid.UUID) (*ports.BalanceSnapshot, error) {
	return nil, nil
}

func (m *mockBalanceCache) Set(ctx context.Context, snapshot *ports.BalanceSnapshot, ttl time.Duration) error {
	m.setCalls = append(m.setCalls, snapshot)
	if m.setFunc != nil {
		return m.setFunc(ctx, snapshot, ttl)
	}
	return nil
}

func (m *mockBalanceCache) Invalidate(ctx context.Context, walletID uuid.UUID) error {
	return nil
}

type mockUoW struct {
	retryCalls int
}

func (m *mockUoW) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (m *mockUoW) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}

func (m *mockUoW) ExecuteWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	m.retryCalls++
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
