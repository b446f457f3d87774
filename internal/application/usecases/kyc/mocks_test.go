package kyc

import (
	"context"
	"io"
	"log/slog"

	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/google/uuid"
)

// Shared function-field mocks for the KYC use case tests.

type mockCustomerRepo struct {
	findByIDFunc          func(ctx context.Context, id int64) (*entities.Customer, error)
	resolveCustomerIDFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *entities.Customer) error {
	return nil
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id int64) (*entities.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
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

type mockKYCRepo struct {
	saveFunc                 func(ctx context.Context, check *entities.KYCCheck) error
	findLatestByCustomerFunc func(ctx context.Context, customerID int64) (*entities.KYCCheck, error)
}

func (m *mockKYCRepo) Save(ctx context.Context, check *entities.KYCCheck) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, check)
	}
	return nil
}

func (m *mockKYCRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.KYCCheck, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockKYCRepo) FindByProviderReference(ctx context.Context, ref string) (*entities.KYCCheck, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockKYCRepo) FindLatestByCustomer(ctx context.Context, customerID int64) (*entities.KYCCheck, error) {
	if m.findLatestByCustomerFunc != nil {
		return m.findLatestByCustomerFunc(ctx, customerID)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockKYCRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entities.KYCCheck, error) {
	return nil, nil
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
