package customer

import (
	"context"
	"io"
	"log/slog"

	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/google/uuid"
)

// Shared function-field mocks for the customer use case tests.

type mockCustomerRepo struct {
	saveFunc           func(ctx context.Context, customer *entities.Customer) error
	findByUserIDFunc   func(ctx context.Context, userID string) (*entities.Customer, error)
	existsByUserIDFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *entities.Customer) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, customer)
	}
	if customer.ID() == 0 {
		customer.SetID(1)
	}
	return nil
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id int64) (*entities.Customer, error) {
	return nil, domainErrors.ErrCustomerNotFound
}

func (m *mockCustomerRepo) FindByUserID(ctx context.Context, userID string) (*entities.Customer, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return nil, domainErrors.ErrCustomerNotFound
}

func (m *mockCustomerRepo) ResolveCustomerID(ctx context.Context, userID string) (int64, error) {
	return 0, domainErrors.ErrCustomerNotFound
}

func (m *mockCustomerRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	if m.existsByUserIDFunc != nil {
		return m.existsByUserIDFunc(ctx, userID)
	}
	return false, nil
}

func (m *mockCustomerRepo) List(ctx context.Context, offset, limit int) ([]*entities.Customer, error) {
	return nil, nil
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
