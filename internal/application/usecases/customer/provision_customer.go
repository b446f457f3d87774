package customer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// ProvisionCustomerUseCase is the USER_REGISTERED consumer: it creates a
// minimal profile with names derived from the username. Delivery is
// at-least-once, so the handler dedups durably on (event type, subject)
// and additionally tolerates an existing profile.
type ProvisionCustomerUseCase struct {
	customerRepo ports.CustomerRepository
	markers      ports.ProcessedMarkerRepository
	publisher    ports.EventPublisher
	uow          ports.UnitOfWork
	logger       *slog.Logger
}

// NewProvisionCustomerUseCase wires the use case.
func NewProvisionCustomerUseCase(
	customerRepo ports.CustomerRepository,
	markers ports.ProcessedMarkerRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *ProvisionCustomerUseCase {
	return &ProvisionCustomerUseCase{
		customerRepo: customerRepo,
		markers:      markers,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Execute handles one USER_REGISTERED delivery.
func (uc *ProvisionCustomerUseCase) Execute(ctx context.Context, event *events.UserEvent) error {
	return uc.uow.Execute(ctx, func(txCtx context.Context) error {
		fresh, err := uc.markers.MarkEventProcessed(txCtx, event.Type, event.UserID)
		if err != nil {
			return fmt.Errorf("failed to record event marker: %w", err)
		}
		if !fresh {
			uc.logger.Debug("duplicate USER_REGISTERED skipped", "subject", event.UserID)
			return nil
		}

		exists, err := uc.customerRepo.ExistsByUserID(txCtx, event.UserID)
		if err != nil {
			return fmt.Errorf("failed to check profile existence: %w", err)
		}
		if exists {
			uc.logger.Debug("profile already present, skipping provision", "subject", event.UserID)
			return nil
		}

		customer, err := entities.NewCustomerFromRegistration(event.UserID, event.Username, event.Email)
		if err != nil {
			// Malformed registration data is not retryable; log and drop.
			uc.logger.Error("cannot provision customer", "subject", event.UserID, "error", err)
			return nil
		}

		if err := uc.customerRepo.Save(txCtx, customer); err != nil {
			return err
		}

		if err := uc.publisher.Publish(txCtx, events.NewCustomerCreated(customer)); err != nil {
			return fmt.Errorf("failed to publish CUSTOMER_CREATED: %w", err)
		}

		uc.logger.Info("customer auto-provisioned", "customer_id", customer.ID(), "subject", event.UserID)
		return nil
	})
}
