// Package customer contains the customer-profile use cases: explicit
// creation, the auto-provisioner driven by USER_REGISTERED, and the
// get/update operations behind /customers/me.
package customer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// CreateCustomerUseCase creates a profile for an authenticated subject.
//
// Flow:
// 1. Reject if the subject already has a profile
// 2. Build the Customer entity (email/phone uniqueness lands on the
//    database constraints)
// 3. Save; storage assigns the dense customer id
// 4. Record CUSTOMER_CREATED in the outbox, same transaction
type CreateCustomerUseCase struct {
	customerRepo ports.CustomerRepository
	publisher    ports.EventPublisher
	uow          ports.UnitOfWork
	logger       *slog.Logger
}

// NewCreateCustomerUseCase wires the use case.
func NewCreateCustomerUseCase(
	customerRepo ports.CustomerRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{
		customerRepo: customerRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Execute creates the profile.
func (uc *CreateCustomerUseCase) Execute(ctx context.Context, cmd dtos.CreateCustomerCommand) (*dtos.CustomerDTO, error) {
	var result *dtos.CustomerDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		exists, err := uc.customerRepo.ExistsByUserID(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to check profile existence: %w", err)
		}
		if exists {
			return errors.NewBusinessRuleViolation(
				"PROFILE_ALREADY_EXISTS",
				"customer profile already exists for this user",
				map[string]interface{}{"user_id": cmd.UserID},
			)
		}

		customer, err := entities.NewCustomer(cmd.UserID, cmd.FirstName, cmd.LastName, cmd.Email, cmd.Phone, cmd.Address)
		if err != nil {
			return err
		}

		if err := uc.customerRepo.Save(txCtx, customer); err != nil {
			return err
		}

		if err := uc.publisher.Publish(txCtx, events.NewCustomerCreated(customer)); err != nil {
			return fmt.Errorf("failed to publish CUSTOMER_CREATED: %w", err)
		}

		dto := dtos.ToCustomerDTO(customer)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("customer created", "customer_id", result.ID, "subject", cmd.UserID)
	return result, nil
}
