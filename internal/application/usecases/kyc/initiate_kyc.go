// Package kyc contains the identity-verification use cases: initiation,
// the provider webhook, and the status query.
package kyc

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

// InitiateKYCUseCase starts a verification for the caller's customer.
//
// Flow:
// 1. Resolve customer id from the subject
// 2. Reject if a check is already IN_PROGRESS
// 3. Create the check with a fresh provider reference
// 4. Record KYC_INITIATED in the outbox, same transaction
type InitiateKYCUseCase struct {
	customerRepo ports.CustomerRepository
	kycRepo      ports.KYCRepository
	publisher    ports.EventPublisher
	uow          ports.UnitOfWork
	logger       *slog.Logger
}

// NewInitiateKYCUseCase wires the use case.
func NewInitiateKYCUseCase(
	customerRepo ports.CustomerRepository,
	kycRepo ports.KYCRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *InitiateKYCUseCase {
	return &InitiateKYCUseCase{
		customerRepo: customerRepo,
		kycRepo:      kycRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Execute starts the verification.
func (uc *InitiateKYCUseCase) Execute(ctx context.Context, cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error) {
	var result *dtos.KYCStatusDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		customerID, err := uc.customerRepo.ResolveCustomerID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}

		latest, err := uc.kycRepo.FindLatestByCustomer(txCtx, customerID)
		if err != nil && !errors.IsNotFound(err) {
			return fmt.Errorf("failed to load latest KYC check: %w", err)
		}
		if latest != nil && latest.Status() == entities.KYCStatusInProgress {
			return errors.NewBusinessRuleViolation(
				"KYC_IN_PROGRESS",
				"a verification is already in progress",
				map[string]interface{}{"customer_id": customerID},
			)
		}

		check, err := entities.NewKYCCheck(customerID, cmd.Documents)
		if err != nil {
			return err
		}

		if err := uc.kycRepo.Save(txCtx, check); err != nil {
			return err
		}

		if err := uc.publisher.Publish(txCtx, events.NewKYCInitiated(check, cmd.UserID)); err != nil {
			return fmt.Errorf("failed to publish KYC_INITIATED: %w", err)
		}

		dto := dtos.ToKYCStatusDTO(check)
		result = &dto

		uc.logger.Info("kyc initiated", "customer_id", customerID, "reference", check.ProviderReference())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
