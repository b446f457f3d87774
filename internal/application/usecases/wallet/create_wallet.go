// Package wallet contains the wallet-lifecycle use cases: creation, the
// CUSTOMER_CREATED auto-provisioner, reads behind ownership checks, the
// cached balance query, status changes and the KYC_VERIFIED limit raise.
package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
)

// CreateWalletUseCase opens a wallet at the default limit tier.
//
// Flow:
// 1. Resolve customer id from the subject
// 2. Validate the currency against the supported set
// 3. Reject a second wallet for the same (customer, currency)
// 4. Save and record WALLET_CREATED, same transaction
type CreateWalletUseCase struct {
	customerRepo ports.CustomerRepository
	walletRepo   ports.WalletRepository
	publisher    ports.EventPublisher
	uow          ports.UnitOfWork
	logger       *slog.Logger
}

// NewCreateWalletUseCase wires the use case.
func NewCreateWalletUseCase(
	customerRepo ports.CustomerRepository,
	walletRepo ports.WalletRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *CreateWalletUseCase {
	return &CreateWalletUseCase{
		customerRepo: customerRepo,
		walletRepo:   walletRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Execute creates the wallet.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error) {
	var result *dtos.WalletDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		customerID, err := uc.customerRepo.ResolveCustomerID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}

		currency, err := valueobjects.NewCurrency(cmd.Currency)
		if err != nil {
			return errors.ValidationError{
				Field:   "currency",
				Message: fmt.Sprintf("unsupported currency: %v", err),
			}
		}

		exists, err := uc.walletRepo.ExistsByCustomerAndCurrency(txCtx, customerID, currency)
		if err != nil {
			return fmt.Errorf("failed to check wallet existence: %w", err)
		}
		if exists {
			return errors.NewBusinessRuleViolation(
				"WALLET_ALREADY_EXISTS",
				fmt.Sprintf("wallet for currency %s already exists", currency.Code()),
				map[string]interface{}{"customer_id": customerID, "currency": currency.Code()},
			)
		}

		wallet, err := entities.NewWallet(customerID, currency)
		if err != nil {
			return err
		}

		if err := uc.walletRepo.Save(txCtx, wallet); err != nil {
			return err
		}

		if err := uc.publisher.Publish(txCtx, events.NewWalletCreated(wallet, cmd.UserID)); err != nil {
			return fmt.Errorf("failed to publish WALLET_CREATED: %w", err)
		}

		dto := dtos.ToWalletDTO(wallet)
		result = &dto

		uc.logger.Info("wallet created", "wallet_id", wallet.ID(), "customer_id", customerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
