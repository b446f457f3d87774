package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
)

// ProvisionWalletUseCase is the CUSTOMER_CREATED consumer: every new
// customer gets a wallet in the supported currency at the low
// (pre-verification) limit tier. Durable dedup plus an existence check
// keep at-least-once delivery idempotent.
type ProvisionWalletUseCase struct {
	walletRepo ports.WalletRepository
	markers    ports.ProcessedMarkerRepository
	publisher  ports.EventPublisher
	uow        ports.UnitOfWork
	currency   valueobjects.Currency
	logger     *slog.Logger
}

// NewProvisionWalletUseCase wires the use case.
func NewProvisionWalletUseCase(
	walletRepo ports.WalletRepository,
	markers ports.ProcessedMarkerRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	currency valueobjects.Currency,
	logger *slog.Logger,
) *ProvisionWalletUseCase {
	return &ProvisionWalletUseCase{
		walletRepo: walletRepo,
		markers:    markers,
		publisher:  publisher,
		uow:        uow,
		currency:   currency,
		logger:     logger,
	}
}

// Execute handles one CUSTOMER_CREATED delivery.
func (uc *ProvisionWalletUseCase) Execute(ctx context.Context, event *events.CustomerCreated) error {
	return uc.uow.Execute(ctx, func(txCtx context.Context) error {
		fresh, err := uc.markers.MarkEventProcessed(txCtx, event.Type, event.PartitionKey())
		if err != nil {
			return fmt.Errorf("failed to record event marker: %w", err)
		}
		if !fresh {
			uc.logger.Debug("duplicate CUSTOMER_CREATED skipped", "customer_id", event.CustomerID)
			return nil
		}

		exists, err := uc.walletRepo.ExistsByCustomerAndCurrency(txCtx, event.CustomerID, uc.currency)
		if err != nil {
			return fmt.Errorf("failed to check wallet existence: %w", err)
		}
		if exists {
			uc.logger.Debug("wallet already present, skipping provision", "customer_id", event.CustomerID)
			return nil
		}

		wallet, err := entities.NewProvisionedWallet(event.CustomerID, uc.currency)
		if err != nil {
			uc.logger.Error("cannot provision wallet", "customer_id", event.CustomerID, "error", err)
			return nil
		}

		if err := uc.walletRepo.Save(txCtx, wallet); err != nil {
			return err
		}

		if err := uc.publisher.Publish(txCtx, events.NewWalletCreated(wallet, event.UserID)); err != nil {
			return fmt.Errorf("failed to publish WALLET_CREATED: %w", err)
		}

		uc.logger.Info("wallet auto-provisioned", "wallet_id", wallet.ID(), "customer_id", event.CustomerID)
		return nil
	})
}
