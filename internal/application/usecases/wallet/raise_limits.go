package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// RaiseLimitsUseCase is the KYC_VERIFIED consumer: it moves every wallet
// of the verified customer to the verified limit tier. Dedup is keyed on
// the KYC check id, so re-verification through a new check raises again
// while redeliveries of the same event do not.
type RaiseLimitsUseCase struct {
	walletRepo ports.WalletRepository
	markers    ports.ProcessedMarkerRepository
	uow        ports.UnitOfWork
	logger     *slog.Logger
}

// NewRaiseLimitsUseCase wires the use case.
func NewRaiseLimitsUseCase(
	walletRepo ports.WalletRepository,
	markers ports.ProcessedMarkerRepository,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *RaiseLimitsUseCase {
	return &RaiseLimitsUseCase{
		walletRepo: walletRepo,
		markers:    markers,
		uow:        uow,
		logger:     logger,
	}
}

// Execute handles one KYC_VERIFIED delivery.
func (uc *RaiseLimitsUseCase) Execute(ctx context.Context, event *events.KYCEvent) error {
	return uc.uow.Execute(ctx, func(txCtx context.Context) error {
		fresh, err := uc.markers.MarkEventProcessed(txCtx, event.Type, event.KYCCheckID.String())
		if err != nil {
			return fmt.Errorf("failed to record event marker: %w", err)
		}
		if !fresh {
			uc.logger.Debug("duplicate KYC_VERIFIED skipped", "kyc_check_id", event.KYCCheckID)
			return nil
		}

		wallets, err := uc.walletRepo.FindByCustomer(txCtx, event.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to load customer wallets: %w", err)
		}
		if len(wallets) == 0 {
			// The wallet provisioner consumes a different topic, so this
			// event can outrun it. Fail the delivery: the rollback
			// discards the marker and a redelivery applies the raise
			// once the wallet exists.
			uc.logger.Warn("no wallets to raise yet", "customer_id", event.CustomerID)
			return fmt.Errorf("customer %d has no wallets yet", event.CustomerID)
		}

		for _, wallet := range wallets {
			wallet.RaiseLimits()
			if err := uc.walletRepo.Save(txCtx, wallet); err != nil {
				return err
			}
		}

		uc.logger.Info("limits raised", "customer_id", event.CustomerID, "wallets", len(wallets))
		return nil
	})
}
