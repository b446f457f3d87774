// Package projector keeps the denormalized wallet balances in step with
// the ledger by consuming TRANSACTION_COMPLETED events.
package projector

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

const (
	snapshotTTL = 5 * time.Minute

	// conflictRetries re-runs a projection that lost a deadlock or
	// serialization race, e.g. both endpoints of one transfer projected
	// concurrently.
	conflictRetries = 2
)

// ProjectBalanceUseCase applies a completed transaction to the stored
// wallet balances. Each wallet endpoint is projected in its own storage
// transaction guarded by a durable (wallet, transaction) marker, so a
// redelivered event or a crash between endpoints never double-applies.
type ProjectBalanceUseCase struct {
	walletRepo ports.WalletRepository
	markers    ports.ProcessedMarkerRepository
	cache      ports.BalanceCache
	uow        ports.UnitOfWork
	logger     *slog.Logger
}

func NewProjectBalanceUseCase(
	walletRepo ports.WalletRepository,
	markers ports.ProcessedMarkerRepository,
	cache ports.BalanceCache,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *ProjectBalanceUseCase {
	return &ProjectBalanceUseCase{
		walletRepo: walletRepo,
		markers:    markers,
		cache:      cache,
		uow:        uow,
		logger:     logger,
	}
}

// Execute projects one transaction event. Events other than
// TRANSACTION_COMPLETED are acknowledged without work.
func (uc *ProjectBalanceUseCase) Execute(ctx context.Context, event *events.TransactionEvent) error {
	if event.Type != events.EventTypeTransactionCompleted {
		return nil
	}

	amount, err := parseAmount(event.Amount, event.Currency)
	if err != nil {
		// Malformed payloads cannot succeed on redelivery.
		uc.logger.Error("dropping malformed transaction event",
			"transaction_id", event.TransactionID, "error", err)
		return nil
	}

	if event.FromWalletID != nil {
		if err := uc.project(ctx, *event.FromWalletID, event.TransactionID, amount, (*entities.Wallet).ApplyDebit); err != nil {
			return err
		}
	}
	if event.ToWalletID != nil {
		if err := uc.project(ctx, *event.ToWalletID, event.TransactionID, amount, (*entities.Wallet).ApplyCredit); err != nil {
			return err
		}
	}
	return nil
}

// project applies one side of the transaction to one wallet.
func (uc *ProjectBalanceUseCase) project(
	ctx context.Context,
	walletID, transactionID uuid.UUID,
	amount valueobjects.Money,
	apply func(*entities.Wallet, valueobjects.Money) error,
) error {
	var snapshot *ports.BalanceSnapshot

	err := uc.uow.ExecuteWithRetry(ctx, conflictRetries, func(txCtx context.Context) error {
		fresh, err := uc.markers.MarkTransactionProcessed(txCtx, walletID, transactionID)
		if err != nil {
			return err
		}
		if !fresh {
			uc.logger.Debug("projection already applied",
				"wallet_id", walletID, "transaction_id", transactionID)
			return nil
		}

		wallet, err := uc.walletRepo.LockByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if err := apply(wallet, amount); err != nil {
			return err
		}
		if err := uc.walletRepo.Save(txCtx, wallet); err != nil {
			return err
		}

		snapshot = &ports.BalanceSnapshot{
			WalletID:     walletID,
			BalanceCents: wallet.Balance().Cents(),
			Currency:     wallet.Currency().Code(),
			AsOf:         time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		// A wallet the ledger knows but storage does not, or a balance the
		// event would drive negative, signals corruption upstream; dropping
		// keeps the consumer moving while the log preserves the evidence.
		if errors.IsNotFound(err) || stderrors.Is(err, errors.ErrInsufficientBalance) || errors.IsBusinessRuleViolation(err) {
			uc.logger.Error("dropping unprojectable transaction event",
				"wallet_id", walletID, "transaction_id", transactionID, "error", err)
			return nil
		}
		return err
	}

	// Write-through after commit; cache failures only degrade reads.
	if snapshot != nil {
		if err := uc.cache.Set(ctx, snapshot, snapshotTTL); err != nil {
			uc.logger.Warn("balance cache write failed", "wallet_id", walletID, "error", err)
		}
	}
	return nil
}

func parseAmount(amount, currency string) (valueobjects.Money, error) {
	cur, err := valueobjects.NewCurrency(currency)
	if err != nil {
		return valueobjects.Money{}, err
	}
	return valueobjects.NewMoney(amount, cur)
}
