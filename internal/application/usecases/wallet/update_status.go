package wallet

import (
	"context"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/google/uuid"
)

// UpdateWalletStatusUseCase serves the suspend and activate endpoints.
// Both transitions require ownership; a closed wallet rejects both.
type UpdateWalletStatusUseCase struct {
	customerRepo ports.CustomerRepository
	walletRepo   ports.WalletRepository
	cache        ports.BalanceCache
	uow          ports.UnitOfWork
	logger       *slog.Logger
}

// NewUpdateWalletStatusUseCase wires the use case.
func NewUpdateWalletStatusUseCase(
	customerRepo ports.CustomerRepository,
	walletRepo ports.WalletRepository,
	cache ports.BalanceCache,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *UpdateWalletStatusUseCase {
	return &UpdateWalletStatusUseCase{
		customerRepo: customerRepo,
		walletRepo:   walletRepo,
		cache:        cache,
		uow:          uow,
		logger:       logger,
	}
}

// Suspend freezes the wallet.
func (uc *UpdateWalletStatusUseCase) Suspend(ctx context.Context, cmd dtos.WalletStatusCommand) (*dtos.WalletDTO, error) {
	return uc.transition(ctx, cmd, func(w *entities.Wallet) error { return w.Suspend() })
}

// Activate unfreezes the wallet.
func (uc *UpdateWalletStatusUseCase) Activate(ctx context.Context, cmd dtos.WalletStatusCommand) (*dtos.WalletDTO, error) {
	return uc.transition(ctx, cmd, func(w *entities.Wallet) error { return w.Activate() })
}

func (uc *UpdateWalletStatusUseCase) transition(ctx context.Context, cmd dtos.WalletStatusCommand, apply func(*entities.Wallet) error) (*dtos.WalletDTO, error) {
	walletID, err := uuid.Parse(cmd.WalletID)
	if err != nil {
		return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID format"}
	}

	var result *dtos.WalletDTO

	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		customerID, err := uc.customerRepo.ResolveCustomerID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}

		wallet, err := uc.walletRepo.LockByID(txCtx, walletID)
		if err != nil {
			return err
		}
		if !wallet.IsOwnedBy(customerID) {
			return errors.ErrNotWalletOwner
		}

		if err := apply(wallet); err != nil {
			return err
		}

		if err := uc.walletRepo.Save(txCtx, wallet); err != nil {
			return err
		}

		dto := dtos.ToWalletDTO(wallet)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, walletID); err != nil {
		uc.logger.Warn("balance cache invalidation failed", "wallet_id", walletID, "error", err)
	}

	uc.logger.Info("wallet status changed", "wallet_id", walletID, "status", result.Status)
	return result, nil
}
