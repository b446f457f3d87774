package wallet

import (
	"context"
	"log/slog"
	"time"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// balanceTTL bounds staleness when an invalidation is lost.
const balanceTTL = 5 * time.Minute

// GetBalanceUseCase serves GET /wallets/{id}/balance read-through the
// cache. Cache failures degrade to the database silently; the ownership
// check always hits the database.
type GetBalanceUseCase struct {
	customerRepo ports.CustomerRepository
	walletRepo   ports.WalletRepository
	cache        ports.BalanceCache
	logger       *slog.Logger
}

// NewGetBalanceUseCase wires the use case.
func NewGetBalanceUseCase(
	customerRepo ports.CustomerRepository,
	walletRepo ports.WalletRepository,
	cache ports.BalanceCache,
	logger *slog.Logger,
) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		customerRepo: customerRepo,
		walletRepo:   walletRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Execute reads the balance.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, query dtos.GetWalletQuery) (*dtos.BalanceDTO, error) {
	walletID, err := uuid.Parse(query.WalletID)
	if err != nil {
		return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID format"}
	}

	customerID, err := uc.customerRepo.ResolveCustomerID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.FindByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsOwnedBy(customerID) {
		return nil, errors.ErrNotWalletOwner
	}

	if snapshot, err := uc.cache.Get(ctx, walletID); err != nil {
		uc.logger.Warn("balance cache read failed", "wallet_id", walletID, "error", err)
	} else if snapshot != nil {
		if cached, err := valueobjects.NewMoneyFromCents(snapshot.BalanceCents, wallet.Currency()); err == nil {
			return &dtos.BalanceDTO{
				Balance:     cached.Decimal(),
				Currency:    snapshot.Currency,
				LastUpdated: snapshot.AsOf,
			}, nil
		}
	}

	// Miss: answer from the wallet row and repopulate.
	snapshot := &ports.BalanceSnapshot{
		WalletID:     walletID,
		BalanceCents: wallet.Balance().Cents(),
		Currency:     wallet.Currency().Code(),
		AsOf:         wallet.UpdatedAt(),
	}
	if err := uc.cache.Set(ctx, snapshot, balanceTTL); err != nil {
		uc.logger.Warn("balance cache write failed", "wallet_id", walletID, "error", err)
	}

	return &dtos.BalanceDTO{
		Balance:     wallet.Balance().Decimal(),
		Currency:    wallet.Currency().Code(),
		LastUpdated: wallet.UpdatedAt(),
	}, nil
}
