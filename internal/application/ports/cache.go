package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BalanceSnapshot is a cached read-model of a wallet balance.
type BalanceSnapshot struct {
	WalletID     uuid.UUID `json:"walletId"`
	BalanceCents int64     `json:"balanceCents"`
	Currency     string    `json:"currency"`
	AsOf         time.Time `json:"asOf"`
}

// BalanceCache serves wallet balances from a fast store. The database
// remains the source of truth: a cache miss or error falls through to the
// wallet repository, and writers invalidate after every balance change.
type BalanceCache interface {
	// Get returns the cached snapshot, or (nil, nil) on a miss.
	Get(ctx context.Context, walletID uuid.UUID) (*BalanceSnapshot, error)

	Set(ctx context.Context, snapshot *BalanceSnapshot, ttl time.Duration) error

	Invalidate(ctx context.Context, walletID uuid.UUID) error
}
