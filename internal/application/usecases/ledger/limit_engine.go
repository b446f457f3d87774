// Package ledger contains the money-movement core: the deposit,
// withdrawal and transfer commands over the double-entry ledger, the
// limit engine admitting them, and the transaction history query.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
)

// LimitEngine admits commands against per-wallet daily and monthly
// windows. Usage is derived from COMPLETED transactions touching the
// wallet, never from a cached counter, so admission stays consistent
// with the durable log.
type LimitEngine struct {
	txRepo ports.TransactionRepository
	now    func() time.Time
}

// NewLimitEngine wires the engine. The clock is injectable for tests.
func NewLimitEngine(txRepo ports.TransactionRepository) *LimitEngine {
	return &LimitEngine{txRepo: txRepo, now: func() time.Time { return time.Now().UTC() }}
}

// Admit decides whether the wallet may move amount now. Windows are
// computed in UTC: the day window starts at midnight, the month window
// at the first of the month. A breach reports the failed window.
func (e *LimitEngine) Admit(ctx context.Context, wallet *entities.Wallet, amount valueobjects.Money) error {
	now := e.now()
	amountCents := amount.Cents()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dailyUsed, err := e.txRepo.SumCompletedUsage(ctx, wallet.ID(), dayStart)
	if err != nil {
		return fmt.Errorf("failed to sum daily usage: %w", err)
	}
	if dailyUsed+amountCents > wallet.DailyLimit().Cents() {
		return errors.NewLimitExceededError("DAILY", wallet.DailyLimit().Cents(), dailyUsed, amountCents)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlyUsed, err := e.txRepo.SumCompletedUsage(ctx, wallet.ID(), monthStart)
	if err != nil {
		return fmt.Errorf("failed to sum monthly usage: %w", err)
	}
	if monthlyUsed+amountCents > wallet.MonthlyLimit().Cents() {
		return errors.NewLimitExceededError("MONTHLY", wallet.MonthlyLimit().Cents(), monthlyUsed, amountCents)
	}

	return nil
}
