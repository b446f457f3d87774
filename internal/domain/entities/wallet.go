// Package entities - Wallet is the core entity for customer balances.
// The balance field is a projection of the ledger; the projector is the only
// writer of it outside of reconstruction.
package entities

import (
	"time"

	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// WalletStatus represents the operational status of a wallet.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"    // Normal operations allowed
	WalletStatusSuspended WalletStatus = "SUSPENDED" // Temporarily disabled
	WalletStatusClosed    WalletStatus = "CLOSED"    // Permanently closed (terminal)
)

// IsValid checks if the wallet status is valid.
func (s WalletStatus) IsValid() bool {
	switch s {
	case WalletStatusActive, WalletStatusSuspended, WalletStatusClosed:
		return true
	default:
		return false
	}
}

// Limit tiers in whole currency units. Wallets start on the default tier when
// created explicitly, on the low tier when auto-provisioned before KYC, and
// move to the verified tier once KYC passes.
const (
	DefaultDailyLimitUnits    int64 = 100000
	DefaultMonthlyLimitUnits  int64 = 1000000
	LowDailyLimitUnits        int64 = 5000
	LowMonthlyLimitUnits      int64 = 20000
	VerifiedDailyLimitUnits   int64 = 50000
	VerifiedMonthlyLimitUnits int64 = 200000
)

// Wallet represents a customer's wallet for a specific currency.
// A customer can have multiple wallets, at most one per currency.
//
// Entity Pattern:
// - Has identity (ID)
// - Enforces invariants (non-negative balance, status rules)
// - Rich behavior (not just data)
type Wallet struct {
	id         uuid.UUID
	customerID int64
	currency   valueobjects.Currency
	status     WalletStatus

	// balance is the materialized projection of this wallet's ledger entries.
	// version backs optimistic locking on the row.
	balance valueobjects.Money
	version int64

	// Transaction limits consulted by the admission control
	dailyLimit   valueobjects.Money
	monthlyLimit valueobjects.Money

	createdAt time.Time
	updatedAt time.Time
}

// NewWallet creates a wallet via the explicit create operation.
// Starts ACTIVE with zero balance and default-tier limits.
func NewWallet(customerID int64, currency valueobjects.Currency) (*Wallet, error) {
	return newWallet(customerID, currency, DefaultDailyLimitUnits, DefaultMonthlyLimitUnits)
}

// NewProvisionedWallet creates a wallet from the customer-created event.
// Auto-provisioned wallets start on the low, KYC-pending limit tier.
func NewProvisionedWallet(customerID int64, currency valueobjects.Currency) (*Wallet, error) {
	return newWallet(customerID, currency, LowDailyLimitUnits, LowMonthlyLimitUnits)
}

func newWallet(customerID int64, currency valueobjects.Currency, dailyUnits, monthlyUnits int64) (*Wallet, error) {
	if customerID <= 0 {
		return nil, errors.ValidationError{
			Field:   "customerId",
			Message: "customer id is required",
		}
	}
	if currency.IsZero() {
		return nil, errors.ValidationError{
			Field:   "currency",
			Message: "currency is required",
		}
	}

	dailyLimit, _ := valueobjects.NewMoneyFromInt(dailyUnits, currency)
	monthlyLimit, _ := valueobjects.NewMoneyFromInt(monthlyUnits, currency)

	now := time.Now().UTC()
	return &Wallet{
		id:           uuid.New(),
		customerID:   customerID,
		currency:     currency,
		status:       WalletStatusActive,
		balance:      valueobjects.Zero(currency),
		version:      0,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructWallet reconstructs a Wallet from stored data.
// Used by the repository to hydrate entities from the database.
func ReconstructWallet(
	id uuid.UUID,
	customerID int64,
	currency valueobjects.Currency,
	status WalletStatus,
	balance valueobjects.Money,
	version int64,
	dailyLimit, monthlyLimit valueobjects.Money,
	createdAt, updatedAt time.Time,
) *Wallet {
	return &Wallet{
		id:           id,
		customerID:   customerID,
		currency:     currency,
		status:       status,
		balance:      balance,
		version:      version,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Getters

func (w *Wallet) ID() uuid.UUID {
	return w.id
}

func (w *Wallet) CustomerID() int64 {
	return w.customerID
}

func (w *Wallet) Currency() valueobjects.Currency {
	return w.currency
}

func (w *Wallet) Status() WalletStatus {
	return w.status
}

func (w *Wallet) Balance() valueobjects.Money {
	return w.balance
}

func (w *Wallet) Version() int64 {
	return w.version
}

func (w *Wallet) DailyLimit() valueobjects.Money {
	return w.dailyLimit
}

func (w *Wallet) MonthlyLimit() valueobjects.Money {
	return w.monthlyLimit
}

func (w *Wallet) CreatedAt() time.Time {
	return w.createdAt
}

func (w *Wallet) UpdatedAt() time.Time {
	return w.updatedAt
}

// Business Methods

// IsActive returns true if the wallet can source or sink money.
func (w *Wallet) IsActive() bool {
	return w.status == WalletStatusActive
}

// IsOwnedBy checks wallet ownership against a resolved customer id.
func (w *Wallet) IsOwnedBy(customerID int64) bool {
	return w.customerID == customerID
}

// ApplyCredit increases the projected balance.
// Called by the balance projector when a completed transaction credits this
// wallet. Increments the version for optimistic locking.
func (w *Wallet) ApplyCredit(amount valueobjects.Money) error {
	if !w.currency.Equals(amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"CURRENCY_MISMATCH",
			"amount currency doesn't match wallet currency",
			map[string]interface{}{
				"walletCurrency": w.currency.Code(),
				"amountCurrency": amount.Currency().Code(),
			},
		)
	}

	newBalance, err := w.balance.Add(amount)
	if err != nil {
		return err
	}

	w.balance = newBalance
	w.version++
	w.updatedAt = time.Now().UTC()
	return nil
}

// ApplyDebit decreases the projected balance.
// A debit that would take the balance negative means the ledger admitted a
// transaction it should not have; the caller treats it as a data-integrity
// error rather than retrying.
func (w *Wallet) ApplyDebit(amount valueobjects.Money) error {
	if !w.currency.Equals(amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"CURRENCY_MISMATCH",
			"amount currency doesn't match wallet currency",
			map[string]interface{}{
				"walletCurrency": w.currency.Code(),
				"amountCurrency": amount.Currency().Code(),
			},
		)
	}

	sufficient, err := w.balance.GreaterThanOrEqual(amount)
	if err != nil {
		return err
	}
	if !sufficient {
		return errors.ErrInsufficientBalance
	}

	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		return err
	}

	w.balance = newBalance
	w.version++
	w.updatedAt = time.Now().UTC()
	return nil
}

// Status Management

// Suspend temporarily disables the wallet.
func (w *Wallet) Suspend() error {
	if w.status == WalletStatusClosed {
		return errors.NewBusinessRuleViolation(
			"CANNOT_SUSPEND_CLOSED_WALLET",
			"cannot suspend a closed wallet",
			nil,
		)
	}

	w.status = WalletStatusSuspended
	w.version++
	w.updatedAt = time.Now().UTC()
	return nil
}

// Activate activates a suspended wallet.
func (w *Wallet) Activate() error {
	if w.status == WalletStatusClosed {
		return errors.NewBusinessRuleViolation(
			"CANNOT_ACTIVATE_CLOSED_WALLET",
			"cannot activate a closed wallet",
			nil,
		)
	}

	w.status = WalletStatusActive
	w.version++
	w.updatedAt = time.Now().UTC()
	return nil
}

// Close permanently closes the wallet.
// Business rule: can only close with a zero balance.
func (w *Wallet) Close() error {
	if !w.balance.IsZero() {
		return errors.NewBusinessRuleViolation(
			"CANNOT_CLOSE_NON_ZERO_WALLET",
			"cannot close wallet with non-zero balance",
			map[string]interface{}{
				"balance": w.balance.String(),
			},
		)
	}

	w.status = WalletStatusClosed
	w.version++
	w.updatedAt = time.Now().UTC()
	return nil
}

// RaiseLimits moves the wallet to the verified limit tier.
// Called by the KYC listener on verification. Idempotent at the caller via
// the processed-events table.
func (w *Wallet) RaiseLimits() {
	w.dailyLimit, _ = valueobjects.NewMoneyFromInt(VerifiedDailyLimitUnits, w.currency)
	w.monthlyLimit, _ = valueobjects.NewMoneyFromInt(VerifiedMonthlyLimitUnits, w.currency)
	w.version++
	w.updatedAt = time.Now().UTC()
}

// UpdateLimits sets the daily and monthly transaction limits explicitly.
func (w *Wallet) UpdateLimits(dailyLimit, monthlyLimit valueobjects.Money) error {
	if !w.currency.Equals(dailyLimit.Currency()) || !w.currency.Equals(monthlyLimit.Currency()) {
		return errors.NewBusinessRuleViolation(
			"LIMIT_CURRENCY_MISMATCH",
			"limit currency must match wallet currency",
			nil,
		)
	}

	w.dailyLimit = dailyLimit
	w.monthlyLimit = monthlyLimit
	w.version++
	w.updatedAt = time.Now().UTC()
	return nil
}
