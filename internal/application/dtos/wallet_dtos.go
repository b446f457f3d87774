package dtos

import "time"

// ============================================
// Commands
// ============================================

// CreateWalletCommand opens a wallet for the authenticated customer.
type CreateWalletCommand struct {
	UserID   string `json:"-"`
	Currency string `json:"currency" validate:"required,currency_code"`
}

// WalletStatusCommand suspends or activates a wallet.
type WalletStatusCommand struct {
	UserID   string `json:"-"`
	WalletID string `json:"-" validate:"required,uuid"`
}

// ============================================
// Queries
// ============================================

// GetWalletQuery fetches one wallet with ownership enforcement.
type GetWalletQuery struct {
	UserID   string `json:"-"`
	WalletID string `json:"-" validate:"required,uuid"`
}

// ============================================
// Response DTOs
// ============================================

// WalletDTO is the wallet representation for the API. Monetary fields are
// decimal strings with two fractional digits.
type WalletDTO struct {
	ID           string    `json:"id"`
	CustomerID   int64     `json:"customerId"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	Balance      string    `json:"balance"`
	DailyLimit   string    `json:"dailyLimit"`
	MonthlyLimit string    `json:"monthlyLimit"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BalanceDTO answers the balance query, served read-through the cache.
type BalanceDTO struct {
	Balance     string    `json:"balance"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"lastUpdated"`
}
