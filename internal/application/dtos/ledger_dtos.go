package dtos

import "time"

// ============================================
// Commands
// ============================================

// DepositCommand credits a wallet from the cash account.
type DepositCommand struct {
	ToWalletID     string `json:"toWalletId" validate:"required,uuid"`
	Amount         string `json:"amount" validate:"required,money_amount"`
	Currency       string `json:"currency" validate:"required,currency_code"`
	IdempotencyKey string `json:"idempotencyKey" validate:"required,max=255"`
}

// WithdrawalCommand debits a wallet to the cash account.
type WithdrawalCommand struct {
	FromWalletID   string `json:"fromWalletId" validate:"required,uuid"`
	Amount         string `json:"amount" validate:"required,money_amount"`
	Currency       string `json:"currency" validate:"required,currency_code"`
	IdempotencyKey string `json:"idempotencyKey" validate:"required,max=255"`
}

// TransferCommand moves money between two wallets.
type TransferCommand struct {
	FromWalletID   string `json:"fromWalletId" validate:"required,uuid"`
	ToWalletID     string `json:"toWalletId" validate:"required,uuid"`
	Amount         string `json:"amount" validate:"required,money_amount"`
	Currency       string `json:"currency" validate:"required,currency_code"`
	IdempotencyKey string `json:"idempotencyKey" validate:"required,max=255"`
}

// ============================================
// Queries
// ============================================

// TransactionHistoryQuery lists a wallet's transactions with filtering,
// sorting and page/size pagination.
type TransactionHistoryQuery struct {
	UserID          string `json:"-"`
	WalletID        string `json:"-" validate:"required,uuid"`
	FromDate        string `form:"fromDate" validate:"omitempty"`
	ToDate          string `form:"toDate" validate:"omitempty"`
	Status          string `form:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED CANCELLED"`
	TransactionType string `form:"transactionType" validate:"omitempty,oneof=DEPOSIT WITHDRAWAL TRANSFER"`
	Page            int    `form:"page" validate:"min=0"`
	Size            int    `form:"size" validate:"min=0,max=100"`
	SortBy          string `form:"sortBy" validate:"omitempty,oneof=id initiatedAt completedAt amount status transactionType"`
	SortDirection   string `form:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// ============================================
// Response DTOs
// ============================================

// TransactionDTO is the transaction representation for the API.
type TransactionDTO struct {
	ID              string     `json:"id"`
	TransactionType string     `json:"transactionType"`
	Status          string     `json:"status"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	FromWalletID    *string    `json:"fromWalletId,omitempty"`
	ToWalletID      *string    `json:"toWalletId,omitempty"`
	IdempotencyKey  string     `json:"idempotencyKey"`
	FailureReason   string     `json:"failureReason,omitempty"`
	InitiatedAt     time.Time  `json:"initiatedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// PaginationDTO is the page metadata block of list responses.
type PaginationDTO struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// TransactionHistoryDTO is the history query response.
type TransactionHistoryDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	Pagination   PaginationDTO    `json:"pagination"`
}
