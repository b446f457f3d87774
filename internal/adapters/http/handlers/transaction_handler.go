package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
	"github.com/finbridge/walletcore/internal/application/dtos"
)

type LedgerCommandUseCase interface {
	Deposit(ctx context.Context, cmd dtos.DepositCommand) (*dtos.TransactionDTO, error)
	Withdraw(ctx context.Context, cmd dtos.WithdrawalCommand) (*dtos.TransactionDTO, error)
	Transfer(ctx context.Context, cmd dtos.TransferCommand) (*dtos.TransactionDTO, error)
}

type TransactionHistoryUseCase interface {
	Execute(ctx context.Context, query dtos.TransactionHistoryQuery) (*dtos.TransactionHistoryDTO, error)
}

// TransactionHandler serves the money movement commands and the
// per-wallet history query.
type TransactionHandler struct {
	commands LedgerCommandUseCase
	history  TransactionHistoryUseCase
}

func NewTransactionHandler(commands LedgerCommandUseCase, history TransactionHistoryUseCase) *TransactionHandler {
	return &TransactionHandler{
		commands: commands,
		history:  history,
	}
}

// Deposit credits a wallet from the cash account.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	var cmd dtos.DepositCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.commands.Deposit(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Withdraw debits a wallet to the cash account.
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	var cmd dtos.WithdrawalCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.commands.Withdraw(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Transfer moves money between two wallets.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var cmd dtos.TransferCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.commands.Transfer(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// History lists a wallet's transactions with filtering, sorting and
// pagination.
func (h *TransactionHandler) History(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	var query dtos.TransactionHistoryQuery
	if !BindQuery(c, &query) {
		return
	}
	query.UserID = middleware.GetAuthSubject(c)
	query.WalletID = id

	result, err := h.history.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes mounts the ledger commands and the history query.
func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	ledger := router.Group("/ledger")
	{
		ledger.POST("/deposit", h.Deposit)
		ledger.POST("/withdrawal", h.Withdraw)
		ledger.POST("/transfer", h.Transfer)
	}
	router.GET("/wallets/:id/transactions", h.History)
}
