package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
	"github.com/finbridge/walletcore/internal/application/dtos"
)

type CreateWalletUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error)
}

type GetWalletUseCase interface {
	Execute(ctx context.Context, query dtos.GetWalletQuery) (*dtos.WalletDTO, error)
}

type ListMyWalletsUseCase interface {
	Execute(ctx context.Context, userID string) ([]dtos.WalletDTO, error)
}

type GetBalanceUseCase interface {
	Execute(ctx context.Context, query dtos.GetWalletQuery) (*dtos.BalanceDTO, error)
}

type WalletStatusUseCase interface {
	Suspend(ctx context.Context, cmd dtos.WalletStatusCommand) (*dtos.WalletDTO, error)
	Activate(ctx context.Context, cmd dtos.WalletStatusCommand) (*dtos.WalletDTO, error)
}

// WalletHandler serves wallet CRUD and the balance read path. Every
// endpoint resolves ownership from the bearer token subject.
type WalletHandler struct {
	createWallet  CreateWalletUseCase
	getWallet     GetWalletUseCase
	listMyWallets ListMyWalletsUseCase
	getBalance    GetBalanceUseCase
	walletStatus  WalletStatusUseCase
}

func NewWalletHandler(
	createWallet CreateWalletUseCase,
	getWallet GetWalletUseCase,
	listMyWallets ListMyWalletsUseCase,
	getBalance GetBalanceUseCase,
	walletStatus WalletStatusUseCase,
) *WalletHandler {
	return &WalletHandler{
		createWallet:  createWallet,
		getWallet:     getWallet,
		listMyWallets: listMyWallets,
		getBalance:    getBalance,
		walletStatus:  walletStatus,
	}
}

// walletIDParam validates the :id path segment.
func walletIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "id", Message: "Invalid UUID format", Code: "uuid"},
		})
		return "", false
	}
	return id, true
}

// CreateWallet opens a wallet for the caller.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var cmd dtos.CreateWalletCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.UserID = middleware.GetAuthSubject(c)

	result, err := h.createWallet.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// GetWallet returns one wallet owned by the caller.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	query := dtos.GetWalletQuery{
		UserID:   middleware.GetAuthSubject(c),
		WalletID: id,
	}

	result, err := h.getWallet.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetMyWallets lists the caller's wallets.
func (h *WalletHandler) GetMyWallets(c *gin.Context) {
	result, err := h.listMyWallets.Execute(c.Request.Context(), middleware.GetAuthSubject(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetBalance returns the wallet balance, served read-through the cache.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	query := dtos.GetWalletQuery{
		UserID:   middleware.GetAuthSubject(c),
		WalletID: id,
	}

	result, err := h.getBalance.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Suspend freezes the wallet.
func (h *WalletHandler) Suspend(c *gin.Context) {
	h.transition(c, h.walletStatus.Suspend)
}

// Activate unfreezes the wallet.
func (h *WalletHandler) Activate(c *gin.Context) {
	h.transition(c, h.walletStatus.Activate)
}

func (h *WalletHandler) transition(c *gin.Context, apply func(context.Context, dtos.WalletStatusCommand) (*dtos.WalletDTO, error)) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	cmd := dtos.WalletStatusCommand{
		UserID:   middleware.GetAuthSubject(c),
		WalletID: id,
	}

	result, err := apply(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes mounts the wallet endpoints. The per-wallet
// transaction history is mounted by the transaction handler.
func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallets := router.Group("/wallets")
	{
		wallets.POST("", h.CreateWallet)
		wallets.GET("/me", h.GetMyWallets)
		wallets.GET("/:id", h.GetWallet)
		wallets.GET("/:id/balance", h.GetBalance)
		wallets.PUT("/:id/suspend", h.Suspend)
		wallets.PUT("/:id/activate", h.Activate)
	}
}
