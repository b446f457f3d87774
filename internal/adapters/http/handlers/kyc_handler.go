package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
	"github.com/finbridge/walletcore/internal/application/dtos"
)

type InitiateKYCUseCase interface {
	Execute(ctx context.Context, cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error)
}

type KYCStatusUseCase interface {
	Execute(ctx context.Context, userID string) (*dtos.KYCStatusDTO, error)
}

type KYCWebhookUseCase interface {
	Execute(ctx context.Context, cmd dtos.KYCWebhookCommand) (*dtos.KYCStatusDTO, error)
}

// KYCHandler serves identity verification. Initiate and status act on
// the caller; the webhook is the provider's unauthenticated callback.
type KYCHandler struct {
	initiate InitiateKYCUseCase
	status   KYCStatusUseCase
	webhook  KYCWebhookUseCase
}

func NewKYCHandler(initiate InitiateKYCUseCase, status KYCStatusUseCase, webhook KYCWebhookUseCase) *KYCHandler {
	return &KYCHandler{
		initiate: initiate,
		status:   status,
		webhook:  webhook,
	}
}

// Initiate starts a verification check for the caller.
func (h *KYCHandler) Initiate(c *gin.Context) {
	var cmd dtos.InitiateKYCCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.UserID = middleware.GetAuthSubject(c)

	result, err := h.initiate.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Status reports the caller's verification state. PENDING when no check
// exists yet.
func (h *KYCHandler) Status(c *gin.Context) {
	result, err := h.status.Execute(c.Request.Context(), middleware.GetAuthSubject(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Webhook receives the provider verdict.
func (h *KYCHandler) Webhook(c *gin.Context) {
	var cmd dtos.KYCWebhookCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.webhook.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes mounts the KYC endpoints under /customers.
func (h *KYCHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.POST("/me/kyc/initiate", h.Initiate)
		customers.GET("/me/kyc/status", h.Status)
		customers.POST("/kyc/webhook", h.Webhook)
	}
}
