package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
	"github.com/finbridge/walletcore/internal/application/dtos"
)

// Use case interfaces are declared handler-side so tests can swap in
// function-field fakes without touching the use case packages.

type RegisterUseCase interface {
	Execute(ctx context.Context, cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error)
}

type LoginUseCase interface {
	Execute(ctx context.Context, cmd dtos.LoginCommand) (*dtos.TokenDTO, error)
}

type RefreshUseCase interface {
	Execute(ctx context.Context, cmd dtos.RefreshCommand) (*dtos.RefreshResultDTO, error)
}

type LogoutUseCase interface {
	Execute(ctx context.Context, subject string, cmd dtos.LogoutCommand) (*dtos.MessageDTO, error)
}

// AuthHandler fronts the identity provider endpoints.
type AuthHandler struct {
	register RegisterUseCase
	login    LoginUseCase
	refresh  RefreshUseCase
	logout   LogoutUseCase
}

func NewAuthHandler(register RegisterUseCase, login LoginUseCase, refresh RefreshUseCase, logout LogoutUseCase) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		refresh:  refresh,
		logout:   logout,
	}
}

// Register creates a user with the identity provider.
func (h *AuthHandler) Register(c *gin.Context) {
	var cmd dtos.RegisterCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.register.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var cmd dtos.LoginCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.login.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var cmd dtos.RefreshCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.refresh.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Logout revokes the refresh token. Best effort: the endpoint answers
// 200 even when the provider rejects the revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	var cmd dtos.LogoutCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.logout.Execute(c.Request.Context(), middleware.GetAuthSubject(c), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes mounts the auth endpoints.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}
