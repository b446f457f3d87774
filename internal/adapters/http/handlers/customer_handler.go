package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
	"github.com/finbridge/walletcore/internal/application/dtos"
)

type CreateCustomerUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateCustomerCommand) (*dtos.CustomerDTO, error)
}

type GetCustomerUseCase interface {
	Execute(ctx context.Context, userID string) (*dtos.CustomerDTO, error)
}

type UpdateCustomerUseCase interface {
	Execute(ctx context.Context, cmd dtos.UpdateCustomerCommand) (*dtos.CustomerDTO, error)
}

// CustomerHandler serves the profile endpoints. The profile always
// belongs to the authenticated subject; there is no way to address
// another customer's profile from here.
type CustomerHandler struct {
	createCustomer CreateCustomerUseCase
	getCustomer    GetCustomerUseCase
	updateCustomer UpdateCustomerUseCase
}

func NewCustomerHandler(create CreateCustomerUseCase, get GetCustomerUseCase, update UpdateCustomerUseCase) *CustomerHandler {
	return &CustomerHandler{
		createCustomer: create,
		getCustomer:    get,
		updateCustomer: update,
	}
}

// CreateCustomer creates the caller's profile.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var cmd dtos.CreateCustomerCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.UserID = middleware.GetAuthSubject(c)

	result, err := h.createCustomer.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// GetMe returns the caller's profile.
func (h *CustomerHandler) GetMe(c *gin.Context) {
	result, err := h.getCustomer.Execute(c.Request.Context(), middleware.GetAuthSubject(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// UpdateMe partially updates the caller's profile.
func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	var cmd dtos.UpdateCustomerCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.UserID = middleware.GetAuthSubject(c)

	result, err := h.updateCustomer.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes mounts the customer endpoints.
func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("/me", h.GetMe)
		customers.PUT("/me", h.UpdateMe)
	}
}
