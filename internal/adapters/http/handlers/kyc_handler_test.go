package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/finbridge/walletcore/internal/application/dtos"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
)

type fakeInitiateKYC struct {
	executeFunc func(cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error)
}

func (f *fakeInitiateKYC) Execute(ctx context.Context, cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error) {
	return f.executeFunc(cmd)
}

type fakeKYCStatus struct {
	executeFunc func(userID string) (*dtos.KYCStatusDTO, error)
}

func (f *fakeKYCStatus) Execute(ctx context.Context, userID string) (*dtos.KYCStatusDTO, error) {
	return f.executeFunc(userID)
}

type fakeKYCWebhook struct {
	executeFunc func(cmd dtos.KYCWebhookCommand) (*dtos.KYCStatusDTO, error)
}

func (f *fakeKYCWebhook) Execute(ctx context.Context, cmd dtos.KYCWebhookCommand) (*dtos.KYCStatusDTO, error) {
	return f.executeFunc(cmd)
}

func kycRouter(h *KYCHandler) *gin.Engine {
	router := gin.New()
	router.Use(withSubject("subject-123"))
	h.RegisterRoutes(router.Group(""))
	return router
}

func TestKYCHandler_Initiate(t *testing.T) {
	var gotCmd dtos.InitiateKYCCommand
	handler := NewKYCHandler(&fakeInitiateKYC{
		executeFunc: func(cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error) {
			gotCmd = cmd
			return &dtos.KYCStatusDTO{Status: "IN_PROGRESS"}, nil
		},
	}, nil, nil)

	w := request(kycRouter(handler), http.MethodPost, "/customers/me/kyc/initiate",
		`{"documents": {"passport": "doc-ref-1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "subject-123", gotCmd.UserID)
	assert.Equal(t, "doc-ref-1", gotCmd.Documents["passport"])
	assert.Contains(t, w.Body.String(), "IN_PROGRESS")
}

func TestKYCHandler_InitiateEmptyDocuments(t *testing.T) {
	handler := NewKYCHandler(&fakeInitiateKYC{
		executeFunc: func(cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error) {
			t.Fatal("use case must not run on invalid input")
			return nil, nil
		},
	}, nil, nil)

	w := request(kycRouter(handler), http.MethodPost, "/customers/me/kyc/initiate",
		`{"documents": {}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKYCHandler_InitiateAlreadyVerified(t *testing.T) {
	handler := NewKYCHandler(&fakeInitiateKYC{
		executeFunc: func(cmd dtos.InitiateKYCCommand) (*dtos.KYCStatusDTO, error) {
			return nil, domainErrors.ErrKYCAlreadyVerified
		},
	}, nil, nil)

	w := request(kycRouter(handler), http.MethodPost, "/customers/me/kyc/initiate",
		`{"documents": {"passport": "doc-ref-1"}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestKYCHandler_Status(t *testing.T) {
	verifiedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	handler := NewKYCHandler(nil, &fakeKYCStatus{
		executeFunc: func(userID string) (*dtos.KYCStatusDTO, error) {
			assert.Equal(t, "subject-123", userID)
			return &dtos.KYCStatusDTO{Status: "VERIFIED", VerifiedAt: &verifiedAt}, nil
		},
	}, nil)

	w := request(kycRouter(handler), http.MethodGet, "/customers/me/kyc/status", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "VERIFIED")
}

func TestKYCHandler_Webhook(t *testing.T) {
	var gotCmd dtos.KYCWebhookCommand
	handler := NewKYCHandler(nil, nil, &fakeKYCWebhook{
		executeFunc: func(cmd dtos.KYCWebhookCommand) (*dtos.KYCStatusDTO, error) {
			gotCmd = cmd
			return &dtos.KYCStatusDTO{Status: cmd.Status}, nil
		},
	})

	// The webhook route carries no auth middleware.
	router := gin.New()
	handler.RegisterRoutes(router.Group(""))

	w := request(router, http.MethodPost, "/customers/kyc/webhook",
		`{"customerId": 7, "status": "VERIFIED", "verifiedAt": "2025-06-01T12:00:00Z"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotCmd.CustomerID)
	assert.Equal(t, "VERIFIED", gotCmd.Status)
}

func TestKYCHandler_WebhookRejectsUnknownStatus(t *testing.T) {
	handler := NewKYCHandler(nil, nil, &fakeKYCWebhook{
		executeFunc: func(cmd dtos.KYCWebhookCommand) (*dtos.KYCStatusDTO, error) {
			t.Fatal("use case must not run on invalid input")
			return nil, nil
		},
	})

	router := gin.New()
	handler.RegisterRoutes(router.Group(""))

	w := request(router, http.MethodPost, "/customers/kyc/webhook",
		`{"customerId": 7, "status": "MAYBE"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "status")
}
