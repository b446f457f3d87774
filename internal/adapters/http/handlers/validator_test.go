package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/finbridge/walletcore/internal/application/dtos"
)

func init() {
	gin.SetMode(gin.TestMode)
	SetupValidator()
}

func bindDeposit(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	var bound bool
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var cmd dtos.DepositCommand
		bound = BindJSON(c, &cmd)
		if bound {
			c.Status(http.StatusOK)
		}
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, bound
}

func TestBindJSON_ValidDeposit(t *testing.T) {
	_, bound := bindDeposit(t, `{
		"toWalletId": "5a3c8e6f-22aa-4a7e-bb8d-0d6a0f4f9f11",
		"amount": "100.50",
		"currency": "KES",
		"idempotencyKey": "dep-1"
	}`)
	assert.True(t, bound)
}

func TestBindJSON_FieldErrorsUseJSONNames(t *testing.T) {
	w, bound := bindDeposit(t, `{"toWalletId": "not-a-uuid", "amount": "x", "currency": "kes", "idempotencyKey": "k"}`)

	assert.False(t, bound)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "toWalletId")
	assert.Contains(t, body, "amount")
	assert.Contains(t, body, "currency")
}

func TestValidateMoneyAmount(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"100", true},
		{"100.5", true},
		{"100.50", true},
		{"0.01", true},
		{"100.505", false}, // more than two fractional digits
		{"-5", false},
		{"1,5", false},
		{"abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.valid, moneyPattern.MatchString(tt.amount))
		})
	}
}

func TestBindJSON_MalformedBody(t *testing.T) {
	w, bound := bindDeposit(t, `{not json`)

	assert.False(t, bound)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
