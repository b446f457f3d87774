package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/finbridge/walletcore/internal/application/dtos"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
)

type fakeRegister struct {
	executeFunc func(cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error)
}

func (f *fakeRegister) Execute(ctx context.Context, cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error) {
	return f.executeFunc(cmd)
}

type fakeLogin struct {
	executeFunc func(cmd dtos.LoginCommand) (*dtos.TokenDTO, error)
}

func (f *fakeLogin) Execute(ctx context.Context, cmd dtos.LoginCommand) (*dtos.TokenDTO, error) {
	return f.executeFunc(cmd)
}

type fakeRefresh struct {
	executeFunc func(cmd dtos.RefreshCommand) (*dtos.RefreshResultDTO, error)
}

func (f *fakeRefresh) Execute(ctx context.Context, cmd dtos.RefreshCommand) (*dtos.RefreshResultDTO, error) {
	return f.executeFunc(cmd)
}

type fakeLogout struct {
	executeFunc func(subject string, cmd dtos.LogoutCommand) (*dtos.MessageDTO, error)
}

func (f *fakeLogout) Execute(ctx context.Context, subject string, cmd dtos.LogoutCommand) (*dtos.MessageDTO, error) {
	return f.executeFunc(subject, cmd)
}

func authTestRouter(h *AuthHandler) *gin.Engine {
	router := gin.New()
	h.RegisterRoutes(router.Group(""))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	handler := NewAuthHandler(&fakeRegister{
		executeFunc: func(cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error) {
			return &dtos.RegisterResultDTO{
				UserID:   "subject-123",
				Username: cmd.Username,
				Email:    cmd.Email,
				Message:  "User registered successfully",
			}, nil
		},
	}, nil, nil, nil)

	w := postJSON(authTestRouter(handler), "/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "secret-password"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "subject-123")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	handler := NewAuthHandler(&fakeRegister{
		executeFunc: func(cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error) {
			t.Fatal("use case must not run on invalid input")
			return nil, nil
		},
	}, nil, nil, nil)

	// Password below the minimum length.
	w := postJSON(authTestRouter(handler), "/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "short"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password")
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	handler := NewAuthHandler(&fakeRegister{
		executeFunc: func(cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error) {
			return nil, domainErrors.ErrEntityAlreadyExists
		},
	}, nil, nil, nil)

	w := postJSON(authTestRouter(handler), "/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "secret-password"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	handler := NewAuthHandler(nil, &fakeLogin{
		executeFunc: func(cmd dtos.LoginCommand) (*dtos.TokenDTO, error) {
			return &dtos.TokenDTO{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 300}, nil
		},
	}, nil, nil)

	w := postJSON(authTestRouter(handler), "/auth/login",
		`{"username": "alice", "password": "pw"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accessToken")
}

func TestAuthHandler_LoginBadCredentials(t *testing.T) {
	handler := NewAuthHandler(nil, &fakeLogin{
		executeFunc: func(cmd dtos.LoginCommand) (*dtos.TokenDTO, error) {
			return nil, domainErrors.ErrUnauthorized
		},
	}, nil, nil)

	w := postJSON(authTestRouter(handler), "/auth/login",
		`{"username": "alice", "password": "wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	handler := NewAuthHandler(nil, nil, &fakeRefresh{
		executeFunc: func(cmd dtos.RefreshCommand) (*dtos.RefreshResultDTO, error) {
			return &dtos.RefreshResultDTO{AccessToken: "fresh", ExpiresIn: 300}, nil
		},
	}, nil)

	w := postJSON(authTestRouter(handler), "/auth/refresh", `{"refreshToken": "refresh"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fresh")
}

func TestAuthHandler_Logout(t *testing.T) {
	var gotSubject string
	handler := NewAuthHandler(nil, nil, nil, &fakeLogout{
		executeFunc: func(subject string, cmd dtos.LogoutCommand) (*dtos.MessageDTO, error) {
			gotSubject = subject
			return &dtos.MessageDTO{Message: "Logged out"}, nil
		},
	})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("auth_subject", "subject-123")
	})
	handler.RegisterRoutes(router.Group(""))

	w := postJSON(router, "/auth/logout", `{"refreshToken": "refresh"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "subject-123", gotSubject)
}
