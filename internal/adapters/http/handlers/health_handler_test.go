package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil, "1.2.3", "2025-06-01")

	w := request(healthRouter(handler), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthHandler_Live(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil, "1.2.3", "2025-06-01")

	w := request(healthRouter(handler), http.MethodGet, "/live", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}

func TestHealthHandler_ReadyWithoutDependencies(t *testing.T) {
	// Unconfigured dependencies do not block readiness.
	handler := NewHealthHandler(nil, nil, nil, "1.2.3", "2025-06-01")

	w := request(healthRouter(handler), http.MethodGet, "/ready", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, "not configured", resp.Checks["database"])
	assert.Equal(t, "not configured", resp.Checks["nats"])
}

func TestHealthHandler_ReadyBrokerDisconnected(t *testing.T) {
	handler := NewHealthHandler(nil, nil, func() bool { return false }, "1.2.3", "2025-06-01")

	w := request(healthRouter(handler), http.MethodGet, "/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
	assert.Equal(t, "disconnected", resp.Checks["nats"])
}

func TestHealthHandler_ReadyBrokerConnected(t *testing.T) {
	handler := NewHealthHandler(nil, nil, func() bool { return true }, "1.2.3", "2025-06-01")

	w := request(healthRouter(handler), http.MethodGet, "/ready", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_DetailedHealth(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil, "1.2.3", "2025-06-01")

	w := request(healthRouter(handler), http.MethodGet, "/health/detailed", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}
