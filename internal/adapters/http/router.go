// Package http assembles the REST API: handlers, middleware and the
// server lifecycle. Dependencies are wired here so handlers only see
// the use cases they call.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
	"github.com/finbridge/walletcore/internal/adapters/http/handlers"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
)

// publicPaths are reachable without a bearer token: token acquisition,
// the provider webhook and the probes. Logout is not public; the
// USER_LOGOUT event needs the caller's subject as its partition key.
var publicPaths = []string{
	"/auth/register",
	"/auth/login",
	"/auth/refresh",
	"/customers/kyc/webhook",
	"/health",
	"/health/detailed",
	"/live",
	"/ready",
	"/metrics",
}

// RouterConfig carries everything the router needs besides use cases.
type RouterConfig struct {
	Logger *slog.Logger
	// Pool and Redis feed the health checks.
	Pool  *pgxpool.Pool
	Redis *redis.Client
	// BusConnected reports broker connectivity for readiness.
	BusConnected func() bool

	Version     string
	BuildTime   string
	Environment string

	// AllowedOrigins for CORS in production.
	AllowedOrigins []string
	// JWTSecret verifies access tokens issued by the identity provider.
	JWTSecret []byte
	// EnableTracing adds the otelgin middleware.
	EnableTracing bool
}

// DefaultRouterConfig is the development configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:         slog.Default(),
		Version:        "dev",
		BuildTime:      "unknown",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
	}
}

// AuthUseCases groups the auth handler's use cases.
type AuthUseCases struct {
	Register handlers.RegisterUseCase
	Login    handlers.LoginUseCase
	Refresh  handlers.RefreshUseCase
	Logout   handlers.LogoutUseCase
}

// CustomerUseCases groups the profile and KYC use cases.
type CustomerUseCases struct {
	Create      handlers.CreateCustomerUseCase
	Get         handlers.GetCustomerUseCase
	Update      handlers.UpdateCustomerUseCase
	KYCInitiate handlers.InitiateKYCUseCase
	KYCStatus   handlers.KYCStatusUseCase
	KYCWebhook  handlers.KYCWebhookUseCase
}

// WalletUseCases groups the wallet use cases.
type WalletUseCases struct {
	Create       handlers.CreateWalletUseCase
	Get          handlers.GetWalletUseCase
	ListMine     handlers.ListMyWalletsUseCase
	GetBalance   handlers.GetBalanceUseCase
	WalletStatus handlers.WalletStatusUseCase
}

// LedgerUseCases groups the money movement and history use cases.
type LedgerUseCases struct {
	Commands handlers.LedgerCommandUseCase
	History  handlers.TransactionHistoryUseCase
}

// RouterBuilder assembles the engine step by step.
type RouterBuilder struct {
	config    *RouterConfig
	auth      *AuthUseCases
	customers *CustomerUseCases
	wallets   *WalletUseCases
	ledger    *LedgerUseCases
}

func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{config: config}
}

func (b *RouterBuilder) WithAuthUseCases(useCases *AuthUseCases) *RouterBuilder {
	b.auth = useCases
	return b
}

func (b *RouterBuilder) WithCustomerUseCases(useCases *CustomerUseCases) *RouterBuilder {
	b.customers = useCases
	return b
}

func (b *RouterBuilder) WithWalletUseCases(useCases *WalletUseCases) *RouterBuilder {
	b.wallets = useCases
	return b
}

func (b *RouterBuilder) WithLedgerUseCases(useCases *LedgerUseCases) *RouterBuilder {
	b.ledger = useCases
	return b
}

// Build creates the configured gin engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	handlers.SetupValidator()

	// Recovery first, so every later middleware is covered.
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	router.Use(middleware.RequestID())

	if b.config.Environment == "production" {
		router.Use(middleware.CORS(middleware.ProductionCORSConfig(b.config.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))

	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	router.Use(middleware.Metrics())

	if b.config.EnableTracing {
		router.Use(otelgin.Middleware("walletcore"))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handlers.NewHealthHandler(
		b.config.Pool,
		b.config.Redis,
		b.config.BusConnected,
		b.config.Version,
		b.config.BuildTime,
	)
	healthHandler.RegisterRoutes(router)

	// One auth middleware guards everything; public paths are skipped
	// by path, not by group, so the webhook can live under /customers.
	api := router.Group("")
	api.Use(middleware.Auth(&middleware.AuthConfig{
		Secret:    b.config.JWTSecret,
		SkipPaths: publicPaths,
	}))

	if b.auth != nil {
		authHandler := handlers.NewAuthHandler(
			b.auth.Register,
			b.auth.Login,
			b.auth.Refresh,
			b.auth.Logout,
		)
		authGroup := api.Group("")
		authGroup.Use(middleware.AuthEndpointRateLimit())
		authHandler.RegisterRoutes(authGroup)
	}

	if b.customers != nil {
		customerHandler := handlers.NewCustomerHandler(
			b.customers.Create,
			b.customers.Get,
			b.customers.Update,
		)
		customerHandler.RegisterRoutes(api)

		kycHandler := handlers.NewKYCHandler(
			b.customers.KYCInitiate,
			b.customers.KYCStatus,
			b.customers.KYCWebhook,
		)
		kycHandler.RegisterRoutes(api)
	}

	if b.wallets != nil {
		walletHandler := handlers.NewWalletHandler(
			b.wallets.Create,
			b.wallets.Get,
			b.wallets.ListMine,
			b.wallets.GetBalance,
			b.wallets.WalletStatus,
		)
		walletHandler.RegisterRoutes(api)
	}

	if b.ledger != nil {
		txHandler := handlers.NewTransactionHandler(b.ledger.Commands, b.ledger.History)

		// Money movement gets the stricter per-subject limit.
		ledgerGroup := api.Group("")
		ledgerGroup.Use(middleware.TransactionRateLimit())
		txHandler.RegisterRoutes(ledgerGroup)
	}

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, 404, &common.APIError{
			Code:    common.ErrCodeNotFound,
			Message: "Endpoint not found",
			Details: map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			},
		})
	})

	return router
}

// NewRouter creates a router in one call for the simple cases.
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}
