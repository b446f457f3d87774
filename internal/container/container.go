// Package container is the composition root: every dependency is
// created, wired and shut down here.
package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/finbridge/walletcore/internal/adapters/http"
	"github.com/finbridge/walletcore/internal/adapters/http/middleware"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/application/usecases/auth"
	"github.com/finbridge/walletcore/internal/application/usecases/customer"
	"github.com/finbridge/walletcore/internal/application/usecases/kyc"
	"github.com/finbridge/walletcore/internal/application/usecases/ledger"
	"github.com/finbridge/walletcore/internal/application/usecases/projector"
	"github.com/finbridge/walletcore/internal/application/usecases/wallet"
	"github.com/finbridge/walletcore/internal/config"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/finbridge/walletcore/internal/infrastructure/cache/redis"
	"github.com/finbridge/walletcore/internal/infrastructure/identity"
	"github.com/finbridge/walletcore/internal/infrastructure/messaging"
	"github.com/finbridge/walletcore/internal/infrastructure/messaging/nats"
	"github.com/finbridge/walletcore/internal/infrastructure/persistence/postgres"
	"github.com/finbridge/walletcore/internal/pkg/logger"
	"github.com/finbridge/walletcore/internal/pkg/telemetry"
)

// consumerGroup is the durable queue group shared by all instances.
const consumerGroup = "walletcore"

// Container owns the lifecycle of every application dependency.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool        *pgxpool.Pool
	redisClient *goredis.Client
	bus         *nats.EventBus
	gateway     *identity.KeycloakGateway
	relay       *messaging.OutboxRelay
	tracingStop func(context.Context) error

	// Repositories
	customerRepo ports.CustomerRepository
	kycRepo      ports.KYCRepository
	walletRepo   ports.WalletRepository
	txRepo       ports.TransactionRepository
	ledgerRepo   ports.LedgerEntryRepository
	outboxRepo   *postgres.OutboxRepository
	markerRepo   ports.ProcessedMarkerRepository

	uow            ports.UnitOfWork
	eventPublisher ports.EventPublisher
	balanceCache   ports.BalanceCache

	// Use cases
	registerUC *auth.RegisterUseCase
	loginUC    *auth.LoginUseCase
	refreshUC  *auth.RefreshUseCase
	logoutUC   *auth.LogoutUseCase

	createCustomerUC    *customer.CreateCustomerUseCase
	getCustomerUC       *customer.GetCustomerUseCase
	updateCustomerUC    *customer.UpdateCustomerUseCase
	provisionCustomerUC *customer.ProvisionCustomerUseCase

	initiateKYCUC *kyc.InitiateKYCUseCase
	kycStatusUC   *kyc.GetStatusUseCase
	kycWebhookUC  *kyc.ProcessWebhookUseCase

	createWalletUC    *wallet.CreateWalletUseCase
	getWalletUC       *wallet.GetWalletUseCase
	listMyWalletsUC   *wallet.ListMyWalletsUseCase
	getBalanceUC      *wallet.GetBalanceUseCase
	walletStatusUC    *wallet.UpdateWalletStatusUseCase
	provisionWalletUC *wallet.ProvisionWalletUseCase
	raiseLimitsUC     *wallet.RaiseLimitsUseCase

	ledgerCommandsUC *ledger.CommandUseCase
	historyUC        *ledger.HistoryUseCase

	projectBalanceUC *projector.ProjectBalanceUseCase

	// HTTP
	httpServer *http.Server
}

// New creates an uninitialized container.
func New(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Initialize builds every dependency in order: observability, storage,
// broker, identity, repositories, use cases, consumers, HTTP.
func (c *Container) Initialize(ctx context.Context) error {
	c.initLogger()
	c.logger.Info("initializing application container")

	if err := c.initTelemetry(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("database connected")

	if err := c.initRedis(ctx); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.logger.Info("redis connected")

	if err := c.initEventBus(); err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}
	c.logger.Info("event bus connected")

	c.initIdentityGateway()
	c.initRepositories()

	if err := c.initUseCases(); err != nil {
		return fmt.Errorf("failed to initialize use cases: %w", err)
	}

	if err := c.initConsumers(); err != nil {
		return fmt.Errorf("failed to subscribe consumers: %w", err)
	}
	c.logger.Info("event consumers subscribed")

	c.initRelay()
	c.initHTTPServer()

	c.logger.Info("container initialization complete")
	return nil
}

func (c *Container) initLogger() {
	c.logger = logger.Setup(&logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		AddSource: c.config.App.Debug,
	})
}

func (c *Container) initTelemetry(ctx context.Context) error {
	shutdown, err := telemetry.Setup(ctx, &telemetry.Config{
		Enabled:        c.config.Tracing.Enabled,
		Endpoint:       c.config.Tracing.Endpoint,
		Insecure:       c.config.Tracing.Insecure,
		SampleRatio:    c.config.Tracing.SampleRatio,
		ServiceName:    c.config.App.Name,
		ServiceVersion: c.config.App.Version,
		Environment:    c.config.App.Environment,
	})
	if err != nil {
		return err
	}
	c.tracingStop = shutdown
	return nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	pool, err := postgres.NewConnectionPool(ctx, postgres.Config{
		Host:            c.config.Database.Host,
		Port:            c.config.Database.Port,
		Database:        c.config.Database.Database,
		User:            c.config.Database.User,
		Password:        c.config.Database.Password,
		SSLMode:         c.config.Database.SSLMode,
		MaxConns:        c.config.Database.MaxConnections,
		MinConns:        c.config.Database.MinConnections,
		MaxConnLifetime: c.config.Database.MaxConnLifetime,
		MaxConnIdleTime: c.config.Database.MaxConnIdleTime,
	})
	if err != nil {
		return err
	}
	c.pool = pool
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	client := goredis.NewClient(&goredis.Options{
		Addr:     c.config.Redis.Addr,
		Password: c.config.Redis.Password,
		DB:       c.config.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	c.redisClient = client
	c.balanceCache = redis.NewBalanceCache(client, c.logger)
	return nil
}

func (c *Container) initEventBus() error {
	bus, err := nats.NewEventBus(nats.Config{
		URL:             c.config.NATS.URL,
		MaxReconnects:   c.config.NATS.MaxReconnects,
		ReconnectWait:   c.config.NATS.ReconnectWait,
		AckWait:         c.config.NATS.AckWait,
		MaxDeliver:      c.config.NATS.MaxDeliver,
		DuplicateWindow: c.config.NATS.DuplicateWindow,
	}, c.logger)
	if err != nil {
		return err
	}

	// Streams for published-only topics must exist before the relay
	// runs; Subscribe ensures the consumed ones on its own.
	topics := []string{
		events.TopicUserEvents,
		events.TopicCustomerEvents,
		events.TopicKYCEvents,
		events.TopicWalletEvents,
		events.TopicTransactionEvents,
	}
	for _, topic := range topics {
		if err := bus.EnsureStream(topic); err != nil {
			bus.Close()
			return err
		}
	}

	c.bus = bus
	return nil
}

func (c *Container) initIdentityGateway() {
	c.gateway = identity.NewKeycloakGateway(identity.Config{
		BaseURL:      c.config.Identity.BaseURL,
		Realm:        c.config.Identity.Realm,
		ClientID:     c.config.Identity.ClientID,
		ClientSecret: c.config.Identity.ClientSecret,
		Timeout:      c.config.Identity.Timeout,
	}, c.logger)
}

func (c *Container) initRepositories() {
	c.customerRepo = postgres.NewCustomerRepository(c.pool)
	c.kycRepo = postgres.NewKYCRepository(c.pool)
	c.walletRepo = postgres.NewWalletRepository(c.pool)
	c.txRepo = postgres.NewTransactionRepository(c.pool)
	c.ledgerRepo = postgres.NewLedgerEntryRepository(c.pool)
	c.outboxRepo = postgres.NewOutboxRepository(c.pool)
	c.markerRepo = postgres.NewProcessedMarkerRepository(c.pool)

	c.uow = postgres.NewUnitOfWork(c.pool)

	// The outbox repository is the event publisher: events are staged
	// in the same transaction as the state change and relayed later.
	c.eventPublisher = c.outboxRepo
}

func (c *Container) initUseCases() error {
	currency, err := valueobjects.NewCurrency(c.config.Ledger.Currency)
	if err != nil {
		return fmt.Errorf("unsupported ledger currency %q: %w", c.config.Ledger.Currency, err)
	}

	c.registerUC = auth.NewRegisterUseCase(c.gateway, c.eventPublisher, c.uow, c.logger)
	c.loginUC = auth.NewLoginUseCase(c.gateway, c.eventPublisher, c.uow, c.logger)
	c.refreshUC = auth.NewRefreshUseCase(c.gateway)
	c.logoutUC = auth.NewLogoutUseCase(c.gateway, c.eventPublisher, c.uow, c.logger)

	c.createCustomerUC = customer.NewCreateCustomerUseCase(c.customerRepo, c.eventPublisher, c.uow, c.logger)
	c.getCustomerUC = customer.NewGetCustomerUseCase(c.customerRepo)
	c.updateCustomerUC = customer.NewUpdateCustomerUseCase(c.customerRepo, c.uow)
	c.provisionCustomerUC = customer.NewProvisionCustomerUseCase(c.customerRepo, c.markerRepo, c.eventPublisher, c.uow, c.logger)

	c.initiateKYCUC = kyc.NewInitiateKYCUseCase(c.customerRepo, c.kycRepo, c.eventPublisher, c.uow, c.logger)
	c.kycStatusUC = kyc.NewGetStatusUseCase(c.customerRepo, c.kycRepo)
	c.kycWebhookUC = kyc.NewProcessWebhookUseCase(c.customerRepo, c.kycRepo, c.eventPublisher, c.uow, c.logger)

	c.createWalletUC = wallet.NewCreateWalletUseCase(c.customerRepo, c.walletRepo, c.eventPublisher, c.uow, c.logger)
	c.getWalletUC = wallet.NewGetWalletUseCase(c.customerRepo, c.walletRepo)
	c.listMyWalletsUC = wallet.NewListMyWalletsUseCase(c.customerRepo, c.walletRepo)
	c.getBalanceUC = wallet.NewGetBalanceUseCase(c.customerRepo, c.walletRepo, c.balanceCache, c.logger)
	c.walletStatusUC = wallet.NewUpdateWalletStatusUseCase(c.customerRepo, c.walletRepo, c.balanceCache, c.uow, c.logger)
	c.provisionWalletUC = wallet.NewProvisionWalletUseCase(c.walletRepo, c.markerRepo, c.eventPublisher, c.uow, currency, c.logger)
	c.raiseLimitsUC = wallet.NewRaiseLimitsUseCase(c.walletRepo, c.markerRepo, c.uow, c.logger)

	limits := ledger.NewLimitEngine(c.txRepo)
	c.ledgerCommandsUC = ledger.NewCommandUseCase(c.walletRepo, c.txRepo, c.ledgerRepo, c.eventPublisher, c.uow, limits, c.logger)
	c.historyUC = ledger.NewHistoryUseCase(c.customerRepo, c.walletRepo, c.txRepo)

	c.projectBalanceUC = projector.NewProjectBalanceUseCase(c.walletRepo, c.markerRepo, c.balanceCache, c.uow, c.logger)
	return nil
}

// instrumented wraps a consumer handler with the events_consumed metric.
func instrumented(handler ports.MessageHandler) ports.MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		err := handler(ctx, topic, payload)
		if err != nil {
			middleware.RecordEventConsumed(topic, "error")
		} else {
			middleware.RecordEventConsumed(topic, "ok")
		}
		return err
	}
}

func (c *Container) initConsumers() error {
	subscriptions := []struct {
		topic   string
		handler ports.MessageHandler
	}{
		{events.TopicUserEvents, messaging.UserEventsHandler(c.provisionCustomerUC, c.logger)},
		{events.TopicCustomerEvents, messaging.CustomerEventsHandler(c.provisionWalletUC, c.logger)},
		{events.TopicKYCEvents, messaging.KYCEventsHandler(c.raiseLimitsUC, c.logger)},
		{events.TopicTransactionEvents, messaging.TransactionEventsHandler(c.projectBalanceUC, c.logger)},
	}

	for _, sub := range subscriptions {
		if err := c.bus.Subscribe(sub.topic, consumerGroup, instrumented(sub.handler)); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", sub.topic, err)
		}
	}
	return nil
}

func (c *Container) initRelay() {
	c.relay = messaging.NewOutboxRelay(c.outboxRepo, c.bus, c.uow, c.logger).
		WithInterval(c.config.NATS.RelayInterval).
		WithBatch(c.config.NATS.RelayBatch)
}

func (c *Container) initHTTPServer() {
	routerConfig := &http.RouterConfig{
		Logger:         c.logger,
		Pool:           c.pool,
		Redis:          c.redisClient,
		BusConnected:   c.bus.Connected,
		Version:        c.config.App.Version,
		BuildTime:      c.config.App.BuildTime,
		Environment:    c.config.App.Environment,
		AllowedOrigins: c.config.CORS.AllowedOrigins,
		JWTSecret:      []byte(c.config.Auth.JWTSecret),
		EnableTracing:  c.config.Tracing.Enabled,
	}

	router := http.NewRouterBuilder(routerConfig).
		WithAuthUseCases(&http.AuthUseCases{
			Register: c.registerUC,
			Login:    c.loginUC,
			Refresh:  c.refreshUC,
			Logout:   c.logoutUC,
		}).
		WithCustomerUseCases(&http.CustomerUseCases{
			Create:      c.createCustomerUC,
			Get:         c.getCustomerUC,
			Update:      c.updateCustomerUC,
			KYCInitiate: c.initiateKYCUC,
			KYCStatus:   c.kycStatusUC,
			KYCWebhook:  c.kycWebhookUC,
		}).
		WithWalletUseCases(&http.WalletUseCases{
			Create:       c.createWalletUC,
			Get:          c.getWalletUC,
			ListMine:     c.listMyWalletsUC,
			GetBalance:   c.getBalanceUC,
			WalletStatus: c.walletStatusUC,
		}).
		WithLedgerUseCases(&http.LedgerUseCases{
			Commands: c.ledgerCommandsUC,
			History:  c.historyUC,
		}).
		Build()

	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
}

// Getters

func (c *Container) Config() *config.Config        { return c.config }
func (c *Container) Logger() *slog.Logger          { return c.logger }
func (c *Container) Pool() *pgxpool.Pool           { return c.pool }
func (c *Container) HTTPServer() *http.Server      { return c.httpServer }
func (c *Container) Relay() *messaging.OutboxRelay { return c.relay }
func (c *Container) EventBus() *nats.EventBus      { return c.bus }

func (c *Container) CustomerRepository() ports.CustomerRepository       { return c.customerRepo }
func (c *Container) WalletRepository() ports.WalletRepository           { return c.walletRepo }
func (c *Container) TransactionRepository() ports.TransactionRepository { return c.txRepo }
func (c *Container) UnitOfWork() ports.UnitOfWork                       { return c.uow }

// StartRelay runs the outbox relay until the context is cancelled.
func (c *Container) StartRelay(ctx context.Context) {
	go c.relay.Start(ctx)
}

// Run starts the HTTP server and blocks until a shutdown signal.
func (c *Container) Run() error {
	c.logger.Info("starting walletcore API server",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run()
}

// Shutdown stops the components in reverse dependency order: HTTP
// first so no new work arrives, then the broker, caches and the pool.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("shutting down container")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if c.relay != nil {
		select {
		case <-c.relay.Done():
		case <-ctx.Done():
			c.logger.Warn("outbox relay stop timeout")
		}
	}

	if c.bus != nil {
		if err := c.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("database connection closed")
		case <-ctx.Done():
			c.logger.Warn("database close timeout")
		}
	}

	if c.tracingStop != nil {
		if err := c.tracingStop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("container shutdown complete")
	return nil
}
