// Package config loads the application configuration with Viper.
//
// Precedence, highest first: environment variables (WALLETCORE_*),
// config file, defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	BuildTime   string `mapstructure:"build_time"`
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MinConnections  int32         `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL             string        `mapstructure:"url"`
	MaxReconnects   int           `mapstructure:"max_reconnects"`
	ReconnectWait   time.Duration `mapstructure:"reconnect_wait"`
	AckWait         time.Duration `mapstructure:"ack_wait"`
	MaxDeliver      int           `mapstructure:"max_deliver"`
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
	// RelayInterval is the outbox polling period.
	RelayInterval time.Duration `mapstructure:"relay_interval"`
	RelayBatch    int           `mapstructure:"relay_batch"`
}

// IdentityConfig points at the external identity provider.
type IdentityConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Realm        string        `mapstructure:"realm"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds local token verification. The secret must match the
// one the identity provider signs access tokens with.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LedgerConfig holds the money movement settings. Limit tiers are
// domain constants; only the operating currency is configurable.
type LedgerConfig struct {
	Currency string `mapstructure:"currency"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	AuthPerMinute     int           `mapstructure:"auth_per_minute"`
	LedgerPerMinute   int           `mapstructure:"ledger_per_minute"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from a file and the environment.
//
// configPath is the directory holding the file, configName the file
// name without extension. A missing file is not an error; defaults and
// environment variables still apply.
func Load(configPath, configName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/walletcore")

	v.SetEnvPrefix("WALLETCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv reads the configuration from the environment only.
func LoadFromEnv() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("WALLETCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "walletcore")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "walletcore")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.max_reconnects", -1)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	v.SetDefault("nats.duplicate_window", "2m")
	v.SetDefault("nats.relay_interval", "1s")
	v.SetDefault("nats.relay_batch", 100)

	v.SetDefault("identity.base_url", "http://localhost:8081")
	v.SetDefault("identity.realm", "walletcore")
	v.SetDefault("identity.client_id", "walletcore-api")
	v.SetDefault("identity.client_secret", "")
	v.SetDefault("identity.timeout", "10s")

	v.SetDefault("auth.jwt_secret", "change-me-in-production")

	v.SetDefault("ledger.currency", "KES")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.auth_per_minute", 10)
	v.SetDefault("rate_limit.ledger_per_minute", 30)
	v.SetDefault("rate_limit.cleanup_interval", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindEnvVars binds the short env names used in deployment manifests
// alongside the canonical WALLETCORE_* ones.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.host", "WALLETCORE_DATABASE_HOST", "DB_HOST")
	_ = v.BindEnv("database.port", "WALLETCORE_DATABASE_PORT", "DB_PORT")
	_ = v.BindEnv("database.user", "WALLETCORE_DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "WALLETCORE_DATABASE_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("database.database", "WALLETCORE_DATABASE_DATABASE", "DB_NAME")

	_ = v.BindEnv("redis.addr", "WALLETCORE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("nats.url", "WALLETCORE_NATS_URL", "NATS_URL")

	_ = v.BindEnv("identity.base_url", "WALLETCORE_IDENTITY_BASE_URL", "IDENTITY_BASE_URL")
	_ = v.BindEnv("identity.client_secret", "WALLETCORE_IDENTITY_CLIENT_SECRET", "IDENTITY_CLIENT_SECRET")

	_ = v.BindEnv("auth.jwt_secret", "WALLETCORE_AUTH_JWT_SECRET", "JWT_SECRET")

	_ = v.BindEnv("server.port", "WALLETCORE_SERVER_PORT", "PORT")
	_ = v.BindEnv("app.environment", "WALLETCORE_APP_ENVIRONMENT", "ENVIRONMENT", "ENV")
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "change-me-in-production" {
			return fmt.Errorf("JWT secret must be changed in production")
		}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.NATS.URL == "" {
		return fmt.Errorf("NATS URL is required")
	}

	if c.Identity.BaseURL == "" {
		return fmt.Errorf("identity provider base URL is required")
	}

	return nil
}

// Development returns a ready-to-run development configuration.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "walletcore",
			Version:     "dev",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Database:        "walletcore",
			SSLMode:         "disable",
			MaxConnections:  10,
			MinConnections:  2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		NATS: NATSConfig{
			URL:             "nats://localhost:4222",
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
			AckWait:         30 * time.Second,
			MaxDeliver:      5,
			DuplicateWindow: 2 * time.Minute,
			RelayInterval:   time.Second,
			RelayBatch:      100,
		},
		Identity: IdentityConfig{
			BaseURL:  "http://localhost:8081",
			Realm:    "walletcore",
			ClientID: "walletcore-api",
			Timeout:  10 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-key",
		},
		Ledger: LedgerConfig{
			Currency: "KES",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "localhost:4318",
			Insecure:    true,
			SampleRatio: 1.0,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 100,
			AuthPerMinute:     10,
			LedgerPerMinute:   30,
			CleanupInterval:   time.Minute,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
		},
	}
}

// Test returns a configuration for tests.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.Database.Database = "walletcore_test"
	cfg.Log.Level = "error"
	return cfg
}
