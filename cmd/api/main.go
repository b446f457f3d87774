package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/finbridge/walletcore/internal/config"
	"github.com/finbridge/walletcore/internal/container"
)

func main() {
	// .env is optional; deployment injects real environment variables.
	_ = godotenv.Load()

	configPath := os.Getenv("WALLETCORE_CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.Load(configPath, "config")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	c := container.New(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := c.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	// The relay drains the transactional outbox for the lifetime of the
	// process; cancelling the signal context stops it.
	c.StartRelay(ctx)

	if err := c.Run(); err != nil {
		c.Logger().Error("server error", "error", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := c.Shutdown(shutdownCtx); err != nil {
		c.Logger().Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
