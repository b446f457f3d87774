// Package redis implements the balance read cache on Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finbridge/walletcore/internal/application/ports"
)

// keyPrefix namespaces balance snapshots in the keyspace.
const keyPrefix = "balance:"

var _ ports.BalanceCache = (*BalanceCache)(nil)

// BalanceCache stores wallet balance snapshots as JSON with a TTL.
// Every failure is the caller's cue to fall back to the database; the
// cache itself never fabricates a balance.
type BalanceCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewBalanceCache(client *redis.Client, logger *slog.Logger) *BalanceCache {
	return &BalanceCache{client: client, logger: logger}
}

func balanceKey(walletID uuid.UUID) string {
	return keyPrefix + walletID.String()
}

// Get returns the cached snapshot, or (nil, nil) on a miss.
func (c *BalanceCache) Get(ctx context.Context, walletID uuid.UUID) (*ports.BalanceSnapshot, error) {
	val, err := c.client.Get(ctx, balanceKey(walletID)).Result()
	if err == redis.Nil {
		c.logger.Debug("balance cache miss", "wallet_id", walletID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached balance: %w", err)
	}

	var snapshot ports.BalanceSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached balance: %w", err)
	}

	c.logger.Debug("balance cache hit", "wallet_id", walletID)
	return &snapshot, nil
}

func (c *BalanceCache) Set(ctx context.Context, snapshot *ports.BalanceSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal balance snapshot: %w", err)
	}

	if err := c.client.Set(ctx, balanceKey(snapshot.WalletID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached balance: %w", err)
	}
	return nil
}

func (c *BalanceCache) Invalidate(ctx context.Context, walletID uuid.UUID) error {
	if err := c.client.Del(ctx, balanceKey(walletID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached balance: %w", err)
	}
	return nil
}
