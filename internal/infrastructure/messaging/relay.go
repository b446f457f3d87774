// Package messaging holds the broker-side plumbing that sits between
// the transactional outbox and the event bus.
package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/finbridge/walletcore/internal/application/ports"
)

const (
	defaultRelayInterval = time.Second
	defaultRelayBatch    = 100

	cleanupInterval  = time.Hour
	cleanupRetention = 24 * time.Hour
)

// OutboxRelay drains pending outbox rows to the event bus. It claims a
// batch inside one database transaction (row locks keep concurrent
// relays apart), publishes each message, and marks the outcome before
// committing. A crash between publish and commit redelivers the
// message; the broker dedup id and consumer markers absorb that.
type OutboxRelay struct {
	outbox   ports.OutboxRepository
	bus      ports.EventBus
	uow      ports.UnitOfWork
	logger   *slog.Logger
	interval time.Duration
	batch    int

	done chan struct{}
}

func NewOutboxRelay(outbox ports.OutboxRepository, bus ports.EventBus, uow ports.UnitOfWork, logger *slog.Logger) *OutboxRelay {
	return &OutboxRelay{
		outbox:   outbox,
		bus:      bus,
		uow:      uow,
		logger:   logger,
		interval: defaultRelayInterval,
		batch:    defaultRelayBatch,
		done:     make(chan struct{}),
	}
}

// WithInterval overrides the polling period. Call before Start.
func (r *OutboxRelay) WithInterval(interval time.Duration) *OutboxRelay {
	if interval > 0 {
		r.interval = interval
	}
	return r
}

// WithBatch overrides the claim batch size. Call before Start.
func (r *OutboxRelay) WithBatch(batch int) *OutboxRelay {
	if batch > 0 {
		r.batch = batch
	}
	return r
}

// Start polls until the context is cancelled. Blocks; run in its own
// goroutine.
func (r *OutboxRelay) Start(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	r.logger.Info("outbox relay started", "interval", r.interval, "batch", r.batch)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.relayBatch(ctx); err != nil {
				r.logger.Error("outbox relay pass failed", "error", err)
			}
		case <-cleanup.C:
			r.cleanupPublished(ctx)
		}
	}
}

// Done closes once Start has returned.
func (r *OutboxRelay) Done() <-chan struct{} {
	return r.done
}

func (r *OutboxRelay) relayBatch(ctx context.Context) error {
	return r.uow.Execute(ctx, func(txCtx context.Context) error {
		messages, err := r.outbox.FindUnpublished(txCtx, r.batch)
		if err != nil {
			return err
		}

		// Once a message fails, later messages of the same topic and
		// partition key wait for the next pass; publishing them now
		// would reorder the key's stream.
		held := make(map[string]struct{})

		for _, msg := range messages {
			subject := msg.Topic + "/" + msg.PartitionKey
			if _, blocked := held[subject]; blocked {
				continue
			}

			if err := r.bus.Publish(txCtx, msg.Topic, msg.PartitionKey, msg.EventID.String(), msg.Payload); err != nil {
				r.logger.Error("failed to publish outbox message",
					"outbox_id", msg.ID, "event_type", msg.EventType, "attempts", msg.Attempts, "error", err)
				if markErr := r.outbox.MarkFailed(txCtx, msg.ID, err.Error()); markErr != nil {
					return markErr
				}
				held[subject] = struct{}{}
				continue
			}
			if err := r.outbox.MarkPublished(txCtx, msg.ID); err != nil {
				return err
			}
			r.logger.Debug("published outbox message",
				"outbox_id", msg.ID, "event_type", msg.EventType, "topic", msg.Topic)
		}
		return nil
	})
}

// cleanupPublished trims delivered rows past the retention window.
func (r *OutboxRelay) cleanupPublished(ctx context.Context) {
	removed, err := r.outbox.CleanupPublished(ctx, cleanupRetention)
	if err != nil {
		r.logger.Error("outbox cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		r.logger.Info("outbox cleanup", "removed", removed)
	}
}
