package ports

import (
	"context"
	"time"

	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/google/uuid"
)

// EventPublisher records domain events for publication. The production
// implementation is the transactional outbox: Publish inside a UnitOfWork
// writes the event to the outbox table in the same database transaction,
// and a background relay ships it to the bus. Delivery is at-least-once,
// so consumers dedup through ProcessedMarkerRepository.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch records several events atomically.
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}

// MessageHandler consumes one raw message from the bus. Returning an error
// triggers redelivery.
type MessageHandler func(ctx context.Context, topic string, payload []byte) error

// EventBus is the broker-facing transport. Messages on a topic with the
// same partition key are delivered in publish order.
type EventBus interface {
	// Publish ships an already-serialized payload to a topic. key routes
	// the message for ordering; msgID identifies it for broker-side dedup
	// (two events on one partition key are still distinct messages).
	Publish(ctx context.Context, topic, key, msgID string, payload []byte) error

	// Subscribe registers a durable consumer group on a topic. Handlers
	// run until the bus is closed.
	Subscribe(topic, group string, handler MessageHandler) error

	Close() error
}

// OutboxMessage is a pending outbox row, as the relay sees it.
type OutboxMessage struct {
	ID           int64
	EventID      uuid.UUID
	EventType    string
	Topic        string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
	Attempts     int
}

// OutboxRepository stores events awaiting publication. Save must run in
// the same transaction as the business write it belongs to.
type OutboxRepository interface {
	Save(ctx context.Context, event events.DomainEvent) error

	// FindUnpublished claims up to limit pending messages for one relay
	// pass. Rows are locked so concurrent relays never claim the same
	// message.
	FindUnpublished(ctx context.Context, limit int) ([]*OutboxMessage, error)

	MarkPublished(ctx context.Context, id int64) error

	// MarkFailed bumps the attempt counter and records the reason. The
	// message stays eligible for retry until the store's attempt limit,
	// after which it is quarantined out of the pending set.
	MarkFailed(ctx context.Context, id int64, reason string) error

	// CleanupPublished deletes published rows older than the cutoff and
	// reports how many went.
	CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error)
}
