package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

var (
	_ ports.OutboxRepository = (*OutboxRepository)(nil)
	_ ports.EventPublisher   = (*OutboxRepository)(nil)
)

// maxPublishAttempts bounds retries per row. A row that keeps failing is
// quarantined as FAILED so it cannot occupy the relay's batch forever.
const maxPublishAttempts = 10

// OutboxRepository implements the transactional outbox: events are
// inserted in the same transaction as the business write and a relay
// publishes them to the broker afterwards. It doubles as the
// EventPublisher the use cases see, so "publish" inside a UnitOfWork is
// just an outbox insert.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save serializes the event and inserts the outbox row. Must run inside
// the same transaction as the business operation it describes.
func (r *OutboxRepository) Save(ctx context.Context, event events.DomainEvent) error {
	q := r.getQuerier(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	query := `
		INSERT INTO outbox (
			event_id, event_type, topic, partition_key, payload,
			status, attempts, occurred_at
		) VALUES ($1, $2, $3, $4, $5, 'PENDING', 0, $6)
	`

	_, err = q.Exec(ctx, query,
		event.EventID(),
		event.EventType(),
		event.Topic(),
		event.PartitionKey(),
		payload,
		event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// Publish implements EventPublisher as an outbox insert.
func (r *OutboxRepository) Publish(ctx context.Context, event events.DomainEvent) error {
	return r.Save(ctx, event)
}

func (r *OutboxRepository) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := r.Save(ctx, event); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// FindUnpublished picks up to limit pending rows in insertion order.
// FOR UPDATE SKIP LOCKED lets several relay instances share the table
// without publishing the same row twice.
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]*ports.OutboxMessage, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT id, event_id, event_type, topic, partition_key, payload, occurred_at, attempts
		FROM outbox
		WHERE status = 'PENDING'
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find unpublished events: %w", err)
	}
	defer rows.Close()

	var messages []*ports.OutboxMessage
	for rows.Next() {
		msg := &ports.OutboxMessage{}
		if err := rows.Scan(&msg.ID, &msg.EventID, &msg.EventType, &msg.Topic, &msg.PartitionKey, &msg.Payload, &msg.OccurredAt, &msg.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}
	return messages, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	q := r.getQuerier(ctx)

	query := `
		UPDATE outbox
		SET status = 'PUBLISHED', published_at = $2
		WHERE id = $1 AND status = 'PENDING'
	`
	result, err := q.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark event published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("outbox row %d not found or already published", id)
	}
	return nil
}

// MarkFailed bumps the attempt counter; the row stays PENDING until the
// attempt limit, then flips to FAILED and leaves the relay's view.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	q := r.getQuerier(ctx)

	query := `
		UPDATE outbox
		SET attempts = attempts + 1,
		    last_error = $2,
		    status = CASE WHEN attempts + 1 >= $3 THEN 'FAILED' ELSE status END
		WHERE id = $1 AND status = 'PENDING'
	`
	if _, err := q.Exec(ctx, query, id, reason, maxPublishAttempts); err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

// CleanupPublished deletes published rows older than the cutoff.
// Maintenance only; the relay never reads published rows.
func (r *OutboxRepository) CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error) {
	q := r.getQuerier(ctx)

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := q.Exec(ctx, `DELETE FROM outbox WHERE status = 'PUBLISHED' AND published_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup published events: %w", err)
	}
	return result.RowsAffected(), nil
}
