package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbridge/walletcore/internal/application/ports"
)

var _ ports.ProcessedMarkerRepository = (*ProcessedMarkerRepository)(nil)

// ProcessedMarkerRepository backs consumer-side dedup with two durable
// marker tables. An insert-if-absent inside the consumer's transaction
// means a rolled-back handler releases its marker and the redelivery
// gets a clean retry.
type ProcessedMarkerRepository struct {
	pool *pgxpool.Pool
}

func NewProcessedMarkerRepository(pool *pgxpool.Pool) *ProcessedMarkerRepository {
	return &ProcessedMarkerRepository{pool: pool}
}

func (r *ProcessedMarkerRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *ProcessedMarkerRepository) MarkTransactionProcessed(ctx context.Context, walletID, transactionID uuid.UUID) (bool, error) {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO processed_transactions (wallet_id, transaction_id, processed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (wallet_id, transaction_id) DO NOTHING
	`

	result, err := q.Exec(ctx, query, walletID, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark transaction processed: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *ProcessedMarkerRepository) MarkEventProcessed(ctx context.Context, eventType, businessID string) (bool, error) {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO processed_events (event_type, business_id, processed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (event_type, business_id) DO NOTHING
	`

	result, err := q.Exec(ctx, query, eventType, businessID)
	if err != nil {
		return false, fmt.Errorf("failed to mark event processed: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
