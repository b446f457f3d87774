package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
)

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

// sortColumns whitelists the sortable fields of the history query.
var sortColumns = map[string]string{
	"id":              "id",
	"initiatedAt":     "initiated_at",
	"completedAt":     "completed_at",
	"amount":          "amount",
	"status":          "status",
	"transactionType": "transaction_type",
}

// TransactionRepository stores transactions. The idempotency key is
// unique; a duplicate insert surfaces as a conflict so the command layer
// can replay the stored row.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *TransactionRepository) Save(ctx context.Context, tx *entities.Transaction) error {
	q := r.getQuerier(ctx)

	metadata, err := json.Marshal(tx.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (
			id, transaction_type, status, amount, currency,
			from_wallet_id, to_wallet_id, idempotency_key, metadata,
			failure_reason, initiated_at, completed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			failure_reason = EXCLUDED.failure_reason,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err = q.Exec(ctx, query,
		tx.ID(),
		string(tx.Type()),
		string(tx.Status()),
		tx.Amount().Cents(),
		tx.Amount().Currency().Code(),
		tx.FromWalletID(),
		tx.ToWalletID(),
		tx.IdempotencyKey(),
		metadata,
		tx.FailureReason(),
		tx.InitiatedAt(),
		tx.CompletedAt(),
		tx.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "transactions_idempotency_key") {
			return domainErrors.ErrEntityAlreadyExists
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

const transactionColumns = `id, transaction_type, status, amount, currency, from_wallet_id, to_wallet_id, idempotency_key, metadata, failure_reason, initiated_at, completed_at, updated_at`

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(q.QueryRow(ctx, query, id))
}

func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1`
	return scanTransaction(q.QueryRow(ctx, query, key))
}

func (r *TransactionRepository) SumCompletedUsage(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status = 'COMPLETED'
		  AND (from_wallet_id = $1 OR to_wallet_id = $1)
		  AND initiated_at >= $2
	`

	var total int64
	if err := q.QueryRow(ctx, query, walletID, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum completed usage: %w", err)
	}
	return total, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter ports.TransactionFilter, sort ports.TransactionSort, offset, limit int) ([]*entities.Transaction, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	query, args := appendTransactionFilter(query, filter)

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "initiated_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s OFFSET $%d LIMIT $%d", column, direction, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Count(ctx context.Context, filter ports.TransactionFilter) (int64, error) {
	q := r.getQuerier(ctx)

	query := `SELECT COUNT(*) FROM transactions WHERE 1=1`
	query, args := appendTransactionFilter(query, filter)

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}

func appendTransactionFilter(query string, filter ports.TransactionFilter) (string, []interface{}) {
	args := []interface{}{}
	argNum := 1

	if filter.WalletID != nil {
		query += fmt.Sprintf(" AND (from_wallet_id = $%d OR to_wallet_id = $%d)", argNum, argNum)
		args = append(args, *filter.WalletID)
		argNum++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND transaction_type = $%d", argNum)
		args = append(args, string(*filter.Type))
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}
	if filter.FromDate != nil {
		query += fmt.Sprintf(" AND initiated_at >= $%d", argNum)
		args = append(args, *filter.FromDate)
		argNum++
	}
	if filter.ToDate != nil {
		query += fmt.Sprintf(" AND initiated_at <= $%d", argNum)
		args = append(args, *filter.ToDate)
		argNum++
	}
	return query, args
}

func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var id uuid.UUID
	var typeStr, statusStr, currencyCode, idempotencyKey, failureReason string
	var amountCents int64
	var fromWalletID, toWalletID *uuid.UUID
	var metadata []byte
	var initiatedAt, updatedAt time.Time
	var completedAt *time.Time

	err := row.Scan(&id, &typeStr, &statusStr, &amountCents, &currencyCode, &fromWalletID, &toWalletID, &idempotencyKey, &metadata, &failureReason, &initiatedAt, &completedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	currency, err := valueobjects.NewCurrency(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency in database: %w", err)
	}
	amount, err := valueobjects.NewMoneyFromCents(amountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in database: %w", err)
	}

	return entities.ReconstructTransaction(
		id,
		entities.TransactionType(typeStr),
		entities.TransactionStatus(statusStr),
		amount,
		fromWalletID, toWalletID,
		idempotencyKey,
		metadata,
		failureReason,
		initiatedAt, completedAt, updatedAt,
	)
}
