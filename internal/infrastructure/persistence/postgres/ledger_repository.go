package postgres

import (
	"context"
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

var _ ports.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

// LedgerEntryRepository stores the append-only double-entry ledger.
// There is no update path: corrections are compensating entries.
type LedgerEntryRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerEntryRepository(pool *pgxpool.Pool) *LedgerEntryRepository {
	return &LedgerEntryRepository{pool: pool}
}

func (r *LedgerEntryRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *LedgerEntryRepository) Append(ctx context.Context, entries []*entities.LedgerEntry) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO ledger_entries (
			id, transaction_id, wallet_id, account_type, entry_type,
			amount, balance_after, currency, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, entry := range entries {
		_, err := q.Exec(ctx, query,
			entry.ID(),
			entry.TransactionID(),
			entry.WalletID(),
			entry.AccountType(),
			string(entry.EntryType()),
			entry.Amount().Cents(),
			entry.BalanceAfter().Cents(),
			entry.Amount().Currency().Code(),
			entry.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
	}
	return nil
}

const ledgerColumns = `id, transaction_id, wallet_id, account_type, entry_type, amount, balance_after, currency, created_at`

func (r *LedgerEntryRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE transaction_id = $1
		ORDER BY entry_type ASC
	`
	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

func (r *LedgerEntryRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := q.Query(ctx, query, walletID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// WalletBalance derives the balance from the entries: credits add,
// debits subtract.
func (r *LedgerEntryRepository) WalletBalance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT COALESCE(SUM(CASE WHEN entry_type = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE wallet_id = $1
	`

	var balance int64
	if err := q.QueryRow(ctx, query, walletID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to derive wallet balance: %w", err)
	}
	return balance, nil
}

func scanLedgerEntries(rows pgx.Rows) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry

	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var id, transactionID uuid.UUID
	var walletID *uuid.UUID
	var accountType, entryTypeStr, currencyCode string
	var amountCents, balanceAfterCents int64
	var createdAt time.Time

	err := row.Scan(&id, &transactionID, &walletID, &accountType, &entryTypeStr, &amountCents, &balanceAfterCents, &currencyCode, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	currency, err := valueobjects.NewCurrency(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency in database: %w", err)
	}
	amount, err := valueobjects.NewMoneyFromCents(amountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in database: %w", err)
	}
	balanceAfter, err := valueobjects.NewMoneyFromCents(balanceAfterCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid balance_after in database: %w", err)
	}

	return entities.ReconstructLedgerEntry(
		id, transactionID, walletID,
		accountType,
		entities.EntryType(entryTypeStr),
		amount, balanceAfter,
		createdAt,
	), nil
}
