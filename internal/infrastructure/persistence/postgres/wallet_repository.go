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

var _ ports.WalletRepository = (*WalletRepository)(nil)

// WalletRepository stores wallets. Money columns are BIGINT cents;
// updates carry an optimistic version check.
type WalletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save inserts a never-persisted wallet (version 0) or updates an
// existing one. Every entity mutation bumps the version, so the stored
// row must still hold version-1; anything else is a lost-update race.
func (r *WalletRepository) Save(ctx context.Context, wallet *entities.Wallet) error {
	if wallet.Version() == 0 {
		return r.insert(ctx, wallet)
	}
	return r.update(ctx, wallet)
}

func (r *WalletRepository) insert(ctx context.Context, wallet *entities.Wallet) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO wallets (
			id, customer_id, currency, status, balance, version,
			daily_limit, monthly_limit, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		wallet.ID(),
		wallet.CustomerID(),
		wallet.Currency().Code(),
		string(wallet.Status()),
		wallet.Balance().Cents(),
		wallet.Version(),
		wallet.DailyLimit().Cents(),
		wallet.MonthlyLimit().Cents(),
		wallet.CreatedAt(),
		wallet.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "wallets_customer_currency") {
			return domainErrors.ErrDuplicateWallet
		}
		if isForeignKeyViolation(err) {
			return domainErrors.ErrCustomerNotFound
		}
		return fmt.Errorf("failed to insert wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) update(ctx context.Context, wallet *entities.Wallet) error {
	q := r.getQuerier(ctx)

	query := `
		UPDATE wallets SET
			status = $2,
			balance = $3,
			version = $4,
			daily_limit = $5,
			monthly_limit = $6,
			updated_at = $7
		WHERE id = $1 AND version = $8
	`

	expectedVersion := wallet.Version() - 1

	result, err := q.Exec(ctx, query,
		wallet.ID(),
		string(wallet.Status()),
		wallet.Balance().Cents(),
		wallet.Version(),
		wallet.DailyLimit().Cents(),
		wallet.MonthlyLimit().Cents(),
		wallet.UpdatedAt(),
		expectedVersion,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domainErrors.ErrInsufficientBalance
		}
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.NewConcurrencyError(
			"Wallet",
			wallet.ID().String(),
			fmt.Sprintf("wallet was modified by another transaction (expected version: %d)", expectedVersion),
		)
	}
	return nil
}

const walletColumns = `id, customer_id, currency, status, balance, version, daily_limit, monthly_limit, created_at, updated_at`

func (r *WalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return scanWallet(q.QueryRow(ctx, query, id))
}

func (r *WalletRepository) LockByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return scanWallet(q.QueryRow(ctx, query, id))
}

func (r *WalletRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE customer_id = $1 ORDER BY created_at ASC`
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallets by customer: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

func (r *WalletRepository) FindByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE customer_id = $1 AND currency = $2`
	return scanWallet(q.QueryRow(ctx, query, customerID, currency.Code()))
}

func (r *WalletRepository) ExistsByCustomerAndCurrency(ctx context.Context, customerID int64, currency valueobjects.Currency) (bool, error) {
	q := r.getQuerier(ctx)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wallets WHERE customer_id = $1 AND currency = $2)`,
		customerID, currency.Code(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	return exists, nil
}

func (r *WalletRepository) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argNum)
		args = append(args, *filter.CustomerID)
		argNum++
	}
	if filter.Currency != nil {
		query += fmt.Sprintf(" AND currency = $%d", argNum)
		args = append(args, filter.Currency.Code())
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

func scanWallet(row pgx.Row) (*entities.Wallet, error) {
	var id uuid.UUID
	var customerID int64
	var currencyCode, statusStr string
	var balanceCents, version, dailyLimitCents, monthlyLimitCents int64
	var createdAt, updatedAt time.Time

	err := row.Scan(&id, &customerID, &currencyCode, &statusStr, &balanceCents, &version, &dailyLimitCents, &monthlyLimitCents, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}

	currency, err := valueobjects.NewCurrency(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency in database: %w", err)
	}
	balance, err := valueobjects.NewMoneyFromCents(balanceCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid balance in database: %w", err)
	}
	dailyLimit, err := valueobjects.NewMoneyFromCents(dailyLimitCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid daily limit in database: %w", err)
	}
	monthlyLimit, err := valueobjects.NewMoneyFromCents(monthlyLimitCents, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly limit in database: %w", err)
	}

	return entities.ReconstructWallet(
		id, customerID, currency,
		entities.WalletStatus(statusStr),
		balance, version,
		dailyLimit, monthlyLimit,
		createdAt, updatedAt,
	), nil
}

func scanWallets(rows pgx.Rows) ([]*entities.Wallet, error) {
	var wallets []*entities.Wallet

	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}
	return wallets, nil
}
