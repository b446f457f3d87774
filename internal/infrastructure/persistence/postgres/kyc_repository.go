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
)

var _ ports.KYCRepository = (*KYCRepository)(nil)

// KYCRepository stores KYC checks. Documents are kept as JSONB.
type KYCRepository struct {
	pool *pgxpool.Pool
}

func NewKYCRepository(pool *pgxpool.Pool) *KYCRepository {
	return &KYCRepository{pool: pool}
}

func (r *KYCRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *KYCRepository) Save(ctx context.Context, check *entities.KYCCheck) error {
	q := r.getQuerier(ctx)

	documents, err := json.Marshal(check.Documents())
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}

	query := `
		INSERT INTO kyc_checks (
			id, customer_id, status, provider_reference, documents,
			initiated_at, verified_at, rejection_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			verified_at = EXCLUDED.verified_at,
			rejection_reason = EXCLUDED.rejection_reason
	`

	_, err = q.Exec(ctx, query,
		check.ID(),
		check.CustomerID(),
		string(check.Status()),
		check.ProviderReference(),
		documents,
		check.InitiatedAt(),
		check.VerifiedAt(),
		check.RejectionReason(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.ErrCustomerNotFound
		}
		return fmt.Errorf("failed to save kyc check: %w", err)
	}
	return nil
}

const kycColumns = `id, customer_id, status, provider_reference, documents, initiated_at, verified_at, rejection_reason`

func (r *KYCRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.KYCCheck, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + kycColumns + ` FROM kyc_checks WHERE id = $1`
	return scanKYCCheck(q.QueryRow(ctx, query, id))
}

func (r *KYCRepository) FindByProviderReference(ctx context.Context, ref string) (*entities.KYCCheck, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + kycColumns + ` FROM kyc_checks WHERE provider_reference = $1`
	return scanKYCCheck(q.QueryRow(ctx, query, ref))
}

func (r *KYCRepository) FindLatestByCustomer(ctx context.Context, customerID int64) (*entities.KYCCheck, error) {
	q := r.getQuerier(ctx)
	query := `
		SELECT ` + kycColumns + `
		FROM kyc_checks
		WHERE customer_id = $1
		ORDER BY initiated_at DESC
		LIMIT 1
	`
	return scanKYCCheck(q.QueryRow(ctx, query, customerID))
}

func (r *KYCRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*entities.KYCCheck, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + kycColumns + `
		FROM kyc_checks
		WHERE customer_id = $1
		ORDER BY initiated_at DESC
	`
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kyc checks: %w", err)
	}
	defer rows.Close()

	var checks []*entities.KYCCheck
	for rows.Next() {
		check, err := scanKYCCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kyc rows: %w", err)
	}
	return checks, nil
}

func scanKYCCheck(row pgx.Row) (*entities.KYCCheck, error) {
	var id uuid.UUID
	var customerID int64
	var statusStr, providerReference, rejectionReason string
	var documentsJSON []byte
	var initiatedAt time.Time
	var verifiedAt *time.Time

	err := row.Scan(&id, &customerID, &statusStr, &providerReference, &documentsJSON, &initiatedAt, &verifiedAt, &rejectionReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan kyc check: %w", err)
	}

	var documents map[string]string
	if len(documentsJSON) > 0 {
		if err := json.Unmarshal(documentsJSON, &documents); err != nil {
			return nil, fmt.Errorf("invalid documents in database: %w", err)
		}
	}

	return entities.ReconstructKYCCheck(
		id, customerID,
		entities.KYCStatus(statusStr),
		providerReference,
		documents,
		initiatedAt, verifiedAt, rejectionReason,
	), nil
}
