package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository stores customer profiles. Ids are BIGSERIAL; an
// insert feeds the generated id back into the entity.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *CustomerRepository) Save(ctx context.Context, customer *entities.Customer) error {
	if customer.ID() == 0 {
		return r.insert(ctx, customer)
	}
	return r.update(ctx, customer)
}

func (r *CustomerRepository) insert(ctx context.Context, customer *entities.Customer) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO customers (
			user_id, first_name, last_name, email, phone, address,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		customer.UserID(),
		customer.FirstName(),
		customer.LastName(),
		customer.Email(),
		customer.Phone(),
		customer.Address(),
		string(customer.Status()),
		customer.CreatedAt(),
		customer.UpdatedAt(),
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err, "customers_user_id") {
			return domainErrors.ErrDuplicateCustomer
		}
		if isUniqueViolation(err, "customers_email") || isUniqueViolation(err, "customers_phone") {
			return domainErrors.NewBusinessRuleViolation(
				"CONTACT_ALREADY_IN_USE",
				"email or phone is already registered to another customer",
				map[string]interface{}{"email": customer.Email()},
			)
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	customer.SetID(id)
	return nil
}

func (r *CustomerRepository) update(ctx context.Context, customer *entities.Customer) error {
	q := r.getQuerier(ctx)

	query := `
		UPDATE customers SET
			first_name = $2,
			last_name = $3,
			email = $4,
			phone = $5,
			address = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		customer.ID(),
		customer.FirstName(),
		customer.LastName(),
		customer.Email(),
		customer.Phone(),
		customer.Address(),
		string(customer.Status()),
		customer.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "customers_email") || isUniqueViolation(err, "customers_phone") {
			return domainErrors.NewBusinessRuleViolation(
				"CONTACT_ALREADY_IN_USE",
				"email or phone is already registered to another customer",
				map[string]interface{}{"email": customer.Email()},
			)
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrCustomerNotFound
	}
	return nil
}

const customerColumns = `id, user_id, first_name, last_name, email, phone, address, status, created_at, updated_at`

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*entities.Customer, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(q.QueryRow(ctx, query, id))
}

func (r *CustomerRepository) FindByUserID(ctx context.Context, userID string) (*entities.Customer, error) {
	q := r.getQuerier(ctx)
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`
	return scanCustomer(q.QueryRow(ctx, query, userID))
}

func (r *CustomerRepository) ResolveCustomerID(ctx context.Context, userID string) (int64, error) {
	q := r.getQuerier(ctx)

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM customers WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrCustomerNotFound
		}
		return 0, fmt.Errorf("failed to resolve customer id: %w", err)
	}
	return id, nil
}

func (r *CustomerRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	q := r.getQuerier(ctx)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

func (r *CustomerRepository) List(ctx context.Context, offset, limit int) ([]*entities.Customer, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id ASC OFFSET $1 LIMIT $2`
	rows, err := q.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*entities.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

func scanCustomer(row pgx.Row) (*entities.Customer, error) {
	var id int64
	var userID, firstName, lastName, email, statusStr string
	var phone, address *string
	var createdAt, updatedAt time.Time

	err := row.Scan(&id, &userID, &firstName, &lastName, &email, &phone, &address, &statusStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}

	return entities.ReconstructCustomer(
		id, userID, firstName, lastName, email,
		phone, address,
		entities.CustomerStatus(statusStr),
		createdAt, updatedAt,
	), nil
}
