package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vmorozov/customer-hub/internal/common/db"
	"github.com/vmorozov/customer-hub/internal/customer/domain"
)

var ErrCustomerNotFound = errors.New("customer not found")

type Repository interface {
	List(ctx context.Context, offset, limit int, search string) ([]domain.Customer, error)
	Count(ctx context.Context, search string) (int64, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Customer, error)
	Create(ctx context.Context, customer domain.Customer) error
	Update(ctx context.Context, id domain.ID, fields domain.Fields, updatedAt time.Time) (domain.Customer, error)
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// searchPattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped.
func searchPattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}

func (r *PgRepository) List(ctx context.Context, offset, limit int, search string) ([]domain.Customer, error) {
	start := time.Now()

	// Secondary sort on id keeps pages deterministic when created_at ties.
	query := `SELECT id, name, address, phone, created_at, updated_at
		 FROM customers
		 ORDER BY created_at DESC, id DESC
		 OFFSET $1 LIMIT $2`
	args := []any{offset, limit}

	if search != "" {
		query = `SELECT id, name, address, phone, created_at, updated_at
			 FROM customers
			 WHERE name ILIKE $1 OR phone ILIKE $1
			 ORDER BY created_at DESC, id DESC
			 OFFSET $2 LIMIT $3`
		args = []any{searchPattern(search), offset, limit}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, ErrCustomerNotFound, "list customers", start)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, db.HandleQueryError(err, ErrCustomerNotFound, "list customers", start)
		}
		customers = append(customers, c)
	}

	if rows.Err() != nil {
		return nil, db.HandleQueryError(rows.Err(), ErrCustomerNotFound, "list customers", start)
	}

	db.MeasureQueryDuration("list customers", start)
	return customers, nil
}

func (r *PgRepository) Count(ctx context.Context, search string) (int64, error) {
	start := time.Now()

	query := `SELECT COUNT(*) FROM customers`
	args := []any{}

	if search != "" {
		query = `SELECT COUNT(*) FROM customers WHERE name ILIKE $1 OR phone ILIKE $1`
		args = []any{searchPattern(search)}
	}

	var total int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		return 0, db.HandleQueryError(err, ErrCustomerNotFound, "count customers", start)
	}

	db.MeasureQueryDuration("count customers", start)
	return total, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Customer, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, address, phone, created_at, updated_at
		 FROM customers WHERE id = $1`,
		string(id),
	)

	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			db.MeasureQueryDuration("find customer by id", start)
			return domain.Customer{}, ErrCustomerNotFound
		}
		return domain.Customer{}, db.HandleQueryError(err, ErrCustomerNotFound, "find customer by id", start)
	}

	db.MeasureQueryDuration("find customer by id", start)
	return c, nil
}

func (r *PgRepository) Create(ctx context.Context, customer domain.Customer) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO customers (id, name, address, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(customer.ID),
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	return db.HandleExecError(err, "create customer", start)
}

// Update replaces all three mutable fields. Concurrent updates are
// last-writer-wins; there is no version column.
func (r *PgRepository) Update(ctx context.Context, id domain.ID, fields domain.Fields, updatedAt time.Time) (domain.Customer, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE customers
		 SET name = $2, address = $3, phone = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING id, name, address, phone, created_at, updated_at`,
		string(id),
		fields.Name,
		fields.Address,
		fields.Phone,
		updatedAt,
	)

	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			db.MeasureQueryDuration("update customer", start)
			return domain.Customer{}, ErrCustomerNotFound
		}
		return domain.Customer{}, db.HandleQueryError(err, ErrCustomerNotFound, "update customer", start)
	}

	db.MeasureQueryDuration("update customer", start)
	return c, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, string(id))
	if err != nil {
		return db.HandleExecError(err, "delete customer", start)
	}
	if tag.RowsAffected() == 0 {
		db.MeasureQueryDuration("delete customer", start)
		return ErrCustomerNotFound
	}
	return db.HandleExecError(nil, "delete customer", start)
}
