package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/products/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	productColumns = `id, name, category, created_at, updated_at`

	findByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	// LIMIT NULL means no limit
	findAllQuery = `SELECT ` + productColumns + ` FROM products
		ORDER BY created_at, id
		LIMIT NULLIF($1::int, 0) OFFSET $2::int`

	createQuery = `INSERT INTO products (name) VALUES ($1) RETURNING ` + productColumns

	saveQuery = `UPDATE products SET name = $2, category = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	deleteQuery = `DELETE FROM products WHERE id = $1`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

var _ ProductStore = (*PgStore)(nil)

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves a product by its unique identifier.
// Returns a *NotFoundError if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := p.queryOne(ctx, findByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.NewNotFound(id.String())
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves products in creation order with optional pagination.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context, offset, limit int32) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Product])
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// Create adds a new product to the system.
func (p *PgStore) Create(ctx context.Context, name string) (*Product, error) {
	if err := Validate(&Product{Name: name}); err != nil {
		return nil, err
	}
	product, err := p.queryOne(ctx, createQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Save writes the attributes of pr and bumps its updated_at.
// Returns a *NotFoundError if the row was deleted in the meantime.
func (p *PgStore) Save(ctx context.Context, pr *Product) (*Product, error) {
	if err := Validate(pr); err != nil {
		return nil, err
	}
	product, err := p.queryOne(ctx, saveQuery, pr.ID, pr.Name, pr.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.NewNotFound(pr.ID.String())
		}
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns a *NotFoundError if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.NewNotFound(id.String())
	}
	return nil
}

// Ping checks the database connection.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) queryOne(ctx context.Context, sql string, args ...any) (*Product, error) {
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[Product])
}
