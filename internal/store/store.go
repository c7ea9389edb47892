// Package store provides the product record and its storage implementations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is the persisted product record. The store assigns ID and the timestamps;
// Name and Category are the attributes callers may change (see LookupAttribute).
type Product struct {
	ID        uuid.UUID
	Name      string  `attr:"name" validate:"utf8text,max=255"`
	Category  *string `attr:"category" validate:"omitempty,utf8text,max=255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns a *NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns products in creation order. A zero limit returns every product from offset on.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context, offset, limit int32) ([]Product, error)

	// Create adds a new product with the given name and returns it with its assigned ID.
	// Returns a *ValidationError if the product is not valid.
	Create(ctx context.Context, name string) (*Product, error)

	// Save persists every attribute of p and returns the stored record.
	// Returns a *NotFoundError if the product no longer exists,
	// or a *ValidationError if it is not valid.
	Save(ctx context.Context, p *Product) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns a *NotFoundError if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
}
