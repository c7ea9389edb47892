package store

import (
	"context"
	"sync"
	"time"

	perrors "github.com/abgdnv/products/internal/errors"
	"github.com/google/uuid"
)

// MemoryStore implements ProductStore using an in-memory map.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
	order    []uuid.UUID // creation order
	now      func() time.Time
}

var _ ProductStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory ProductStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[uuid.UUID]Product),
		now:      time.Now,
	}
}

// FindByID retrieves a product by its ID.
func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.NewNotFound(id.String())
	}
	return clone(p), nil
}

// FindAll retrieves products in creation order.
func (s *MemoryStore) FindAll(_ context.Context, offset, limit int32) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order
	offset = max(offset, 0)
	if int(offset) >= len(ids) {
		return []Product{}, nil
	}
	ids = ids[offset:]
	if limit > 0 && int(limit) < len(ids) {
		ids = ids[:limit]
	}

	products := make([]Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, *clone(s.products[id]))
	}
	return products, nil
}

// Create adds a new product.
func (s *MemoryStore) Create(_ context.Context, name string) (*Product, error) {
	now := s.now().UTC()
	p := Product{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	return clone(p), nil
}

// Save replaces the stored attributes of p.
func (s *MemoryStore) Save(_ context.Context, p *Product) (*Product, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[p.ID]
	if !ok {
		return nil, perrors.NewNotFound(p.ID.String())
	}
	stored.Name = p.Name
	stored.Category = clone(*p).Category
	stored.UpdatedAt = s.now().UTC()
	s.products[p.ID] = stored
	return clone(stored), nil
}

// DeleteByID deletes a product by its ID.
func (s *MemoryStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return perrors.NewNotFound(id.String())
	}
	delete(s.products, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// clone copies p so callers never share the stored category pointer.
func clone(p Product) *Product {
	if p.Category != nil {
		category := *p.Category
		p.Category = &category
	}
	return &p
}
