package service

import (
	"context"

	"github.com/abgdnv/products/internal/store"
	"github.com/abgdnv/products/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*store.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) FindAll(ctx context.Context, offset, limit int32) ([]store.Product, error) {
	args := m.Called(ctx, offset, limit)
	if p := args.Get(0); p != nil {
		return p.([]store.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Create(ctx context.Context, name string) (*store.Product, error) {
	args := m.Called(ctx, name)
	if p := args.Get(0); p != nil {
		return p.(*store.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Save(ctx context.Context, p *store.Product) (*store.Product, error) {
	args := m.Called(ctx, p)
	if saved := args.Get(0); saved != nil {
		return saved.(*store.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	return m.Called(ctx, event).Error(0)
}

// recordingSaver counts saves and returns what it was given.
type recordingSaver struct {
	saves int
	err   error
}

func (r *recordingSaver) Save(_ context.Context, p *store.Product) (*store.Product, error) {
	r.saves++
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}
