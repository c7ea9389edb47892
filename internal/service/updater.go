package service

import (
	"context"

	"github.com/abgdnv/products/internal/store"
)

// RecordSaver persists a product record.
type RecordSaver interface {
	Save(ctx context.Context, p *store.Product) (*store.Product, error)
}

// Updater merges a field-set into an existing product and persists the result.
type Updater struct {
	saver RecordSaver
}

// NewUpdater creates an Updater that writes through saver.
func NewUpdater(saver RecordSaver) *Updater {
	return &Updater{saver: saver}
}

// Apply assigns every entry of fields that names a product attribute, skipping the id
// and any name the product does not have, then saves p exactly once, even when nothing
// changed. A value that cannot be assigned or a store rejection is returned as is.
func (u *Updater) Apply(ctx context.Context, p *store.Product, fields map[string]any) (*store.Product, error) {
	for name, value := range fields {
		if name == store.IDField {
			continue
		}
		assign, ok := store.LookupAttribute(name)
		if !ok {
			continue
		}
		if err := assign(p, value); err != nil {
			return nil, err
		}
	}
	return u.saver.Save(ctx, p)
}
