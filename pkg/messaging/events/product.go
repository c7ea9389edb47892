// Package events contains the payloads published when products change.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/products/pkg/messaging"
	"github.com/google/uuid"
)

// ProductChangedEvent carries a snapshot of a product after a create, update or delete.
// Carrier holds the trace context of the request that caused the change.
type ProductChangedEvent struct {
	subject    string
	Carrier    map[string]string `json:"carrier,omitempty"`
	ProductID  uuid.UUID         `json:"product_id"`
	Name       string            `json:"name"`
	Category   *string           `json:"category"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func newEvent(subject string, id uuid.UUID, name string, category *string, at time.Time) ProductChangedEvent {
	return ProductChangedEvent{subject: subject, ProductID: id, Name: name, Category: category, OccurredAt: at.UTC()}
}

func ProductCreated(id uuid.UUID, name string, category *string, at time.Time) ProductChangedEvent {
	return newEvent(messaging.ProductsCreatedSubject, id, name, category, at)
}

func ProductUpdated(id uuid.UUID, name string, category *string, at time.Time) ProductChangedEvent {
	return newEvent(messaging.ProductsUpdatedSubject, id, name, category, at)
}

func ProductDeleted(id uuid.UUID, name string, category *string, at time.Time) ProductChangedEvent {
	return newEvent(messaging.ProductsDeletedSubject, id, name, category, at)
}

func (e ProductChangedEvent) Subject() string {
	return e.subject
}

func (e ProductChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
