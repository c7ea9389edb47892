// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/products/internal/errors"
	"github.com/abgdnv/products/internal/store"
	"github.com/abgdnv/products/pkg/messaging"
	"github.com/abgdnv/products/pkg/messaging/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// FindAll returns products in creation order; a zero limit means all of them.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context, offset, limit int32) ([]ProductDto, error)

	// Create adds a new product to the system.
	// Returns ErrInvalidProduct if the store rejects it.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update assigns the attributes named in fields and saves the product.
	// Unknown names and the id are ignored.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, fields map[string]any) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) error

	// Ready reports whether the backing store is reachable.
	Ready(ctx context.Context) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	updater    *Updater
	publisher  messaging.Publisher
	logger     *slog.Logger
	changes    metric.Int64Counter
}

var _ ProductService = (*Service)(nil)

// NewService creates a new instance of ProductService with the provided repository.
// Change events go to publisher; publishing failures are only logged.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("products-service")
	changes, err := meter.Int64Counter("product_changes", metric.WithDescription("Total number of product creates, updates and deletes"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_changes counter: %v", err))
	}
	return &Service{
		repository: repo,
		updater:    NewUpdater(repo),
		publisher:  publisher,
		logger:     logger.With("component", "service"),
		changes:    changes,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name string `json:"name"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDto(product), nil
}

// FindAll retrieves a list of products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context, offset, limit int32) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i := range products {
		productDTOs[i] = *toDto(&products[i])
	}
	return productDTOs, nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	created, err := s.repository.Create(ctx, product.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.publish(ctx, events.ProductCreated(created.ID, created.Name, created.Category, created.UpdatedAt))
	return toDto(created), nil
}

// Update looks the product up, merges fields into it and saves it.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (*ProductDto, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.updater.Apply(ctx, product, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	s.publish(ctx, events.ProductUpdated(updated.ID, updated.Name, updated.Category, updated.UpdatedAt))
	return toDto(updated), nil
}

// DeleteByID looks the product up and deletes it.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteByID(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	s.publish(ctx, events.ProductDeleted(product.ID, product.Name, product.Category, time.Now()))
	return nil
}

// Ready pings the store.
func (s *Service) Ready(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// find resolves a raw id. An id that is not a UUID cannot name a product and is reported as not found.
func (s *Service) find(ctx context.Context, id string) (*store.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, perrors.NewNotFound(id)
	}
	product, err := s.repository.FindByID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return product, nil
}

// publish counts the change and hands its event to the publisher. Publishing failures are only logged.
func (s *Service) publish(ctx context.Context, event events.ProductChangedEvent) {
	s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("subject", event.Subject())))

	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event.Carrier = carrier
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:        product.ID.String(),
		Name:      product.Name,
		Category:  product.Category,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
