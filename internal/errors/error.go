// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrProductNotFound matches every *NotFoundError.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct matches every *ValidationError.
	ErrInvalidProduct = errors.New("invalid product")
)

// NotFoundError reports a lookup for an id that has no product.
type NotFoundError struct {
	ID string
}

func NewNotFound(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Couldn't find Product with 'id'=%s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ValidationError is returned by the store when a product cannot be persisted.
// Fields maps an attribute name to the rule it failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+": "+rule)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidProduct
}
