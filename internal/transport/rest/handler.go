// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/products/internal/errors"
	"github.com/abgdnv/products/internal/service"
	"github.com/abgdnv/products/internal/store"
	"github.com/abgdnv/products/pkg/web"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product resource and the probes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Patch("/", h.Update)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.Readiness)
}

// FindAll retrieves the product list, optionally paginated by limit and offset.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	limit, err := web.OptionalQueryInt32(r, "limit", 0, web.Gt(0))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Invalid pagination", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := web.OptionalQueryInt32(r, "offset", 0, web.Gte(0))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Invalid pagination", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find all products", "limit", limit, "offset", offset)
	list, err := h.service.FindAll(r.Context(), offset, limit)
	if err != nil {
		h.respondServiceError(w, r, mLogger, "Error retrieving product list", err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id := chi.URLParam(r, "id")

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, "Error retrieving product", err, "ID", id)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new product from the name parameter.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	params, ok := h.decodeParams(w, r, mLogger)
	if !ok {
		return
	}

	var draft store.Product
	if value, found := params["name"]; found {
		if err := store.SetName(&draft, value); err != nil {
			h.respondServiceError(w, r, mLogger, "Error reading product name", err)
			return
		}
	}

	mLogger.DebugContext(r.Context(), "Received request to create product", "name", draft.Name)
	created, err := h.service.Create(r.Context(), service.ProductCreateDto{Name: draft.Name})
	if err != nil {
		h.respondServiceError(w, r, mLogger, "Error creating product", err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update assigns the request parameters to the product's attributes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id := chi.URLParam(r, "id")
	params, ok := h.decodeParams(w, r, mLogger)
	if !ok {
		return
	}
	params[store.IDField] = id

	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id, "fields", len(params))
	updated, err := h.service.Update(r.Context(), id, params)
	if err != nil {
		h.respondServiceError(w, r, mLogger, "Error updating product", err, "ID", id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id := chi.URLParam(r, "id")

	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, mLogger, "Error deleting product", err, "ID", id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Readiness reports 503 until the store answers.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ready(r.Context()); err != nil {
		mLogger := h.logger
		mLogger.WarnContext(r.Context(), "Store is not ready", "error", err)
		web.RespondError(w, mLogger, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) decodeParams(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (map[string]any, bool) {
	params, err := web.DecodeParams(r)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request parameters", "error", err)
		if errors.Is(err, web.ErrBodyTooLarge) {
			web.RespondError(w, mLogger, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return params, true
}

// respondServiceError maps service errors onto statuses: not found 404, validation 400, anything else 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, msg string, err error, attrs ...any) {
	var notFound *perrors.NotFoundError
	var invalid *perrors.ValidationError
	switch {
	case errors.As(err, &notFound):
		mLogger.WarnContext(r.Context(), "Product not found", append(attrs, "error", err)...)
		web.RespondError(w, mLogger, http.StatusNotFound, notFound.Error())
	case errors.As(err, &invalid):
		mLogger.WarnContext(r.Context(), "Validation errors occurred", append(attrs, "errors", invalid.Fields)...)
		web.RespondValidationErrors(w, mLogger, invalid.Fields)
	default:
		mLogger.ErrorContext(r.Context(), msg, append(attrs, "error", err)...)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Internal Server Error")
	}
}
