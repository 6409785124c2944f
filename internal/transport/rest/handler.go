// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/internal/service"
	"github.com/abgdnv/productcatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	msgNameNotProvided = "'name' data has not been provided."
	msgNameTooLong     = "'name' must be at most 128 characters."
	msgInvalidBody     = "Invalid request body."
	msgInternalError   = "Internal server error."
	msgNotReady        = "Service unavailable."
	msgItemUpdated     = "Item updated."
)

// maxBodyBytes caps request bodies; a product only carries a name.
const maxBodyBytes = 1 << 16

// Handler serves the product REST endpoints and the liveness and readiness probes.
type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// updatedProduct is the PUT response: the serialized product plus a message.
type updatedProduct struct {
	service.ProductDto
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// NewHandler creates a new Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
// The id segment must be a digit string; anything else falls through to the router's 404.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.FindAll)
	r.Post("/product", h.Create)

	r.Get("/product/{id:[0-9]+}", h.FindByID)
	r.Put("/product/{id:[0-9]+}", h.Update)
	r.Delete("/product/{id:[0-9]+}", h.DeleteByID)

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondFault(w, r, "Error retrieving product list", err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.respondNotFound(w, r, id)
			return
		}
		h.respondFault(w, r, "Error retrieving product", err, "ID", id)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if !h.decodeAndValidate(w, r, &productCreateDto) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		if errors.Is(err, perrors.ErrNameNotProvided) {
			web.RespondText(w, http.StatusBadRequest, msgNameNotProvided)
			return
		}
		h.respondFault(w, r, "Error creating product", err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
}

// Update renames an existing product. The body is validated before the lookup.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var productUpdateDto service.ProductUpdateDto
	if !h.decodeAndValidate(w, r, &productUpdateDto) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrProductNotFound):
			h.respondNotFound(w, r, id)
		case errors.Is(err, perrors.ErrNameNotProvided):
			web.RespondText(w, http.StatusBadRequest, msgNameNotProvided)
		default:
			h.respondFault(w, r, "Error updating product", err, "ID", id)
		}
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updatedProduct{ProductDto: *updated, Message: msgItemUpdated})
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.respondNotFound(w, r, id)
			return
		}
		h.respondFault(w, r, "Error deleting product", err, "ID", id)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, h.logger, http.StatusOK, messageResponse{Message: fmt.Sprintf("Product with id %d deleted.", id)})
}

// HealthCheck is a simple liveness endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck answers 200 when the store is reachable, 503 otherwise.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ready(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		web.RespondText(w, http.StatusServiceUnavailable, msgNotReady)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
// An empty body counts as a missing name.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.logger.DebugContext(r.Context(), "Empty request body")
			web.RespondText(w, http.StatusBadRequest, msgNameNotProvided)
			return false
		}
		h.logger.DebugContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondText(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.logger.DebugContext(r.Context(), "Trailing data after request body", "error", err)
		web.RespondText(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				h.logger.DebugContext(r.Context(), "Validation error occurred", "field", fieldErr.Field(), "rule", fieldErr.Tag())
				if fieldErr.Tag() == "max" {
					web.RespondText(w, http.StatusBadRequest, msgNameTooLong)
					return false
				}
			}
			web.RespondText(w, http.StatusBadRequest, msgNameNotProvided)
			return false
		}
		h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondText(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func (h *Handler) respondNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
	web.RespondText(w, http.StatusNotFound, fmt.Sprintf("Product with id %d not found.", id))
}

// respondFault logs err with full context and answers with a generic 500.
func (h *Handler) respondFault(w http.ResponseWriter, r *http.Request, msg string, err error, args ...any) {
	args = append(args, "error", err)
	var storeErr *perrors.StoreError
	if errors.As(err, &storeErr) {
		args = append(args, "store_op", storeErr.Op)
	}
	h.logger.ErrorContext(r.Context(), msg, args...)
	web.RespondText(w, http.StatusInternalServerError, msgInternalError)
}
