package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Patch("/products/{id}/stock", h.setStock)   // PATCH /api/admin/products/{id}/stock
	r.Get("/inventory/low-stock", h.listLowStock) // GET   /api/admin/inventory/low-stock
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}
	level, err := h.service.SetStock(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		if ve, ok := validation.As(err); ok {
			respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": ve.Message, "field": ve.Field})
			return
		}
		if errors.Is(err, ErrProductNotFound) {
			respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "Product not found"})
			return
		}
		h.logger.Error("set stock failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "stock": level})
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("low stock query failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "products": levels})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
