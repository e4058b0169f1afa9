package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.listActiveProducts)    // GET /api/products?category=&featured=&q=&limit=
	r.Get("/products/{id}", h.getActiveProduct) // GET /api/products/{id}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/products", h.listAllProducts)
	r.Post("/products", h.createProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deactivateProduct)
}

func (h *Handler) listActiveProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) listAllProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("active") == "true")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	products, err := h.service.ListProducts(r.Context(), ListFilter{
		Category:   q.Get("category"),
		Featured:   q.Get("featured") == "true",
		Search:     q.Get("q"),
		ActiveOnly: activeOnly,
		Limit:      limit,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "products": products})
}

func (h *Handler) getActiveProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err == nil && !p.IsActive {
		err = ErrProductNotFound
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "product": p})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"success": true, "product": p})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "product": p})
}

func (h *Handler) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "message": "Product deactivated"})
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if ve, ok := validation.As(err); ok {
		respond(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": ve.Message,
			"field":   ve.Field,
		})
		return
	}
	if errors.Is(err, ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.logger.Error("catalog request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]any{"success": false, "message": message})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
