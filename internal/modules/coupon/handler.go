package coupon

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Handler exposes coupon HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the public coupon routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/coupons/validate", h.validate) // POST /api/coupons/validate
}

// RegisterAdminRoutes mounts coupon administration under an authenticated router.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/coupons", func(r chi.Router) {
		r.Get("/", h.listCoupons)
		r.Post("/", h.createCoupon)
		r.Get("/{code}", h.getCoupon)
		r.Patch("/{code}/active", h.setActive)
	})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.Validate(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	body := map[string]any{
		"success": true,
		"valid":   res.Valid,
	}
	if res.Valid {
		body["coupon"] = res.Coupon
		body["discount"] = res.Discount
		body["message"] = "Coupon applied successfully"
	} else {
		body["reason"] = res.Reason
		body["message"] = res.Message
	}
	respond(w, http.StatusOK, body)
}

func (h *Handler) listCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.ListCoupons(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "coupons": coupons})
}

func (h *Handler) createCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := h.service.CreateCoupon(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"success": true, "coupon": c})
}

func (h *Handler) getCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCoupon(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "coupon": c})
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := h.service.SetActive(r.Context(), chi.URLParam(r, "code"), req.IsActive)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "coupon": c})
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

	switch {
	case errors.Is(err, ErrCouponNotFound):
		respondError(w, http.StatusNotFound, "Coupon not found")
	case errors.Is(err, ErrCouponExists):
		respondError(w, http.StatusConflict, "Coupon code already exists")
	default:
		h.logger.Error("coupon request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]any{"success": false, "message": message})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
