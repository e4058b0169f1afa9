package payment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Handler exposes payment HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/payments/upi", h.intent) // GET /api/payments/upi?amount=&orderId=
	r.Get("/payments/upi/qr", h.qr)  // GET /api/payments/upi/qr?amount=&orderId=&size=
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders/{id}/payment-reviews", h.listReviews)
}

func (h *Handler) intent(w http.ResponseWriter, r *http.Request) {
	amount, _ := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	in, err := h.service.Intent(amount, r.URL.Query().Get("orderId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "upi": in})
}

func (h *Handler) qr(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, _ := strconv.ParseInt(q.Get("amount"), 10, 64)
	size, _ := strconv.Atoi(q.Get("size"))
	png, err := h.service.QR(amount, q.Get("orderId"), size)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "reviews": reviews})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if ve, ok := validation.As(err); ok {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": ve.Message, "field": ve.Field})
		return
	}
	h.logger.Error("payment request failed", zap.Error(err))
	respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
