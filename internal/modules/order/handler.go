package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/modules/auth"
	"github.com/mkj2903/finalshowmo/internal/modules/coupon"
	"github.com/mkj2903/finalshowmo/internal/modules/inventory"
	"github.com/mkj2903/finalshowmo/internal/modules/payment"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.placeOrder)                 // POST /api/orders
	r.Get("/orders/{id}", h.getOrder)               // GET  /api/orders/{id}
	r.Get("/orders/track/{orderId}", h.trackOrder)  // GET  /api/orders/track/{orderId}?email=
	r.Get("/orders/user/{email}", h.listUserOrders) // GET  /api/orders/user/{email}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.listOrders)                         // GET  /api/admin/orders?status=&paymentStatus=&limit=
	r.Get("/orders/{id}", h.getOrder)                      // GET  /api/admin/orders/{id}
	r.Put("/orders/{id}/status", h.updateStatus)           // PUT  /api/admin/orders/{id}/status
	r.Post("/orders/{id}/verify-payment", h.verifyPayment) // POST /api/admin/orders/{id}/verify-payment
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order placed successfully",
		"order":   o,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "order": o})
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.TrackOrder(r.Context(), chi.URLParam(r, "orderId"), r.URL.Query().Get("email"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "order": o})
}

func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrdersByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	orders, err := h.service.ListOrders(r.Context(), ListFilter{
		Status:        Status(strings.ToLower(q.Get("status"))),
		PaymentStatus: PaymentStatus(strings.ToLower(q.Get("paymentStatus"))),
		Limit:         limit,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "count": len(orders), "orders": orders})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status := Status(strings.ToLower(strings.TrimSpace(req.Status)))
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "message": "Order status updated", "order": o})
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	reviewer := "admin"
	if c, ok := auth.ClaimsFrom(r.Context()); ok {
		reviewer = c.Email
	}
	decision := payment.Decision(strings.ToLower(strings.TrimSpace(req.Decision)))
	o, err := h.service.VerifyPayment(r.Context(), chi.URLParam(r, "id"), decision, req.Note, reviewer)
	if err != nil {
		h.fail(w, err)
		return
	}
	msg := "Payment verified"
	if decision == payment.DecisionReject {
		msg = "Payment rejected"
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "message": msg, "order": o})
}

// fail maps service errors onto the response envelope.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var rejected *CouponRejectedError
	if ve, ok := validation.As(err); ok {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": ve.Message, "field": ve.Field})
		return
	}
	switch {
	case errors.As(err, &rejected):
		respond(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false, "message": rejected.Message, "reason": rejected.Reason,
		})
	case errors.Is(err, ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrPaymentAlreadyReviewed):
		respondError(w, http.StatusConflict, "Payment has already been reviewed")
	case errors.Is(err, inventory.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "Insufficient stock to fulfil this order")
	case errors.Is(err, coupon.ErrCouponExhausted):
		respondError(w, http.StatusConflict, "Coupon usage limit has been reached")
	case errors.Is(err, inventory.ErrProductNotFound):
		respondError(w, http.StatusConflict, "A product in this order no longer exists")
	case errors.Is(err, ErrInvalidTransition):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("order request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]any{"success": false, "message": msg})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
