package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", h.stats) // GET /api/admin/dashboard
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "stats": st})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
