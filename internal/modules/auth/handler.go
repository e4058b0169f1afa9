package auth

import (
	"encoding/json"
	"errors"
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

// RegisterAdminRoutes mounts the login endpoint; it must stay outside RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/login", h.login) // POST /api/admin/login
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Email and password are required"})
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password"})
	case errors.Is(err, ErrNotAdmin):
		respond(w, http.StatusForbidden, map[string]any{"success": false, "message": "Admin access required"})
	case err != nil:
		h.logger.Error("login failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"})
	default:
		respond(w, http.StatusOK, map[string]any{
			"success":   true,
			"token":     res.Token,
			"expiresAt": res.ExpiresAt,
			"user":      res.User,
		})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
