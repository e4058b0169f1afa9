package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/users", h.listUsers)
	router.Post("/users", h.createUser)
	router.Get("/users/{id}", h.getUser)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"success": true, "user": user})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if ve, ok := validation.As(err); ok {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": ve.Message, "field": ve.Field})
		return
	}
	switch {
	case errors.Is(err, ErrUserNotFound):
		respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
	case errors.Is(err, ErrEmailTaken):
		respond(w, http.StatusConflict, map[string]any{"success": false, "message": "Email already registered"})
	default:
		h.logger.Error("user request failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
