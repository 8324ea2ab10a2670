package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/baraholka-be/internal/services"
)

// UserHandler handles the administrator's user directory views.
type UserHandler struct {
	service services.UserServiceProvider
	now     func() time.Time
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service, now: time.Now}
}

// GetAll lists users, filtered by ?search= and ?filter=last24h.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.UserFilter{Search: query.Get("search")}
	switch query.Get("filter") {
	case "", "all":
	case "last24h":
		filter.Since = h.now().Add(-24 * time.Hour).UnixMilli()
	default:
		http.Error(w, "Unknown filter", http.StatusBadRequest)
		return
	}

	users, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to retrieve users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to retrieve user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
