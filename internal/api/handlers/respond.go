package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/baraholka-be/internal/auth"
	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrListingNotFound), errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs unexpected failures and answers with the mapped status.
func writeError(w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)
		http.Error(w, msg, status)
		return
	}
	http.Error(w, err.Error(), status)
}

// sessionFrom returns the session carried by the request's token.
func sessionFrom(r *http.Request) (models.Session, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return models.Session{}, false
	}
	return claims.Session(), true
}

func parseStatus(raw string) (*models.Status, bool) {
	if raw == "" {
		return nil, true
	}
	status := models.Status(raw)
	if !status.Valid() {
		return nil, false
	}
	return &status, true
}
