package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ModerationHandler handles the administrator's listing views and decisions.
type ModerationHandler struct {
	listings   services.ListingServiceProvider
	moderation services.ModerationServiceProvider
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(listings services.ListingServiceProvider, moderation services.ModerationServiceProvider) *ModerationHandler {
	return &ModerationHandler{listings: listings, moderation: moderation}
}

// GetAll lists listings of every status, filtered by ?status= and ?userId=.
func (h *ModerationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	status, ok := parseStatus(r.URL.Query().Get("status"))
	if !ok {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	var listings []models.Product
	var err error
	if userID := r.URL.Query().Get("userId"); userID != "" {
		listings, err = h.listings.ListMine(r.Context(), models.Session{User: models.User{ID: userID}}, status)
	} else if status != nil {
		listings, err = h.listings.ListByStatus(r.Context(), *status)
	} else {
		listings, err = h.listings.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, err, "Failed to retrieve listings")
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// Approve publishes a listing.
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.moderation.Approve(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to approve listing")
		return
	}
	log.Info().Str("listing_id", id).Msg("Listing approved")
	writeJSON(w, http.StatusOK, listing)
}

// Reject hides a listing. The body {"reason": "..."} is optional.
func (h *ModerationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	listing, err := h.moderation.Reject(r.Context(), id, payload.Reason)
	if err != nil {
		writeError(w, err, "Failed to reject listing")
		return
	}
	log.Info().Str("listing_id", id).Str("reason", payload.Reason).Msg("Listing rejected")
	writeJSON(w, http.StatusOK, listing)
}
