package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ListingHandler handles HTTP requests for the public catalog and sellers' own listings.
type ListingHandler struct {
	service services.ListingServiceProvider
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service services.ListingServiceProvider) *ListingHandler {
	return &ListingHandler{service: service}
}

// GetActive returns every publicly visible listing, newest first.
func (h *ListingHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListActive(r.Context())
	if err != nil {
		writeError(w, err, "Failed to retrieve listings")
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// Get returns a single active listing. Listings awaiting or failing
// moderation are not public.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to retrieve listing")
		return
	}
	if listing.Status != models.StatusActive {
		if session, ok := sessionFrom(r); !ok || (session.User.ID != listing.UserID && !session.IsAdmin) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
	}
	writeJSON(w, http.StatusOK, listing)
}

// GetCategories returns the category tree.
func (h *ListingHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Categories)
}

// GetCities returns the selectable cities.
func (h *ListingHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Cities)
}

// Create submits a new listing for moderation on behalf of the session user.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}

	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	input.UserID = session.User.ID
	if err := input.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	listing, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, err, "Failed to create listing")
		return
	}
	log.Info().Str("listing_id", listing.ID).Str("user_id", listing.UserID).Msg("Listing submitted")
	writeJSON(w, http.StatusCreated, listing)
}

// Update applies an owner's edit.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}

	var update models.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := update.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	listing, err := h.service.EditOwned(r.Context(), session, id, update)
	if err != nil {
		writeError(w, err, "Failed to update listing")
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Delete removes a listing owned by the session user, or any listing for an administrator.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteOwned(r.Context(), session, id); err != nil {
		writeError(w, err, "Failed to delete listing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMine returns the session user's listings, optionally filtered by ?status=.
func (h *ListingHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}
	status, ok := parseStatus(r.URL.Query().Get("status"))
	if !ok {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	listings, err := h.service.ListMine(r.Context(), session, status)
	if err != nil {
		writeError(w, err, "Failed to retrieve listings")
		return
	}
	writeJSON(w, http.StatusOK, listings)
}
