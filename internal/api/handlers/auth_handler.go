package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/isdelr/baraholka-be/internal/auth"
	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MinPasswordLength is the shortest password the registration form accepts.
const MinPasswordLength = 6

// AuthHandler handles registration, login and session lookup.
type AuthHandler struct {
	service       services.UserServiceProvider
	issuer        *auth.Issuer
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, issuer *auth.Issuer, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer, secureCookies: secureCookies}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionResponse is returned after a successful login or registration.
type SessionResponse struct {
	Token   string      `json:"token,omitempty"`
	User    models.User `json:"user"`
	IsAdmin bool        `json:"isAdmin"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(payload.Username)
	switch {
	case username == "":
		http.Error(w, "Username is required", http.StatusBadRequest)
		return
	case payload.Password != payload.ConfirmPassword:
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	case len(payload.Password) < MinPasswordLength:
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	session, err := h.service.Register(r.Context(), username, payload.Password)
	if err != nil {
		writeError(w, err, "Failed to register user")
		return
	}
	log.Info().Str("user_id", session.User.ID).Msg("User registered")
	h.issue(w, http.StatusCreated, session)
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), strings.TrimSpace(payload.Username), payload.Password)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		writeError(w, err, "Failed to log in")
		return
	}
	h.issue(w, http.StatusOK, session)
}

// Logout clears the session marker and the token cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		writeError(w, err, "Failed to log out")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetMe retrieves the currently authenticated user from the token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), session.User.ID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", session.User.ID).Msg("User from token not found in storage")
		writeError(w, err, "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{User: user, IsAdmin: h.service.IsAdmin(user)})
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, session models.Session) {
	token, err := h.issuer.GenerateJWT(session)
	if err != nil {
		log.Error().Err(err).Str("user_id", session.User.ID).Msg("Failed to generate JWT")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.issuer.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	writeJSON(w, status, SessionResponse{Token: token, User: session.User, IsAdmin: session.IsAdmin})
}
