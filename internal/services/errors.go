package services

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when registering a username that exists in any letter case.
	ErrUsernameTaken = errors.New("username already exists")
	ErrUserNotFound  = errors.New("user not found")

	ErrListingNotFound = errors.New("listing not found")
	// ErrForbidden is returned when a session acts on a listing it does not own.
	ErrForbidden = errors.New("not allowed to modify this listing")
)

// newID returns a time-ordered random identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
