package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks attempts against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, attempt string) bool
}

// PlainPasswords stores passwords verbatim and compares them exactly.
// Existing user collections hold plaintext passwords; do not use it outside demonstrations.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) { return password, nil }

func (PlainPasswords) Matches(stored, attempt string) bool { return stored == attempt }

// BcryptPasswords stores salted bcrypt hashes.
type BcryptPasswords struct {
	Cost int
}

// Hash hashes password with the configured cost (bcrypt.DefaultCost when zero).
func (b BcryptPasswords) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptPasswords) Matches(stored, attempt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempt)) == nil
}

// NewPasswordHasher returns the hasher for a PASSWORD_SCHEME value.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case "", "plain":
		return PlainPasswords{}, nil
	case "bcrypt":
		return BcryptPasswords{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}
