// Package storage is the persistence adapter: named collections stored as
// whole JSON documents in a key/value backend.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Collection keys.
const (
	KeyUsers          = "users"
	KeyListings       = "listings"
	KeyCurrentSession = "current_session"
	KeyEvents         = "events"
)

var (
	// ErrRead is returned when the backend cannot be read.
	ErrRead = errors.New("storage read failed")
	// ErrWrite is returned when the backend rejects a write (e.g. quota or disk full).
	ErrWrite = errors.New("storage write failed")
	// ErrEncode is returned when a value cannot be encoded to JSON.
	ErrEncode = errors.New("storage encode failed")
)

// Store is a durable key/value backend. Set overwrites the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadCollection reads and decodes the collection stored under key.
// Missing, malformed or null data is reported as not found so callers can
// apply their default-population policy.
func LoadCollection[T any](ctx context.Context, s Store, key string) ([]T, bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrRead, key, err)
	}
	if !found || isNull(raw) {
		return nil, false, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Stored collection is malformed, treating as empty")
		return nil, false, nil
	}
	if items == nil {
		return nil, false, nil
	}
	return items, true, nil
}

// SaveCollection encodes items and overwrites the collection stored under key.
func SaveCollection[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return save(ctx, s, key, items)
}

// LoadValue reads a single JSON value stored under key.
func LoadValue[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var zero T
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("%w: %s: %v", ErrRead, key, err)
	}
	if !found || isNull(raw) {
		return zero, false, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Stored value is malformed, treating as absent")
		return zero, false, nil
	}
	return v, true, nil
}

// SaveValue encodes v and stores it under key.
func SaveValue[T any](ctx context.Context, s Store, key string, v T) error {
	return save(ctx, s, key, v)
}

// Remove deletes key. Removing a missing key is not an error.
func Remove(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to remove stored value")
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	return nil
}

func save(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode value, save abandoned")
		return fmt.Errorf("%w: %s: %v", ErrEncode, key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write value")
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	return nil
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
