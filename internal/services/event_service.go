package services

import (
	"context"
	"sync"
	"time"

	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// EventPublisher receives every event after it has been stored.
type EventPublisher interface {
	PublishEvent(event models.Event)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, listingID, userID *string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService keeps a capped, newest-first audit log.
type EventService struct {
	store     storage.Store
	limit     int
	publisher EventPublisher
	mu        sync.Mutex
	now       func() time.Time
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(store storage.Store, limit int, publisher EventPublisher) *EventService {
	return &EventService{
		store:     store,
		limit:     limit,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateEvent logs a new event.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, listingID, userID *string) error {
	event := models.Event{
		ID:        newID(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		ListingID: listingID,
		UserID:    userID,
		CreatedAt: s.now().UnixMilli(),
	}

	s.mu.Lock()
	events, _, err := storage.LoadCollection[models.Event](ctx, s.store, storage.KeyEvents)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	events = append([]models.Event{event}, events...)
	if s.limit > 0 && len(events) > s.limit {
		events = events[:s.limit]
	}
	err = storage.SaveCollection(ctx, s.store, storage.KeyEvents, events)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.PublishEvent(event)
	}
	return nil
}

// GetRecentEvents returns at most limit events, newest first.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	events, _, err := storage.LoadCollection[models.Event](ctx, s.store, storage.KeyEvents)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// recordEvent writes an audit entry without failing the caller.
func recordEvent(ctx context.Context, events EventServiceProvider, eventType, level, message string, listingID, userID *string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, level, message, listingID, userID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}

func strPtr(s string) *string { return &s }
