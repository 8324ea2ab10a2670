package services

import (
	"context"
	"sync"
	"testing"

	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (c *capturePublisher) PublishEvent(e models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *capturePublisher) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Type
	}
	return out
}

func TestModerationScenario(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	listings := newTestListingService(store, true)
	moderation := NewModerationService(listings, nil)

	created, err := listings.Create(ctx, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)

	queue, err := moderation.Queue(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(queue), created.ID)

	_, err = moderation.Approve(ctx, created.ID)
	require.NoError(t, err)
	got, err := listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Empty(t, got.RejectionReason)

	_, err = moderation.Reject(ctx, created.ID, "bad photo")
	require.NoError(t, err)
	got, err = listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, "bad photo", got.RejectionReason)

	removed, err := listings.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = listings.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestReapprovalClearsRejectionReason(t *testing.T) {
	ctx := context.Background()
	listings := newTestListingService(storage.NewMemoryStore(), true)
	moderation := NewModerationService(listings, nil)

	_, err := moderation.Approve(ctx, "3")
	require.NoError(t, err)
	_, err = moderation.Reject(ctx, "3", "duplicate")
	require.NoError(t, err)
	final, err := moderation.Approve(ctx, "3")
	require.NoError(t, err)

	assert.Equal(t, models.StatusActive, final.Status)
	assert.Empty(t, final.RejectionReason)
}

func TestModerationAcceptsAnyTransition(t *testing.T) {
	ctx := context.Background()
	listings := newTestListingService(storage.NewMemoryStore(), true)
	moderation := NewModerationService(listings, nil)

	// Approving an already active listing and rejecting an already rejected one both succeed.
	p, err := moderation.Approve(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, p.Status)

	p, err = moderation.Reject(ctx, "5", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, p.Status)
	assert.Empty(t, p.RejectionReason, "an empty reason is stored as given")

	p, err = moderation.Approve(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, p.Status)

	_, err = moderation.Approve(ctx, "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
	_, err = moderation.Reject(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestModerationRecordsEvents(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	publisher := &capturePublisher{}
	events := NewEventService(store, 10, publisher)
	listings := NewListingService(store, ListingConfig{SeedSampleListings: true}, events)
	moderation := NewModerationService(listings, events)

	created, err := listings.Create(ctx, sampleInput())
	require.NoError(t, err)
	_, err = moderation.Approve(ctx, created.ID)
	require.NoError(t, err)
	_, err = moderation.Reject(ctx, created.ID, "spam")
	require.NoError(t, err)

	assert.Equal(t, []string{"listing.create", "listing.approve", "listing.reject"}, publisher.types())

	recent, err := events.GetRecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "listing.reject", recent[0].Type)
	require.NotNil(t, recent[0].UserID)
	assert.Equal(t, "u1", *recent[0].UserID)
	require.NotNil(t, recent[0].ListingID)
	assert.Equal(t, created.ID, *recent[0].ListingID)
}
