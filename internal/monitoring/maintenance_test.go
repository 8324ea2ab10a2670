package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *storage.MemoryStore
	users    *services.UserService
	listings *services.ListingService
	events   *services.EventService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	events := services.NewEventService(store, 50, nil)
	users := services.NewUserService(store, services.UserConfig{AdminUsername: "jessieinberg", AdminPassword: "pw"}, nil, events)
	listings := services.NewListingService(store, services.ListingConfig{}, events)
	return fixture{store: store, users: users, listings: listings, events: events}
}

func TestNewMaintenanceRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)
	_, err := NewMaintenance("every now and then", f.users, f.listings, f.events)
	assert.Error(t, err)
}

func TestRunOnceRepairsState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	legacy := `[{"id":"old","title":"legacy","userId":"u9","status":"active","createdAt":1}]`
	require.NoError(t, f.store.Set(ctx, storage.KeyListings, []byte(legacy)))

	m, err := NewMaintenance("@every 30m", f.users, f.listings, f.events)
	require.NoError(t, err)

	report, err := m.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ListingsBackfilled)

	_, err = f.users.Authenticate(ctx, "jessieinberg", "pw")
	assert.NoError(t, err, "administrator exists after maintenance")

	raw, _, err := storage.LoadCollection[models.Product](ctx, f.store, storage.KeyListings)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, models.DefaultCity, raw[0].City)

	recent, err := f.events.GetRecentEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "system.maintenance", recent[0].Type)
	assert.Equal(t, "info", recent[0].Level)
}

func TestRunOnceReportsStorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.FailWrites = assert.AnError

	m, err := NewMaintenance("@hourly", f.users, f.listings, nil)
	require.NoError(t, err)

	_, err = m.RunOnce(ctx)
	assert.ErrorIs(t, err, storage.ErrWrite)
}

func TestRunStartsWithAPassAndStops(t *testing.T) {
	f := newFixture(t)
	m, err := NewMaintenance("@every 1h", f.users, f.listings, f.events)
	require.NoError(t, err)

	finished := make(chan struct{})
	go func() {
		m.Run()
		close(finished)
	}()

	require.Eventually(t, func() bool {
		events, err := f.events.GetRecentEvents(context.Background(), 0)
		return err == nil && len(events) > 0 && events[0].Type == "system.maintenance"
	}, 2*time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
