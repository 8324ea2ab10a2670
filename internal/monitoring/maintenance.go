package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Report summarizes one maintenance pass.
type Report struct {
	ListingsBackfilled int
}

// Maintenance periodically re-asserts the administrator account and writes the
// listing backfill back to storage.
type Maintenance struct {
	users    services.UserServiceProvider
	listings services.ListingServiceProvider
	events   services.EventServiceProvider
	schedule cron.Schedule

	// checkEvery is how often the ticker looks for a due run.
	checkEvery time.Duration
	ticker     *time.Ticker
	done       chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

// NewMaintenance creates a maintenance job for a standard cron expression.
func NewMaintenance(expr string, users services.UserServiceProvider, listings services.ListingServiceProvider, events services.EventServiceProvider) (*Maintenance, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", expr, err)
	}
	return &Maintenance{
		users:      users,
		listings:   listings,
		events:     events,
		schedule:   schedule,
		checkEvery: time.Minute,
		done:       make(chan struct{}),
		now:        time.Now,
	}, nil
}

// Run starts the maintenance loop. It runs once immediately, then whenever
// the schedule comes due.
func (m *Maintenance) Run() {
	log.Info().Msg("Starting background maintenance...")
	m.ticker = time.NewTicker(m.checkEvery)
	defer m.ticker.Stop()

	m.runLogged()
	nextRun := m.schedule.Next(m.now())

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping background maintenance.")
			return
		case <-m.ticker.C:
			now := m.now()
			if now.Before(nextRun) {
				continue
			}
			m.runLogged()
			nextRun = m.schedule.Next(now)
		}
	}
}

// Stop halts the maintenance loop.
func (m *Maintenance) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// RunOnce performs a single maintenance pass and records its outcome in the
// event log.
func (m *Maintenance) RunOnce(ctx context.Context) (Report, error) {
	var report Report
	var errs []error

	if err := m.users.EnsureAdministrator(ctx); err != nil {
		errs = append(errs, fmt.Errorf("ensure administrator: %w", err))
	}
	changed, err := m.listings.Backfill(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("backfill listings: %w", err))
	}
	report.ListingsBackfilled = changed

	err = errors.Join(errs...)
	level, msg := "info", fmt.Sprintf("Maintenance completed, %d listings backfilled.", changed)
	if err != nil {
		level, msg = "error", fmt.Sprintf("Maintenance failed: %v", err)
	}
	if m.events != nil {
		if evErr := m.events.CreateEvent(ctx, "system.maintenance", level, msg, nil, nil); evErr != nil {
			log.Warn().Err(evErr).Msg("Failed to record maintenance event")
		}
	}
	return report, err
}

func (m *Maintenance) runLogged() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := m.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Maintenance pass failed")
		return
	}
	log.Debug().Int("listings_backfilled", report.ListingsBackfilled).Msg("Maintenance pass completed")
}
