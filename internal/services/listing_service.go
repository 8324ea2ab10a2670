package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// ListingServiceProvider defines the interface for listing services.
type ListingServiceProvider interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	ListPending(ctx context.Context) ([]models.Product, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Product, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, input models.ProductInput) (models.Product, error)
	Update(ctx context.Context, id string, update models.ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListMine(ctx context.Context, session models.Session, status *models.Status) ([]models.Product, error)
	EditOwned(ctx context.Context, session models.Session, id string, update models.ProductUpdate) (models.Product, error)
	DeleteOwned(ctx context.Context, session models.Session, id string) error
	Backfill(ctx context.Context) (int, error)
}

// ListingConfig controls defaults applied to stored listings.
type ListingConfig struct {
	DefaultCity        string
	SeedSampleListings bool
}

// ListingService owns the listing collection. Every call reads the whole
// collection from the store; writes replace it.
type ListingService struct {
	store  storage.Store
	cfg    ListingConfig
	events EventServiceProvider
	mu     sync.Mutex
	now    func() time.Time
}

// NewListingService creates a new ListingService.
func NewListingService(store storage.Store, cfg ListingConfig, events EventServiceProvider) *ListingService {
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = models.DefaultCity
	}
	return &ListingService{
		store:  store,
		cfg:    cfg,
		events: events,
		now:    time.Now,
	}
}

// ListAll returns every listing, newest first.
func (s *ListingService) ListAll(ctx context.Context) ([]models.Product, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(items), nil
}

// ListActive returns the publicly visible listings, newest first.
func (s *ListingService) ListActive(ctx context.Context) ([]models.Product, error) {
	return s.ListByStatus(ctx, models.StatusActive)
}

// ListPending returns the moderation queue, newest first.
func (s *ListingService) ListPending(ctx context.Context) ([]models.Product, error) {
	return s.ListByStatus(ctx, models.StatusPending)
}

// ListByStatus returns listings in the given status, newest first.
func (s *ListingService) ListByStatus(ctx context.Context, status models.Status) ([]models.Product, error) {
	return s.filter(ctx, func(p models.Product) bool { return p.Status == status })
}

// ListByOwner returns a user's listings, newest first.
func (s *ListingService) ListByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	return s.filter(ctx, func(p models.Product) bool { return p.UserID == userID })
}

// GetByID retrieves a single listing by its ID.
func (s *ListingService) GetByID(ctx context.Context, id string) (models.Product, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return models.Product{}, err
	}
	idx := indexByID(items, id)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	return items[idx], nil
}

// Create stores a new listing. It is always created pending, whatever status
// the input carries.
func (s *ListingService) Create(ctx context.Context, input models.ProductInput) (models.Product, error) {
	product := models.Product{
		ID:          newID(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Images:      append([]string{}, input.Images...),
		UserID:      input.UserID,
		Status:      models.StatusPending,
		CreatedAt:   s.now().UnixMilli(),
		ContactInfo: input.ContactInfo,
		City:        input.City,
		Condition:   input.Condition,
	}
	s.backfill(&product)

	s.mu.Lock()
	items, err := s.load(ctx)
	if err == nil {
		items = append([]models.Product{product}, items...)
		err = s.save(ctx, items)
	}
	s.mu.Unlock()
	if err != nil {
		return models.Product{}, err
	}

	recordEvent(ctx, s.events, "listing.create", "info",
		fmt.Sprintf("Listing '%s' submitted for moderation.", product.Title), strPtr(product.ID), strPtr(product.UserID))
	return product, nil
}

// Update merges the set fields of update onto the stored listing.
func (s *ListingService) Update(ctx context.Context, id string, update models.ProductUpdate) (models.Product, error) {
	return s.mutate(ctx, id, func(p *models.Product) error {
		update.Apply(p)
		return nil
	})
}

// Delete removes a listing and reports whether it existed.
func (s *ListingService) Delete(ctx context.Context, id string) (bool, error) {
	err := s.remove(ctx, id, func(models.Product) error { return nil })
	if errors.Is(err, ErrListingNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListMine returns the session user's listings, optionally narrowed to one status.
func (s *ListingService) ListMine(ctx context.Context, session models.Session, status *models.Status) ([]models.Product, error) {
	return s.filter(ctx, func(p models.Product) bool {
		return p.UserID == session.User.ID && (status == nil || p.Status == *status)
	})
}

// EditOwned applies an owner's edit. Moderation fields in the update are
// ignored; an active listing stays active, any other listing goes back to
// the moderation queue.
func (s *ListingService) EditOwned(ctx context.Context, session models.Session, id string, update models.ProductUpdate) (models.Product, error) {
	update.Status = nil
	update.RejectionReason = nil

	product, err := s.mutate(ctx, id, func(p *models.Product) error {
		if p.UserID != session.User.ID {
			return ErrForbidden
		}
		update.Apply(p)
		if p.Status != models.StatusActive {
			p.Status = models.StatusPending
			p.RejectionReason = ""
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}

	recordEvent(ctx, s.events, "listing.update", "info",
		fmt.Sprintf("Listing '%s' was edited by its owner.", product.Title), strPtr(product.ID), strPtr(product.UserID))
	return product, nil
}

// DeleteOwned removes a listing on behalf of its owner or an administrator.
func (s *ListingService) DeleteOwned(ctx context.Context, session models.Session, id string) error {
	return s.remove(ctx, id, func(p models.Product) error {
		if p.UserID != session.User.ID && !session.IsAdmin {
			return ErrForbidden
		}
		return nil
	})
}

// Backfill writes read-time defaults back to the store and returns how many
// listings changed.
func (s *ListingService) Backfill(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, found, err := storage.LoadCollection[models.Product](ctx, s.store, storage.KeyListings)
	if err != nil {
		return 0, err
	}
	if !found {
		_, err := s.load(ctx)
		return 0, err
	}

	changed := 0
	for i := range items {
		if s.backfill(&items[i]) {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.save(ctx, items)
}

func (s *ListingService) mutate(ctx context.Context, id string, fn func(*models.Product) error) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return models.Product{}, err
	}
	idx := indexByID(items, id)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}

	product := items[idx]
	if err := fn(&product); err != nil {
		return models.Product{}, err
	}
	s.backfill(&product)
	items[idx] = product
	if err := s.save(ctx, items); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// remove deletes a listing once allow accepts it, under a single lock.
func (s *ListingService) remove(ctx context.Context, id string, allow func(models.Product) error) error {
	s.mu.Lock()
	items, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	idx := indexByID(items, id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	removed := items[idx]
	if err := allow(removed); err != nil {
		s.mu.Unlock()
		return err
	}
	err = s.save(ctx, slices.Delete(items, idx, idx+1))
	s.mu.Unlock()
	if err != nil {
		return err
	}

	recordEvent(ctx, s.events, "listing.delete", "warn",
		fmt.Sprintf("Listing '%s' was deleted.", removed.Title), strPtr(removed.ID), strPtr(removed.UserID))
	return nil
}

func (s *ListingService) filter(ctx context.Context, keep func(models.Product) bool) ([]models.Product, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return newestFirst(out), nil
}

// snapshot loads the collection for a read. It holds s.mu so a first-access
// seed cannot overwrite a concurrent write.
func (s *ListingService) snapshot(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load reads the collection, seeding it on first access, and applies the
// read-time backfill. Callers hold s.mu.
func (s *ListingService) load(ctx context.Context) ([]models.Product, error) {
	items, found, err := storage.LoadCollection[models.Product](ctx, s.store, storage.KeyListings)
	if err != nil {
		return nil, err
	}
	if !found {
		items = []models.Product{}
		if s.cfg.SeedSampleListings {
			items = sampleListings(s.now())
		}
		if err := s.save(ctx, items); err != nil {
			// The seed is still served; the next successful write persists it.
			log.Warn().Err(err).Msg("Failed to persist initial listings")
		} else {
			log.Info().Int("count", len(items)).Msg("Initialized listings collection")
		}
	}
	for i := range items {
		s.backfill(&items[i])
	}
	return items, nil
}

func (s *ListingService) save(ctx context.Context, items []models.Product) error {
	return storage.SaveCollection(ctx, s.store, storage.KeyListings, items)
}

// backfill fills fields missing from records written by older versions.
func (s *ListingService) backfill(p *models.Product) bool {
	changed := false
	if p.City == "" {
		p.City = s.cfg.DefaultCity
		changed = true
	}
	if p.Condition == "" {
		p.Condition = models.ConditionUsed
		changed = true
	}
	if p.Images == nil {
		p.Images = []string{}
		changed = true
	}
	return changed
}

func newestFirst(items []models.Product) []models.Product {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b models.Product) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) })
	return out
}

func indexByID(items []models.Product, id string) int {
	return slices.IndexFunc(items, func(p models.Product) bool { return p.ID == id })
}
