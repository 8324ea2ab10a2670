package services

import (
	"context"
	"fmt"

	"github.com/isdelr/baraholka-be/internal/models"
)

// ModerationServiceProvider defines the interface for moderation services.
type ModerationServiceProvider interface {
	Queue(ctx context.Context) ([]models.Product, error)
	Approve(ctx context.Context, id string) (models.Product, error)
	Reject(ctx context.Context, id, reason string) (models.Product, error)
}

// ModerationService sets listing status on behalf of administrators.
// Any status may move to any other; there is no transition table.
type ModerationService struct {
	listings ListingServiceProvider
	events   EventServiceProvider
}

// NewModerationService creates a new ModerationService.
func NewModerationService(listings ListingServiceProvider, events EventServiceProvider) *ModerationService {
	return &ModerationService{listings: listings, events: events}
}

// Queue returns the listings waiting for a decision, newest first.
func (s *ModerationService) Queue(ctx context.Context) ([]models.Product, error) {
	return s.listings.ListPending(ctx)
}

// Approve publishes a listing and clears any rejection reason.
func (s *ModerationService) Approve(ctx context.Context, id string) (models.Product, error) {
	status := models.StatusActive
	cleared := ""
	product, err := s.listings.Update(ctx, id, models.ProductUpdate{Status: &status, RejectionReason: &cleared})
	if err != nil {
		return models.Product{}, err
	}
	recordEvent(ctx, s.events, "listing.approve", "info",
		fmt.Sprintf("Listing '%s' was approved.", product.Title), strPtr(product.ID), strPtr(product.UserID))
	return product, nil
}

// Reject hides a listing with the given reason. An empty reason is stored as is.
func (s *ModerationService) Reject(ctx context.Context, id, reason string) (models.Product, error) {
	status := models.StatusRejected
	product, err := s.listings.Update(ctx, id, models.ProductUpdate{Status: &status, RejectionReason: &reason})
	if err != nil {
		return models.Product{}, err
	}
	recordEvent(ctx, s.events, "listing.reject", "warn",
		fmt.Sprintf("Listing '%s' was rejected: %s", product.Title, reason), strPtr(product.ID), strPtr(product.UserID))
	return product, nil
}
