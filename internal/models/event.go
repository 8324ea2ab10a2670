package models

// Event represents a loggable action in the marketplace.
type Event struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`  // e.g., "listing.approve", "user.register"
	Level     string  `json:"level"` // e.g., "info", "warn", "error"
	Message   string  `json:"message"`
	ListingID *string `json:"listingId,omitempty"`
	UserID    *string `json:"userId,omitempty"` // Owner the event concerns, if any
	CreatedAt int64   `json:"createdAt"`
}
