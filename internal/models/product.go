package models

import (
	"errors"
	"strings"
)

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	}
	return false
}

// Condition describes the physical state of the item being sold.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// Product is a single classified listing.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory"`
	Images          []string  `json:"images"` // URLs or data URIs
	UserID          string    `json:"userId"`
	Status          Status    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"` // Set only while rejected
	CreatedAt       int64     `json:"createdAt"`                 // milliseconds since epoch
	ContactInfo     string    `json:"contactInfo,omitempty"`     // e.g. a Telegram handle
	City            string    `json:"city"`
	Condition       Condition `json:"condition"`
}

// ProductInput is the payload for creating a listing. A Status sent by the
// caller is accepted on decode and ignored by the repository.
type ProductInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Images      []string  `json:"images"`
	UserID      string    `json:"userId"`
	Status      Status    `json:"status,omitempty"`
	ContactInfo string    `json:"contactInfo,omitempty"`
	City        string    `json:"city"`
	Condition   Condition `json:"condition"`
}

// Validate performs the form-level checks the presentation layer applies
// before calling the repository.
func (in ProductInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if in.Price < 0 {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if strings.TrimSpace(in.City) == "" {
		errs = append(errs, errors.New("city is required"))
	}
	if in.Condition != "" && !in.Condition.Valid() {
		errs = append(errs, errors.New("condition must be new or used"))
	}
	return errors.Join(errs...)
}

// ProductUpdate is a partial update. Nil fields are left untouched; the owner
// is not updatable. A RejectionReason pointing at "" clears the reason.
type ProductUpdate struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Subcategory     *string    `json:"subcategory,omitempty"`
	Images          *[]string  `json:"images,omitempty"`
	Status          *Status    `json:"status,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	ContactInfo     *string    `json:"contactInfo,omitempty"`
	City            *string    `json:"city,omitempty"`
	Condition       *Condition `json:"condition,omitempty"`
}

// Validate applies the form-level checks of ProductInput to the fields an
// edit sets.
func (u ProductUpdate) Validate() error {
	var errs []error
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if u.Price != nil && *u.Price < 0 {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if u.City != nil && strings.TrimSpace(*u.City) == "" {
		errs = append(errs, errors.New("city is required"))
	}
	if u.Condition != nil && !u.Condition.Valid() {
		errs = append(errs, errors.New("condition must be new or used"))
	}
	return errors.Join(errs...)
}

// Apply merges the set fields of u onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Subcategory != nil {
		p.Subcategory = *u.Subcategory
	}
	if u.Images != nil {
		p.Images = append([]string{}, (*u.Images)...)
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.RejectionReason != nil {
		p.RejectionReason = *u.RejectionReason
	}
	if u.ContactInfo != nil {
		p.ContactInfo = *u.ContactInfo
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.Condition != nil {
		p.Condition = *u.Condition
	}
}
