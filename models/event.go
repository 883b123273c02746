// Package models defines data structures used across the application.
// File: models/event.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ------------------------ event model -----------------------

// Event represents a single event that attendees can register for.
// Capacity is nil for unlimited events. Deleting an event cascades to
// its attendees.
type Event struct {
	ID               string     `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string     `json:"name" gorm:"not null"`
	Date             time.Time  `json:"date" gorm:"not null"`
	Location         string     `json:"location"`
	Capacity         *int       `json:"capacity"`
	RequiresApproval bool       `json:"requires_approval"`
	LogoURL          string     `json:"logo_url"`
	GalleryImages    string     `json:"gallery_images"` // JSON-encoded list of URLs
	PrimaryColor     string     `json:"primary_color"`
	Description      string     `json:"description"`
	Highlights       string     `json:"highlights"` // newline-separated bullet points
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Attendees        []Attendee `json:"attendees,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID so the same model works on both postgres and
// the sqlite test database.
func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// HasCapacityLimit reports whether registrations are capped.
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity != nil
}

// InitialStatus is the status a brand new registration starts in.
func (e *Event) InitialStatus() AttendeeStatus {
	if e.RequiresApproval {
		return StatusPending
	}
	return StatusConfirmed
}
