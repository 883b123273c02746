// Package services file: services/event_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// EventInput carries the admin-editable fields of an event.
type EventInput struct {
	Name             string    `json:"name" binding:"required"`
	Date             time.Time `json:"date" binding:"required"`
	Location         string    `json:"location"`
	Capacity         *int      `json:"capacity"`
	RequiresApproval bool      `json:"requires_approval"`
	LogoURL          string    `json:"logo_url"`
	GalleryImages    string    `json:"gallery_images"`
	PrimaryColor     string    `json:"primary_color"`
	Description      string    `json:"description"`
	Highlights       string    `json:"highlights"`
}

// EventStats is the read-only aggregation behind the dashboard view.
type EventStats struct {
	Total     int64 `json:"total"`
	Confirmed int64 `json:"confirmed"`
	Pending   int64 `json:"pending"`
	Rejected  int64 `json:"rejected"`
	CheckedIn int64 `json:"checked_in"`
}

// EventService owns event lifecycle and aggregation queries.
type EventService struct {
	db *gorm.DB
}

// NewEventService returns an EventService bound to db.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// List returns all events, newest date first.
func (s *EventService) List() ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Order("date desc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Get loads one event.
func (s *EventService) Get(id string) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event from admin input.
func (s *EventService) Create(input EventInput) (*models.Event, error) {
	event := models.Event{
		Name:             strings.TrimSpace(input.Name),
		Date:             input.Date,
		Location:         input.Location,
		Capacity:         input.Capacity,
		RequiresApproval: input.RequiresApproval,
		LogoURL:          input.LogoURL,
		GalleryImages:    input.GalleryImages,
		PrimaryColor:     input.PrimaryColor,
		Description:      input.Description,
		Highlights:       input.Highlights,
	}
	if event.Name == "" {
		return nil, errors.New("event name is required")
	}

	if err := s.db.Create(&event).Error; err != nil {
		logger.Error.Printf("[EventService.Create] insert failed: %v", err)
		return nil, err
	}

	logger.Info.Printf("[EventService.Create] event %s (%s) created", event.ID, event.Name)
	return &event, nil
}

// Update overwrites the editable fields of an existing event.
func (s *EventService) Update(id string, input EventInput) (*models.Event, error) {
	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	event.Name = strings.TrimSpace(input.Name)
	event.Date = input.Date
	event.Location = input.Location
	event.Capacity = input.Capacity
	event.RequiresApproval = input.RequiresApproval
	event.LogoURL = input.LogoURL
	event.GalleryImages = input.GalleryImages
	event.PrimaryColor = input.PrimaryColor
	event.Description = input.Description
	event.Highlights = input.Highlights

	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}

	logger.Info.Printf("[EventService.Update] event %s updated", id)
	return event, nil
}

// Delete removes the event and every attendee it owns. The cascade is
// explicit (one transaction) rather than left to the schema, so the
// behaviour is the same on every backend the tests run against.
func (s *EventService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Attendee{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEventNotFound
		}

		logger.Info.Printf("[EventService.Delete] event %s and its attendees removed", id)
		return nil
	})
}

// Attendees returns the event's registrations, newest first.
func (s *EventService) Attendees(eventID string) ([]models.Attendee, error) {
	if _, err := s.Get(eventID); err != nil {
		return nil, err
	}

	var attendees []models.Attendee
	err := s.db.Where("event_id = ?", eventID).Order("created_at desc").Find(&attendees).Error
	if err != nil {
		return nil, err
	}
	return attendees, nil
}

// Stats aggregates the dashboard counters for one event.
func (s *EventService) Stats(eventID string) (*EventStats, error) {
	if _, err := s.Get(eventID); err != nil {
		return nil, err
	}

	var stats EventStats
	base := func() *gorm.DB { return s.db.Model(&models.Attendee{}).Where("event_id = ?", eventID) }

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.StatusConfirmed).Count(&stats.Confirmed).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.StatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.StatusRejected).Count(&stats.Rejected).Error; err != nil {
		return nil, err
	}
	if err := base().Where("checked_in = ?", true).Count(&stats.CheckedIn).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
