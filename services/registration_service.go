// Package services holds the workflow logic behind the HTTP handlers.
// File: services/registration_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// ErrEventNotFound is returned when a registration targets an unknown event.
var ErrEventNotFound = errors.New("event not found")

// RegistrationOutcome tells the handler which page to route the attendee to.
type RegistrationOutcome int

const (
	// OutcomeConfirmed routes straight to the ticket page.
	OutcomeConfirmed RegistrationOutcome = iota
	// OutcomePending routes to the "pending confirmation" page.
	OutcomePending
	// OutcomeFullCapacity routes to the full-capacity page; no record was created.
	OutcomeFullCapacity
)

// RegistrationService creates attendee records against event capacity.
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService returns a RegistrationService bound to db.
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// Register creates a registration for the event. The capacity count and the
// insert run inside one transaction so concurrent registrations cannot
// overshoot a capped event. The initial status is pending when the event
// requires approval, confirmed otherwise; no other code path sets the
// initial status.
func (s *RegistrationService) Register(eventID, name, email string) (RegistrationOutcome, *models.Attendee, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return 0, nil, fmt.Errorf("name and email are required")
	}

	var attendee *models.Attendee
	outcome := OutcomeConfirmed

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.HasCapacityLimit() {
			var count int64
			if err := tx.Model(&models.Attendee{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*event.Capacity) {
				logger.Info.Printf("[Register] event %s at capacity (%d); turning away %s", event.ID, *event.Capacity, email)
				outcome = OutcomeFullCapacity
				return nil
			}
		}

		a := models.Attendee{
			EventID: event.ID,
			Name:    name,
			Email:   email,
			Status:  event.InitialStatus(),
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}

		attendee = &a
		if a.Status == models.StatusPending {
			outcome = OutcomePending
		}
		return nil
	})
	if err != nil {
		logger.Error.Printf("[Register] registration for event %s failed: %v", eventID, err)
		return 0, nil, err
	}

	if attendee != nil {
		logger.Info.Printf("[Register] attendee %s registered for event %s with status %s", attendee.ID, eventID, attendee.Status)
	}
	return outcome, attendee, nil
}

// SetStatus moves one attendee to confirmed or rejected. Admin action; the
// route layer enforces that.
func (s *RegistrationService) SetStatus(attendeeID string, status models.AttendeeStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	res := s.db.Model(&models.Attendee{}).Where("id = ?", attendeeID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Info.Printf("[SetStatus] attendee %s -> %s", attendeeID, status)
	return nil
}

// ConfirmAllPending bulk-confirms every pending attendee of the event and
// returns how many rows changed. No notification is triggered here; email
// is an explicitly separate step.
func (s *RegistrationService) ConfirmAllPending(eventID string) (int64, error) {
	res := s.db.Model(&models.Attendee{}).
		Where("event_id = ? AND status = ?", eventID, models.StatusPending).
		Update("status", models.StatusConfirmed)
	if res.Error != nil {
		return 0, res.Error
	}

	logger.Info.Printf("[ConfirmAllPending] event %s: %d attendees confirmed", eventID, res.RowsAffected)
	return res.RowsAffected, nil
}
