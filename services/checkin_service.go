// Package services file: services/checkin_service.go
package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// ErrAttendeeNotFound is returned when neither id nor email matches.
var ErrAttendeeNotFound = errors.New("attendee not found")

// uuidPattern decides whether a scanner query is tried as an id first.
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// CheckInService resolves scanner queries and flips attendance state.
type CheckInService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCheckInService returns a CheckInService bound to db.
func NewCheckInService(db *gorm.DB) *CheckInService {
	return &CheckInService{db: db, now: time.Now}
}

// ResolveTicketID extracts an attendee id from whatever the scanner hands
// over: the full check-in URL embedded in the QR code, or a bare UUID typed
// by hand.
func ResolveTicketID(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)

	if idx := strings.LastIndex(payload, "/admin/check-in/"); idx >= 0 {
		payload = payload[idx+len("/admin/check-in/"):]
		payload = strings.TrimSuffix(payload, "/")
	}

	payload = strings.ToLower(payload)
	if uuidPattern.MatchString(payload) {
		return payload, true
	}
	return "", false
}

// Search resolves a manual lookup to at most one attendee id. A UUID-shaped
// query is tried as an id first, then the query falls back to an exact
// email match.
func (s *CheckInService) Search(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrAttendeeNotFound
	}

	if uuidPattern.MatchString(strings.ToLower(query)) {
		var attendee models.Attendee
		err := s.db.Select("id").First(&attendee, "id = ?", strings.ToLower(query)).Error
		if err == nil {
			return attendee.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
	}

	var attendee models.Attendee
	err := s.db.Select("id").First(&attendee, "email = ?", query).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAttendeeNotFound
		}
		return "", err
	}
	return attendee.ID, nil
}

// Get loads one attendee with its event for the check-in detail view.
func (s *CheckInService) Get(id string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := s.db.Preload("Event").First(&attendee, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, err
	}
	return &attendee, nil
}

// CheckIn marks the attendee as arrived. The write is a conditional UPDATE
// (checked_in still false, status still confirmed) so two concurrent scans
// of the same ticket cannot both succeed; the loser gets the same rejection
// a stale duplicate scan gets, with the attendee's name in the message.
func (s *CheckInService) CheckIn(id string) (*models.Attendee, error) {
	var attendee models.Attendee
	if err := s.db.First(&attendee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, err
	}

	// Validate against the model rule first for a precise error.
	now := s.now()
	if err := attendee.MarkArrived(now); err != nil {
		logger.Warn.Printf("[CheckIn] attendee %s rejected: %v", id, err)
		return nil, err
	}

	res := s.db.Model(&models.Attendee{}).
		Where("id = ? AND checked_in = ? AND status = ?", id, false, models.StatusConfirmed).
		Updates(map[string]interface{}{"checked_in": true, "checked_in_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race with a concurrent scan.
		logger.Warn.Printf("[CheckIn] attendee %s lost check-in race", id)
		return nil, &models.AlreadyCheckedInError{Name: attendee.Name}
	}

	logger.Info.Printf("[CheckIn] attendee %s (%s) checked in at %s", attendee.ID, attendee.Name, now.Format(time.RFC3339))
	return &attendee, nil
}

// UndoCheckIn unconditionally clears the arrival flag. Exposed only on the
// admin surface.
func (s *CheckInService) UndoCheckIn(id string) error {
	res := s.db.Model(&models.Attendee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"checked_in": false, "checked_in_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAttendeeNotFound
	}

	logger.Info.Printf("[UndoCheckIn] attendee %s reset to not checked in", id)
	return nil
}
