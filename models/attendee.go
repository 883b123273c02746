// Package models file: models/attendee.go
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ---------------------- attendee status ----------------------

// AttendeeStatus is the approval state of a registration.
type AttendeeStatus string

const (
	StatusPending   AttendeeStatus = "pending"
	StatusConfirmed AttendeeStatus = "confirmed"
	StatusRejected  AttendeeStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s AttendeeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// ErrNotConfirmed is returned when a check-in is attempted on an attendee
// whose registration was never confirmed.
var ErrNotConfirmed = errors.New("attendee status is not confirmed")

// AlreadyCheckedInError names the attendee so the scanner operator sees who
// the duplicate scan belongs to.
type AlreadyCheckedInError struct {
	Name string
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("already checked in! (%s)", e.Name)
}

// ---------------------- attendee model ----------------------

// Attendee is one person's registration record for one event. It is owned
// by its event and removed when the event is deleted.
type Attendee struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	EventID     string         `json:"event_id" gorm:"type:uuid;index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Email       string         `json:"email" gorm:"index;not null"`
	Status      AttendeeStatus `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	CheckedIn   bool           `json:"checked_in" gorm:"not null;default:false"`
	CheckedInAt *time.Time     `json:"checked_in_at"`
	EmailSent   bool           `json:"email_sent" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

func (a *Attendee) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// MarkArrived transitions the attendee to checked-in. The arrival state is
// only constructible from a confirmed registration, and never twice.
func (a *Attendee) MarkArrived(now time.Time) error {
	if a.Status != StatusConfirmed {
		return ErrNotConfirmed
	}
	if a.CheckedIn {
		return &AlreadyCheckedInError{Name: a.Name}
	}
	a.CheckedIn = true
	a.CheckedInAt = &now
	return nil
}

// ClearArrival undoes a check-in. Admin-only operation at the route level;
// the model itself flips unconditionally.
func (a *Attendee) ClearArrival() {
	a.CheckedIn = false
	a.CheckedInAt = nil
}
