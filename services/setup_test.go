// file: services/setup_test.go
package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nexus-events/database"
	"nexus-events/models"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func intPtr(v int) *int { return &v }

func createEvent(t *testing.T, db *gorm.DB, capacity *int, requiresApproval bool) models.Event {
	t.Helper()
	event := models.Event{
		Name:             "DevFest",
		Date:             time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		Location:         "Town Hall",
		Capacity:         capacity,
		RequiresApproval: requiresApproval,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func createAttendee(t *testing.T, db *gorm.DB, eventID string, status models.AttendeeStatus) models.Attendee {
	t.Helper()
	attendee := models.Attendee{
		EventID: eventID,
		Name:    "Test Attendee",
		Email:   "attendee@example.com",
		Status:  status,
	}
	require.NoError(t, db.Create(&attendee).Error)
	return attendee
}
