// file: models/attendee_test.go
package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"nexus-events/models"
)

// Test that arrival is only constructible from a confirmed registration.
func TestMarkArrived_RequiresConfirmed(t *testing.T) {
	now := time.Now()

	for _, status := range []models.AttendeeStatus{models.StatusPending, models.StatusRejected} {
		a := models.Attendee{Name: "Ada", Status: status}
		err := a.MarkArrived(now)
		assert.ErrorIs(t, err, models.ErrNotConfirmed, "status %s must not be checked in", status)
		assert.False(t, a.CheckedIn)
		assert.Nil(t, a.CheckedInAt)
	}
}

func TestMarkArrived_Confirmed(t *testing.T) {
	now := time.Now()
	a := models.Attendee{Name: "Ada", Status: models.StatusConfirmed}

	err := a.MarkArrived(now)
	assert.NoError(t, err)
	assert.True(t, a.CheckedIn)
	if assert.NotNil(t, a.CheckedInAt) {
		assert.Equal(t, now, *a.CheckedInAt)
	}
}

// A second scan must fail with a message naming the attendee and must not
// move the original arrival timestamp.
func TestMarkArrived_Twice(t *testing.T) {
	first := time.Now().Add(-10 * time.Minute)
	a := models.Attendee{Name: "Grace", Status: models.StatusConfirmed}
	assert.NoError(t, a.MarkArrived(first))

	err := a.MarkArrived(time.Now())
	var dup *models.AlreadyCheckedInError
	if assert.ErrorAs(t, err, &dup) {
		assert.Equal(t, "Grace", dup.Name)
		assert.Contains(t, err.Error(), "Grace")
	}
	assert.Equal(t, first, *a.CheckedInAt, "original check-in time must be preserved")
}

func TestClearArrival(t *testing.T) {
	now := time.Now()
	a := models.Attendee{Name: "Ada", Status: models.StatusConfirmed}
	assert.NoError(t, a.MarkArrived(now))

	a.ClearArrival()
	assert.False(t, a.CheckedIn)
	assert.Nil(t, a.CheckedInAt)
}

func TestInitialStatus(t *testing.T) {
	approval := models.Event{RequiresApproval: true}
	open := models.Event{RequiresApproval: false}

	assert.Equal(t, models.StatusPending, approval.InitialStatus())
	assert.Equal(t, models.StatusConfirmed, open.InitialStatus())
}

func TestRolePermissions(t *testing.T) {
	assert.False(t, models.RoleUser.CanCheckIn())
	assert.True(t, models.RoleHelper.CanCheckIn())
	assert.True(t, models.RoleAdmin.CanCheckIn())

	assert.False(t, models.RoleUser.CanManage())
	assert.False(t, models.RoleHelper.CanManage())
	assert.True(t, models.RoleAdmin.CanManage())
}
