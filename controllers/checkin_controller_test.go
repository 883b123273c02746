// file: controllers/checkin_controller_test.go
package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-events/models"
	"nexus-events/services"
)

func TestSearch_UnwrapsQRPayload(t *testing.T) {
	app := newTestApp(t)
	helper := app.createProfile(t, "helper@example.com", models.RoleHelper)
	event := app.createEvent(t, nil, false)
	attendee := app.createAttendee(t, event.ID, "Ada", "ada@example.com", models.StatusConfirmed)

	cookies := app.login(t, helper.ID)
	body := fmt.Sprintf(`{"query":%q}`, services.CheckInURL(attendee.ID))
	w := app.do(http.MethodPost, "/admin/check-in/search", body, cookies)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, attendee.ID, resp.ID)
}

func TestSearch_ByEmail(t *testing.T) {
	app := newTestApp(t)
	helper := app.createProfile(t, "helper@example.com", models.RoleHelper)
	event := app.createEvent(t, nil, false)
	attendee := app.createAttendee(t, event.ID, "Ada", "ada@example.com", models.StatusConfirmed)

	cookies := app.login(t, helper.ID)
	w := app.do(http.MethodPost, "/admin/check-in/search", `{"query":"ada@example.com"}`, cookies)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), attendee.ID)
}

func TestCheckIn_HappyPath(t *testing.T) {
	app := newTestApp(t)
	helper := app.createProfile(t, "helper@example.com", models.RoleHelper)
	event := app.createEvent(t, nil, false)
	attendee := app.createAttendee(t, event.ID, "Ada", "ada@example.com", models.StatusConfirmed)

	cookies := app.login(t, helper.ID)
	w := app.do(http.MethodPost, "/admin/check-in/"+attendee.ID, "", cookies)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.Attendee
	require.NoError(t, app.db.First(&got, "id = ?", attendee.ID).Error)
	assert.True(t, got.CheckedIn)
	require.NotNil(t, got.CheckedInAt)
}

func TestCheckIn_DuplicateNamesAttendee(t *testing.T) {
	app := newTestApp(t)
	helper := app.createProfile(t, "helper@example.com", models.RoleHelper)
	event := app.createEvent(t, nil, false)
	attendee := app.createAttendee(t, event.ID, "Grace", "grace@example.com", models.StatusConfirmed)

	cookies := app.login(t, helper.ID)
	w := app.do(http.MethodPost, "/admin/check-in/"+attendee.ID, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPost, "/admin/check-in/"+attendee.ID, "", cookies)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Already checked in! (Grace)")
}

func TestCheckIn_RejectsPending(t *testing.T) {
	app := newTestApp(t)
	helper := app.createProfile(t, "helper@example.com", models.RoleHelper)
	event := app.createEvent(t, nil, true)
	attendee := app.createAttendee(t, event.ID, "Pat", "pat@example.com", models.StatusPending)

	cookies := app.login(t, helper.ID)
	w := app.do(http.MethodPost, "/admin/check-in/"+attendee.ID, "", cookies)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "status is not confirmed")
}

func TestCheckIn_RequiresHelperRole(t *testing.T) {
	app := newTestApp(t)
	user := app.createProfile(t, "user@example.com", models.RoleUser)
	event := app.createEvent(t, nil, false)
	attendee := app.createAttendee(t, event.ID, "Ada", "ada@example.com", models.StatusConfirmed)

	cookies := app.login(t, user.ID)
	w := app.do(http.MethodPost, "/admin/check-in/"+attendee.ID, "", cookies)

	assert.Equal(t, http.StatusFound, w.Code)

	var got models.Attendee
	require.NoError(t, app.db.First(&got, "id = ?", attendee.ID).Error)
	assert.False(t, got.CheckedIn)
}

func TestUndoCheckIn_AdminOnly(t *testing.T) {
	app := newTestApp(t)
	helper := app.createProfile(t, "helper@example.com", models.RoleHelper)
	admin := app.createProfile(t, "admin@example.com", models.RoleAdmin)
	event := app.createEvent(t, nil, false)
	attendee := app.createAttendee(t, event.ID, "Ada", "ada@example.com", models.StatusConfirmed)

	helperCookies := app.login(t, helper.ID)
	w := app.do(http.MethodPost, "/admin/check-in/"+attendee.ID, "", helperCookies)
	require.Equal(t, http.StatusOK, w.Code)

	// helpers cannot undo
	w = app.do(http.MethodDelete, "/admin/check-in/"+attendee.ID, "", helperCookies)
	assert.Equal(t, http.StatusFound, w.Code)

	adminCookies := app.login(t, admin.ID)
	w = app.do(http.MethodDelete, "/admin/check-in/"+attendee.ID, "", adminCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Attendee
	require.NoError(t, app.db.First(&got, "id = ?", attendee.ID).Error)
	assert.False(t, got.CheckedIn)
	assert.Nil(t, got.CheckedInAt)
}
