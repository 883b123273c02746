// file: controllers/auth_controller_test.go
package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-events/models"
)

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/signup", `{"email":"Ada@Example.com","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, app.db.First(&profile, "email = ?", "ada@example.com").Error)
	assert.Equal(t, models.RoleUser, profile.Role, "signups always start as plain users")

	w = app.do(http.MethodPost, "/login", `{"email":"ada@example.com","password":"hunter22"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), profile.ID)
}

func TestLogin_BadPassword(t *testing.T) {
	app := newTestApp(t)
	app.createProfile(t, "ada@example.com", models.RoleUser)

	w := app.do(http.MethodPost, "/login", `{"email":"ada@example.com","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Header().Get("Set-Cookie"), "testsession=", "no session on failed login")
}

func TestLogin_MissingFields(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/login", `{"email":"ada@example.com"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
