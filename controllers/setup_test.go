// file: controllers/setup_test.go
package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nexus-events/controllers"
	"nexus-events/database"
	"nexus-events/middleware"
	"nexus-events/models"
	"nexus-events/services"
)

// fakeMail records every send and can be told to fail for specific
// recipients.
type fakeMail struct {
	sent    []*resend.SendEmailRequest
	failFor map[string]bool
}

func (m *fakeMail) Send(params *resend.SendEmailRequest) (string, error) {
	if len(params.To) > 0 && m.failFor[params.To[0]] {
		return "", fmt.Errorf("delivery refused for %s", params.To[0])
	}
	m.sent = append(m.sent, params)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	mail   *fakeMail
}

// newTestApp builds the full router the way main.go does, on an
// in-memory database, with the rate limiter disabled and a fake mailer.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mail := &fakeMail{failFor: map[string]bool{}}

	registrations := services.NewRegistrationService(db)
	checkIns := services.NewCheckInService(db)
	events := services.NewEventService(db)
	profiles := services.NewProfileService(db)
	emails := services.NewEmailService(db, mail)
	emails.SetLimiter(rate.NewLimiter(rate.Inf, 1))

	authController := controllers.NewAuthController(profiles)
	eventController := controllers.NewEventController(events)
	registrationController := controllers.NewRegistrationController(registrations)
	checkInController := controllers.NewCheckInController(checkIns)
	ticketController := controllers.NewTicketController(checkIns, events)
	emailController := controllers.NewEmailController(emails)
	adminController := controllers.NewAdminController(registrations, profiles, emails)

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))
	router.Use(middleware.RoleClaim(db))

	router.GET("/test-login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(middleware.SessionProfileKey, c.Param("id"))
		_ = session.Save()
		c.Status(http.StatusOK)
	})

	router.GET("/events", eventController.ListEvents)
	router.GET("/events/:id", eventController.GetEvent)
	router.POST("/events/:id/register", registrationController.Register)
	router.GET("/events/:id/calendar.ics", ticketController.EventICS)
	router.GET("/events/:id/calendar-links", ticketController.EventCalendarLinks)
	router.GET("/tickets/:id", ticketController.Ticket)
	router.GET("/tickets/:id/pdf", ticketController.TicketPDF)
	router.GET("/tickets/:id/qr", ticketController.TicketQR)
	router.POST("/api/send-ticket", emailController.SendTicket)
	router.POST("/signup", authController.Signup)
	router.POST("/login", authController.PerformLogin)

	scanner := router.Group("/admin", middleware.AuthRequired, middleware.HelperRequired())
	{
		scanner.POST("/check-in/search", checkInController.Search)
		scanner.GET("/check-in/:id", checkInController.Detail)
		scanner.POST("/check-in/:id", checkInController.CheckIn)
	}

	admin := router.Group("/admin", middleware.AuthRequired, middleware.AdminRequired())
	{
		admin.POST("/events", eventController.CreateEvent)
		admin.GET("/events/:id/stats", eventController.GetEventStats)
		admin.GET("/events/:id/attendees.csv", ticketController.AttendeesCSV)
		admin.POST("/events/:id/confirm-all", adminController.ConfirmAllPending)
		admin.POST("/events/:id/certificates", emailController.SendCertificates)
		admin.PUT("/attendees/:attendeeId/status", adminController.SetAttendeeStatus)
		admin.DELETE("/check-in/:id", checkInController.UndoCheckIn)
		admin.GET("/users", adminController.ListProfiles)
		admin.PUT("/users/:userId/role", adminController.UpdateUserRole)
	}

	return &testApp{db: db, router: router, mail: mail}
}

func (app *testApp) createProfile(t *testing.T, email string, role models.Role) models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	p := models.Profile{Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, app.db.Create(&p).Error)
	return p
}

func (app *testApp) createEvent(t *testing.T, capacity *int, requiresApproval bool) models.Event {
	t.Helper()
	e := models.Event{Name: "DevFest", Location: "Community Hall", RequiresApproval: requiresApproval, Capacity: capacity}
	require.NoError(t, app.db.Create(&e).Error)
	return e
}

func (app *testApp) createAttendee(t *testing.T, eventID, name, email string, status models.AttendeeStatus) models.Attendee {
	t.Helper()
	a := models.Attendee{EventID: eventID, Name: name, Email: email, Status: status}
	require.NoError(t, app.db.Create(&a).Error)
	return a
}

func (app *testApp) login(t *testing.T, profileID string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test-login/"+profileID, nil)
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func (app *testApp) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	app.router.ServeHTTP(w, req)
	return w
}

func intPtr(v int) *int { return &v }
