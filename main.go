// main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nexus-events/controllers"
	"nexus-events/database"
	"nexus-events/logger"
	"nexus-events/middleware"
	"nexus-events/services"
	"nexus-events/websocket"
)

func main() {
	// .env is optional; real deployments inject environment directly
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("[main] no .env file found, using environment")
	}

	logger.SetLogLevel(os.Getenv("APP_ENV"))

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Services
	registrations := services.NewRegistrationService(db)
	checkIns := services.NewCheckInService(db)
	events := services.NewEventService(db)
	profiles := services.NewProfileService(db)
	emails := services.NewEmailService(db, services.NewResendClient())

	// Controllers
	authController := controllers.NewAuthController(profiles)
	eventController := controllers.NewEventController(events)
	registrationController := controllers.NewRegistrationController(registrations)
	checkInController := controllers.NewCheckInController(checkIns)
	ticketController := controllers.NewTicketController(checkIns, events)
	emailController := controllers.NewEmailController(emails)
	adminController := controllers.NewAdminController(registrations, profiles, emails)

	// Initialize the router
	router := gin.Default()

	// Initialize session store
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "secret"
		logger.Warn.Println("[main] SESSION_SECRET not set, using insecure default")
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("nexus_session", store))

	// Every request resolves its role claim fresh from the database
	router.Use(middleware.RoleClaim(db))

	// Add this route for health checks
	router.GET("/health", controllers.Health)

	// Public routes
	router.GET("/login", authController.ShowLoginPage)
	router.POST("/login", authController.PerformLogin)
	router.POST("/signup", authController.Signup)
	router.GET("/logout", authController.Logout)
	router.GET("/error", controllers.ErrorPage)

	router.GET("/events", eventController.ListEvents)
	router.GET("/events/:id", eventController.GetEvent)
	router.POST("/events/:id/register", registrationController.Register)
	router.GET("/events/:id/register/full-capacity", registrationController.FullCapacity)
	router.GET("/events/:id/register/confirmation", registrationController.PendingConfirmation)
	router.GET("/events/:id/calendar.ics", ticketController.EventICS)
	router.GET("/events/:id/calendar-links", ticketController.EventCalendarLinks)

	router.GET("/tickets/:id", ticketController.Ticket)
	router.GET("/tickets/:id/pdf", ticketController.TicketPDF)
	router.GET("/tickets/:id/qr", ticketController.TicketQR)

	// Authenticated JSON API; the handler enforces the session itself
	router.POST("/api/send-ticket", emailController.SendTicket)

	// Scanner routes: helpers and admins
	scanner := router.Group("/admin", middleware.AuthRequired, middleware.HelperRequired())
	{
		scanner.POST("/check-in/search", checkInController.Search)
		scanner.GET("/check-in/:id", checkInController.Detail)
		scanner.POST("/check-in/:id", checkInController.CheckIn)
		scanner.GET("/check-in-feed", func(c *gin.Context) {
			websocket.ServeWs(c.Writer, c.Request)
		})
		scanner.GET("/heartbeat", gin.WrapF(HeartbeatHandler))
		scanner.GET("/stations", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"stations": ActiveStations()})
		})
	}

	// Admin-only management routes
	admin := router.Group("/admin", middleware.AuthRequired, middleware.AdminRequired())
	{
		admin.POST("/events", eventController.CreateEvent)
		admin.PUT("/events/:id", eventController.UpdateEvent)
		admin.DELETE("/events/:id", eventController.DeleteEvent)
		admin.GET("/events/:id/stats", eventController.GetEventStats)
		admin.GET("/events/:id/attendees", eventController.ListAttendees)
		admin.GET("/events/:id/attendees.csv", ticketController.AttendeesCSV)
		admin.POST("/events/:id/confirm-all", adminController.ConfirmAllPending)
		admin.POST("/events/:id/certificates", emailController.SendCertificates)

		admin.PUT("/attendees/:attendeeId/status", adminController.SetAttendeeStatus)
		admin.DELETE("/check-in/:id", checkInController.UndoCheckIn)

		admin.GET("/users", adminController.ListProfiles)
		admin.PUT("/users/:userId/role", adminController.UpdateUserRole)
	}

	// Start the WebSocket handler and station cleanup
	go websocket.HandleMessages()
	go CleanupRoutine()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info.Printf("[main] listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
