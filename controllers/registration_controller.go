// Package controllers file: controllers/registration_controller.go
package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"nexus-events/logger"
	"nexus-events/services"
)

// RegistrationController handles the public registration form flow.
type RegistrationController struct {
	Registrations *services.RegistrationService
}

// NewRegistrationController initializes a new instance of RegistrationController.
func NewRegistrationController(registrations *services.RegistrationService) *RegistrationController {
	return &RegistrationController{Registrations: registrations}
}

// Register accepts the public registration form. No auth required. The
// outcome decides the redirect: full-capacity page, pending-confirmation
// page, or straight to the ticket.
func (rc *RegistrationController) Register(c *gin.Context) {
	eventID := c.Param("id")
	name := c.PostForm("name")
	email := c.PostForm("email")

	outcome, attendee, err := rc.Registrations.Register(eventID, name, email)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.Redirect(http.StatusFound, "/error?message="+url.QueryEscape("Event not found"))
			return
		}
		logger.Error.Printf("Register: event %s: %v", eventID, err)
		c.Redirect(http.StatusFound, "/error?message="+url.QueryEscape("Registration failed, please try again."))
		return
	}

	switch outcome {
	case services.OutcomeFullCapacity:
		c.Redirect(http.StatusFound, "/events/"+eventID+"/register/full-capacity")
	case services.OutcomePending:
		c.Redirect(http.StatusFound, "/events/"+eventID+"/register/confirmation")
	default:
		c.Redirect(http.StatusFound, "/tickets/"+attendee.ID)
	}
}

// FullCapacity is the landing page for registrations turned away at the
// capacity limit.
func (rc *RegistrationController) FullCapacity(c *gin.Context) {
	c.String(http.StatusOK, "This event has reached full capacity. No further registrations are possible.")
}

// PendingConfirmation is the landing page for registrations awaiting
// approval.
func (rc *RegistrationController) PendingConfirmation(c *gin.Context) {
	c.String(http.StatusOK, "Thanks for registering! Your registration is pending confirmation; watch your inbox.")
}

// ErrorPage renders the generic error route the form flows redirect to.
func ErrorPage(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		message = "Something went wrong."
	}
	c.String(http.StatusOK, message)
}
