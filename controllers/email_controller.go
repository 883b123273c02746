// Package controllers file: controllers/email_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"nexus-events/logger"
	"nexus-events/middleware"
	"nexus-events/services"
	"nexus-events/websocket"
)

// EmailController exposes the JSON API for ticket and certificate
// dispatch.
type EmailController struct {
	Emails *services.EmailService
}

// NewEmailController initializes a new instance of EmailController.
func NewEmailController(emails *services.EmailService) *EmailController {
	return &EmailController{Emails: emails}
}

type sendTicketRequest struct {
	Action     string `json:"action"`
	EventID    string `json:"eventId"`
	AttendeeID string `json:"attendeeId"`
}

// SendTicket is the POST /api/send-ticket endpoint:
// {action:'single'|'batch', eventId, attendeeId?} ->
// {success, processed, sent, failed} or an error object.
func (ec *EmailController) SendTicket(c *gin.Context) {
	// the route sits outside the admin group so the scanner UI can use
	// it too, but it still needs an authenticated session
	session := sessions.Default(c)
	if session.Get(middleware.SessionProfileKey) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req sendTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.EventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	switch req.Action {
	case "single":
		if req.AttendeeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Attendee ID is required"})
			return
		}
		if err := ec.Emails.ResendAttendee(req.AttendeeID); err != nil {
			ec.renderSendError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "processed": 1, "sent": 1, "failed": 0})

	case "batch":
		result, err := ec.Emails.SendBatchTickets(c.Request.Context(), req.EventID)
		if err != nil {
			ec.renderSendError(c, err)
			return
		}
		websocket.PublishEmailBatch(req.EventID, result.SentCount, result.ErrorCount)
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"processed": result.Processed,
			"sent":      result.SentCount,
			"failed":    result.ErrorCount,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

// SendCertificates runs the certificate batch for an event's checked-in
// attendees. Admin only (route middleware).
func (ec *EmailController) SendCertificates(c *gin.Context) {
	eventID := c.Param("id")

	result, err := ec.Emails.SendBatchCertificates(c.Request.Context(), eventID)
	if err != nil {
		ec.renderSendError(c, err)
		return
	}

	websocket.PublishEmailBatch(eventID, result.SentCount, result.ErrorCount)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"processed":  result.Processed,
		"sentCount":  result.SentCount,
		"errorCount": result.ErrorCount,
	})
}

func (ec *EmailController) renderSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, services.ErrAttendeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendee not found"})
	case errors.Is(err, services.ErrPendingResend), errors.Is(err, services.ErrTicketIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		logger.Error.Printf("send email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
