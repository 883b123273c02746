// Package controllers file: controllers/checkin_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexus-events/logger"
	"nexus-events/models"
	"nexus-events/services"
	"nexus-events/websocket"
)

// CheckInController handles the scanner and check-in surfaces. Routes are
// gated to helpers and admins by middleware.
type CheckInController struct {
	CheckIns *services.CheckInService
}

// NewCheckInController initializes a new instance of CheckInController.
func NewCheckInController(checkIns *services.CheckInService) *CheckInController {
	return &CheckInController{CheckIns: checkIns}
}

type searchRequest struct {
	Query string `json:"query" form:"query" binding:"required"`
}

// Search resolves a scanned QR payload or a typed email/UUID to an
// attendee id. The scanner UI then navigates to the check-in detail.
func (cc *CheckInController) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "query is required"})
		return
	}

	// A scanned QR carries the whole check-in URL; unwrap it first.
	query := req.Query
	if id, ok := services.ResolveTicketID(query); ok {
		query = id
	}

	id, err := cc.CheckIns.Search(query)
	if err != nil {
		if errors.Is(err, services.ErrAttendeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Attendee not found"})
			return
		}
		logger.Error.Printf("Search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// Detail shows one attendee with their event for the check-in screen.
func (cc *CheckInController) Detail(c *gin.Context) {
	attendee, err := cc.CheckIns.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrAttendeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Could not find an attendee with this ticket ID."})
			return
		}
		logger.Error.Printf("Detail: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, attendee)
}

// CheckIn marks the attendee as arrived. Duplicate scans and unconfirmed
// registrations are rejected with a message the scanner shows verbatim.
func (cc *CheckInController) CheckIn(c *gin.Context) {
	id := c.Param("id")

	attendee, err := cc.CheckIns.CheckIn(id)
	if err != nil {
		var dup *models.AlreadyCheckedInError
		switch {
		case errors.As(err, &dup):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Already checked in! (" + dup.Name + ")"})
		case errors.Is(err, models.ErrNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Taking action not allowed. Attendee status is not confirmed."})
		case errors.Is(err, services.ErrAttendeeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Attendee not found or scan failed"})
		default:
			logger.Error.Printf("CheckIn: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "check-in failed"})
		}
		return
	}

	now := time.Now()
	if attendee.CheckedInAt != nil {
		now = *attendee.CheckedInAt
	}
	websocket.BroadcastCheckIn(attendee.EventID, attendee.ID, attendee.Name, true, now)
	websocket.PublishCheckIn(attendee.EventID, 1)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UndoCheckIn clears the arrival flag. Admin only (route middleware); the
// flip is unconditional.
func (cc *CheckInController) UndoCheckIn(c *gin.Context) {
	id := c.Param("id")

	attendee, err := cc.CheckIns.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Attendee not found"})
		return
	}

	if err := cc.CheckIns.UndoCheckIn(id); err != nil {
		logger.Error.Printf("UndoCheckIn: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "undo failed"})
		return
	}

	websocket.BroadcastCheckIn(attendee.EventID, attendee.ID, attendee.Name, false, time.Now())
	websocket.PublishCheckIn(attendee.EventID, -1)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
