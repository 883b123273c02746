// Package controllers file: controllers/admin_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
	"nexus-events/services"
)

// AdminController bundles the admin-only management endpoints: attendee
// status moderation and the role manager.
type AdminController struct {
	Registrations *services.RegistrationService
	Profiles      *services.ProfileService
	Emails        *services.EmailService
}

// NewAdminController initializes a new instance of AdminController.
func NewAdminController(
	registrations *services.RegistrationService,
	profiles *services.ProfileService,
	emails *services.EmailService,
) *AdminController {
	return &AdminController{
		Registrations: registrations,
		Profiles:      profiles,
		Emails:        emails,
	}
}

// ------------------------ attendee moderation -----------------------

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetAttendeeStatus moves a registration between pending, confirmed and
// rejected. Confirming sends the ticket email, rejecting the rejection
// notice; either email failing does not roll the status back.
func (ac *AdminController) SetAttendeeStatus(c *gin.Context) {
	attendeeID := c.Param("attendeeId")

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	status := models.AttendeeStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := ac.Registrations.SetStatus(attendeeID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attendee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ac.notifyStatusChange(attendeeID, status)
	c.JSON(http.StatusOK, gin.H{"success": true, "status": string(status)})
}

// ConfirmAllPending confirms every pending registration of an event in
// one action and sends their tickets through the batch pipeline.
func (ac *AdminController) ConfirmAllPending(c *gin.Context) {
	eventID := c.Param("id")

	confirmed, err := ac.Registrations.ConfirmAllPending(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.Emails.SendBatchTickets(c.Request.Context(), eventID)
	if err != nil {
		logger.Error.Printf("[ConfirmAllPending] batch send for %s: %v", eventID, err)
		c.JSON(http.StatusOK, gin.H{"success": true, "confirmed": confirmed, "sent": 0, "failed": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"confirmed": confirmed,
		"sent":      result.SentCount,
		"failed":    result.ErrorCount,
	})
}

// notifyStatusChange sends the email matching the new status. Failures
// are logged only; the status change already happened.
func (ac *AdminController) notifyStatusChange(attendeeID string, status models.AttendeeStatus) {
	if status == models.StatusPending {
		return
	}
	if err := ac.Emails.ResendAttendee(attendeeID); err != nil {
		logger.Warn.Printf("[notifyStatusChange] email for %s: %v", attendeeID, err)
	}
}

// ------------------------ role manager -----------------------

// ListProfiles returns every profile for the role manager screen.
func (ac *AdminController) ListProfiles(c *gin.Context) {
	profiles, err := ac.Profiles.ListProfiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole changes another profile's role. Admin accounts are off
// limits as targets, and admin can never be granted here.
func (ac *AdminController) UpdateUserRole(c *gin.Context) {
	targetID := c.Param("userId")

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Role is required"})
		return
	}

	if err := ac.Profiles.UpdateRole(targetID, models.Role(req.Role)); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminProtected):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Cannot modify an admin's role."})
		case errors.Is(err, services.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
