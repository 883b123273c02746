// Package controllers file: controllers/ticket_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexus-events/logger"
	"nexus-events/models"
	"nexus-events/services"
)

// TicketController serves ticket downloads and calendar exports.
type TicketController struct {
	CheckIns *services.CheckInService
	Events   *services.EventService
}

// NewTicketController initializes a new instance of TicketController.
func NewTicketController(checkIns *services.CheckInService, events *services.EventService) *TicketController {
	return &TicketController{CheckIns: checkIns, Events: events}
}

// Ticket shows the ticket summary page after a confirmed registration.
func (tc *TicketController) Ticket(c *gin.Context) {
	attendee, err := tc.CheckIns.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attendee": attendee,
		"event":    attendee.Event,
		"calendar": calendarLinks(attendee.Event),
	})
}

// TicketPDF streams the printable ticket with the embedded check-in QR.
func (tc *TicketController) TicketPDF(c *gin.Context) {
	attendee, err := tc.CheckIns.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	pdf, err := services.BuildTicketPDF(attendee, attendee.Event)
	if err != nil {
		logger.Error.Printf("[TicketPDF] build failed for %s: %v", attendee.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate ticket"})
		return
	}

	filename := services.TicketFilename(attendee.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// TicketQR serves the raw QR PNG for the scanner preview.
func (tc *TicketController) TicketQR(c *gin.Context) {
	attendee, err := tc.CheckIns.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	png, err := services.GenerateTicketQR(attendee.ID, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// EventICS downloads the event as an .ics calendar file.
func (tc *TicketController) EventICS(c *gin.Context) {
	event, err := tc.Events.Get(c.Param("id"))
	if err != nil {
		tc.renderEventError(c, err)
		return
	}

	ics := services.GenerateIcsFileContent(calendarEventFor(event))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.Name+".ics"))
	c.Data(http.StatusOK, "text/calendar", []byte(ics))
}

// EventCalendarLinks returns the add-to-calendar URLs for an event.
func (tc *TicketController) EventCalendarLinks(c *gin.Context) {
	event, err := tc.Events.Get(c.Param("id"))
	if err != nil {
		tc.renderEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, calendarLinks(event))
}

// AttendeesCSV downloads the event's attendee list as a CSV file.
func (tc *TicketController) AttendeesCSV(c *gin.Context) {
	event, err := tc.Events.Get(c.Param("id"))
	if err != nil {
		tc.renderEventError(c, err)
		return
	}

	attendees, err := tc.Events.Attendees(event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load attendees"})
		return
	}

	csvData, err := services.AttendeesCSV(attendees)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.Name+"-attendees.csv"))
	c.Data(http.StatusOK, "text/csv", []byte(csvData))
}

func (tc *TicketController) renderEventError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// calendarEventFor maps an event onto the calendar export shape. Events
// carry a single timestamp, so the entry spans a default two hours.
func calendarEventFor(event *models.Event) services.CalendarEvent {
	return services.CalendarEvent{
		Title:       event.Name,
		Description: event.Description,
		Location:    event.Location,
		StartTime:   event.Date,
		EndTime:     event.Date.Add(2 * time.Hour),
	}
}

func calendarLinks(event *models.Event) gin.H {
	cal := calendarEventFor(event)
	return gin.H{
		"google":  services.GenerateGoogleCalendarURL(cal),
		"outlook": services.GenerateOutlookCalendarURL(cal),
		"ics":     fmt.Sprintf("%s/events/%s/calendar.ics", services.ApplicationURL(), event.ID),
	}
}
