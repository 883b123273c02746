// Package controllers provides HTTP handlers for event management.
// File: controllers/event_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus-events/logger"
	"nexus-events/services"
)

// EventController provides admin CRUD over events plus the public event
// listing and detail views.
type EventController struct {
	Events *services.EventService
}

// NewEventController initializes a new instance of EventController.
func NewEventController(events *services.EventService) *EventController {
	return &EventController{Events: events}
}

// ListEvents returns every event, newest first. Public.
func (ec *EventController) ListEvents(c *gin.Context) {
	events, err := ec.Events.List()
	if err != nil {
		logger.Error.Printf("ListEvents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent returns one event. Public; registration pages render from this.
func (ec *EventController) GetEvent(c *gin.Context) {
	event, err := ec.Events.Get(c.Param("id"))
	if err != nil {
		ec.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent inserts a new event. Admin only (route middleware).
func (ec *EventController) CreateEvent(c *gin.Context) {
	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload: " + err.Error()})
		return
	}

	event, err := ec.Events.Create(input)
	if err != nil {
		logger.Error.Printf("CreateEvent: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent overwrites the editable fields of an event. Admin only.
func (ec *EventController) UpdateEvent(c *gin.Context) {
	var input services.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload: " + err.Error()})
		return
	}

	event, err := ec.Events.Update(c.Param("id"), input)
	if err != nil {
		ec.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event and all of its attendees. Admin only.
func (ec *EventController) DeleteEvent(c *gin.Context) {
	if err := ec.Events.Delete(c.Param("id")); err != nil {
		ec.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetEventStats returns the dashboard counters for one event. Admin only.
func (ec *EventController) GetEventStats(c *gin.Context) {
	stats, err := ec.Events.Stats(c.Param("id"))
	if err != nil {
		ec.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListAttendees returns the event's registrations for the management
// table. Admin only.
func (ec *EventController) ListAttendees(c *gin.Context) {
	attendees, err := ec.Events.Attendees(c.Param("id"))
	if err != nil {
		ec.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendees)
}

func (ec *EventController) renderError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	logger.Error.Printf("event handler: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
