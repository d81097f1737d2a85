package handlers

import (
	"github.com/braikhq/braik/internal/services"
	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	eventService *services.EventService
	scopeService *services.ScopeService
}

func NewEventHandler(db *gorm.DB, billing *services.BillingService, notifier *services.NotificationService) *EventHandler {
	return &EventHandler{
		eventService: services.NewEventService(db, billing, notifier),
		scopeService: services.NewScopeService(db),
	}
}

// List returns the events visible to the caller
// GET /api/teams/:teamId/events
func (h *EventHandler) List(c *gin.Context) {
	teamID, _, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	events, err := h.eventService.List(teamID, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, events)
}

// Get returns one event
// GET /api/teams/:teamId/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	teamID, _, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	event, err := h.eventService.Get(id, teamID, v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}

// Create adds an event
// POST /api/teams/:teamId/events
func (h *EventHandler) Create(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Create(m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update patches an event
// PUT /api/teams/:teamId/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Update(id, m, v, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}

// Delete removes an event
// DELETE /api/teams/:teamId/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	_, m, v, ok := loadViewer(c, h.scopeService)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.eventService.Remove(id, m, v); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "event removed"})
}
