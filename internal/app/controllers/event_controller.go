package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/services"
	"github.com/mete/schoolhub/internal/middleware"
	"github.com/mete/schoolhub/internal/pkg/helpers"
)

// EventController handles event operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent handles POST /api/events
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx, middleware.CallerID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Event created successfully", event))
}

// ListEvents handles GET /api/events
func (c *EventController) ListEvents(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	upcomingOnly := ctx.Query("upcoming") == "true"

	events, pagination, err := c.eventService.ListEvents(ctx, ctx.Query("eventType"), upcomingOnly, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(events, pagination))
}

// GetEventByID handles GET /api/events/:id
func (c *EventController) GetEventByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	event, err := c.eventService.GetEventByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(event))
}

// UpdateEvent handles PUT /api/events/:id
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx, id, middleware.CallerID(ctx), middleware.CallerRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Event updated successfully", event))
}

// DeleteEvent handles DELETE /api/events/:id
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.eventService.DeleteEvent(ctx, id, middleware.CallerID(ctx), middleware.CallerRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Event deleted", nil))
}

// RegisterForEvent handles POST /api/events/:id/register
func (c *EventController) RegisterForEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	participant, err := c.eventService.RegisterForEvent(ctx, id, middleware.CallerID(ctx), middleware.CallerRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Registered for event", participant))
}

// GetParticipants handles GET /api/events/:id/participants
func (c *EventController) GetParticipants(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	participants, err := c.eventService.GetParticipants(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewDataResponse(participants))
}

// UpdateParticipantStatus handles PATCH /api/events/:id/participants/:userId
func (c *EventController) UpdateParticipantStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	var req dto.UpdateParticipantStatusRequest
	if !middleware.BindJSONStrict(ctx, &req) {
		return
	}

	err := c.eventService.UpdateParticipantStatus(ctx, id, userID, middleware.CallerID(ctx), middleware.CallerRole(ctx), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Participant status updated", nil))
}
