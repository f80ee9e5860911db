package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/models"
	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// EventHandler wires HTTP endpoints to the event service.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler creates a new handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List calendar events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.EventFilter{UserID: claims.UserID}
	for _, q := range []struct {
		name string
		dest **time.Time
	}{
		{"date", &filter.Date},
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+q.name+", expected YYYY-MM-DD"))
			return
		}
		*q.dest = &parsed
	}

	events, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}

// Get godoc
// @Summary Get a calendar event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	event, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Create godoc
// @Summary Create a calendar event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update a calendar event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body service.UpdateEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete a calendar event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
