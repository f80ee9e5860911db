package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// ScheduleHandler wires HTTP endpoints to the schedule service.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List schedule entries
// @Description Flat list of entries, or the full week view, or one weekday
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param view query string false "week for the weekly view"
// @Param weekday query string false "Canonical weekday name"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	ctx := c.Request.Context()

	if weekday := c.Query("weekday"); weekday != "" {
		entries, err := h.service.ForWeekday(ctx, claims.UserID, weekday)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, entries)
		return
	}

	if c.Query("view") == "week" {
		week, err := h.service.Week(ctx, claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, week)
		return
	}

	entries, err := h.service.List(ctx, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Get godoc
// @Summary Get a schedule entry
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	entry, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Create godoc
// @Summary Create a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateScheduleEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateScheduleEntryRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete a schedule entry
// @Tags Schedule
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
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
