package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// PlannerHandler wires HTTP endpoints to the planner service.
type PlannerHandler struct {
	service *service.PlannerService
}

// NewPlannerHandler creates a new handler.
func NewPlannerHandler(svc *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{service: svc}
}

// Day godoc
// @Summary Day plan
// @Description Classes, pending tasks and events for one calendar date
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/day [get]
func (h *PlannerHandler) Day(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	plan, err := h.service.Day(c.Request.Context(), claims.UserID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}
