package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// ReminderHandler exposes the internal reminder runner endpoint.
type ReminderHandler struct {
	service *service.ReminderService
}

// NewReminderHandler creates a new handler.
func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: svc}
}

// Run godoc
// @Summary Trigger a reminder sweep
// @Description Scans today's schedule and queues reminders for classes starting soon
// @Tags Internal
// @Produce json
// @Param X-Runner-Secret header string true "Runner secret"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /internal/reminders/run [post]
func (h *ReminderHandler) Run(c *gin.Context) {
	queued, err := h.service.RunOnce(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "reminder sweep failed"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"queued": queued})
}
