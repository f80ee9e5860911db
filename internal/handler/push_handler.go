package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// PushHandler wires HTTP endpoints to the push service.
type PushHandler struct {
	service *service.PushService
}

// NewPushHandler creates a new handler.
func NewPushHandler(svc *service.PushService) *PushHandler {
	return &PushHandler{service: svc}
}

// List godoc
// @Summary List push subscriptions
// @Tags Push
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /push/tokens [get]
func (h *PushHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	tokens, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tokens)
}

// Register godoc
// @Summary Register a push subscription
// @Tags Push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.RegisterPushTokenRequest true "Subscription payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /push/tokens [post]
func (h *PushHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.RegisterPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid push token payload"))
		return
	}

	token, err := h.service.Register(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, token)
}

// Unregister godoc
// @Summary Remove a push subscription
// @Tags Push
// @Security BearerAuth
// @Param id path string true "Token ID"
// @Success 204 "No Content"
// @Router /push/tokens/{id} [delete]
func (h *PushHandler) Unregister(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Unregister(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
