package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// SubjectHandler wires HTTP endpoints to the subject service.
type SubjectHandler struct {
	service *service.SubjectService
}

// NewSubjectHandler creates a new handler.
func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List subjects
// @Description List the user's subjects, optionally grouped by course
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param grouped query bool false "Group subjects by course"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if c.Query("grouped") == "true" {
		groups, err := h.service.ListGrouped(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, groups)
		return
	}

	subjects, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

// Get godoc
// @Summary Get a subject
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	subject, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject)
}

// Create godoc
// @Summary Create a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}

	subject, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Param payload body service.UpdateSubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}

	subject, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject)
}

// Delete godoc
// @Summary Delete a subject
// @Tags Subjects
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
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
