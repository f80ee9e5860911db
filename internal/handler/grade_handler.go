package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/models"
	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/export"
	"github.com/agendahub/agenda-api/pkg/response"
)

// GradeHandler wires HTTP endpoints to the grade service.
type GradeHandler struct {
	service *service.GradeService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewGradeHandler creates a new handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// List godoc
// @Summary List graded items
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param subject_id query string false "Filter by subject"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.GradedItemFilter{
		UserID:    claims.UserID,
		SubjectID: c.Query("subject_id"),
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Overview godoc
// @Summary Grade overview
// @Description Weighted finals per subject, global average and per-course progress
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /grades/overview [get]
func (h *GradeHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// Export godoc
// @Summary Export grade overview
// @Description Download the grade overview as CSV or PDF
// @Tags Grades
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /grades/overview/export [get]
func (h *GradeHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	dataset, err := h.service.ExportDataset(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var payload []byte
	var contentType, ext string
	switch format {
	case "csv":
		payload, err = h.csv.Render(dataset)
		contentType, ext = "text/csv", "csv"
	case "pdf":
		payload, err = h.pdf.Render(dataset)
		contentType, ext = "application/pdf", "pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format)))
		return
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	filename := fmt.Sprintf("grades-%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// Get godoc
// @Summary Get a graded item
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grades/{id} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	item, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Record a graded item
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update a graded item
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Param payload body service.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a graded item
// @Tags Grades
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
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
