package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendahub/agenda-api/internal/models"
	"github.com/agendahub/agenda-api/internal/service"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/response"
)

// TaskHandler wires HTTP endpoints to the task service.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new handler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// List godoc
// @Summary List tasks
// @Description Flat task list with filters, or the per-subject board
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param subject_id query string false "Filter by subject"
// @Param due_date query string false "Filter by due date (YYYY-MM-DD)"
// @Param completed query bool false "Filter by completion state"
// @Param view query string false "board for the per-subject grouping"
// @Success 200 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	ctx := c.Request.Context()

	if c.Query("view") == "board" {
		board, err := h.service.Board(ctx, claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, board)
		return
	}

	filter := models.TaskFilter{
		UserID:    claims.UserID,
		SubjectID: c.Query("subject_id"),
	}
	if raw := c.Query("due_date"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid due_date, expected YYYY-MM-DD"))
			return
		}
		filter.DueDate = &due
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid completed flag"))
			return
		}
		filter.Completed = &completed
	}

	tasks, err := h.service.List(ctx, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks)
}

// Get godoc
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	task, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Create godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid task payload"))
		return
	}

	task, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update godoc
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param payload body service.UpdateTaskRequest true "Task payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid task payload"))
		return
	}

	task, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Toggle godoc
// @Summary Toggle task completion
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tasks/{id}/toggle [patch]
func (h *TaskHandler) Toggle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	task, err := h.service.Toggle(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
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
