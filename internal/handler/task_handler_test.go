package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
	"github.com/agendahub/agenda-api/internal/service"
)

func TestTaskHandlerToggle(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: []models.Task{
		{ID: "t1", UserID: "u1", SubjectID: "s1", Title: "read chapter"},
	}}
	svc := service.NewTaskService(tasks, &fakeSubjectRepo{}, nil, nil)
	h := NewTaskHandler(svc)

	c, rec := authedContext(t, http.MethodPatch, "/tasks/t1/toggle")
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	h.Toggle(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Completed)
	assert.True(t, tasks.tasks[0].Completed)
}

func TestTaskHandlerToggleNotFound(t *testing.T) {
	svc := service.NewTaskService(&fakeTaskRepo{}, &fakeSubjectRepo{}, nil, nil)
	h := NewTaskHandler(svc)

	c, rec := authedContext(t, http.MethodPatch, "/tasks/missing/toggle")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Toggle(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandlerListBadCompletedFlag(t *testing.T) {
	svc := service.NewTaskService(&fakeTaskRepo{}, &fakeSubjectRepo{}, nil, nil)
	h := NewTaskHandler(svc)

	c, rec := authedContext(t, http.MethodGet, "/tasks?completed=maybe")
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
