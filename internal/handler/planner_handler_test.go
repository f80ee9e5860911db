package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/middleware"
	"github.com/agendahub/agenda-api/internal/models"
	"github.com/agendahub/agenda-api/internal/service"
)

type fakeScheduleRepo struct {
	entries []models.ScheduleEntry
}

func (f *fakeScheduleRepo) ListByUser(ctx context.Context, userID string) ([]models.ScheduleEntry, error) {
	return f.entries, nil
}

func (f *fakeScheduleRepo) ListByWeekday(ctx context.Context, userID, weekday string) ([]models.ScheduleEntry, error) {
	var result []models.ScheduleEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.OccursOn(weekday) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) ListByWeekdayAll(ctx context.Context, weekday string) ([]models.ScheduleEntry, error) {
	return f.entries, nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id, userID string) (*models.ScheduleEntry, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error { return nil }
func (f *fakeScheduleRepo) Update(ctx context.Context, entry *models.ScheduleEntry) error { return nil }
func (f *fakeScheduleRepo) Delete(ctx context.Context, id, userID string) error           { return nil }

type fakeTaskRepo struct {
	tasks []models.Task
}

func (f *fakeTaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return f.tasks, nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id, userID string) (*models.Task, error) {
	for _, task := range f.tasks {
		if task.ID == id && task.UserID == userID {
			found := task
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error { return nil }
func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error { return nil }

func (f *fakeTaskRepo) SetCompleted(ctx context.Context, id, userID string, completed bool) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = completed
		}
	}
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id, userID string) error { return nil }

type fakeEventRepo struct {
	events []models.CalendarEvent
}

func (f *fakeEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error) {
	return f.events, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id, userID string) (*models.CalendarEvent, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.CalendarEvent) error { return nil }
func (f *fakeEventRepo) Update(ctx context.Context, event *models.CalendarEvent) error { return nil }
func (f *fakeEventRepo) Delete(ctx context.Context, id, userID string) error           { return nil }

type fakeSubjectRepo struct {
	subjects []models.Subject
}

func (f *fakeSubjectRepo) ListByUser(ctx context.Context, userID string) ([]models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeSubjectRepo) FindByID(ctx context.Context, id, userID string) (*models.Subject, error) {
	for _, s := range f.subjects {
		if s.ID == id && s.UserID == userID {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) FindAny(ctx context.Context, id string) (*models.Subject, error) {
	for _, s := range f.subjects {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *models.Subject) error { return nil }
func (f *fakeSubjectRepo) Update(ctx context.Context, subject *models.Subject) error { return nil }
func (f *fakeSubjectRepo) Delete(ctx context.Context, id, userID string) error       { return nil }

func authedContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "student@example.com"})
	return c, rec
}

func TestPlannerHandlerDayRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewPlannerService(&fakeScheduleRepo{}, &fakeTaskRepo{}, &fakeEventRepo{}, &fakeSubjectRepo{}, nil)
	h := NewPlannerHandler(svc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/planner/day", nil)

	h.Day(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlannerHandlerDayInvalidDate(t *testing.T) {
	svc := service.NewPlannerService(&fakeScheduleRepo{}, &fakeTaskRepo{}, &fakeEventRepo{}, &fakeSubjectRepo{}, nil)
	h := NewPlannerHandler(svc)

	c, rec := authedContext(t, http.MethodGet, "/planner/day?date=15-01-2025")
	h.Day(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlannerHandlerDaySuccess(t *testing.T) {
	schedules := &fakeScheduleRepo{entries: []models.ScheduleEntry{
		{ID: "e1", UserID: "u1", SubjectID: "s1", Kind: models.ClassKindTheory, StartTime: "09:00", Days: []string{"wednesday"}},
	}}
	subjects := &fakeSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Algebra", Course: 1},
	}}
	svc := service.NewPlannerService(schedules, &fakeTaskRepo{}, &fakeEventRepo{}, subjects, nil)
	h := NewPlannerHandler(svc)

	// 2025-01-15 is a Wednesday.
	c, rec := authedContext(t, http.MethodGet, "/planner/day?date=2025-01-15")
	h.Day(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.DayPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "wednesday", envelope.Data.Weekday)
	require.Len(t, envelope.Data.Classes, 1)
	assert.Equal(t, "Algebra", envelope.Data.Classes[0].SubjectName)
}
