package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

type mockScheduleRepo struct {
	entries []models.ScheduleEntry
}

func (m *mockScheduleRepo) ListByUser(ctx context.Context, userID string) ([]models.ScheduleEntry, error) {
	var result []models.ScheduleEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ListByWeekday(ctx context.Context, userID, weekday string) ([]models.ScheduleEntry, error) {
	var result []models.ScheduleEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.OccursOn(weekday) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ListByWeekdayAll(ctx context.Context, weekday string) ([]models.ScheduleEntry, error) {
	var result []models.ScheduleEntry
	for _, e := range m.entries {
		if e.OccursOn(weekday) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id, userID string) (*models.ScheduleEntry, error) {
	for _, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			entry := e
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = "generated"
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	for i := range m.entries {
		if m.entries[i].ID == entry.ID {
			m.entries[i] = *entry
		}
	}
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id, userID string) error {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

type mockTaskRepo struct {
	tasks []models.Task
}

func (m *mockTaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var result []models.Task
	for _, task := range m.tasks {
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if filter.SubjectID != "" && task.SubjectID != filter.SubjectID {
			continue
		}
		if filter.DueDate != nil {
			if task.DueDate == nil || task.DueDate.Format("2006-01-02") != filter.DueDate.Format("2006-01-02") {
				continue
			}
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id, userID string) (*models.Task, error) {
	for _, task := range m.tasks {
		if task.ID == id && task.UserID == userID {
			found := task
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = "generated"
	}
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	for i := range m.tasks {
		if m.tasks[i].ID == task.ID {
			m.tasks[i] = *task
		}
	}
	return nil
}

func (m *mockTaskRepo) SetCompleted(ctx context.Context, id, userID string, completed bool) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == userID {
			m.tasks[i].Completed = completed
		}
	}
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id, userID string) error {
	kept := m.tasks[:0]
	for _, task := range m.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	m.tasks = kept
	return nil
}

type mockEventRepo struct {
	events []models.CalendarEvent
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error) {
	var result []models.CalendarEvent
	for _, event := range m.events {
		if filter.UserID != "" && event.UserID != filter.UserID {
			continue
		}
		if filter.Date != nil && event.Date.Format("2006-01-02") != filter.Date.Format("2006-01-02") {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func (m *mockEventRepo) FindByID(ctx context.Context, id, userID string) (*models.CalendarEvent, error) {
	for _, event := range m.events {
		if event.ID == id && event.UserID == userID {
			found := event
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.CalendarEvent) error {
	m.events = append(m.events, *event)
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.CalendarEvent) error {
	for i := range m.events {
		if m.events[i].ID == event.ID {
			m.events[i] = *event
		}
	}
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id, userID string) error {
	kept := m.events[:0]
	for _, event := range m.events {
		if event.ID != id {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// 2025-01-15 is a Wednesday.
var plannerDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func TestPlannerDayMatchesWeekday(t *testing.T) {
	schedules := &mockScheduleRepo{entries: []models.ScheduleEntry{
		{ID: "e1", UserID: "u1", SubjectID: "s1", Kind: models.ClassKindTheory, StartTime: "09:00", Days: []string{"monday", "wednesday"}},
		{ID: "e2", UserID: "u1", SubjectID: "s1", Kind: models.ClassKindLab, StartTime: "11:00", Days: []string{"tuesday"}},
	}}
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Algebra", Color: "#ff0000", Course: 1},
	}}
	svc := NewPlannerService(schedules, &mockTaskRepo{}, &mockEventRepo{}, subjects, nil)

	plan, err := svc.Day(context.Background(), "u1", plannerDate)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-15", plan.Date)
	assert.Equal(t, "wednesday", plan.Weekday)
	require.Len(t, plan.Classes, 1)
	assert.Equal(t, "e1", plan.Classes[0].ID)
	assert.Equal(t, "Algebra", plan.Classes[0].SubjectName)
	assert.Equal(t, "#ff0000", plan.Classes[0].SubjectColor)
}

func TestPlannerDayTaskSelection(t *testing.T) {
	due := plannerDate
	otherDay := plannerDate.AddDate(0, 0, 1)
	tasks := &mockTaskRepo{tasks: []models.Task{
		{ID: "t1", UserID: "u1", SubjectID: "s1", Title: "due today", DueDate: &due},
		{ID: "t2", UserID: "u1", SubjectID: "s1", Title: "done", DueDate: &due, Completed: true},
		{ID: "t3", UserID: "u1", SubjectID: "s1", Title: "due tomorrow", DueDate: &otherDay},
		{ID: "t4", UserID: "u1", SubjectID: "s1", Title: "no due date"},
	}}
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Algebra", Course: 1},
	}}
	svc := NewPlannerService(&mockScheduleRepo{}, tasks, &mockEventRepo{}, subjects, nil)

	plan, err := svc.Day(context.Background(), "u1", plannerDate)
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "t1", plan.Tasks[0].ID)
	assert.Equal(t, "Algebra", plan.Tasks[0].SubjectName)
}

func TestPlannerDayMissingSubjectResolvesEmpty(t *testing.T) {
	schedules := &mockScheduleRepo{entries: []models.ScheduleEntry{
		{ID: "e1", UserID: "u1", SubjectID: "deleted", Kind: models.ClassKindTheory, StartTime: "09:00", Days: []string{"wednesday"}},
	}}
	svc := NewPlannerService(schedules, &mockTaskRepo{}, &mockEventRepo{}, &mockSubjectRepo{}, nil)

	plan, err := svc.Day(context.Background(), "u1", plannerDate)
	require.NoError(t, err)

	require.Len(t, plan.Classes, 1)
	assert.Empty(t, plan.Classes[0].SubjectName)
	assert.Empty(t, plan.Classes[0].SubjectColor)
}

func TestPlannerDayIncludesEvents(t *testing.T) {
	events := &mockEventRepo{events: []models.CalendarEvent{
		{ID: "ev1", UserID: "u1", Title: "Field trip", Date: plannerDate},
		{ID: "ev2", UserID: "u1", Title: "Exam week", Date: plannerDate.AddDate(0, 0, 3)},
	}}
	svc := NewPlannerService(&mockScheduleRepo{}, &mockTaskRepo{}, events, &mockSubjectRepo{}, nil)

	plan, err := svc.Day(context.Background(), "u1", plannerDate)
	require.NoError(t, err)

	require.Len(t, plan.Events, 1)
	assert.Equal(t, "Field trip", plan.Events[0].Title)
}
