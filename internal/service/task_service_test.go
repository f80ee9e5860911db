package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

func TestTaskServiceToggleFlipsCompletion(t *testing.T) {
	tasks := &mockTaskRepo{tasks: []models.Task{
		{ID: "t1", UserID: "u1", SubjectID: "s1", Title: "read chapter"},
	}}
	svc := NewTaskService(tasks, &mockSubjectRepo{}, nil, nil)

	task, err := svc.Toggle(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.True(t, tasks.tasks[0].Completed)

	task, err = svc.Toggle(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.False(t, task.Completed)
}

func TestTaskServiceToggleEnforcesOwnership(t *testing.T) {
	tasks := &mockTaskRepo{tasks: []models.Task{
		{ID: "t1", UserID: "owner", SubjectID: "s1", Title: "read chapter"},
	}}
	svc := NewTaskService(tasks, &mockSubjectRepo{}, nil, nil)

	_, err := svc.Toggle(context.Background(), "t1", "intruder")
	require.Error(t, err)
	assert.False(t, tasks.tasks[0].Completed)
}

func TestTaskServiceCreateParsesDueDate(t *testing.T) {
	tasks := &mockTaskRepo{}
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "550e8400-e29b-41d4-a716-446655440000", UserID: "u1", Course: 1},
	}}
	svc := NewTaskService(tasks, subjects, nil, nil)

	task, err := svc.Create(context.Background(), "u1", CreateTaskRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Title:     "  lab report ",
		DueDate:   "2025-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "lab report", task.Title)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-01-15", task.DueDate.Format("2006-01-02"))
}

func TestTaskServiceCreateRejectsBadDueDate(t *testing.T) {
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "550e8400-e29b-41d4-a716-446655440000", UserID: "u1", Course: 1},
	}}
	svc := NewTaskService(&mockTaskRepo{}, subjects, nil, nil)

	_, err := svc.Create(context.Background(), "u1", CreateTaskRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Title:     "lab report",
		DueDate:   "15/01/2025",
	})
	require.Error(t, err)
}

func TestBuildTaskBoard(t *testing.T) {
	subjects := []models.Subject{
		{ID: "s1", Name: "Algebra", Course: 1},
		{ID: "s2", Name: "Physics", Course: 1},
		{ID: "s3", Name: "Chemistry", Course: 2},
	}
	tasks := []models.Task{
		{ID: "t1", SubjectID: "s1"},
		{ID: "t2", SubjectID: "s3"},
		{ID: "t3", SubjectID: "s1"},
		{ID: "t4", SubjectID: "deleted-subject"},
	}

	board := BuildTaskBoard(subjects, tasks)

	require.Len(t, board, 2)
	assert.Equal(t, "Algebra", board[0].Subject.Name)
	assert.Len(t, board[0].Tasks, 2)
	assert.Equal(t, "Chemistry", board[1].Subject.Name)
	assert.Len(t, board[1].Tasks, 1)
}

func TestGroupSubjectsByCourse(t *testing.T) {
	subjects := []models.Subject{
		{ID: "s1", Course: 1},
		{ID: "s2", Course: 2},
		{ID: "s3", Course: 1},
	}

	groups := GroupSubjectsByCourse(subjects)

	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Course)
	assert.Len(t, groups[0].Subjects, 2)
	assert.Equal(t, 2, groups[1].Course)
	assert.Len(t, groups[1].Subjects, 1)
}
