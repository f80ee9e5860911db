package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

func TestTaskRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	completed := false

	rows := sqlmock.NewRows([]string{"id", "user_id", "subject_id", "title", "due_date", "completed", "created_at", "updated_at"}).
		AddRow("t1", "u1", "s1", "lab report", due, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, subject_id, title, due_date, completed, created_at, updated_at FROM tasks WHERE user_id = $1 AND due_date = $2 AND completed = $3 ORDER BY created_at DESC")).
		WithArgs("u1", "2025-01-15", false).
		WillReturnRows(rows)

	tasks, err := repo.List(context.Background(), models.TaskFilter{
		UserID:    "u1",
		DueDate:   &due,
		Completed: &completed,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "lab report", tasks[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListWithoutFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, subject_id, title, due_date, completed, created_at, updated_at FROM tasks WHERE user_id = $1 ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "subject_id", "title", "due_date", "completed", "created_at", "updated_at"}))

	tasks, err := repo.List(context.Background(), models.TaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositorySetCompleted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET completed = $3, updated_at = $4 WHERE id = $1 AND user_id = $2")).
		WithArgs("t1", "u1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetCompleted(context.Background(), "t1", "u1", true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	task := &models.Task{UserID: "u1", SubjectID: "s1", Title: "lab report"}
	err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
