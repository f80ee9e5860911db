package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubjectRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "color", "course", "created_at", "updated_at"}).
		AddRow("s1", "u1", "Algebra", "#ff0000", 1, time.Now(), time.Now()).
		AddRow("s2", "u1", "Physics", "#00ff00", 2, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, color, course, created_at, updated_at FROM subjects WHERE user_id = $1 ORDER BY course ASC, name ASC")).
		WithArgs("u1").
		WillReturnRows(rows)

	subjects, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
	assert.Equal(t, "Algebra", subjects[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryFindByIDScopesToUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, color, course, created_at, updated_at FROM subjects WHERE id = $1 AND user_id = $2")).
		WithArgs("s1", "intruder").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "s1", "intruder")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectExec("INSERT INTO subjects").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	subject := &models.Subject{UserID: "u1", Name: "Algebra", Color: "#ff0000", Course: 1}
	err := repo.Create(context.Background(), subject)
	require.NoError(t, err)
	assert.NotEmpty(t, subject.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1 AND user_id = $2")).
		WithArgs("s1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "s1", "u1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
