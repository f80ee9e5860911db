package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendahub/agenda-api/internal/models"
)

// TaskRepository handles persistence for tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new repository instance.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns tasks for a user, optionally filtered by subject, due date
// (calendar-day equality) and completion flag, newest first.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT id, user_id, subject_id, title, due_date, completed, created_at, updated_at FROM tasks WHERE user_id = $1`
	args := []interface{}{filter.UserID}

	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		query += fmt.Sprintf(" AND subject_id = $%d", len(args))
	}
	if filter.DueDate != nil {
		args = append(args, filter.DueDate.Format("2006-01-02"))
		query += fmt.Sprintf(" AND due_date = $%d", len(args))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns a task owned by the user.
func (r *TaskRepository) FindByID(ctx context.Context, id, userID string) (*models.Task, error) {
	const query = `SELECT id, user_id, subject_id, title, due_date, completed, created_at, updated_at FROM tasks WHERE id = $1 AND user_id = $2`
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id, userID); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create persists a new task. Completed defaults to false.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	const query = `INSERT INTO tasks (id, user_id, subject_id, title, due_date, completed, created_at, updated_at) VALUES (:id, :user_id, :subject_id, :title, :due_date, :completed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update modifies a task's editable fields.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tasks SET subject_id = :subject_id, title = :title, due_date = :due_date, completed = :completed, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// SetCompleted toggles the completion flag.
func (r *TaskRepository) SetCompleted(ctx context.Context, id, userID string, completed bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE tasks SET completed = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`, id, userID, completed, time.Now().UTC()); err != nil {
		return fmt.Errorf("set task completed: %w", err)
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
