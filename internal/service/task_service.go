package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
)

type taskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	FindByID(ctx context.Context, id, userID string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	SetCompleted(ctx context.Context, id, userID string, completed bool) error
	Delete(ctx context.Context, id, userID string) error
}

// CreateTaskRequest captures fields for creating a task.
type CreateTaskRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid4"`
	Title     string `json:"title" validate:"required"`
	DueDate   string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest modifies a task.
type UpdateTaskRequest struct {
	Title   string `json:"title" validate:"required"`
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// TaskService handles to-do items and the per-subject task board.
type TaskService struct {
	tasks     taskRepository
	subjects  subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(tasks taskRepository, subjects subjectRepository, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{tasks: tasks, subjects: subjects, validator: validate, logger: logger}
}

// List returns the user's tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	return tasks, nil
}

// Board groups the user's tasks by subject. Subjects without tasks are
// omitted; tasks of deleted subjects are dropped from the board.
func (s *TaskService) Board(ctx context.Context, userID string) ([]models.SubjectTasks, error) {
	tasks, err := s.List(ctx, models.TaskFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return BuildTaskBoard(subjects, tasks), nil
}

// Get returns one task owned by the user.
func (s *TaskService) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

// Create adds a task. The subject must belong to the user.
func (s *TaskService) Create(ctx context.Context, userID string, req CreateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	task := &models.Task{
		UserID:    userID,
		SubjectID: req.SubjectID,
		Title:     strings.TrimSpace(req.Title),
	}
	if req.DueDate != "" {
		due, _ := time.Parse("2006-01-02", req.DueDate)
		task.DueDate = &due
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}
	return task, nil
}

// Update modifies a task's title and due date. Completion state changes go
// through Toggle.
func (s *TaskService) Update(ctx context.Context, id, userID string, req UpdateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	task, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(req.Title)
	task.DueDate = nil
	if req.DueDate != "" {
		due, _ := time.Parse("2006-01-02", req.DueDate)
		task.DueDate = &due
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}
	return task, nil
}

// Toggle flips a task's completion state and returns the updated task.
func (s *TaskService) Toggle(ctx context.Context, id, userID string) (*models.Task, error) {
	task, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	if err := s.tasks.SetCompleted(ctx, id, userID, task.Completed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle task")
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete task")
	}
	return nil
}

// BuildTaskBoard groups tasks under their subjects, preserving both the
// subject order and each subject's task order.
func BuildTaskBoard(subjects []models.Subject, tasks []models.Task) []models.SubjectTasks {
	bySubject := make(map[string][]models.Task, len(subjects))
	for _, task := range tasks {
		bySubject[task.SubjectID] = append(bySubject[task.SubjectID], task)
	}
	var board []models.SubjectTasks
	for _, subject := range subjects {
		items, ok := bySubject[subject.ID]
		if !ok {
			continue
		}
		board = append(board, models.SubjectTasks{Subject: subject, Tasks: items})
	}
	return board
}
