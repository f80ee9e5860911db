package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
)

// PlannerService composes the day view: classes recurring on the date's
// weekday, pending tasks due that day, and events dated that day.
type PlannerService struct {
	entries  scheduleRepository
	tasks    taskRepository
	events   eventRepository
	subjects subjectRepository
	logger   *zap.Logger
}

// NewPlannerService creates a new planner service.
func NewPlannerService(entries scheduleRepository, tasks taskRepository, events eventRepository, subjects subjectRepository, logger *zap.Logger) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{entries: entries, tasks: tasks, events: events, subjects: subjects, logger: logger}
}

// Day builds the plan for one calendar date. Completed tasks never appear,
// and tasks without a due date never appear.
func (s *PlannerService) Day(ctx context.Context, userID string, date time.Time) (*models.DayPlan, error) {
	weekday := models.WeekdayName(date)

	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	entries, err := s.entries.ListByWeekday(ctx, userID, weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}

	pending := false
	tasks, err := s.tasks.List(ctx, models.TaskFilter{UserID: userID, DueDate: &date, Completed: &pending})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}

	events, err := s.events.List(ctx, models.EventFilter{UserID: userID, Date: &date})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	byID := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		byID[subject.ID] = subject
	}

	taskViews := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := models.TaskView{Task: task}
		if subject, ok := byID[task.SubjectID]; ok {
			view.SubjectName = subject.Name
			view.SubjectColor = subject.Color
		}
		taskViews = append(taskViews, view)
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}

	return &models.DayPlan{
		Date:    date.Format("2006-01-02"),
		Weekday: weekday,
		Classes: DecorateScheduleEntries(entries, subjects),
		Tasks:   taskViews,
		Events:  events,
	}, nil
}
