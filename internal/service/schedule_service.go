package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
)

type scheduleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ScheduleEntry, error)
	ListByWeekday(ctx context.Context, userID, weekday string) ([]models.ScheduleEntry, error)
	ListByWeekdayAll(ctx context.Context, weekday string) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id, userID string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id, userID string) error
}

// CreateScheduleEntryRequest captures fields for a recurring class entry.
type CreateScheduleEntryRequest struct {
	SubjectID string   `json:"subject_id" validate:"required,uuid4"`
	Kind      string   `json:"kind" validate:"required,oneof=theory lab"`
	StartTime string   `json:"start_time" validate:"required"`
	Days      []string `json:"days" validate:"required,min=1"`
}

// UpdateScheduleEntryRequest modifies a recurring class entry.
type UpdateScheduleEntryRequest struct {
	Kind      string   `json:"kind" validate:"required,oneof=theory lab"`
	StartTime string   `json:"start_time" validate:"required"`
	Days      []string `json:"days" validate:"required,min=1"`
}

// ScheduleService handles the weekly recurring class schedule.
type ScheduleService struct {
	entries   scheduleRepository
	subjects  subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(entries scheduleRepository, subjects subjectRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{entries: entries, subjects: subjects, validator: validate, logger: logger}
}

// List returns all of the user's schedule entries decorated with subject
// display fields.
func (s *ScheduleService) List(ctx context.Context, userID string) ([]models.ScheduleEntryView, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return s.decorate(ctx, userID, entries)
}

// Week returns the full weekly view, one bucket per canonical weekday in
// Sunday-first order. An entry spanning several days appears in each.
func (s *ScheduleService) Week(ctx context.Context, userID string) ([]models.WeekdaySchedule, error) {
	views, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	week := make([]models.WeekdaySchedule, len(models.WeekdayNames))
	for i, name := range models.WeekdayNames {
		week[i].Weekday = name
		week[i].Entries = []models.ScheduleEntryView{}
	}
	for _, view := range views {
		for i, name := range models.WeekdayNames {
			if view.OccursOn(name) {
				week[i].Entries = append(week[i].Entries, view)
			}
		}
	}
	return week, nil
}

// ForWeekday returns the user's entries recurring on one weekday name.
func (s *ScheduleService) ForWeekday(ctx context.Context, userID, weekday string) ([]models.ScheduleEntryView, error) {
	if !models.IsWeekdayName(weekday) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", weekday))
	}
	entries, err := s.entries.ListByWeekday(ctx, userID, weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return s.decorate(ctx, userID, entries)
}

// Get returns one schedule entry owned by the user.
func (s *ScheduleService) Get(ctx context.Context, id, userID string) (*models.ScheduleEntry, error) {
	entry, err := s.entries.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	return entry, nil
}

// Create adds a recurring class entry. The subject must belong to the user.
func (s *ScheduleService) Create(ctx context.Context, userID string, req CreateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	days, err := normalizeDays(req.Days)
	if err != nil {
		return nil, err
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	entry := &models.ScheduleEntry{
		UserID:    userID,
		SubjectID: req.SubjectID,
		Kind:      req.Kind,
		StartTime: req.StartTime,
		Days:      days,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Update modifies a recurring class entry.
func (s *ScheduleService) Update(ctx context.Context, id, userID string, req UpdateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	days, err := normalizeDays(req.Days)
	if err != nil {
		return nil, err
	}
	if err := validateStartTime(req.StartTime); err != nil {
		return nil, err
	}

	entry, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	entry.Kind = req.Kind
	entry.StartTime = req.StartTime
	entry.Days = days

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	return entry, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}

func (s *ScheduleService) decorate(ctx context.Context, userID string, entries []models.ScheduleEntry) ([]models.ScheduleEntryView, error) {
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return DecorateScheduleEntries(entries, subjects), nil
}

// DecorateScheduleEntries joins entries with their subjects. A missing
// subject resolves to empty name and color rather than an error.
func DecorateScheduleEntries(entries []models.ScheduleEntry, subjects []models.Subject) []models.ScheduleEntryView {
	byID := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		byID[subject.ID] = subject
	}
	views := make([]models.ScheduleEntryView, 0, len(entries))
	for _, entry := range entries {
		view := models.ScheduleEntryView{ScheduleEntry: entry}
		if subject, ok := byID[entry.SubjectID]; ok {
			view.SubjectName = subject.Name
			view.SubjectColor = subject.Color
		}
		views = append(views, view)
	}
	return views
}

func normalizeDays(days []string) ([]string, error) {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, day := range days {
		if !models.IsWeekdayName(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", day))
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	return out, nil
}

func validateStartTime(raw string) error {
	if _, err := time.Parse("15:04", raw); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start time %q, expected HH:MM", raw))
	}
	return nil
}
