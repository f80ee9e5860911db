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

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error)
	FindByID(ctx context.Context, id, userID string) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id, userID string) error
}

// CreateEventRequest captures fields for creating a calendar event.
type CreateEventRequest struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Color string `json:"color"`
}

// UpdateEventRequest modifies a calendar event.
type UpdateEventRequest struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Color string `json:"color"`
}

// EventService handles single dated calendar events.
type EventService struct {
	events    eventRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService creates a new event service.
func NewEventService(events eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{events: events, validator: validate, logger: logger}
}

// List returns the user's events, narrowed to a day or range when the
// filter sets one.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Get returns one event owned by the user.
func (s *EventService) Get(ctx context.Context, id, userID string) (*models.CalendarEvent, error) {
	event, err := s.events.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create adds a calendar event.
func (s *EventService) Create(ctx context.Context, userID string, req CreateEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	event := &models.CalendarEvent{
		UserID: userID,
		Title:  strings.TrimSpace(req.Title),
		Date:   date,
		Color:  req.Color,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return event, nil
}

// Update modifies a calendar event.
func (s *EventService) Update(ctx context.Context, id, userID string, req UpdateEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	event.Title = strings.TrimSpace(req.Title)
	event.Date = date
	event.Color = req.Color

	if err := s.events.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	return event, nil
}

// Delete removes a calendar event.
func (s *EventService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}
