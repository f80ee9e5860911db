package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendahub/agenda-api/internal/models"
)

// EventRepository handles persistence for calendar events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new repository instance.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns calendar events for a user, optionally scoped to one day or a
// date range, ordered by date.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.CalendarEvent, error) {
	query := `SELECT id, user_id, title, date, color, created_at, updated_at FROM calendar_events WHERE user_id = $1`
	args := []interface{}{filter.UserID}

	if filter.Date != nil {
		args = append(args, filter.Date.Format("2006-01-02"))
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, filter.From.Format("2006-01-02"))
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, filter.To.Format("2006-01-02"))
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC"

	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

// FindByID returns an event owned by the user.
func (r *EventRepository) FindByID(ctx context.Context, id, userID string) (*models.CalendarEvent, error) {
	const query = `SELECT id, user_id, title, date, color, created_at, updated_at FROM calendar_events WHERE id = $1 AND user_id = $2`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id, userID); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create persists a new calendar event.
func (r *EventRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO calendar_events (id, user_id, title, date, color, created_at, updated_at) VALUES (:id, :user_id, :title, :date, :color, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Update modifies a calendar event.
func (r *EventRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_events SET title = :title, date = :date, color = :color, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	return nil
}

// Delete removes a calendar event.
func (r *EventRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}
