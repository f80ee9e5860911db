package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/agendahub/agenda-api/internal/models"
)

// ScheduleRepository handles persistence for recurring schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new repository instance.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByUser returns all schedule entries for the user ordered by start time.
func (r *ScheduleRepository) ListByUser(ctx context.Context, userID string) ([]models.ScheduleEntry, error) {
	const query = `SELECT id, user_id, subject_id, kind, start_time, days, created_at, updated_at FROM schedule_entries WHERE user_id = $1 ORDER BY start_time ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// ListByWeekday returns the user's entries recurring on the given weekday
// name, ordered by start time.
func (r *ScheduleRepository) ListByWeekday(ctx context.Context, userID, weekday string) ([]models.ScheduleEntry, error) {
	const query = `SELECT id, user_id, subject_id, kind, start_time, days, created_at, updated_at FROM schedule_entries WHERE user_id = $1 AND $2 = ANY(days) ORDER BY start_time ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, weekday); err != nil {
		return nil, fmt.Errorf("list schedule entries by weekday: %w", err)
	}
	return entries, nil
}

// ListByWeekdayAll returns every user's entries for one weekday; the reminder
// scheduler scans these against its lookahead window.
func (r *ScheduleRepository) ListByWeekdayAll(ctx context.Context, weekday string) ([]models.ScheduleEntry, error) {
	const query = `SELECT id, user_id, subject_id, kind, start_time, days, created_at, updated_at FROM schedule_entries WHERE $1 = ANY(days) ORDER BY start_time ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, weekday); err != nil {
		return nil, fmt.Errorf("list schedule entries for reminders: %w", err)
	}
	return entries, nil
}

// FindByID returns a schedule entry owned by the user.
func (r *ScheduleRepository) FindByID(ctx context.Context, id, userID string) (*models.ScheduleEntry, error) {
	const query = `SELECT id, user_id, subject_id, kind, start_time, days, created_at, updated_at FROM schedule_entries WHERE id = $1 AND user_id = $2`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id, userID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create persists a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO schedule_entries (id, user_id, subject_id, kind, start_time, days, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query, entry.ID, entry.UserID, entry.SubjectID, entry.Kind, entry.StartTime, pq.Array(entry.Days), entry.CreatedAt, entry.UpdatedAt); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// Update modifies a schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET subject_id = $3, kind = $4, start_time = $5, days = $6, updated_at = $7 WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, entry.ID, entry.UserID, entry.SubjectID, entry.Kind, entry.StartTime, pq.Array(entry.Days), entry.UpdatedAt); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
