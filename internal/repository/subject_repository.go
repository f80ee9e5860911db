package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendahub/agenda-api/internal/models"
)

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListByUser returns all subjects owned by the user, ordered by course then
// name, mirroring the agenda's display order.
func (r *SubjectRepository) ListByUser(ctx context.Context, userID string) ([]models.Subject, error) {
	const query = `SELECT id, user_id, name, color, course, created_at, updated_at FROM subjects WHERE user_id = $1 ORDER BY course ASC, name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, userID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject owned by the user.
func (r *SubjectRepository) FindByID(ctx context.Context, id, userID string) (*models.Subject, error) {
	const query = `SELECT id, user_id, name, color, course, created_at, updated_at FROM subjects WHERE id = $1 AND user_id = $2`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id, userID); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindAny returns a subject by id regardless of owner. The reminder
// scheduler walks schedule entries across users and needs the subject name
// for the notification body.
func (r *SubjectRepository) FindAny(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, user_id, name, color, course, created_at, updated_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, user_id, name, color, course, created_at, updated_at) VALUES (:id, :user_id, :name, :color, :course, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, color = :color, course = :course, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject record. Grades, schedule entries and tasks that
// still reference it are left in place; readers resolve them to empty
// display names.
func (r *SubjectRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
