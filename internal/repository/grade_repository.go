package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendahub/agenda-api/internal/models"
)

// GradeRepository handles persistence for graded items.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new repository instance.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns graded items for a user, optionally scoped to one subject,
// oldest first.
func (r *GradeRepository) List(ctx context.Context, filter models.GradedItemFilter) ([]models.GradedItem, error) {
	query := `SELECT id, user_id, subject_id, kind, score, weight, created_at, updated_at FROM graded_items WHERE user_id = $1`
	args := []interface{}{filter.UserID}
	if filter.SubjectID != "" {
		query += ` AND subject_id = $2`
		args = append(args, filter.SubjectID)
	}
	query += ` ORDER BY created_at ASC`

	var items []models.GradedItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list graded items: %w", err)
	}
	return items, nil
}

// FindByID returns a graded item owned by the user.
func (r *GradeRepository) FindByID(ctx context.Context, id, userID string) (*models.GradedItem, error) {
	const query = `SELECT id, user_id, subject_id, kind, score, weight, created_at, updated_at FROM graded_items WHERE id = $1 AND user_id = $2`
	var item models.GradedItem
	if err := r.db.GetContext(ctx, &item, query, id, userID); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists a new graded item.
func (r *GradeRepository) Create(ctx context.Context, item *models.GradedItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO graded_items (id, user_id, subject_id, kind, score, weight, created_at, updated_at) VALUES (:id, :user_id, :subject_id, :kind, :score, :weight, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create graded item: %w", err)
	}
	return nil
}

// Update modifies a graded item.
func (r *GradeRepository) Update(ctx context.Context, item *models.GradedItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE graded_items SET kind = :kind, score = :score, weight = :weight, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update graded item: %w", err)
	}
	return nil
}

// Delete removes a graded item.
func (r *GradeRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM graded_items WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete graded item: %w", err)
	}
	return nil
}
