package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agendahub/agenda-api/internal/models"
)

// PushTokenRepository handles persistence for push delivery subscriptions.
type PushTokenRepository struct {
	db *sqlx.DB
}

// NewPushTokenRepository creates a new repository instance.
func NewPushTokenRepository(db *sqlx.DB) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

// ListByUser returns the user's registered push tokens.
func (r *PushTokenRepository) ListByUser(ctx context.Context, userID string) ([]models.PushToken, error) {
	const query = `SELECT id, user_id, endpoint, created_at FROM push_tokens WHERE user_id = $1 ORDER BY created_at ASC`
	var tokens []models.PushToken
	if err := r.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("list push tokens: %w", err)
	}
	return tokens, nil
}

// Create registers a push token; re-registering the same endpoint for the
// same user is a no-op.
func (r *PushTokenRepository) Create(ctx context.Context, token *models.PushToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO push_tokens (id, user_id, endpoint, created_at) VALUES (:id, :user_id, :endpoint, :created_at) ON CONFLICT (user_id, endpoint) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create push token: %w", err)
	}
	return nil
}

// Delete removes a push token.
func (r *PushTokenRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM push_tokens WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete push token: %w", err)
	}
	return nil
}
