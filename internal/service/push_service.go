package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
)

type pushTokenRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.PushToken, error)
	Create(ctx context.Context, token *models.PushToken) error
	Delete(ctx context.Context, id, userID string) error
}

// RegisterPushTokenRequest captures a push subscription registration.
type RegisterPushTokenRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

// PushService manages push delivery subscriptions.
type PushService struct {
	tokens    pushTokenRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPushService creates a new push service.
func NewPushService(tokens pushTokenRepository, validate *validator.Validate, logger *zap.Logger) *PushService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushService{tokens: tokens, validator: validate, logger: logger}
}

// List returns the user's registered push subscriptions.
func (s *PushService) List(ctx context.Context, userID string) ([]models.PushToken, error) {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list push tokens")
	}
	return tokens, nil
}

// Register stores a push endpoint for the user. Registering the same
// endpoint twice is a no-op.
func (s *PushService) Register(ctx context.Context, userID string, req RegisterPushTokenRequest) (*models.PushToken, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid push token payload")
	}

	token := &models.PushToken{
		UserID:   userID,
		Endpoint: strings.TrimSpace(req.Endpoint),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register push token")
	}
	return token, nil
}

// Unregister removes a push subscription.
func (s *PushService) Unregister(ctx context.Context, id, userID string) error {
	if err := s.tokens.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove push token")
	}
	return nil
}
