package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
)

type subjectRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Subject, error)
	FindByID(ctx context.Context, id, userID string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id, userID string) error
}

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	Name   string `json:"name" validate:"required"`
	Color  string `json:"color"`
	Course int    `json:"course" validate:"required,min=1,max=6"`
}

// UpdateSubjectRequest modifies subject fields.
type UpdateSubjectRequest struct {
	Name   string `json:"name" validate:"required"`
	Color  string `json:"color"`
	Course int    `json:"course" validate:"required,min=1,max=6"`
}

// SubjectService handles subject workflows.
type SubjectService struct {
	repo      subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the user's subjects ordered by course and name.
func (s *SubjectService) List(ctx context.Context, userID string) ([]models.Subject, error) {
	subjects, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// ListGrouped partitions the user's subjects by course. Every subject lands
// in exactly one group; group keys are the distinct course values present,
// ascending.
func (s *SubjectService) ListGrouped(ctx context.Context, userID string) ([]models.CourseGroup, error) {
	subjects, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupSubjectsByCourse(subjects), nil
}

// Get returns one subject owned by the user.
func (s *SubjectService) Get(ctx context.Context, id, userID string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new subject for the user.
func (s *SubjectService) Create(ctx context.Context, userID string, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Color:  req.Color,
		Course: req.Course,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.invalidateOverview(ctx, userID)
	return subject, nil
}

// Update modifies an existing subject.
func (s *SubjectService) Update(ctx context.Context, id, userID string, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	subject.Name = strings.TrimSpace(req.Name)
	subject.Color = req.Color
	subject.Course = req.Course

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	s.invalidateOverview(ctx, userID)
	return subject, nil
}

// Delete removes a subject. Related grades, schedule entries and tasks may
// briefly dangle; readers resolve them to empty display names.
func (s *SubjectService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.invalidateOverview(ctx, userID)
	return nil
}

func (s *SubjectService) invalidateOverview(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, overviewCacheKey(userID)); err != nil {
		s.logger.Warn("overview cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// GroupSubjectsByCourse partitions subjects by their course value keeping
// the incoming (course, name) order.
func GroupSubjectsByCourse(subjects []models.Subject) []models.CourseGroup {
	var groups []models.CourseGroup
	index := make(map[int]int)
	for _, subject := range subjects {
		i, ok := index[subject.Course]
		if !ok {
			i = len(groups)
			index[subject.Course] = i
			groups = append(groups, models.CourseGroup{Course: subject.Course})
		}
		groups[i].Subjects = append(groups[i].Subjects, subject)
	}
	return groups
}
