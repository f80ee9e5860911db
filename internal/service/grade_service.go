package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agendahub/agenda-api/internal/models"
	appErrors "github.com/agendahub/agenda-api/pkg/errors"
	"github.com/agendahub/agenda-api/pkg/export"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradedItemFilter) ([]models.GradedItem, error)
	FindByID(ctx context.Context, id, userID string) (*models.GradedItem, error)
	Create(ctx context.Context, item *models.GradedItem) error
	Update(ctx context.Context, item *models.GradedItem) error
	Delete(ctx context.Context, id, userID string) error
}

// CreateGradeRequest captures fields for recording a graded item.
type CreateGradeRequest struct {
	SubjectID string  `json:"subject_id" validate:"required,uuid4"`
	Kind      string  `json:"kind" validate:"required"`
	Score     float64 `json:"score" validate:"min=0,max=10"`
	Weight    float64 `json:"weight" validate:"min=0,max=100"`
}

// UpdateGradeRequest modifies a graded item.
type UpdateGradeRequest struct {
	Kind   string  `json:"kind" validate:"required"`
	Score  float64 `json:"score" validate:"min=0,max=10"`
	Weight float64 `json:"weight" validate:"min=0,max=100"`
}

// GradeService computes weighted finals and the cross-subject overview.
type GradeService struct {
	grades    gradeRepository
	subjects  subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService creates a new grade service.
func NewGradeService(grades gradeRepository, subjects subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

func overviewCacheKey(userID string) string {
	return "grades:overview:" + userID
}

// FinalGrade is the weighted final for one subject's graded items:
// sum of score * weight/100. An empty set or a zero total weight yields 0.
func FinalGrade(items []models.GradedItem) (final, totalWeight float64) {
	for _, item := range items {
		totalWeight += item.Weight
	}
	if totalWeight == 0 {
		return 0, 0
	}
	for _, item := range items {
		final += item.Score * (item.Weight / 100)
	}
	return final, totalWeight
}

// FormatGrade renders a grade with two decimals, the display convention
// used everywhere grades are shown or exported.
func FormatGrade(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// List returns the user's graded items, optionally narrowed to one subject.
func (s *GradeService) List(ctx context.Context, filter models.GradedItemFilter) ([]models.GradedItem, error) {
	items, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return items, nil
}

// Get returns one graded item owned by the user.
func (s *GradeService) Get(ctx context.Context, id, userID string) (*models.GradedItem, error) {
	item, err := s.grades.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return item, nil
}

// Create records a graded item. The subject must belong to the user.
func (s *GradeService) Create(ctx context.Context, userID string, req CreateGradeRequest) (*models.GradedItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	item := &models.GradedItem{
		UserID:    userID,
		SubjectID: req.SubjectID,
		Kind:      req.Kind,
		Score:     req.Score,
		Weight:    req.Weight,
	}
	if err := s.grades.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	s.invalidateOverview(ctx, userID)
	return item, nil
}

// Update modifies a graded item's kind, score or weight.
func (s *GradeService) Update(ctx context.Context, id, userID string, req UpdateGradeRequest) (*models.GradedItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	item, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	item.Kind = req.Kind
	item.Score = req.Score
	item.Weight = req.Weight

	if err := s.grades.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	s.invalidateOverview(ctx, userID)
	return item, nil
}

// Delete removes a graded item.
func (s *GradeService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.grades.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	s.invalidateOverview(ctx, userID)
	return nil
}

// Overview aggregates every subject's weighted final, the global average
// over subjects whose final is strictly positive, and per-course progress.
// Results are cached per user until the next grade or subject write.
func (s *GradeService) Overview(ctx context.Context, userID string) (*models.GradeOverview, error) {
	cacheKey := overviewCacheKey(userID)
	var cached models.GradeOverview
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	overview, err := s.buildOverview(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, overview, 0); err != nil {
		s.logger.Warn("overview cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return overview, nil
}

func (s *GradeService) buildOverview(ctx context.Context, userID string) (*models.GradeOverview, error) {
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	items, err := s.grades.List(ctx, models.GradedItemFilter{UserID: userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return BuildOverview(subjects, items), nil
}

// BuildOverview computes the overview from already loaded rows. Subjects
// arrive ordered by (course, name) and that order is preserved within each
// course group.
func BuildOverview(subjects []models.Subject, items []models.GradedItem) *models.GradeOverview {
	itemsBySubject := make(map[string][]models.GradedItem, len(subjects))
	for _, item := range items {
		itemsBySubject[item.SubjectID] = append(itemsBySubject[item.SubjectID], item)
	}

	overview := &models.GradeOverview{
		Courses:  []models.CourseGrades{},
		Progress: []models.CourseProgress{},
	}

	courseIndex := make(map[int]int)
	progressIndex := make(map[int]int)
	var sum float64
	var counted int

	for _, subject := range subjects {
		subjectItems := itemsBySubject[subject.ID]
		final, totalWeight := FinalGrade(subjectItems)

		grade := models.SubjectGrade{
			Subject:      subject,
			Final:        final,
			FinalDisplay: FormatGrade(final),
			TotalWeight:  totalWeight,
			HasGrades:    len(subjectItems) > 0,
		}

		ci, ok := courseIndex[subject.Course]
		if !ok {
			ci = len(overview.Courses)
			courseIndex[subject.Course] = ci
			overview.Courses = append(overview.Courses, models.CourseGrades{Course: subject.Course})
		}
		overview.Courses[ci].Subjects = append(overview.Courses[ci].Subjects, grade)

		pi, ok := progressIndex[subject.Course]
		if !ok {
			pi = len(overview.Progress)
			progressIndex[subject.Course] = pi
			overview.Progress = append(overview.Progress, models.CourseProgress{Course: subject.Course})
		}
		overview.Progress[pi].Total++
		if grade.HasGrades {
			overview.Progress[pi].WithGrade++
		}

		if final > 0 {
			sum += final
			counted++
		}
	}

	for i := range overview.Progress {
		p := &overview.Progress[i]
		if p.Total > 0 {
			p.Progress = float64(p.WithGrade) / float64(p.Total)
		}
	}

	if counted > 0 {
		average := sum / float64(counted)
		overview.GlobalAverage = &average
		overview.GlobalAverageDisplay = FormatGrade(average)
	}
	return overview
}

// ExportDataset flattens the overview into a tabular dataset for the CSV
// and PDF exporters.
func (s *GradeService) ExportDataset(ctx context.Context, userID string) (export.Dataset, error) {
	overview, err := s.Overview(ctx, userID)
	if err != nil {
		return export.Dataset{}, err
	}

	data := export.Dataset{
		Title:   "Grade Overview",
		Headers: []string{"Course", "Subject", "Final Grade", "Total Weight", "Has Grades"},
	}
	for _, course := range overview.Courses {
		for _, grade := range course.Subjects {
			hasGrades := "no"
			if grade.HasGrades {
				hasGrades = "yes"
			}
			data.Rows = append(data.Rows, map[string]string{
				"Course":       fmt.Sprintf("%d", course.Course),
				"Subject":      grade.Subject.Name,
				"Final Grade":  grade.FinalDisplay,
				"Total Weight": FormatGrade(grade.TotalWeight),
				"Has Grades":   hasGrades,
			})
		}
	}
	if overview.GlobalAverage != nil {
		data.Rows = append(data.Rows, map[string]string{
			"Course":       "",
			"Subject":      "Global Average",
			"Final Grade":  overview.GlobalAverageDisplay,
			"Total Weight": "",
			"Has Grades":   "",
		})
	}
	return data, nil
}

func (s *GradeService) invalidateOverview(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, overviewCacheKey(userID)); err != nil {
		s.logger.Warn("overview cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
