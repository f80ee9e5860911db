package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

type mockSubjectRepo struct {
	subjects []models.Subject
}

func (m *mockSubjectRepo) ListByUser(ctx context.Context, userID string) ([]models.Subject, error) {
	var result []models.Subject
	for _, s := range m.subjects {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id, userID string) (*models.Subject, error) {
	for _, s := range m.subjects {
		if s.ID == id && s.UserID == userID {
			subject := s
			return &subject, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) FindAny(ctx context.Context, id string) (*models.Subject, error) {
	for _, s := range m.subjects {
		if s.ID == id {
			subject := s
			return &subject, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	m.subjects = append(m.subjects, *subject)
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	for i := range m.subjects {
		if m.subjects[i].ID == subject.ID {
			m.subjects[i] = *subject
		}
	}
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id, userID string) error {
	kept := m.subjects[:0]
	for _, s := range m.subjects {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	m.subjects = kept
	return nil
}

type mockGradeRepo struct {
	items map[string]models.GradedItem
}

func (m *mockGradeRepo) List(ctx context.Context, filter models.GradedItemFilter) ([]models.GradedItem, error) {
	var result []models.GradedItem
	for _, item := range m.items {
		if filter.UserID != "" && item.UserID != filter.UserID {
			continue
		}
		if filter.SubjectID != "" && item.SubjectID != filter.SubjectID {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (m *mockGradeRepo) FindByID(ctx context.Context, id, userID string) (*models.GradedItem, error) {
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (m *mockGradeRepo) Create(ctx context.Context, item *models.GradedItem) error {
	if m.items == nil {
		m.items = make(map[string]models.GradedItem)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	m.items[item.ID] = *item
	return nil
}

func (m *mockGradeRepo) Update(ctx context.Context, item *models.GradedItem) error {
	m.items[item.ID] = *item
	return nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, id, userID string) error {
	delete(m.items, id)
	return nil
}

func TestFinalGradeWeighted(t *testing.T) {
	items := []models.GradedItem{
		{Score: 8, Weight: 40},
		{Score: 6, Weight: 60},
	}
	final, totalWeight := FinalGrade(items)
	assert.InDelta(t, 6.8, final, 1e-9)
	assert.InDelta(t, 100, totalWeight, 1e-9)
	assert.Equal(t, "6.80", FormatGrade(final))
}

func TestFinalGradePartialWeights(t *testing.T) {
	items := []models.GradedItem{
		{Score: 10, Weight: 30},
	}
	final, totalWeight := FinalGrade(items)
	assert.InDelta(t, 3.0, final, 1e-9)
	assert.InDelta(t, 30, totalWeight, 1e-9)
}

func TestFinalGradeZeroWeight(t *testing.T) {
	final, totalWeight := FinalGrade([]models.GradedItem{{Score: 9, Weight: 0}})
	assert.Zero(t, final)
	assert.Zero(t, totalWeight)

	final, totalWeight = FinalGrade(nil)
	assert.Zero(t, final)
	assert.Zero(t, totalWeight)
}

func TestBuildOverviewGlobalAverageSkipsZeroFinals(t *testing.T) {
	subjects := []models.Subject{
		{ID: "s1", Name: "Algebra", Course: 1},
		{ID: "s2", Name: "Physics", Course: 1},
		{ID: "s3", Name: "Chemistry", Course: 2},
	}
	items := []models.GradedItem{
		{SubjectID: "s1", Score: 8, Weight: 50},
		{SubjectID: "s1", Score: 6, Weight: 50},
		{SubjectID: "s2", Score: 9, Weight: 0},
	}

	overview := BuildOverview(subjects, items)

	require.NotNil(t, overview.GlobalAverage)
	assert.InDelta(t, 7.0, *overview.GlobalAverage, 1e-9)
	assert.Equal(t, "7.00", overview.GlobalAverageDisplay)

	require.Len(t, overview.Courses, 2)
	assert.Equal(t, 1, overview.Courses[0].Course)
	require.Len(t, overview.Courses[0].Subjects, 2)
	assert.True(t, overview.Courses[0].Subjects[0].HasGrades)
	assert.True(t, overview.Courses[0].Subjects[1].HasGrades)
	assert.Zero(t, overview.Courses[0].Subjects[1].Final)
	assert.False(t, overview.Courses[1].Subjects[0].HasGrades)
}

func TestBuildOverviewNoPositiveFinals(t *testing.T) {
	subjects := []models.Subject{{ID: "s1", Name: "Algebra", Course: 1}}
	overview := BuildOverview(subjects, nil)

	assert.Nil(t, overview.GlobalAverage)
	assert.Empty(t, overview.GlobalAverageDisplay)
	require.Len(t, overview.Courses, 1)
	assert.Equal(t, "0.00", overview.Courses[0].Subjects[0].FinalDisplay)
}

func TestBuildOverviewProgress(t *testing.T) {
	subjects := []models.Subject{
		{ID: "s1", Course: 1},
		{ID: "s2", Course: 1},
		{ID: "s3", Course: 1},
		{ID: "s4", Course: 2},
	}
	items := []models.GradedItem{
		{SubjectID: "s1", Score: 5, Weight: 100},
		{SubjectID: "s2", Score: 0, Weight: 100},
	}

	overview := BuildOverview(subjects, items)

	require.Len(t, overview.Progress, 2)
	assert.Equal(t, 3, overview.Progress[0].Total)
	assert.Equal(t, 2, overview.Progress[0].WithGrade)
	assert.InDelta(t, 2.0/3.0, overview.Progress[0].Progress, 1e-9)
	assert.Equal(t, 1, overview.Progress[1].Total)
	assert.Zero(t, overview.Progress[1].WithGrade)
	assert.Zero(t, overview.Progress[1].Progress)
}

func TestGradeServiceCreateRejectsForeignSubject(t *testing.T) {
	subjects := &mockSubjectRepo{subjects: []models.Subject{{ID: "s1", UserID: "owner", Course: 1}}}
	svc := NewGradeService(&mockGradeRepo{}, subjects, nil, nil, nil)

	_, err := svc.Create(context.Background(), "intruder", CreateGradeRequest{
		SubjectID: "6f1e1f7e-0b46-4f65-9f7b-0a4f2c9f4d11",
		Kind:      "exam",
		Score:     7,
		Weight:    50,
	})
	require.Error(t, err)
}

func TestGradeServiceOverviewEndToEnd(t *testing.T) {
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "550e8400-e29b-41d4-a716-446655440000", UserID: "u1", Name: "Algebra", Course: 1},
	}}
	grades := &mockGradeRepo{}
	svc := NewGradeService(grades, subjects, nil, nil, nil)

	_, err := svc.Create(context.Background(), "u1", CreateGradeRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Kind:      "exam",
		Score:     8,
		Weight:    40,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "u1", CreateGradeRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Kind:      "lab",
		Score:     6,
		Weight:    60,
	})
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, overview.GlobalAverage)
	assert.Equal(t, "6.80", overview.GlobalAverageDisplay)
}

func TestGradeServiceExportDataset(t *testing.T) {
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Algebra", Course: 1},
		{ID: "s2", UserID: "u1", Name: "Physics", Course: 2},
	}}
	grades := &mockGradeRepo{items: map[string]models.GradedItem{
		"g1": {ID: "g1", UserID: "u1", SubjectID: "s1", Score: 10, Weight: 100},
	}}
	svc := NewGradeService(grades, subjects, nil, nil, nil)

	dataset, err := svc.ExportDataset(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Grade Overview", dataset.Title)
	require.Len(t, dataset.Rows, 3)
	assert.Equal(t, "Algebra", dataset.Rows[0]["Subject"])
	assert.Equal(t, "10.00", dataset.Rows[0]["Final Grade"])
	assert.Equal(t, "no", dataset.Rows[1]["Has Grades"])
	assert.Equal(t, "Global Average", dataset.Rows[2]["Subject"])
}
