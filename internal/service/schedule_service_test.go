package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/models"
)

func TestScheduleServiceCreateValidatesDays(t *testing.T) {
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "550e8400-e29b-41d4-a716-446655440000", UserID: "u1", Course: 1},
	}}
	svc := NewScheduleService(&mockScheduleRepo{}, subjects, nil, nil)

	_, err := svc.Create(context.Background(), "u1", CreateScheduleEntryRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Kind:      models.ClassKindTheory,
		StartTime: "09:00",
		Days:      []string{"funday"},
	})
	require.Error(t, err)
}

func TestScheduleServiceCreateValidatesStartTime(t *testing.T) {
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "550e8400-e29b-41d4-a716-446655440000", UserID: "u1", Course: 1},
	}}
	svc := NewScheduleService(&mockScheduleRepo{}, subjects, nil, nil)

	_, err := svc.Create(context.Background(), "u1", CreateScheduleEntryRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Kind:      models.ClassKindLab,
		StartTime: "25:99",
		Days:      []string{"monday"},
	})
	require.Error(t, err)
}

func TestScheduleServiceCreateDedupesDays(t *testing.T) {
	repo := &mockScheduleRepo{}
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "550e8400-e29b-41d4-a716-446655440000", UserID: "u1", Course: 1},
	}}
	svc := NewScheduleService(repo, subjects, nil, nil)

	entry, err := svc.Create(context.Background(), "u1", CreateScheduleEntryRequest{
		SubjectID: "550e8400-e29b-41d4-a716-446655440000",
		Kind:      models.ClassKindTheory,
		StartTime: "09:00",
		Days:      []string{"monday", "monday", "friday"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"monday", "friday"}, []string(entry.Days))
}

func TestScheduleServiceWeekBuckets(t *testing.T) {
	repo := &mockScheduleRepo{entries: []models.ScheduleEntry{
		{ID: "e1", UserID: "u1", SubjectID: "s1", Kind: models.ClassKindTheory, StartTime: "09:00", Days: []string{"monday", "wednesday"}},
		{ID: "e2", UserID: "u1", SubjectID: "s1", Kind: models.ClassKindLab, StartTime: "14:00", Days: []string{"wednesday"}},
	}}
	subjects := &mockSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Algebra", Course: 1},
	}}
	svc := NewScheduleService(repo, subjects, nil, nil)

	week, err := svc.Week(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, "sunday", week[0].Weekday)
	assert.Empty(t, week[0].Entries)
	assert.Equal(t, "monday", week[1].Weekday)
	require.Len(t, week[1].Entries, 1)
	assert.Equal(t, "e1", week[1].Entries[0].ID)
	assert.Equal(t, "wednesday", week[3].Weekday)
	assert.Len(t, week[3].Entries, 2)
	assert.Equal(t, "saturday", week[6].Weekday)
}

func TestScheduleServiceForWeekdayRejectsUnknown(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, &mockSubjectRepo{}, nil, nil)
	_, err := svc.ForWeekday(context.Background(), "u1", "someday")
	require.Error(t, err)
}
