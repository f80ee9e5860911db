package models

import (
	"time"

	"github.com/lib/pq"
)

// Class kinds for schedule entries.
const (
	ClassKindTheory = "theory"
	ClassKindLab    = "lab"
)

// Weekday names in canonical order: Sunday-first, index 0=sunday through
// 6=saturday. This matches time.Weekday and must not be mixed with
// Monday-first orderings.
var WeekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName maps a calendar date to its canonical weekday name.
func WeekdayName(t time.Time) string {
	return WeekdayNames[int(t.Weekday())]
}

// IsWeekdayName reports whether raw is one of the seven canonical names.
func IsWeekdayName(raw string) bool {
	for _, name := range WeekdayNames {
		if name == raw {
			return true
		}
	}
	return false
}

// ScheduleEntry is a recurring weekly class occurrence: a kind (theory or
// lab), a time of day in HH:MM, and a non-empty set of weekday names. It is
// not a single dated event.
type ScheduleEntry struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	SubjectID string         `db:"subject_id" json:"subject_id"`
	Kind      string         `db:"kind" json:"kind"`
	StartTime string         `db:"start_time" json:"start_time"`
	Days      pq.StringArray `db:"days" json:"days" swaggertype:"array,string"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// OccursOn reports whether the entry recurs on the given weekday name.
func (e ScheduleEntry) OccursOn(weekday string) bool {
	for _, day := range e.Days {
		if day == weekday {
			return true
		}
	}
	return false
}

// ScheduleEntryView decorates an entry with its subject's display fields.
// Name and Color default to empty strings when the subject is missing.
type ScheduleEntryView struct {
	ScheduleEntry
	SubjectName  string `json:"subject_name"`
	SubjectColor string `json:"subject_color"`
}

// WeekdaySchedule lists the entries recurring on one weekday.
type WeekdaySchedule struct {
	Weekday string              `json:"weekday"`
	Entries []ScheduleEntryView `json:"entries"`
}
