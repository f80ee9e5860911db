package models

// DayPlan is the planner view for one selected calendar date: the schedule
// entries recurring on that date's weekday, the pending tasks due exactly
// that day, and the calendar events dated that day.
type DayPlan struct {
	Date    string              `json:"date"`
	Weekday string              `json:"weekday"`
	Classes []ScheduleEntryView `json:"classes"`
	Tasks   []TaskView          `json:"tasks"`
	Events  []CalendarEvent     `json:"events"`
}
