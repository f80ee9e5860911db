package models

import "time"

// CalendarEvent is a single dated entry on the user's calendar.
type CalendarEvent struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Date      time.Time `db:"date" json:"date"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EventFilter narrows calendar event queries to a day or range.
type EventFilter struct {
	UserID string
	Date   *time.Time
	From   *time.Time
	To     *time.Time
}
