package models

import "time"

// Subject represents an academic subject the user tracks. Course is the
// academic year the subject belongs to (1-6) and drives display grouping.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Course    int       `db:"course" json:"course"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CourseGroup holds the subjects of one course, ordered by name.
type CourseGroup struct {
	Course   int       `json:"course"`
	Subjects []Subject `json:"subjects"`
}
