package models

import "time"

// Task is a to-do item with an optional due date, belonging to a subject.
type Task struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	SubjectID string     `db:"subject_id" json:"subject_id"`
	Title     string     `db:"title" json:"title"`
	DueDate   *time.Time `db:"due_date" json:"due_date,omitempty"`
	Completed bool       `db:"completed" json:"completed"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskFilter narrows task queries.
type TaskFilter struct {
	UserID    string
	SubjectID string
	DueDate   *time.Time
	Completed *bool
}

// TaskView decorates a task with its subject's display fields.
type TaskView struct {
	Task
	SubjectName  string `json:"subject_name"`
	SubjectColor string `json:"subject_color"`
}

// SubjectTasks groups a subject's tasks for the task board. Only subjects
// with at least one task appear.
type SubjectTasks struct {
	Subject Subject `json:"subject"`
	Tasks   []Task  `json:"tasks"`
}
