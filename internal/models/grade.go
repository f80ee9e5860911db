package models

import "time"

// GradedItem is one scored, weighted assessment belonging to a subject.
// Score lives in [0,10], Weight is a percentage in [0,100]. Weights are not
// required to sum to 100.
type GradedItem struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Kind      string    `db:"kind" json:"kind"`
	Score     float64   `db:"score" json:"score"`
	Weight    float64   `db:"weight" json:"weight"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GradedItemFilter narrows graded item queries.
type GradedItemFilter struct {
	UserID    string
	SubjectID string
}

// SubjectGrade pairs a subject with its computed weighted final grade.
// HasGrades distinguishes "no graded items yet" from a true weighted average
// of zero; the global average treats both the same (only finals > 0 count).
type SubjectGrade struct {
	Subject      Subject `json:"subject"`
	Final        float64 `json:"final"`
	FinalDisplay string  `json:"final_display"`
	TotalWeight  float64 `json:"total_weight"`
	HasGrades    bool    `json:"has_grades"`
}

// CourseGrades groups per-subject finals under one course.
type CourseGrades struct {
	Course   int            `json:"course"`
	Subjects []SubjectGrade `json:"subjects"`
}

// CourseProgress reports how many subjects of a course have grades recorded.
type CourseProgress struct {
	Course    int     `json:"course"`
	Total     int     `json:"total"`
	WithGrade int     `json:"with_grade"`
	Progress  float64 `json:"progress"`
}

// GradeOverview is the aggregation returned by the grades overview endpoint.
type GradeOverview struct {
	GlobalAverage        *float64         `json:"global_average,omitempty"`
	GlobalAverageDisplay string           `json:"global_average_display,omitempty"`
	Courses              []CourseGrades   `json:"courses"`
	Progress             []CourseProgress `json:"progress"`
}
