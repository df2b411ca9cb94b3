package models

import "time"

// Assignment is the graded unit a workspace analyzes submissions of.
// The rubric is optional; rubric-based analytics require it to be present.
type Assignment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MaxGrade  float64   `json:"max_grade"`
	CreatedAt time.Time `json:"created_at"`
	Rubric    *Rubric   `json:"rubric,omitempty"`
}

// HasRubric reports whether the assignment carries a non-empty rubric.
func (a Assignment) HasRubric() bool {
	return a.Rubric != nil && len(a.Rubric.Rows) > 0
}
