package workspace

import (
	"fmt"
	"time"
)

// Submission is one student's one handed-in piece of work. It is an
// immutable value; every derived view allocates rather than mutates.
type Submission struct {
	ID         int64     `json:"id"`
	AssigneeID *int64    `json:"assignee_id"`
	CreatedAt  time.Time `json:"created_at"`
	Grade      *float64  `json:"grade"`
}

// SubmissionPayload is the wire shape one submission arrives in.
type SubmissionPayload struct {
	ID         int64    `json:"id" validate:"required"`
	CreatedAt  string   `json:"created_at" validate:"required"`
	AssigneeID *int64   `json:"assignee_id"`
	Grade      *float64 `json:"grade"`
}

func newSubmission(p SubmissionPayload, maxGrade float64) (Submission, error) {
	createdAt, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return Submission{}, fmt.Errorf("submission %d: invalid created_at %q: %w", p.ID, p.CreatedAt, err)
	}

	if p.Grade != nil && (*p.Grade < 0 || *p.Grade > maxGrade) {
		return Submission{}, fmt.Errorf("submission %d: grade %v: %w", p.ID, *p.Grade, ErrGradeOutOfRange)
	}

	sub := Submission{
		ID:        p.ID,
		CreatedAt: createdAt,
	}
	if p.AssigneeID != nil {
		id := *p.AssigneeID
		sub.AssigneeID = &id
	}
	if p.Grade != nil {
		grade := *p.Grade
		sub.Grade = &grade
	}
	return sub, nil
}
