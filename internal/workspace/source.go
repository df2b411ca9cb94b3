package workspace

import (
	"encoding/json"
	"fmt"
)

// SourceName tags the concrete data-source variants. The set is closed:
// createDataSource dispatches exhaustively over it.
type SourceName string

const (
	// SourceRubricData holds per-submission rubric score entries.
	SourceRubricData SourceName = "rubric_data"
	// SourceInlineFeedback holds per-submission inline feedback counts.
	SourceInlineFeedback SourceName = "inline_feedback"
)

// SourcePayload is the wire shape one named data source arrives in.
type SourcePayload struct {
	Name SourceName      `json:"name" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// DataSource is a named container of per-submission analytic payloads.
// Implementations are immutable; Filter allocates a narrowed copy of the
// same concrete variant. The interface is sealed to this package so the
// variant set stays a compile-time-checked sum.
type DataSource interface {
	// Name returns the source's type tag.
	Name() SourceName
	// Len returns the number of submissions with a payload.
	Len() int
	// Filter returns a new source keeping only the given submission ids.
	// It is only ever invoked with the id set of an already-filtered
	// submission set, keeping sources and submissions consistent.
	Filter(keptIDs map[int64]struct{}) DataSource

	sealedSource()
}

func createDataSource(ws *Workspace, payload SourcePayload) (DataSource, error) {
	switch payload.Name {
	case SourceRubricData:
		var entries map[int64][]RubricEntryPayload
		if err := json.Unmarshal(payload.Data, &entries); err != nil {
			return nil, fmt.Errorf("rubric source data: %w", err)
		}
		return NewRubricSource(ws, entries)
	case SourceInlineFeedback:
		var counts map[int64]int
		if err := json.Unmarshal(payload.Data, &counts); err != nil {
			return nil, fmt.Errorf("inline feedback source data: %w", err)
		}
		return NewInlineFeedbackSource(ws, counts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceName, payload.Name)
	}
}
