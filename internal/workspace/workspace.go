// Package workspace implements the submission analytics and filtering
// engine: the immutable per-assignment data model, declarative composable
// filters over it, and the cached derived statistics the grading UI reads.
package workspace

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/gema-analytics/internal/models"
)

// Workspace binds one assignment's submission set to its named data
// sources. It is constructed once from server data and never mutated;
// filtering produces FilterResult values that share the workspace by
// reference.
type Workspace struct {
	assignment  models.Assignment
	submissions *SubmissionSet
	sources     map[SourceName]DataSource
	logger      zerolog.Logger
}

// FromServerData builds the submission set and one concrete data source per
// declared name. The payload at each position must declare the same name;
// a mismatch means the server's two parallel arrays are misaligned and is a
// hard construction failure.
func FromServerData(
	assignment models.Assignment,
	rawSubmissions map[int64][]SubmissionPayload,
	declared []SourceName,
	payloads []SourcePayload,
	validate *validator.Validate,
	logger zerolog.Logger,
) (*Workspace, error) {
	submissions, err := SubmissionSetFromServerData(rawSubmissions, assignment.MaxGrade, validate)
	if err != nil {
		return nil, fmt.Errorf("assignment %d: %w", assignment.ID, err)
	}

	ws := &Workspace{
		assignment:  assignment,
		submissions: submissions,
		sources:     make(map[SourceName]DataSource, len(declared)),
		logger:      logger.With().Str("component", "workspace").Int64("assignment_id", assignment.ID).Logger(),
	}

	if len(declared) != len(payloads) {
		return nil, fmt.Errorf("%w: %d names for %d payloads", ErrSourceNameMismatch, len(declared), len(payloads))
	}
	for i, name := range declared {
		if payloads[i].Name != name {
			return nil, fmt.Errorf("%w: expected %q at position %d, got %q", ErrSourceNameMismatch, name, i, payloads[i].Name)
		}
		source, err := createDataSource(ws, payloads[i])
		if err != nil {
			return nil, err
		}
		ws.sources[name] = source
	}

	ws.logger.Debug().
		Int("submission_count", submissions.Len()).
		Int("source_count", len(ws.sources)).
		Msg("workspace constructed")

	return ws, nil
}

// Assignment returns the assignment the workspace analyzes.
func (w *Workspace) Assignment() models.Assignment { return w.assignment }

// Submissions returns the full, unfiltered submission set.
func (w *Workspace) Submissions() *SubmissionSet { return w.submissions }

// GetSource returns the data source registered under name.
func (w *Workspace) GetSource(name SourceName) (DataSource, bool) {
	source, ok := w.sources[name]
	return source, ok
}

// Filter applies each filter independently over the same base workspace and
// returns one result per input filter. Results share nothing mutable, so
// callers may consume them in any order.
func (w *Workspace) Filter(ctx context.Context, filters []Filter) []*FilterResult {
	tracer := otel.Tracer("github.com/noah-isme/gema-analytics/internal/workspace")
	_, span := tracer.Start(ctx, "workspace.filter")
	span.SetAttributes(
		attribute.Int64("workspace.assignment_id", w.assignment.ID),
		attribute.Int("workspace.filter_count", len(filters)),
	)
	defer span.End()

	results := make([]*FilterResult, 0, len(filters))
	for _, f := range filters {
		results = append(results, newFilterResult(w, f))
	}
	return results
}

// FilterResult is the narrowed view produced by one filter: a filtered
// submission set and correspondingly filtered data sources. It references
// the parent workspace and owns its narrowed copies exclusively.
type FilterResult struct {
	workspace   *Workspace
	filter      Filter
	submissions *SubmissionSet
	sources     map[SourceName]DataSource
}

func newFilterResult(ws *Workspace, f Filter) *FilterResult {
	narrowed := ws.submissions.Apply(f, ws.assignment.MaxGrade)
	keptIDs := narrowed.SubmissionIDs()

	sources := make(map[SourceName]DataSource, len(ws.sources))
	for name, source := range ws.sources {
		sources[name] = source.Filter(keptIDs)
	}

	return &FilterResult{
		workspace:   ws,
		filter:      f,
		submissions: narrowed,
		sources:     sources,
	}
}

// Workspace returns the parent workspace.
func (r *FilterResult) Workspace() *Workspace { return r.workspace }

// Filter returns the filter that produced this result.
func (r *FilterResult) Filter() Filter { return r.filter }

// Submissions returns the narrowed submission set.
func (r *FilterResult) Submissions() *SubmissionSet { return r.submissions }

// GetSource returns the narrowed data source registered under name.
func (r *FilterResult) GetSource(name SourceName) (DataSource, bool) {
	source, ok := r.sources[name]
	return source, ok
}
