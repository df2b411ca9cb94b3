package workspace

import "errors"

// Configuration errors: caller mistakes that are raised loudly at the point
// of misuse. Data absence (no grades yet, too few observations) is never an
// error in this package; it yields nil results instead.
var (
	// ErrUnknownFilterKey indicates a filter was built or updated with a
	// field name this package does not recognize.
	ErrUnknownFilterKey = errors.New("unknown filter key")

	// ErrInvalidSplit indicates a split threshold that violates the
	// ordering of the filter's existing bounds.
	ErrInvalidSplit = errors.New("invalid filter split")

	// ErrUnknownSourceName indicates a data-source payload with a name no
	// concrete source variant claims.
	ErrUnknownSourceName = errors.New("unknown data source name")

	// ErrSourceNameMismatch indicates the declared source names and the
	// supplied payloads disagree positionally.
	ErrSourceNameMismatch = errors.New("data source name mismatch")

	// ErrRubricSourceWithoutRubric indicates a rubric data source was
	// requested for an assignment that has no rubric.
	ErrRubricSourceWithoutRubric = errors.New("assignment has no rubric")

	// ErrUnknownRubricItem indicates a rubric score entry referencing an
	// item id absent from the assignment's rubric.
	ErrUnknownRubricItem = errors.New("unknown rubric item")

	// ErrGradeOutOfRange indicates a server payload grade outside
	// [0, maxGrade].
	ErrGradeOutOfRange = errors.New("grade out of range")
)
