package workspace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/gema-analytics/internal/cache"
	"github.com/noah-isme/gema-analytics/internal/models"
)

// Filter keys accepted by NewFilter and Update.
const (
	FilterKeyOnlyLatest      = "onlyLatestSubs"
	FilterKeyMinGrade        = "minGrade"
	FilterKeyMaxGrade        = "maxGrade"
	FilterKeySubmittedAfter  = "submittedAfter"
	FilterKeySubmittedBefore = "submittedBefore"
	FilterKeyAssignees       = "assignees"
)

// Filter is an immutable predicate specification over submissions. Every
// update allocates a new value; two filters are equal iff every field
// matches. The zero Filter is not usable, construct via DefaultFilter or
// NewFilter.
type Filter struct {
	onlyLatest      bool
	minGrade        *float64
	maxGrade        *float64
	submittedAfter  *time.Time
	submittedBefore *time.Time
	assignees       []models.User

	memo *cache.Cache
}

// DefaultFilter matches every student's latest submission with no grade,
// date or assignee constraint.
func DefaultFilter() Filter {
	return Filter{
		onlyLatest: true,
		memo:       cache.New("label"),
	}
}

// NewFilter builds a filter from an option map. Unrecognized keys are a
// configuration error. Malformed numeric or date strings coerce to nil
// (unconstrained): they typically come from half-edited form fields.
func NewFilter(opts map[string]any) (Filter, error) {
	f := DefaultFilter()
	// Stable application order keeps construction deterministic.
	keys := make([]string, 0, len(opts))
	for key := range opts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var err error
	for _, key := range keys {
		f, err = f.Update(key, opts[key])
		if err != nil {
			return Filter{}, err
		}
	}
	return f, nil
}

func (f Filter) clone() Filter {
	g := f
	g.assignees = append([]models.User(nil), f.assignees...)
	g.memo = cache.New("label")
	return g
}

// Update returns a new filter equal to f except for the given key.
func (f Filter) Update(key string, value any) (Filter, error) {
	g := f.clone()
	switch key {
	case FilterKeyOnlyLatest:
		g.onlyLatest = coerceBool(value)
	case FilterKeyMinGrade:
		g.minGrade = coerceFloat(value)
	case FilterKeyMaxGrade:
		g.maxGrade = coerceFloat(value)
	case FilterKeySubmittedAfter:
		g.submittedAfter = coerceTime(value)
	case FilterKeySubmittedBefore:
		g.submittedBefore = coerceTime(value)
	case FilterKeyAssignees:
		g.assignees = coerceUsers(value)
	default:
		return Filter{}, fmt.Errorf("%w: %q", ErrUnknownFilterKey, key)
	}
	return g, nil
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(v)
		return err == nil && parsed
	default:
		return false
	}
}

func coerceFloat(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case *float64:
		if v == nil {
			return nil
		}
		f := *v
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func coerceTime(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	case *time.Time:
		if v == nil {
			return nil
		}
		t := *v
		return &t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

func coerceUsers(value any) []models.User {
	users, ok := value.([]models.User)
	if !ok {
		return nil
	}
	return append([]models.User(nil), users...)
}

// OnlyLatest reports whether the filter keeps only each student's latest
// submission.
func (f Filter) OnlyLatest() bool { return f.onlyLatest }

// MinGrade returns the inclusive lower grade bound, or nil.
func (f Filter) MinGrade() *float64 { return copyFloat(f.minGrade) }

// MaxGrade returns the upper grade bound, or nil. The bound is exclusive
// except when it equals the assignment's maximum grade.
func (f Filter) MaxGrade() *float64 { return copyFloat(f.maxGrade) }

// SubmittedAfter returns the inclusive lower timestamp bound, or nil.
func (f Filter) SubmittedAfter() *time.Time { return copyTime(f.submittedAfter) }

// SubmittedBefore returns the exclusive upper timestamp bound, or nil.
func (f Filter) SubmittedBefore() *time.Time { return copyTime(f.submittedBefore) }

// Assignees returns the assignee constraint; empty means unconstrained.
func (f Filter) Assignees() []models.User { return append([]models.User(nil), f.assignees...) }

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}

// Matches reports whether one submission satisfies the filter's grade, date
// and assignee predicates. The latest-only reduction is a set-level concern
// handled by SubmissionSet.Apply, not here.
//
// The upper grade bound is exclusive, except that a bound equal to the
// assignment's maximum grade also admits a grade exactly at that maximum.
// The asymmetry keeps sibling filters produced by Split gap-free and
// overlap-free while letting the top bucket include perfect scores.
func (f Filter) Matches(sub Submission, maxGrade float64) bool {
	if f.minGrade != nil || f.maxGrade != nil {
		if sub.Grade == nil {
			return false
		}
		grade := *sub.Grade
		if f.minGrade != nil && grade < *f.minGrade {
			return false
		}
		if f.maxGrade != nil && grade >= *f.maxGrade {
			if !(*f.maxGrade == maxGrade && grade == maxGrade) {
				return false
			}
		}
	}

	if f.submittedAfter != nil && sub.CreatedAt.Before(*f.submittedAfter) {
		return false
	}
	if f.submittedBefore != nil && !sub.CreatedAt.Before(*f.submittedBefore) {
		return false
	}

	if len(f.assignees) > 0 {
		if sub.AssigneeID == nil {
			return false
		}
		found := false
		for _, user := range f.assignees {
			if user.ID == *sub.AssigneeID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Equal reports value equality over every predicate field. Assignees
// compare as sets of ids.
func (f Filter) Equal(other Filter) bool {
	if f.onlyLatest != other.onlyLatest {
		return false
	}
	if !floatEqual(f.minGrade, other.minGrade) || !floatEqual(f.maxGrade, other.maxGrade) {
		return false
	}
	if !timeEqual(f.submittedAfter, other.submittedAfter) || !timeEqual(f.submittedBefore, other.submittedBefore) {
		return false
	}

	if len(f.assignees) != len(other.assignees) {
		return false
	}
	ids := make(map[int64]struct{}, len(f.assignees))
	for _, user := range f.assignees {
		ids[user.ID] = struct{}{}
	}
	for _, user := range other.assignees {
		if _, ok := ids[user.ID]; !ok {
			return false
		}
	}
	return true
}

func floatEqual(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func timeEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

// String renders a deterministic human-readable label: latest-vs-all, grade
// bounds, date bounds, assignee names, in that fixed order.
func (f Filter) String() string {
	if f.memo == nil {
		return f.label()
	}
	return cache.GetAs(f.memo, "label", f.label)
}

func (f Filter) label() string {
	parts := make([]string, 0, 6)
	if f.onlyLatest {
		parts = append(parts, "Latest")
	} else {
		parts = append(parts, "All")
	}
	if f.minGrade != nil {
		parts = append(parts, fmt.Sprintf("Grade >= %g", *f.minGrade))
	}
	if f.maxGrade != nil {
		parts = append(parts, fmt.Sprintf("Grade < %g", *f.maxGrade))
	}
	if f.submittedAfter != nil {
		parts = append(parts, "After "+f.submittedAfter.Format("2006-01-02 15:04"))
	}
	if f.submittedBefore != nil {
		parts = append(parts, "Before "+f.submittedBefore.Format("2006-01-02 15:04"))
	}
	if len(f.assignees) > 0 {
		names := make([]string, 0, len(f.assignees))
		for _, user := range f.assignees {
			names = append(names, user.ReadableName())
		}
		parts = append(parts, "Assigned to "+strings.Join(names, ", "))
	}
	return strings.Join(parts, ", ")
}
