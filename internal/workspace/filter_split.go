package workspace

import (
	"fmt"
	"time"

	"github.com/noah-isme/gema-analytics/internal/models"
)

// SplitOptions selects the axes a filter is decomposed along.
type SplitOptions struct {
	// Latest also splits into latest-only and all-submissions variants.
	Latest bool
	// Grade splits at this threshold into [minGrade, g) and [g, maxGrade).
	Grade *float64
	// Date splits at this instant into before/after halves.
	Date *time.Time
	// Assignees produces one sub-filter per assignee.
	Assignees []models.User
}

// Split decomposes the filter into an ordered list of sub-filters whose
// predicates are pairwise disjoint and whose union reproduces the original
// predicate. Axes compose: latest, then grade, then date, then assignees,
// so three boolean axes yield up to 8 filters, times the assignee count.
//
// A grade or date threshold not strictly inside the filter's current bounds
// is a configuration error.
func (f Filter) Split(opts SplitOptions) ([]Filter, error) {
	if opts.Grade != nil {
		g := *opts.Grade
		if f.minGrade != nil && g <= *f.minGrade {
			return nil, fmt.Errorf("%w: grade %g is not above the lower bound %g", ErrInvalidSplit, g, *f.minGrade)
		}
		if f.maxGrade != nil && g >= *f.maxGrade {
			return nil, fmt.Errorf("%w: grade %g is not below the upper bound %g", ErrInvalidSplit, g, *f.maxGrade)
		}
	}
	if opts.Date != nil {
		d := *opts.Date
		if f.submittedAfter != nil && !d.After(*f.submittedAfter) {
			return nil, fmt.Errorf("%w: date %s is not after the lower bound %s", ErrInvalidSplit, d, *f.submittedAfter)
		}
		if f.submittedBefore != nil && !d.Before(*f.submittedBefore) {
			return nil, fmt.Errorf("%w: date %s is not before the upper bound %s", ErrInvalidSplit, d, *f.submittedBefore)
		}
	}

	out := []Filter{f}

	if opts.Latest {
		out = expand(out, func(f Filter) []Filter {
			latest := f.clone()
			latest.onlyLatest = true
			all := f.clone()
			all.onlyLatest = false
			return []Filter{latest, all}
		})
	}

	if opts.Grade != nil {
		g := *opts.Grade
		out = expand(out, func(f Filter) []Filter {
			below := f.clone()
			below.maxGrade = &g
			above := f.clone()
			above.minGrade = &g
			return []Filter{below, above}
		})
	}

	if opts.Date != nil {
		d := *opts.Date
		out = expand(out, func(f Filter) []Filter {
			before := f.clone()
			before.submittedBefore = &d
			after := f.clone()
			after.submittedAfter = &d
			return []Filter{before, after}
		})
	}

	if len(opts.Assignees) > 0 {
		out = expand(out, func(f Filter) []Filter {
			split := make([]Filter, 0, len(opts.Assignees))
			for _, user := range opts.Assignees {
				g := f.clone()
				g.assignees = []models.User{user}
				split = append(split, g)
			}
			return split
		})
	}

	return out, nil
}

func expand(filters []Filter, split func(Filter) []Filter) []Filter {
	out := make([]Filter, 0, 2*len(filters))
	for _, f := range filters {
		out = append(out, split(f)...)
	}
	return out
}
