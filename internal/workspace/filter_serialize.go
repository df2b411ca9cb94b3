package workspace

import (
	"time"

	"github.com/noah-isme/gema-analytics/internal/models"
)

// FilterData is the plain-data, URL-shareable form of a Filter. Fields
// equal to the all-submissions default are omitted to keep encoded filters
// compact. Timestamps are ISO-8601 strings, assignees are user ids.
type FilterData struct {
	OnlyLatestSubs  *bool    `json:"onlyLatestSubs,omitempty"`
	MinGrade        *float64 `json:"minGrade,omitempty"`
	MaxGrade        *float64 `json:"maxGrade,omitempty"`
	SubmittedAfter  string   `json:"submittedAfter,omitempty"`
	SubmittedBefore string   `json:"submittedBefore,omitempty"`
	Assignees       []int64  `json:"assignees,omitempty"`
}

// Serialize renders the filter to its plain-data form.
func (f Filter) Serialize() FilterData {
	data := FilterData{
		MinGrade: copyFloat(f.minGrade),
		MaxGrade: copyFloat(f.maxGrade),
	}
	if !f.onlyLatest {
		latest := false
		data.OnlyLatestSubs = &latest
	}
	if f.submittedAfter != nil {
		data.SubmittedAfter = f.submittedAfter.Format(time.RFC3339)
	}
	if f.submittedBefore != nil {
		data.SubmittedBefore = f.submittedBefore.Format(time.RFC3339)
	}
	for _, user := range f.assignees {
		data.Assignees = append(data.Assignees, user.ID)
	}
	return data
}

// DeserializeFilter rebuilds a filter from its plain-data form. Assignee
// ids are resolved through the injected lookup; ids the lookup cannot
// resolve are dropped. Malformed date strings coerce to nil.
func DeserializeFilter(data FilterData, lookup models.UserLookup) Filter {
	f := DefaultFilter()
	if data.OnlyLatestSubs != nil {
		f.onlyLatest = *data.OnlyLatestSubs
	}
	f.minGrade = copyFloat(data.MinGrade)
	f.maxGrade = copyFloat(data.MaxGrade)
	if data.SubmittedAfter != "" {
		f.submittedAfter = coerceTime(data.SubmittedAfter)
	}
	if data.SubmittedBefore != "" {
		f.submittedBefore = coerceTime(data.SubmittedBefore)
	}
	if lookup != nil {
		for _, id := range data.Assignees {
			if user, ok := lookup.Resolve(id); ok {
				f.assignees = append(f.assignees, user)
			}
		}
	}
	return f
}
