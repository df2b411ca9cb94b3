package workspace

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/gema-analytics/internal/cache"
	"github.com/noah-isme/gema-analytics/internal/stats"
)

// SubmissionSet maps each student to their chronologically ordered
// submissions. Buckets are frozen on construction; filtering allocates a
// new set. Derived views are memoized per instance.
type SubmissionSet struct {
	buckets    map[int64][]Submission
	studentIDs []int64

	memo *cache.Cache
}

func newSubmissionSet(buckets map[int64][]Submission) *SubmissionSet {
	ids := make([]int64, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &SubmissionSet{
		buckets:    buckets,
		studentIDs: ids,
		memo: cache.New(
			"all_submissions",
			"submission_ids",
			"latest_submissions",
			"grade_stats",
			"submission_stats",
		),
	}
}

// SubmissionSetFromServerData builds one submission per entry per student
// bucket from the raw server payload. Grades must be nil or inside
// [0, maxGrade].
func SubmissionSetFromServerData(raw map[int64][]SubmissionPayload, maxGrade float64, validate *validator.Validate) (*SubmissionSet, error) {
	buckets := make(map[int64][]Submission, len(raw))
	for studentID, payloads := range raw {
		if len(payloads) == 0 {
			continue
		}
		subs := make([]Submission, 0, len(payloads))
		for _, p := range payloads {
			if validate != nil {
				if err := validate.Struct(p); err != nil {
					return nil, err
				}
			}
			sub, err := newSubmission(p, maxGrade)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		buckets[studentID] = subs
	}
	return newSubmissionSet(buckets), nil
}

// StudentIDs returns the ids of students with at least one submission, in
// ascending order. This is the bucket iteration order of every derived view.
func (s *SubmissionSet) StudentIDs() []int64 {
	return append([]int64(nil), s.studentIDs...)
}

// SubmissionsFor returns one student's submissions in chronological order.
func (s *SubmissionSet) SubmissionsFor(studentID int64) []Submission {
	return append([]Submission(nil), s.buckets[studentID]...)
}

// Len returns the total number of submissions in the set.
func (s *SubmissionSet) Len() int {
	return len(s.AllSubmissions())
}

// AllSubmissions flattens every bucket into one sequence, bucket iteration
// order first, per-bucket order second.
func (s *SubmissionSet) AllSubmissions() []Submission {
	return cache.GetAs(s.memo, "all_submissions", func() []Submission {
		all := make([]Submission, 0)
		for _, id := range s.studentIDs {
			all = append(all, s.buckets[id]...)
		}
		return all
	})
}

// SubmissionIDs returns the set of all contained submission ids.
func (s *SubmissionSet) SubmissionIDs() map[int64]struct{} {
	return cache.GetAs(s.memo, "submission_ids", func() map[int64]struct{} {
		ids := make(map[int64]struct{})
		for _, sub := range s.AllSubmissions() {
			ids[sub.ID] = struct{}{}
		}
		return ids
	})
}

// LatestSubmissions returns each student's chronologically latest
// submission, in bucket iteration order. When two submissions share an
// identical timestamp the one encountered later in the bucket wins.
func (s *SubmissionSet) LatestSubmissions() []Submission {
	return cache.GetAs(s.memo, "latest_submissions", func() []Submission {
		latest := make([]Submission, 0, len(s.studentIDs))
		for _, id := range s.studentIDs {
			latest = append(latest, latestOf(s.buckets[id]))
		}
		return latest
	})
}

func latestOf(subs []Submission) Submission {
	best := subs[0]
	for _, sub := range subs[1:] {
		if !sub.CreatedAt.Before(best.CreatedAt) {
			best = sub
		}
	}
	return best
}

// GradeStats returns descriptive statistics over the non-nil grades of all
// submissions, or nil when no submission has a grade.
func (s *SubmissionSet) GradeStats() *stats.Summary {
	return cache.GetAs(s.memo, "grade_stats", func() *stats.Summary {
		grades := make([]float64, 0)
		for _, sub := range s.AllSubmissions() {
			if sub.Grade != nil {
				grades = append(grades, *sub.Grade)
			}
		}
		return stats.Describe(grades)
	})
}

// SubmissionStats returns descriptive statistics over the per-student
// submission counts, or nil for an empty set. Students without submissions
// are not represented in the set and therefore not counted.
func (s *SubmissionSet) SubmissionStats() *stats.Summary {
	return cache.GetAs(s.memo, "submission_stats", func() *stats.Summary {
		counts := make([]float64, 0, len(s.studentIDs))
		for _, id := range s.studentIDs {
			counts = append(counts, float64(len(s.buckets[id])))
		}
		return stats.Describe(counts)
	})
}

// Apply narrows the set to the submissions satisfying the filter. When the
// filter requests latest-only, each bucket is first reduced to its latest
// submission. Students left without submissions are dropped. The receiver
// is never modified.
func (s *SubmissionSet) Apply(f Filter, maxGrade float64) *SubmissionSet {
	filtered := make(map[int64][]Submission)
	for _, studentID := range s.studentIDs {
		subs := s.buckets[studentID]
		if f.OnlyLatest() {
			subs = []Submission{latestOf(subs)}
		}

		kept := make([]Submission, 0, len(subs))
		for _, sub := range subs {
			if f.Matches(sub, maxGrade) {
				kept = append(kept, sub)
			}
		}
		if len(kept) > 0 {
			filtered[studentID] = kept
		}
	}
	return newSubmissionSet(filtered)
}
