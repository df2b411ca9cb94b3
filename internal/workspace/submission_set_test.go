package workspace

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-analytics/internal/models"
)

func gradePtr(g float64) *float64 { return &g }

func idPtr(id int64) *int64 { return &id }

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

func setOf(buckets map[int64][]Submission) *SubmissionSet {
	return newSubmissionSet(buckets)
}

func gradedSet(grades ...*float64) *SubmissionSet {
	buckets := make(map[int64][]Submission, len(grades))
	for i, grade := range grades {
		student := int64(i + 1)
		buckets[student] = []Submission{{
			ID:        int64(100 + i),
			CreatedAt: day(i%20 + 1),
			Grade:     grade,
		}}
	}
	return setOf(buckets)
}

func TestAllSubmissionsOrder(t *testing.T) {
	s := setOf(map[int64][]Submission{
		2: {{ID: 21, CreatedAt: day(1)}, {ID: 22, CreatedAt: day(2)}},
		1: {{ID: 11, CreatedAt: day(1)}},
	})

	all := s.AllSubmissions()
	require.Equal(t, []int64{11, 21, 22}, []int64{all[0].ID, all[1].ID, all[2].ID})
	require.Equal(t, 3, s.Len())
	require.Len(t, s.SubmissionIDs(), 3)
}

func TestGradeStatsEmptySet(t *testing.T) {
	require.Nil(t, setOf(map[int64][]Submission{}).GradeStats())
	// Submissions without grades contribute nothing either.
	require.Nil(t, gradedSet(nil, nil).GradeStats())
}

func TestGradeStatsValues(t *testing.T) {
	summary := gradedSet(gradePtr(5), gradePtr(7), nil).GradeStats()
	require.NotNil(t, summary)
	require.Equal(t, 6.0, summary.Mean)
	require.InDelta(t, 1.4142, summary.Stdev, 1e-4)
}

func TestSubmissionStats(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(1)}, {ID: 12, CreatedAt: day(2)}, {ID: 13, CreatedAt: day(3)}},
		2: {{ID: 21, CreatedAt: day(1)}},
	})

	summary := s.SubmissionStats()
	require.NotNil(t, summary)
	require.Equal(t, 2.0, summary.Mean)
	require.Equal(t, 2.0, summary.Median)
}

func TestLatestSubmissionsTieLastWins(t *testing.T) {
	ts := day(5)
	s := setOf(map[int64][]Submission{
		1: {
			{ID: 11, CreatedAt: ts},
			{ID: 12, CreatedAt: ts},
		},
	})

	latest := s.LatestSubmissions()
	require.Len(t, latest, 1)
	require.Equal(t, int64(12), latest[0].ID)
}

func TestBinSubmissionsByGrade(t *testing.T) {
	s := gradedSet(gradePtr(0), gradePtr(0.5), gradePtr(1), gradePtr(1.9), gradePtr(2), nil)

	bins := s.BinSubmissionsByGrade(1)
	require.Len(t, bins, 3)
	require.Len(t, bins[0], 2)
	require.Len(t, bins[1], 2)
	require.Len(t, bins[2], 1)
}

func TestNormalizeDateRange(t *testing.T) {
	start, end := NormalizeDateRange(nil, time.UTC)
	require.Nil(t, start)
	require.Nil(t, end)

	ref := time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)
	start, end = NormalizeDateRange([]time.Time{ref}, time.UTC)
	require.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), *start)
	require.Equal(t, time.Date(2026, time.March, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC), *end)
}

func TestBinSubmissionsByDateContiguousBins(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(1)}},
		2: {{ID: 21, CreatedAt: day(3)}},
	})

	bins := s.BinSubmissionsByDate([]time.Time{day(1), day(3)}, 1, "days", time.UTC)
	require.Len(t, bins, 3)
	require.Len(t, bins[0].Data, 1)
	require.Empty(t, bins[1].Data)
	require.NotNil(t, bins[1].Data)
	require.Len(t, bins[2].Data, 1)

	require.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), bins[1].Start)
	require.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), bins[1].End)
}

func TestBinSubmissionsByDateLocalBoundaries(t *testing.T) {
	// 23:30 UTC on March 1st is already March 2nd in a UTC+1 zone, so the
	// submission must land in the second bin.
	loc := time.FixedZone("UTC+1", 3600)
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: time.Date(2026, time.March, 1, 23, 30, 0, 0, time.UTC)}},
	})

	bins := s.BinSubmissionsByDate(
		[]time.Time{time.Date(2026, time.March, 1, 12, 0, 0, 0, loc), time.Date(2026, time.March, 2, 12, 0, 0, 0, loc)},
		1, "days", loc,
	)
	require.Len(t, bins, 2)
	require.Empty(t, bins[0].Data)
	require.Len(t, bins[1].Data, 1)
}

func TestBinSubmissionsByDateZeroStep(t *testing.T) {
	s := setOf(map[int64][]Submission{1: {{ID: 11, CreatedAt: day(1)}}})

	require.Empty(t, s.BinSubmissionsByDate([]time.Time{day(1)}, 1, "fortnights", time.UTC))
	require.Empty(t, s.BinSubmissionsByDate([]time.Time{day(1)}, 0, "days", time.UTC))
}

func TestBinSubmissionsByDateRangeFromSubmissions(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(2)}},
		2: {{ID: 21, CreatedAt: day(4)}},
	})

	bins := s.BinSubmissionsByDate(nil, 1, "days", time.UTC)
	require.Len(t, bins, 3)
}

func TestApplyProducesSubset(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(1), Grade: gradePtr(4)}, {ID: 12, CreatedAt: day(2), Grade: gradePtr(8)}},
		2: {{ID: 21, CreatedAt: day(3), Grade: gradePtr(6)}},
	})

	f, err := NewFilter(map[string]any{"onlyLatestSubs": false, "minGrade": 5.0})
	require.NoError(t, err)

	narrowed := s.Apply(f, 10)
	for id := range narrowed.SubmissionIDs() {
		_, ok := s.SubmissionIDs()[id]
		require.True(t, ok, "filtered set contains id %d not present in the parent", id)
	}
	require.Len(t, narrowed.SubmissionIDs(), 2)
}

func TestApplyGradeBoundary(t *testing.T) {
	s := gradedSet(gradePtr(9), gradePtr(10))

	// An upper bound equal to the assignment max admits a perfect score.
	atMax, err := NewFilter(map[string]any{"maxGrade": 10.0})
	require.NoError(t, err)
	require.Len(t, s.Apply(atMax, 10).SubmissionIDs(), 2)

	// Any other upper bound stays exclusive.
	belowMax, err := NewFilter(map[string]any{"maxGrade": 9.0})
	require.NoError(t, err)
	require.Empty(t, s.Apply(belowMax, 10).SubmissionIDs())
}

func TestApplyNullGradeNeverMatchesGradeBounds(t *testing.T) {
	s := gradedSet(nil)

	f, err := NewFilter(map[string]any{"minGrade": 0.0})
	require.NoError(t, err)
	require.Empty(t, s.Apply(f, 10).SubmissionIDs())
}

func TestApplyAssignees(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(1), AssigneeID: idPtr(7)}},
		2: {{ID: 21, CreatedAt: day(1), AssigneeID: idPtr(8)}},
		3: {{ID: 31, CreatedAt: day(1)}},
	})

	f, err := NewFilter(map[string]any{"assignees": []models.User{{ID: 7, Name: "Alice"}}})
	require.NoError(t, err)

	narrowed := s.Apply(f, 10)
	require.Len(t, narrowed.SubmissionIDs(), 1)
	_, ok := narrowed.SubmissionIDs()[11]
	require.True(t, ok)
}

func TestApplyDateRange(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(1)}},
		2: {{ID: 21, CreatedAt: day(5)}},
	})

	f, err := NewFilter(map[string]any{"submittedAfter": day(1), "submittedBefore": day(5)})
	require.NoError(t, err)

	// Lower bound inclusive, upper bound exclusive.
	narrowed := s.Apply(f, 10)
	require.Len(t, narrowed.SubmissionIDs(), 1)
	_, ok := narrowed.SubmissionIDs()[11]
	require.True(t, ok)
}

func TestApplyIdempotent(t *testing.T) {
	s := setOf(map[int64][]Submission{
		1: {{ID: 11, CreatedAt: day(1), Grade: gradePtr(5)}, {ID: 12, CreatedAt: day(2), Grade: gradePtr(7)}},
		2: {{ID: 21, CreatedAt: day(1), Grade: gradePtr(6)}, {ID: 22, CreatedAt: day(3), Grade: gradePtr(9)}},
	})

	f := DefaultFilter() // latest-only

	once := s.Apply(f, 10)
	twice := once.Apply(f, 10)

	require.Equal(t, once.AllSubmissions(), twice.AllSubmissions())
	require.Len(t, once.AllSubmissions(), 2)
	for i, sub := range once.AllSubmissions() {
		require.Equal(t, []int64{12, 22}[i], sub.ID)
	}
}

func TestBinSubmissionsByDroppedKeys(t *testing.T) {
	s := gradedSet(gradePtr(1), nil, gradePtr(3))

	bins := BinSubmissionsBy(s, func(sub Submission) (string, bool) {
		if sub.Grade == nil {
			return "", false
		}
		return fmt.Sprintf("g%.0f", *sub.Grade), true
	})
	require.Len(t, bins, 2)
}
