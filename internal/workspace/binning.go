package workspace

import (
	"math"
	"sort"
	"strings"
	"time"
)

// BinSubmissionsBy partitions the set's submissions into buckets keyed by
// keyFn. Submissions for which keyFn reports no key are dropped entirely.
// Only populated buckets appear in the result.
func BinSubmissionsBy[K comparable](s *SubmissionSet, keyFn func(Submission) (K, bool)) map[K][]Submission {
	bins := make(map[K][]Submission)
	for _, sub := range s.AllSubmissions() {
		key, ok := keyFn(sub)
		if !ok {
			continue
		}
		bins[key] = append(bins[key], sub)
	}
	return bins
}

// BinSubmissionsByGrade buckets graded submissions by floor(grade/binSize).
// Ungraded submissions are dropped.
func (s *SubmissionSet) BinSubmissionsByGrade(binSize float64) map[int64][]Submission {
	return BinSubmissionsBy(s, func(sub Submission) (int64, bool) {
		if sub.Grade == nil {
			return 0, false
		}
		return int64(math.Floor(*sub.Grade / binSize)), true
	})
}

// DateBin is one histogram bucket of BinSubmissionsByDate. End is the start
// of the next bucket (exclusive). Data may be empty.
type DateBin struct {
	Start time.Time
	End   time.Time
	Data  []Submission
}

// NormalizeDateRange turns zero, one or more reference dates into an
// inclusive [start, end] range. A single date serves as both ends. Start is
// floored to local midnight and end is ceiled to local end-of-day
// (23:59:59.999). No dates yield an unbounded (nil, nil) range.
func NormalizeDateRange(dates []time.Time, loc *time.Location) (start, end *time.Time) {
	if len(dates) == 0 {
		return nil, nil
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	first := sorted[0].In(loc)
	last := sorted[len(sorted)-1].In(loc)

	y, m, d := first.Date()
	lo := time.Date(y, m, d, 0, 0, 0, 0, loc)
	y, m, d = last.Date()
	hi := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)

	return &lo, &hi
}

func unitMillis(unit string) int64 {
	switch strings.ToLower(unit) {
	case "second", "seconds":
		return 1000
	case "minute", "minutes":
		return 60 * 1000
	case "hour", "hours":
		return 60 * 60 * 1000
	case "day", "days":
		return 24 * 60 * 60 * 1000
	case "week", "weeks":
		return 7 * 24 * 60 * 60 * 1000
	default:
		return 0
	}
}

// floorDiv rounds towards negative infinity, unlike Go's integer division.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// dateBinKey shifts the instant into its local-clock representation before
// flooring so bins align with local-time boundaries rather than UTC.
func dateBinKey(t time.Time, step int64, loc *time.Location) int64 {
	_, offset := t.In(loc).Zone()
	return floorDiv(t.UnixMilli()+int64(offset)*1000, step)
}

// dateBinStart is the inverse of dateBinKey for a bin index.
func dateBinStart(key, step int64, loc *time.Location) time.Time {
	localMillis := key * step
	_, offset := time.UnixMilli(localMillis).In(loc).Zone()
	return time.UnixMilli(localMillis - int64(offset)*1000).In(loc)
}

// BinSubmissionsByDate buckets submissions into fixed-width time bins over
// the normalized range of refDates. When refDates is empty the range spans
// the set's earliest to latest submission. Every bin between the range ends
// is present, empty or not, so histogram rendering sees contiguous buckets.
// An unknown unit or zero size yields no bins.
func (s *SubmissionSet) BinSubmissionsByDate(refDates []time.Time, binSize int, binUnit string, loc *time.Location) []DateBin {
	step := int64(binSize) * unitMillis(binUnit)
	if step <= 0 {
		return []DateBin{}
	}

	start, end := NormalizeDateRange(refDates, loc)
	if start == nil {
		all := s.AllSubmissions()
		if len(all) == 0 {
			return []DateBin{}
		}
		first, last := all[0].CreatedAt, all[0].CreatedAt
		for _, sub := range all[1:] {
			if sub.CreatedAt.Before(first) {
				first = sub.CreatedAt
			}
			if sub.CreatedAt.After(last) {
				last = sub.CreatedAt
			}
		}
		start, end = NormalizeDateRange([]time.Time{first, last}, loc)
	}

	grouped := BinSubmissionsBy(s, func(sub Submission) (int64, bool) {
		if sub.CreatedAt.Before(*start) || sub.CreatedAt.After(*end) {
			return 0, false
		}
		return dateBinKey(sub.CreatedAt, step, loc), true
	})

	startKey := dateBinKey(*start, step, loc)
	endKey := dateBinKey(*end, step, loc)

	bins := make([]DateBin, 0, endKey-startKey+1)
	for key := startKey; key <= endKey; key++ {
		data := grouped[key]
		if data == nil {
			data = []Submission{}
		}
		bins = append(bins, DateBin{
			Start: dateBinStart(key, step, loc),
			End:   dateBinStart(key+1, step, loc),
			Data:  data,
		})
	}
	return bins
}
