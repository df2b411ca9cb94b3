package workspace

import (
	"fmt"
	"sort"

	"github.com/noah-isme/gema-analytics/internal/cache"
	"github.com/noah-isme/gema-analytics/internal/stats"
)

// RubricEntryPayload is the wire shape of one rubric score entry. Older
// persisted payloads omit points; those are back-filled from the
// assignment's rubric at construction.
type RubricEntryPayload struct {
	ItemID     int64    `json:"item_id" validate:"required"`
	Multiplier float64  `json:"multiplier"`
	Points     *float64 `json:"points,omitempty"`
}

// RubricScore is one resolved rubric score entry: the selected item, its
// owning row and the points awarded.
type RubricScore struct {
	RowID      int64
	ItemID     int64
	Multiplier float64
	Points     float64
}

// CorrelationPair pairs one row's score with a submission-level total for
// item-total (rit) and item-rest (rir) correlation.
type CorrelationPair struct {
	Item  float64
	Total float64
}

// RubricSource holds every submission's rubric score entries and derives
// per-category descriptive and correlation statistics over them.
type RubricSource struct {
	workspace *Workspace
	scores    map[int64][]RubricScore
	subIDs    []int64

	memo *cache.Cache
}

// NewRubricSource resolves the raw entries against the assignment's rubric.
// Requesting a rubric source for an assignment without a rubric, or an
// entry referencing an unknown item, is a configuration error.
func NewRubricSource(ws *Workspace, entries map[int64][]RubricEntryPayload) (*RubricSource, error) {
	assignment := ws.Assignment()
	if !assignment.HasRubric() {
		return nil, fmt.Errorf("assignment %d: %w", assignment.ID, ErrRubricSourceWithoutRubric)
	}
	rubric := assignment.Rubric

	scores := make(map[int64][]RubricScore, len(entries))
	for subID, subEntries := range entries {
		resolved := make([]RubricScore, 0, len(subEntries))
		for _, entry := range subEntries {
			item, rowID, ok := rubric.ItemByID(entry.ItemID)
			if !ok {
				return nil, fmt.Errorf("submission %d: item %d: %w", subID, entry.ItemID, ErrUnknownRubricItem)
			}
			points := entry.Multiplier * item.Points
			if entry.Points != nil {
				points = *entry.Points
			}
			resolved = append(resolved, RubricScore{
				RowID:      rowID,
				ItemID:     entry.ItemID,
				Multiplier: entry.Multiplier,
				Points:     points,
			})
		}
		scores[subID] = resolved
	}

	return newRubricSource(ws, scores), nil
}

func newRubricSource(ws *Workspace, scores map[int64][]RubricScore) *RubricSource {
	subIDs := make([]int64, 0, len(scores))
	for id := range scores {
		subIDs = append(subIDs, id)
	}
	sort.Slice(subIDs, func(i, j int) bool { return subIDs[i] < subIDs[j] })

	return &RubricSource{
		workspace: ws,
		scores:    scores,
		subIDs:    subIDs,
		memo: cache.New(
			"items_per_cat",
			"summary_per_cat",
			"score_per_cat_per_sub",
			"total_per_sub",
			"rit_items_per_cat",
			"rir_items_per_cat",
			"rit_per_cat",
			"rir_per_cat",
		),
	}
}

// Name implements DataSource.
func (s *RubricSource) Name() SourceName { return SourceRubricData }

// Len implements DataSource.
func (s *RubricSource) Len() int { return len(s.subIDs) }

func (s *RubricSource) sealedSource() {}

// Filter implements DataSource.
func (s *RubricSource) Filter(keptIDs map[int64]struct{}) DataSource {
	kept := make(map[int64][]RubricScore)
	for _, subID := range s.subIDs {
		if _, ok := keptIDs[subID]; ok {
			kept[subID] = s.scores[subID]
		}
	}
	return newRubricSource(s.workspace, kept)
}

// ScoresFor returns one submission's resolved rubric entries.
func (s *RubricSource) ScoresFor(subID int64) []RubricScore {
	return append([]RubricScore(nil), s.scores[subID]...)
}

// rowIDs enumerates every rubric row, so rows without entries still appear
// (with nil statistics) in the per-category results.
func (s *RubricSource) rowIDs() []int64 {
	rows := s.workspace.Assignment().Rubric.Rows
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// ItemsPerCat groups all entries, across all submissions, by their row id.
func (s *RubricSource) ItemsPerCat() map[int64][]RubricScore {
	return cache.GetAs(s.memo, "items_per_cat", func() map[int64][]RubricScore {
		perCat := make(map[int64][]RubricScore)
		for _, id := range s.rowIDs() {
			perCat[id] = []RubricScore{}
		}
		for _, subID := range s.subIDs {
			for _, score := range s.scores[subID] {
				perCat[score.RowID] = append(perCat[score.RowID], score)
			}
		}
		return perCat
	})
}

func (s *RubricSource) summaryPerCat() map[int64]*stats.Summary {
	return cache.GetAs(s.memo, "summary_per_cat", func() map[int64]*stats.Summary {
		summaries := make(map[int64]*stats.Summary)
		for rowID, scores := range s.ItemsPerCat() {
			points := make([]float64, 0, len(scores))
			for _, score := range scores {
				points = append(points, score.Points)
			}
			summaries[rowID] = stats.Describe(points)
		}
		return summaries
	})
}

func (s *RubricSource) statPerCat(pick func(*stats.Summary) float64) map[int64]*float64 {
	out := make(map[int64]*float64)
	for rowID, summary := range s.summaryPerCat() {
		if summary == nil {
			out[rowID] = nil
			continue
		}
		v := pick(summary)
		out[rowID] = &v
	}
	return out
}

// MeanPerCat returns each row's mean points, nil for rows without entries.
func (s *RubricSource) MeanPerCat() map[int64]*float64 {
	return s.statPerCat(func(sum *stats.Summary) float64 { return sum.Mean })
}

// MedianPerCat returns each row's median points, nil for rows without entries.
func (s *RubricSource) MedianPerCat() map[int64]*float64 {
	return s.statPerCat(func(sum *stats.Summary) float64 { return sum.Median })
}

// ModePerCat returns each row's modal points, nil for rows without entries.
func (s *RubricSource) ModePerCat() map[int64]*float64 {
	return s.statPerCat(func(sum *stats.Summary) float64 { return sum.Mode })
}

// StdevPerCat returns each row's sample standard deviation of points: nil
// without entries, 0 for exactly one.
func (s *RubricSource) StdevPerCat() map[int64]*float64 {
	return s.statPerCat(func(sum *stats.Summary) float64 { return sum.Stdev })
}

// ScorePerCatPerSubmission maps submission id to row id to awarded points.
func (s *RubricSource) ScorePerCatPerSubmission() map[int64]map[int64]float64 {
	return cache.GetAs(s.memo, "score_per_cat_per_sub", func() map[int64]map[int64]float64 {
		perSub := make(map[int64]map[int64]float64, len(s.subIDs))
		for _, subID := range s.subIDs {
			perCat := make(map[int64]float64)
			for _, score := range s.scores[subID] {
				perCat[score.RowID] += score.Points
			}
			perSub[subID] = perCat
		}
		return perSub
	})
}

// TotalScorePerSubmission maps submission id to the sum of its per-category
// points.
func (s *RubricSource) TotalScorePerSubmission() map[int64]float64 {
	return cache.GetAs(s.memo, "total_per_sub", func() map[int64]float64 {
		totals := make(map[int64]float64, len(s.subIDs))
		for subID, perCat := range s.ScorePerCatPerSubmission() {
			total := 0.0
			for _, points := range perCat {
				total += points
			}
			totals[subID] = total
		}
		return totals
	})
}

// RitItemsPerCat pairs, for each row, the row's score with the submission
// total across all submissions scored on that row.
func (s *RubricSource) RitItemsPerCat() map[int64][]CorrelationPair {
	return cache.GetAs(s.memo, "rit_items_per_cat", func() map[int64][]CorrelationPair {
		return s.correlationItems(false)
	})
}

// RirItemsPerCat pairs each row's score with the submission total minus
// that row's own contribution, the standard correction that keeps an item
// from trivially correlating with a total it is part of.
func (s *RubricSource) RirItemsPerCat() map[int64][]CorrelationPair {
	return cache.GetAs(s.memo, "rir_items_per_cat", func() map[int64][]CorrelationPair {
		return s.correlationItems(true)
	})
}

func (s *RubricSource) correlationItems(subtractOwn bool) map[int64][]CorrelationPair {
	perCat := make(map[int64][]CorrelationPair)
	for _, id := range s.rowIDs() {
		perCat[id] = []CorrelationPair{}
	}

	scorePerCat := s.ScorePerCatPerSubmission()
	totals := s.TotalScorePerSubmission()
	for _, subID := range s.subIDs {
		total := totals[subID]
		for rowID, points := range scorePerCat[subID] {
			pair := CorrelationPair{Item: points, Total: total}
			if subtractOwn {
				pair.Total -= points
			}
			perCat[rowID] = append(perCat[rowID], pair)
		}
	}
	return perCat
}

// RitPerCat returns each row's corrected item-total correlation, nil when
// fewer than two pairs exist or the coefficient is not finite.
func (s *RubricSource) RitPerCat() map[int64]*float64 {
	return cache.GetAs(s.memo, "rit_per_cat", func() map[int64]*float64 {
		return correlatePerCat(s.RitItemsPerCat())
	})
}

// RirPerCat returns each row's item-rest correlation under the same guards
// as RitPerCat.
func (s *RubricSource) RirPerCat() map[int64]*float64 {
	return cache.GetAs(s.memo, "rir_per_cat", func() map[int64]*float64 {
		return correlatePerCat(s.RirItemsPerCat())
	})
}

func correlatePerCat(itemsPerCat map[int64][]CorrelationPair) map[int64]*float64 {
	out := make(map[int64]*float64, len(itemsPerCat))
	for rowID, pairs := range itemsPerCat {
		xs := make([]float64, 0, len(pairs))
		ys := make([]float64, 0, len(pairs))
		for _, pair := range pairs {
			xs = append(xs, pair.Item)
			ys = append(ys, pair.Total)
		}
		if r, ok := stats.Pearson(xs, ys); ok {
			out[rowID] = &r
		} else {
			out[rowID] = nil
		}
	}
	return out
}
