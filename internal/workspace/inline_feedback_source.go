package workspace

import (
	"github.com/noah-isme/gema-analytics/internal/cache"
	"github.com/noah-isme/gema-analytics/internal/stats"
)

// InlineFeedbackSource holds each submission's inline feedback entry count.
type InlineFeedbackSource struct {
	workspace *Workspace
	counts    map[int64]int

	memo *cache.Cache
}

// NewInlineFeedbackSource builds the source from per-submission counts.
func NewInlineFeedbackSource(ws *Workspace, counts map[int64]int) *InlineFeedbackSource {
	copied := make(map[int64]int, len(counts))
	for subID, count := range counts {
		copied[subID] = count
	}
	return &InlineFeedbackSource{
		workspace: ws,
		counts:    copied,
		memo:      cache.New("entry_stats"),
	}
}

// Name implements DataSource.
func (s *InlineFeedbackSource) Name() SourceName { return SourceInlineFeedback }

// Len implements DataSource.
func (s *InlineFeedbackSource) Len() int { return len(s.counts) }

func (s *InlineFeedbackSource) sealedSource() {}

// Filter implements DataSource.
func (s *InlineFeedbackSource) Filter(keptIDs map[int64]struct{}) DataSource {
	kept := make(map[int64]int)
	for subID, count := range s.counts {
		if _, ok := keptIDs[subID]; ok {
			kept[subID] = count
		}
	}
	return NewInlineFeedbackSource(s.workspace, kept)
}

// CountFor returns one submission's feedback entry count.
func (s *InlineFeedbackSource) CountFor(subID int64) (int, bool) {
	count, ok := s.counts[subID]
	return count, ok
}

// EntryStats returns descriptive statistics over all submissions' feedback
// entry counts, or nil when the source is empty.
func (s *InlineFeedbackSource) EntryStats() *stats.Summary {
	return cache.GetAs(s.memo, "entry_stats", func() *stats.Summary {
		counts := make([]float64, 0, len(s.counts))
		for _, count := range s.counts {
			counts = append(counts, float64(count))
		}
		return stats.Describe(counts)
	})
}
