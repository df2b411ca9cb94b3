package models

// RubricSelection records one filled-in rubric row: the chosen item and the
// multiplier applied to its points.
type RubricSelection struct {
	Item       RubricItem `json:"item"`
	Multiplier float64    `json:"multiplier"`
}

// RubricResult is one submission's filled-in rubric, keyed by row id.
type RubricResult struct {
	Selected map[int64]RubricSelection `json:"selected"`
}

// TotalPoints sums the selected items' points, each scaled by its
// multiplier clamped to [0, 1].
func (r RubricResult) TotalPoints() float64 {
	total := 0.0
	for _, sel := range r.Selected {
		total += sel.Item.Points * ClampMultiplier(sel.Multiplier)
	}
	return total
}

// ClampMultiplier restricts a rubric multiplier to the valid [0, 1] range.
func ClampMultiplier(m float64) float64 {
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}
