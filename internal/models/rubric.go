package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrContinuousRowShape indicates a continuous rubric row without exactly
// one item. Continuous rows model a single scaling factor, so any other
// shape is a malformed payload.
var ErrContinuousRowShape = errors.New("continuous rubric row must have exactly one item")

// RowType distinguishes discrete-level rows from continuous ones.
type RowType string

const (
	// RowTypeNormal rows offer a fixed set of selectable levels.
	RowTypeNormal RowType = "normal"
	// RowTypeContinuous rows have one item whose points are scaled by a multiplier.
	RowTypeContinuous RowType = "continuous"
)

// RubricItem is one selectable level within a rubric row.
type RubricItem struct {
	ID          int64   `json:"id" validate:"required"`
	Points      float64 `json:"points"`
	Header      string  `json:"header"`
	Description string  `json:"description"`
}

// RubricRow is one scored dimension of an assignment.
type RubricRow struct {
	ID          int64        `json:"id" validate:"required"`
	Type        RowType      `json:"type"`
	Header      string       `json:"header"`
	Description string       `json:"description"`
	Locked      bool         `json:"locked"`
	Items       []RubricItem `json:"items"`
}

// MaxPoints returns the highest item point value of the row, or 0 when the
// row has no items.
func (r RubricRow) MaxPoints() float64 {
	if len(r.Items) == 0 {
		return 0
	}
	// Items are sorted ascending by points on construction.
	return r.Items[len(r.Items)-1].Points
}

// MinPoints returns the lowest item point value of the row, or 0 when the
// row has no items.
func (r RubricRow) MinPoints() float64 {
	if len(r.Items) == 0 {
		return 0
	}
	return r.Items[0].Points
}

// Rubric is the scoring schema of an assignment: an ordered list of rows,
// each owning an ordered list of items.
type Rubric struct {
	Rows []RubricRow `json:"rows"`

	itemRow map[int64]int64 // item id -> owning row id
	items   map[int64]RubricItem
}

// NewRubric builds a rubric from server rows. Items are sorted ascending by
// points within each row. Continuous rows must carry exactly one item.
func NewRubric(rows []RubricRow) (*Rubric, error) {
	rubric := &Rubric{
		Rows:    make([]RubricRow, 0, len(rows)),
		itemRow: make(map[int64]int64),
		items:   make(map[int64]RubricItem),
	}

	for _, row := range rows {
		if row.Type == RowTypeContinuous && len(row.Items) != 1 {
			return nil, fmt.Errorf("row %d: %w", row.ID, ErrContinuousRowShape)
		}

		items := append([]RubricItem(nil), row.Items...)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Points < items[j].Points
		})
		row.Items = items

		for _, item := range items {
			rubric.itemRow[item.ID] = row.ID
			rubric.items[item.ID] = item
		}
		rubric.Rows = append(rubric.Rows, row)
	}

	return rubric, nil
}

// ItemByID returns the item with the given id and the id of its owning row.
func (r *Rubric) ItemByID(id int64) (RubricItem, int64, bool) {
	item, ok := r.items[id]
	if !ok {
		return RubricItem{}, 0, false
	}
	return item, r.itemRow[id], true
}

// RowByID returns the row with the given id.
func (r *Rubric) RowByID(id int64) (RubricRow, bool) {
	for _, row := range r.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return RubricRow{}, false
}

// MaxPoints returns the sum of every row's highest item points.
func (r *Rubric) MaxPoints() float64 {
	total := 0.0
	for _, row := range r.Rows {
		total += row.MaxPoints()
	}
	return total
}
