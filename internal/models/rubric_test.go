package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRubricSortsItemsByPoints(t *testing.T) {
	rubric, err := NewRubric([]RubricRow{
		{
			ID:   1,
			Type: RowTypeNormal,
			Items: []RubricItem{
				{ID: 11, Points: 5},
				{ID: 12, Points: 0},
				{ID: 13, Points: 2},
			},
		},
	})
	require.NoError(t, err)

	row := rubric.Rows[0]
	require.Equal(t, []int64{12, 13, 11}, []int64{row.Items[0].ID, row.Items[1].ID, row.Items[2].ID})
	require.Equal(t, 5.0, row.MaxPoints())
	require.Equal(t, 0.0, row.MinPoints())
}

func TestNewRubricRejectsMalformedContinuousRow(t *testing.T) {
	_, err := NewRubric([]RubricRow{
		{
			ID:   2,
			Type: RowTypeContinuous,
			Items: []RubricItem{
				{ID: 21, Points: 1},
				{ID: 22, Points: 2},
			},
		},
	})
	require.ErrorIs(t, err, ErrContinuousRowShape)
}

func TestRubricItemLookup(t *testing.T) {
	rubric, err := NewRubric([]RubricRow{
		{ID: 1, Type: RowTypeNormal, Items: []RubricItem{{ID: 11, Points: 3}}},
		{ID: 2, Type: RowTypeContinuous, Items: []RubricItem{{ID: 21, Points: 10}}},
	})
	require.NoError(t, err)

	item, rowID, ok := rubric.ItemByID(21)
	require.True(t, ok)
	require.Equal(t, int64(2), rowID)
	require.Equal(t, 10.0, item.Points)

	_, _, ok = rubric.ItemByID(99)
	require.False(t, ok)

	require.Equal(t, 13.0, rubric.MaxPoints())
}

func TestRubricResultTotalPointsClampsMultiplier(t *testing.T) {
	result := RubricResult{
		Selected: map[int64]RubricSelection{
			1: {Item: RubricItem{ID: 11, Points: 4}, Multiplier: 1.0},
			2: {Item: RubricItem{ID: 21, Points: 10}, Multiplier: 0.5},
			3: {Item: RubricItem{ID: 31, Points: 6}, Multiplier: 1.5},
			4: {Item: RubricItem{ID: 41, Points: 8}, Multiplier: -2},
		},
	}

	// 4*1 + 10*0.5 + 6*1 (clamped) + 8*0 (clamped)
	require.Equal(t, 15.0, result.TotalPoints())
}
