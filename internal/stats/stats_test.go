package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribeEmpty(t *testing.T) {
	require.Nil(t, Describe(nil))
	require.Nil(t, Describe([]float64{}))
}

func TestDescribeSingleObservation(t *testing.T) {
	summary := Describe([]float64{7})
	require.NotNil(t, summary)
	require.Equal(t, 7.0, summary.Mean)
	require.Equal(t, 7.0, summary.Median)
	require.Equal(t, 7.0, summary.Mode)
	require.Equal(t, 0.0, summary.Stdev)
}

func TestDescribeSampleStdev(t *testing.T) {
	summary := Describe([]float64{5, 7})
	require.NotNil(t, summary)
	require.Equal(t, 6.0, summary.Mean)
	require.Equal(t, 6.0, summary.Median)
	require.InDelta(t, 1.4142, summary.Stdev, 1e-4)
}

func TestDescribeModePicksSmallestTie(t *testing.T) {
	summary := Describe([]float64{3, 3, 9, 9, 5})
	require.NotNil(t, summary)
	require.Equal(t, 3.0, summary.Mode)
}

func TestPearsonGuards(t *testing.T) {
	_, ok := Pearson([]float64{1}, []float64{2})
	require.False(t, ok)

	_, ok = Pearson([]float64{1, 2, 3}, []float64{1, 2})
	require.False(t, ok)

	// Zero variance makes the coefficient undefined.
	_, ok = Pearson([]float64{4, 4, 4}, []float64{1, 2, 3})
	require.False(t, ok)
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	r, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.True(t, ok)
	require.InDelta(t, 1.0, r, 1e-9)

	r, ok = Pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	require.True(t, ok)
	require.InDelta(t, -1.0, r, 1e-9)
}
