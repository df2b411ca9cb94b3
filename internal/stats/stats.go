// Package stats adapts the numeric primitives this module needs — mean,
// median, mode, sample standard deviation and sample (Pearson) correlation —
// to the null-on-no-data contract the analytics layer works with.
package stats

import (
	"math"

	flynn "github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics of one series of observations.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
	Stdev  float64 `json:"stdev"`
}

// Describe returns the descriptive statistics of values, or nil when values
// is empty. Stdev is 0 for a single observation and the sample (n-1)
// standard deviation otherwise. When several values tie for most frequent,
// Mode is the smallest of them.
func Describe(values []float64) *Summary {
	if len(values) == 0 {
		return nil
	}

	data := flynn.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return nil
	}
	median, err := data.Median()
	if err != nil {
		return nil
	}

	stdev := 0.0
	if len(values) > 1 {
		stdev, err = data.StandardDeviationSample()
		if err != nil {
			return nil
		}
	}

	return &Summary{
		Mean:   mean,
		Median: median,
		Mode:   mode(data),
		Stdev:  stdev,
	}
}

func mode(data flynn.Float64Data) float64 {
	modes, err := data.Mode()
	if err == nil && len(modes) > 0 {
		smallest := modes[0]
		for _, m := range modes[1:] {
			if m < smallest {
				smallest = m
			}
		}
		return smallest
	}

	// Every value is equally frequent, so every value is a mode.
	smallest, _ := data.Min()
	return smallest
}

// Pearson returns the sample correlation coefficient of the paired series.
// ok is false when fewer than two pairs exist, the series lengths differ,
// or the coefficient is not a finite number (e.g. a zero-variance series).
func Pearson(xs, ys []float64) (r float64, ok bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, false
	}
	r, err := flynn.Pearson(flynn.Float64Data(xs), flynn.Float64Data(ys))
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
