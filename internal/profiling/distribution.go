package profiling

import (
	"errors"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"edaqa/domain/profile"
)

// errTooFewForSpread marks the named edge case of a numeric column with
// fewer than two present values: the standard deviation is undefined and
// reported as zero with StdUndefined set.
var errTooFewForSpread = errors.New("fewer than two values: standard deviation undefined")

// describe computes population statistics for the present values of a
// numeric column
func describe(data []float64) (*profile.NumericStats, error) {
	mean, err := overflowSafe(data, stats.Mean)
	if err != nil {
		return nil, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}

	// Nearest-rank quartiles stay defined for tiny samples
	q25, err := stats.PercentileNearestRank(data, 25)
	if err != nil {
		return nil, err
	}

	q75, err := stats.PercentileNearestRank(data, 75)
	if err != nil {
		return nil, err
	}

	out := &profile.NumericStats{
		Mean:         mean,
		Min:          min,
		Max:          max,
		Median:       median,
		Q25:          q25,
		Q75:          q75,
		OutlierCount: detectOutliers(data, q25, q75),
	}

	std, err := spread(data)
	switch {
	case errors.Is(err, errTooFewForSpread):
		out.StdUndefined = true
	case err != nil:
		return nil, err
	default:
		out.StdDev = std
	}

	for _, x := range data {
		if x == 0 {
			out.ZeroCount++
		}
	}
	out.ZeroShare = float64(out.ZeroCount) / float64(len(data))

	out.Values = append([]float64(nil), data...)
	sort.Float64s(out.Values)

	return out, nil
}

// spread is the population standard deviation
func spread(data []float64) (float64, error) {
	if len(data) < 2 {
		return 0, errTooFewForSpread
	}
	return overflowSafe(data, stats.StandardDeviationPopulation)
}

// overflowSafe evaluates a scale-equivariant statistic. When the plain
// result overflows it is recomputed on values divided by their largest
// magnitude and scaled back, which keeps it finite for any finite input.
func overflowSafe(data []float64, fn func(stats.Float64Data) (float64, error)) (float64, error) {
	v, err := fn(data)
	if err != nil || (!math.IsInf(v, 0) && !math.IsNaN(v)) {
		return v, err
	}

	var scale float64
	for _, x := range data {
		scale = math.Max(scale, math.Abs(x))
	}
	if scale == 0 {
		return v, nil
	}

	scaled := make([]float64, len(data))
	for i, x := range data {
		scaled[i] = x / scale
	}
	v, err = fn(scaled)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// detectOutliers counts values outside the 1.5 IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
