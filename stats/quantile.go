// Package stats provides NaN-tolerant statistical estimators for bias
// adjustment: sample quantiles of the Hyndman-Fan family, empirical CDFs,
// percentage ranks and rank correlation.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/j-haacker/xsdba/grid"
)

// NaNQuantile computes sample quantiles of a 1-dimensional sample,
// ignoring NaN values. The alpha and beta parameters select the
// interpolation family of Hyndman & Fan (1996): alpha = beta = 1 is the
// classical linear method (type 7), alpha = beta = 1/3 is type 8.
//
// The function is total: an all-NaN sample yields NaN for every quantile
// and a single-valued sample yields that value for every quantile.
func NaNQuantile(sample []float64, quantiles []float64, alpha, beta float64) []float64 {
	out := make([]float64, len(quantiles))
	sorted := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	k := len(sorted)
	if k == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	if k == 1 {
		for i := range out {
			out[i] = sorted[0]
		}
		return out
	}
	sort.Float64s(sorted)
	for i, q := range quantiles {
		// Virtual index of the quantile in the sorted sample.
		vi := float64(k)*q + (alpha + q*(1-alpha-beta)) - 1
		switch {
		case vi <= 0:
			out[i] = sorted[0]
		case vi >= float64(k-1):
			out[i] = sorted[k-1]
		default:
			lo := math.Floor(vi)
			gamma := vi - lo
			j := int(lo)
			out[i] = sorted[j]*(1-gamma) + sorted[j+1]*gamma
		}
	}
	return out
}

// NaNPercentile is NaNQuantile with levels given in percent (0-100).
func NaNPercentile(sample []float64, percentiles []float64, alpha, beta float64) []float64 {
	quantiles := make([]float64, len(percentiles))
	for i, p := range percentiles {
		quantiles[i] = p / 100
	}
	return NaNQuantile(sample, quantiles, alpha, beta)
}

// CalcPerc computes percentiles of every slice of arr along the named
// axis, ignoring NaNs per slice. The reduced axis is replaced by a new
// trailing "percentiles" dimension holding one value per requested level.
func CalcPerc(arr *grid.Array, dim string, percentiles []float64, alpha, beta float64) (*grid.Array, error) {
	if len(percentiles) == 0 {
		return nil, errors.New("at least one percentile level is required")
	}
	axis, err := arr.Axis(dim)
	if err != nil {
		return nil, err
	}
	quantiles := make([]float64, len(percentiles))
	for i, p := range percentiles {
		quantiles[i] = p / 100
	}
	out := grid.Reduce(arr, axis, "percentiles", len(percentiles), func(dst, src []float64) {
		copy(dst, NaNQuantile(src, quantiles, alpha, beta))
	})
	return out, nil
}

// ECDF returns the value of the empirical CDF of sample at value:
// the fraction of valid points less than or equal to value.
func ECDF(sample []float64, value float64) float64 {
	le, valid := 0, 0
	for _, v := range sample {
		if math.IsNaN(v) {
			continue
		}
		valid++
		if v <= value {
			le++
		}
	}
	if valid == 0 {
		return math.NaN()
	}
	return float64(le) / float64(valid)
}

// EquallySpacedNodes returns n equally spaced quantile nodes within
// (0, 1), the middle points of n equal bins. If eps is positive, two
// extra nodes at eps and 1-eps are added at the ends.
func EquallySpacedNodes(n int, eps float64) []float64 {
	dq := 1 / float64(n) / 2
	q := make([]float64, 0, n+2)
	if eps > 0 {
		q = append(q, eps)
	}
	if n == 1 {
		q = append(q, 0.5)
	} else {
		for i := 0; i < n; i++ {
			q = append(q, dq+float64(i)*(1-2*dq)/float64(n-1))
		}
	}
	if eps > 0 {
		q = append(q, 1-eps)
	}
	return q
}
