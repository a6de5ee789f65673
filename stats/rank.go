package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ranks assigns average ranks (starting at 1) to the non-NaN values,
// leaving NaN where the input is NaN. Tied values share the mean of the
// ranks they span.
func ranks(values []float64) []float64 {
	idx := make([]int, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && values[idx[j]] == values[idx[i]] {
			j++
		}
		// Ranks i+1 .. j averaged over the tie run.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			out[idx[k]] = avg
		}
		i = j
	}
	return out
}

// RankPct returns percentage ranks scaled to [0, 1]: the smallest valid
// value ranks 0 and the largest 1. NaNs are passed through. A slice with
// fewer than two valid values has no rank spread and yields NaN.
func RankPct(values []float64) []float64 {
	rnk := ranks(values)
	k := 0
	for _, r := range rnk {
		if !math.IsNaN(r) {
			k++
		}
	}
	for i, r := range rnk {
		if !math.IsNaN(r) {
			rnk[i] = (r - 1) / float64(k-1)
		}
	}
	return rnk
}

// Spearman returns the Spearman rank correlation of x and y. Pairs where
// either value is NaN are omitted. Fewer than two complete pairs yield NaN.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}
	cx := make([]float64, 0, len(x))
	cy := make([]float64, 0, len(y))
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			cx = append(cx, x[i])
			cy = append(cy, y[i])
		}
	}
	if len(cx) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(cx), ranks(cy), nil)
}
