// Package cluster extracts exceedance clusters from series for
// extreme-value adjustment.
package cluster

import (
	"fmt"
	"math"

	"github.com/j-haacker/xsdba/grid"
)

// Cluster is a maximal run of consecutive values strictly above the
// cluster threshold u2 that contains at least one value above the
// extreme threshold u1. Start and End are inclusive indices into the
// original series; MaxPos is the index of the run maximum.
type Cluster struct {
	Start  int
	End    int
	MaxPos int
	Max    float64
}

// Extract returns the exceedance clusters of a 1-dimensional series.
// Runs are delimited by transitions of the "above u2" mask, with virtual
// below-threshold samples at both ends so that a run touching an array
// boundary is still closed. A series of length N yields at most N/2
// clusters, since two runs are separated by at least one below sample.
func Extract(data []float64, u1, u2 float64) []Cluster {
	var clusters []Cluster
	inRun := false
	start := 0
	for i := 0; i <= len(data); i++ {
		above := i < len(data) && data[i] > u2
		switch {
		case above && !inRun:
			inRun = true
			start = i
		case !above && inRun:
			inRun = false
			maxPos := start
			for j := start + 1; j < i; j++ {
				if data[j] > data[maxPos] {
					maxPos = j
				}
			}
			if data[maxPos] > u1 {
				clusters = append(clusters, Cluster{
					Start:  start,
					End:    i - 1,
					MaxPos: maxPos,
					Max:    data[maxPos],
				})
			}
		}
	}
	return clusters
}

// BatchResult holds the clusters of every slice of an array, padded to a
// rectangular shape. Start, End and MaxPos use -1 as the "no cluster"
// sentinel, Maximum uses NaN. Count holds the true number of clusters
// per slice. All arrays share the remaining dimensions of the input plus
// a trailing "cluster" dimension (Count keeps a length-one one).
type BatchResult struct {
	Start   *grid.Array
	End     *grid.Array
	MaxPos  *grid.Array
	Maximum *grid.Array
	Count   *grid.Array
}

// ExtractBatch runs Extract on every slice of data along the named time
// dimension and stacks the per-slice results. Slices are processed
// concurrently; they are independent by construction.
func ExtractBatch(data *grid.Array, dim string, u1, u2 float64) (*BatchResult, error) {
	axis, err := data.Axis(dim)
	if err != nil {
		return nil, err
	}
	// Maximal possible cluster count: runs alternate with below samples.
	n := data.Shape[axis] / 2
	if n == 0 {
		return nil, fmt.Errorf("dimension %q is too short for cluster extraction", dim)
	}

	res := &BatchResult{
		Start:   grid.Reduce(data, axis, "cluster", n, fillSentinel(-1)),
		End:     grid.Reduce(data, axis, "cluster", n, fillSentinel(-1)),
		MaxPos:  grid.Reduce(data, axis, "cluster", n, fillSentinel(-1)),
		Maximum: grid.Reduce(data, axis, "cluster", n, fillSentinel(math.NaN())),
		Count:   grid.Reduce(data, axis, "cluster", 1, fillSentinel(0)),
	}
	grid.ForEachSlice(data, axis, func(i int, src []float64) {
		clusters := Extract(src, u1, u2)
		for c, cl := range clusters {
			if c >= n {
				break
			}
			res.Start.Data[i*n+c] = float64(cl.Start)
			res.End.Data[i*n+c] = float64(cl.End)
			res.MaxPos.Data[i*n+c] = float64(cl.MaxPos)
			res.Maximum.Data[i*n+c] = cl.Max
		}
		res.Count.Data[i] = float64(len(clusters))
	})
	return res, nil
}

func fillSentinel(v float64) func(dst, src []float64) {
	return func(dst, _ []float64) {
		for i := range dst {
			dst[i] = v
		}
	}
}
