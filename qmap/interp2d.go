package qmap

import (
	"math"
	"sort"

	"github.com/j-haacker/xsdba/diag"
)

// grouped2d holds cyclically padded quantile curves for one grid point:
// one curve per group row, rows ordered along the (padded, ascending)
// group coordinate.
type grouped2d struct {
	gcoord []float64
	curves []*curve1d // nil where a row has too few valid knots

	// Per-row first/last valid knot positions and values, interpolated
	// along the group axis to build the extrapolation bounds.
	loX, hiX []float64
	loY, hiY []float64
}

func newGrouped2d(oldx, oldy [][]float64, gcoord []float64, method string) *grouped2d {
	g := &grouped2d{
		gcoord: gcoord,
		curves: make([]*curve1d, len(gcoord)),
		loX:    make([]float64, len(gcoord)),
		hiX:    make([]float64, len(gcoord)),
		loY:    make([]float64, len(gcoord)),
		hiY:    make([]float64, len(gcoord)),
	}
	for r := range gcoord {
		g.curves[r] = newCurve1d(oldx[r], oldy[r], method)
		g.loX[r], g.hiX[r] = firstLastValid(oldx[r])
		g.loY[r], g.hiY[r] = firstLastValid(oldy[r])
	}
	return g
}

func firstLastValid(values []float64) (first, last float64) {
	first, last = math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(first) {
			first = v
		}
		last = v
	}
	return first, last
}

// rowEval evaluates row r at x, NaN outside the row's knot range.
func (g *grouped2d) rowEval(r int, x float64, method string) float64 {
	c := g.curves[r]
	if c == nil || x < c.minX() || x > c.maxX() {
		return math.NaN()
	}
	return c.eval(x, method)
}

// eval evaluates the 2-dimensional quantile map at (x, gpos). Within the
// knot range this interpolates along the curves of the two bracketing
// group rows and then linearly between the rows, which on the regular
// group lattice matches scattered linear interpolation. The
// extrapolation bounds vary along the group axis: each row's first/last
// valid knot is interpolated linearly at gpos.
func (g *grouped2d) eval(x, gpos float64, method, extrap string) float64 {
	if math.IsNaN(x) || math.IsNaN(gpos) {
		return math.NaN()
	}

	lo := linInterp(g.gcoord, g.loX, gpos)
	hi := linInterp(g.gcoord, g.hiX, gpos)
	if x < lo {
		if extrap == ExtrapConstant {
			return linInterp(g.gcoord, g.loY, gpos)
		}
		return math.NaN()
	}
	if x > hi {
		if extrap == ExtrapConstant {
			return linInterp(g.gcoord, g.hiY, gpos)
		}
		return math.NaN()
	}

	if method == Nearest {
		r := nearestRow(g.gcoord, gpos)
		return g.rowEval(r, clampTo(g.curves[r], x), method)
	}

	j := sort.SearchFloat64s(g.gcoord, gpos)
	switch {
	case j == 0:
		return g.rowEval(0, x, method)
	case j == len(g.gcoord):
		return g.rowEval(len(g.gcoord)-1, x, method)
	}
	if g.gcoord[j] == gpos {
		return g.rowEval(j, x, method)
	}
	w := (gpos - g.gcoord[j-1]) / (g.gcoord[j] - g.gcoord[j-1])
	v0 := g.rowEval(j-1, x, method)
	v1 := g.rowEval(j, x, method)
	// A row may not cover x; inside the global bounds, lean on the one
	// that does rather than poisoning the blend with NaN.
	switch {
	case math.IsNaN(v0):
		return v1
	case math.IsNaN(v1):
		return v0
	}
	return v0*(1-w) + v1*w
}

func nearestRow(gcoord []float64, gpos float64) int {
	j := sort.SearchFloat64s(gcoord, gpos)
	if j == 0 {
		return 0
	}
	if j == len(gcoord) {
		return len(gcoord) - 1
	}
	if gpos-gcoord[j-1] <= gcoord[j]-gpos {
		return j - 1
	}
	return j
}

// clampTo limits x to the knot range of c so that nearest-neighbour
// lookup inside the global bounds never misses.
func clampTo(c *curve1d, x float64) float64 {
	if c == nil {
		return x
	}
	if x < c.minX() {
		return c.minX()
	}
	if x > c.maxX() {
		return c.maxX()
	}
	return x
}

// interp2D evaluates one grid point's grouped quantile map at every
// (newx, newg) pair. An all-NaN query or knot set warns and yields an
// all-NaN slice.
func interp2D(newx, newg []float64, oldx, oldy [][]float64, gcoord []float64, method, extrap string) []float64 {
	out := make([]float64, len(newx))
	for i := range out {
		out[i] = math.NaN()
	}
	anyKnot := false
	for r := range oldx {
		if !allNaNPairs(oldx[r], oldy[r]) {
			anyKnot = true
			break
		}
	}
	if allNaN(newx) || allNaN(newg) || !anyKnot {
		diag.Warn("all-NaN slice encountered in interp_on_quantiles")
		return out
	}
	g := newGrouped2d(oldx, oldy, gcoord, method)
	for i := range newx {
		out[i] = g.eval(newx[i], newg[i], method, extrap)
	}
	return out
}
