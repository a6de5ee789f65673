// Package qmap maps values through empirical quantile curves, the core
// transform of quantile-mapping bias adjustment.
package qmap

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/j-haacker/xsdba/diag"
)

// Interpolation methods.
const (
	Nearest = "nearest"
	Linear  = "linear"
	Cubic   = "cubic"
)

// Extrapolation policies.
const (
	ExtrapConstant = "constant"
	ExtrapNaN      = "nan"
)

// curve1d is one quantile curve prepared for evaluation: knots with any
// non-finite pair removed, sorted by x, duplicate x collapsed.
type curve1d struct {
	xs, ys []float64
	pred   interp.Predictor
	// First and last valid y in quantile order, used as the constant
	// extrapolation fill values.
	firstY, lastY float64
}

// newCurve1d prepares a curve from raw knot arrays. It returns nil when
// fewer than two valid knots remain, in which case no interpolant exists.
func newCurve1d(oldx, oldy []float64, method string) *curve1d {
	c := &curve1d{firstY: math.NaN(), lastY: math.NaN()}
	for i := range oldy {
		if !math.IsNaN(oldy[i]) {
			if math.IsNaN(c.firstY) {
				c.firstY = oldy[i]
			}
			c.lastY = oldy[i]
		}
	}
	type knot struct{ x, y float64 }
	knots := make([]knot, 0, len(oldx))
	for i := range oldx {
		if !math.IsNaN(oldx[i]) && !math.IsNaN(oldy[i]) {
			knots = append(knots, knot{oldx[i], oldy[i]})
		}
	}
	if len(knots) < 2 {
		return nil
	}
	sort.Slice(knots, func(a, b int) bool { return knots[a].x < knots[b].x })
	for _, k := range knots {
		// Tied x knots carry no extra information; keep the first.
		if len(c.xs) > 0 && k.x == c.xs[len(c.xs)-1] {
			continue
		}
		c.xs = append(c.xs, k.x)
		c.ys = append(c.ys, k.y)
	}
	if len(c.xs) < 2 {
		return nil
	}
	switch method {
	case Linear:
		var pl interp.PiecewiseLinear
		if err := pl.Fit(c.xs, c.ys); err != nil {
			return nil
		}
		c.pred = &pl
	case Cubic:
		if len(c.xs) < 3 {
			var pl interp.PiecewiseLinear
			if err := pl.Fit(c.xs, c.ys); err != nil {
				return nil
			}
			c.pred = &pl
		} else {
			var ak interp.AkimaSpline
			if err := ak.Fit(c.xs, c.ys); err != nil {
				return nil
			}
			c.pred = &ak
		}
	case Nearest:
		// Handled without a predictor.
	}
	return c
}

// min and max knot positions of the prepared curve.
func (c *curve1d) minX() float64 { return c.xs[0] }
func (c *curve1d) maxX() float64 { return c.xs[len(c.xs)-1] }

// eval evaluates the curve at x, which must lie within [minX, maxX].
func (c *curve1d) eval(x float64, method string) float64 {
	if method == Nearest {
		j := sort.SearchFloat64s(c.xs, x)
		if j == 0 {
			return c.ys[0]
		}
		if j == len(c.xs) {
			return c.ys[len(c.ys)-1]
		}
		if x-c.xs[j-1] <= c.xs[j]-x {
			return c.ys[j-1]
		}
		return c.ys[j]
	}
	return c.pred.Predict(x)
}

// interp1D inverts-then-applies a quantile map built from (oldx, oldy)
// knots at every value of newx. NaNs in newx propagate; an all-NaN input
// or knot set warns and yields an all-NaN slice.
func interp1D(newx, oldx, oldy []float64, method, extrap string) []float64 {
	out := make([]float64, len(newx))
	for i := range out {
		out[i] = math.NaN()
	}
	if allNaN(newx) || allNaNPairs(oldx, oldy) {
		diag.Warn("all-NaN slice encountered in interp_on_quantiles")
		return out
	}
	c := newCurve1d(oldx, oldy, method)
	if c == nil {
		diag.Warn("too few valid quantile knots for interpolation")
		return out
	}
	for i, x := range newx {
		if math.IsNaN(x) {
			continue
		}
		switch {
		case x < c.minX():
			if extrap == ExtrapConstant {
				out[i] = c.firstY
			}
		case x > c.maxX():
			if extrap == ExtrapConstant {
				out[i] = c.lastY
			}
		default:
			out[i] = c.eval(x, method)
		}
	}
	return out
}

func allNaN(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func allNaNPairs(x, y []float64) bool {
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			return false
		}
	}
	return true
}

// linInterp is plain piecewise-linear interpolation with endpoint
// clamping, used for the group-axis interpolation of extrapolation
// bounds. xs must be sorted ascending.
func linInterp(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	j := sort.SearchFloat64s(xs, x)
	w := (x - xs[j-1]) / (xs[j] - xs[j-1])
	return ys[j-1]*(1-w) + ys[j]*w
}
