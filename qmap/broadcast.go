package qmap

import (
	"fmt"
	"time"

	"github.com/j-haacker/xsdba/diag"
	"github.com/j-haacker/xsdba/grid"
	"github.com/j-haacker/xsdba/grouping"
)

// Broadcast expands a grouped factor array back onto a time axis: each
// timestamp receives the value of its group, either by nearest-group
// lookup or by interpolating between neighbouring groups (with cyclic
// padding, so December-January interpolation is well defined).
//
// grouped must have the group property as its first dimension. If qsel
// is non-nil, grouped must carry a trailing "quantiles" dimension with
// coordinate qcoord, and qsel gives the quantile level to select for
// each timestamp; selection then aligns two dimensions at once. Cubic
// interpolation is not supported in that case and is silently downgraded
// to linear with a diagnostic.
func Broadcast(grouped *grid.Array, times []time.Time, group grouping.GroupSpec, method string, qcoord, qsel []float64) (*grid.Array, error) {
	if err := checkMethod(method); err != nil {
		return nil, err
	}
	if !group.Grouped() {
		return nil, fmt.Errorf("broadcast needs a grouped spec")
	}
	coord := group.Coordinate()
	propAxis, err := grouped.Axis(group.Prop)
	if err != nil {
		return nil, err
	}
	if grouped.Shape[propAxis] != len(coord) {
		return nil, fmt.Errorf("group axis has %d slices, property %q has %d",
			grouped.Shape[propAxis], group.Prop, len(coord))
	}
	if qsel != nil {
		if len(qsel) != len(times) {
			return nil, fmt.Errorf("qsel must hold one quantile level per timestamp")
		}
		if _, err := grouped.Axis(QuantileDim); err != nil {
			return nil, err
		}
		if method == Cubic {
			method = Linear
			diag.Warn("broadcasting in multiple dimensions can only be done with linear and nearest-neighbor interpolation, not cubic; using linear")
		}
	}

	gcoord := coord
	vals := grouped
	if method != Nearest {
		vals, gcoord, err = grouping.AddCyclicBounds(grouped, propAxis, coord, false)
		if err != nil {
			return nil, err
		}
	}
	newg, err := group.Index(times, method != Nearest)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(times))
	switch {
	case qsel == nil:
		row := make([]float64, vals.Shape[propAxis])
		if len(vals.Dims) != 1 {
			return nil, fmt.Errorf("broadcast without quantile selection needs a 1-dimensional factor array, got %v", vals.Dims)
		}
		copy(row, vals.Data)
		for i, g := range newg {
			if method == Nearest {
				out[i] = row[nearestRow(gcoord, g)]
			} else {
				out[i] = linInterp(gcoord, row, g)
			}
		}
	default:
		qAxis, _ := vals.Axis(QuantileDim)
		if len(vals.Dims) != 2 || qAxis != 1 {
			return nil, fmt.Errorf("broadcast with quantile selection needs (%q, %q) factors, got %v",
				group.Prop, QuantileDim, vals.Dims)
		}
		nq := vals.Shape[1]
		if len(qcoord) != nq {
			return nil, fmt.Errorf("qcoord length %d does not match quantile axis size %d", len(qcoord), nq)
		}
		rows := rowsOf(vals.Data, vals.Shape[0], nq)
		for i, g := range newg {
			out[i] = selectGQ(rows, gcoord, qcoord, g, qsel[i], method)
		}
	}
	return grid.FromSeries(out, times)
}

// selectGQ evaluates the (group, quantile) lattice at one point.
func selectGQ(rows [][]float64, gcoord, qcoord []float64, g, q float64, method string) float64 {
	if method == Nearest {
		r := nearestRow(gcoord, g)
		return rows[r][nearestRow(qcoord, q)]
	}
	r0 := nearestRow(gcoord, g)
	// Bracketing rows around g; nearestRow collapses to one row when g
	// sits exactly on a coordinate.
	var rLo, rHi int
	switch {
	case gcoord[r0] == g:
		rLo, rHi = r0, r0
	case gcoord[r0] < g:
		rLo, rHi = r0, min(r0+1, len(rows)-1)
	default:
		rLo, rHi = max(r0-1, 0), r0
	}
	vLo := linInterp(qcoord, rows[rLo], q)
	if rLo == rHi {
		return vLo
	}
	vHi := linInterp(qcoord, rows[rHi], q)
	w := (g - gcoord[rLo]) / (gcoord[rHi] - gcoord[rLo])
	return vLo*(1-w) + vHi*w
}
