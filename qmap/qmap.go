package qmap

import (
	"fmt"

	"github.com/j-haacker/xsdba/grid"
	"github.com/j-haacker/xsdba/grouping"
	"github.com/j-haacker/xsdba/stats"
)

// QuantileDim is the dimension name quantile curves are indexed by.
const QuantileDim = "quantiles"

func checkMethod(method string) error {
	switch method {
	case Nearest, Linear, Cubic:
		return nil
	}
	return fmt.Errorf("method must be nearest, linear or cubic, got %q", method)
}

func checkExtrap(extrap string) error {
	switch extrap {
	case ExtrapConstant, ExtrapNaN:
		return nil
	}
	return fmt.Errorf("extrapolation must be constant or nan, got %q", extrap)
}

// InterpOnQuantiles evaluates, for every value of newx, the value yq
// takes at the quantile level that xq attains closest to it; together
// the two curves define an empirical quantile map from the xq
// distribution to the yq distribution.
//
// Ungrouped (group without a property): xq and yq carry a trailing
// "quantiles" dimension over the same remaining dimensions as newx, and
// each grid point is interpolated independently in 1D along time.
//
// Grouped: xq and yq additionally carry the group property as their
// second-to-last dimension, with one curve per group. Curves are made
// cyclic along that dimension before evaluation, and each time step is
// looked up at its (fractional) group position, interpolating between
// neighbouring groups. newx must carry timestamps on its time dimension.
//
// NaNs in newx propagate to the output; all-NaN slices produce all-NaN
// results plus a diagnostic, never an error.
func InterpOnQuantiles(newx, xq, yq *grid.Array, group grouping.GroupSpec, method, extrapolation string) (*grid.Array, error) {
	if err := checkMethod(method); err != nil {
		return nil, err
	}
	if err := checkExtrap(extrapolation); err != nil {
		return nil, err
	}
	timeAxis, err := newx.Axis(grid.TimeDim)
	if err != nil {
		return nil, err
	}
	if !group.Grouped() {
		return interpUngrouped(newx, timeAxis, xq, yq, method, extrapolation)
	}
	return interpGrouped(newx, timeAxis, xq, yq, group, method, extrapolation)
}

func interpUngrouped(newx *grid.Array, timeAxis int, xq, yq *grid.Array, method, extrap string) (*grid.Array, error) {
	xqAxis, err := xq.Axis(QuantileDim)
	if err != nil {
		return nil, err
	}
	yqAxis, err := yq.Axis(QuantileDim)
	if err != nil {
		return nil, err
	}
	n := newx.Slices(timeAxis)
	if xq.Slices(xqAxis) != n || yq.Slices(yqAxis) != n {
		return nil, fmt.Errorf("quantile curves do not align with newx: %d points vs %d/%d curves",
			n, xq.Slices(xqAxis), yq.Slices(yqAxis))
	}
	if xq.Shape[xqAxis] != yq.Shape[yqAxis] {
		return nil, fmt.Errorf("xq and yq have different numbers of quantile levels: %d vs %d",
			xq.Shape[xqAxis], yq.Shape[yqAxis])
	}
	out, _ := grid.New(newx.Dims, newx.Shape)
	out.Times = newx.Times
	grid.ForEachSlice(newx, timeAxis, func(i int, src []float64) {
		oldx := xq.Slice1D(xqAxis, i, nil)
		oldy := yq.Slice1D(yqAxis, i, nil)
		out.SetSlice1D(timeAxis, i, interp1D(src, oldx, oldy, method, extrap))
	})
	return out, nil
}

// interpGrouped requires the group property and "quantiles" to be the
// last two dimensions of xq and yq, in that order, preceded by the same
// remaining dimensions as newx.
func interpGrouped(newx *grid.Array, timeAxis int, xq, yq *grid.Array, group grouping.GroupSpec, method, extrap string) (*grid.Array, error) {
	if newx.Times == nil {
		return nil, fmt.Errorf("grouped interpolation needs timestamps on the %q dimension", grid.TimeDim)
	}
	coord := group.Coordinate()
	for _, a := range []*grid.Array{xq, yq} {
		nd := len(a.Dims)
		if nd < 2 || a.Dims[nd-2] != group.Prop || a.Dims[nd-1] != QuantileDim {
			return nil, fmt.Errorf("grouped quantile curves must end with (%q, %q) dimensions, got %v",
				group.Prop, QuantileDim, a.Dims)
		}
		if a.Shape[nd-2] != len(coord) {
			return nil, fmt.Errorf("curve group axis has %d slices, property %q has %d",
				a.Shape[nd-2], group.Prop, len(coord))
		}
	}
	nq := xq.Shape[len(xq.Shape)-1]
	if yq.Shape[len(yq.Shape)-1] != nq {
		return nil, fmt.Errorf("xq and yq have different numbers of quantile levels")
	}

	propAxis := len(xq.Dims) - 2
	xqPad, gcoord, err := grouping.AddCyclicBounds(xq, propAxis, coord, false)
	if err != nil {
		return nil, err
	}
	yqPad, _, err := grouping.AddCyclicBounds(yq, propAxis, coord, false)
	if err != nil {
		return nil, err
	}
	ng := len(gcoord)

	n := newx.Slices(timeAxis)
	if xqPad.Size()/(ng*nq) != n {
		return nil, fmt.Errorf("quantile curves do not align with newx")
	}

	newg, err := group.Index(newx.Times, method != Nearest)
	if err != nil {
		return nil, err
	}

	out, _ := grid.New(newx.Dims, newx.Shape)
	out.Times = newx.Times
	grid.ForEachSlice(newx, timeAxis, func(i int, src []float64) {
		// The padded (group, quantiles) block of grid point i is
		// contiguous because those are the trailing dimensions.
		oldx := rowsOf(xqPad.Data[i*ng*nq:(i+1)*ng*nq], ng, nq)
		oldy := rowsOf(yqPad.Data[i*ng*nq:(i+1)*ng*nq], ng, nq)
		out.SetSlice1D(timeAxis, i, interp2D(src, newg, oldx, oldy, gcoord, method, extrap))
	})
	return out, nil
}

func rowsOf(block []float64, ng, nq int) [][]float64 {
	rows := make([][]float64, ng)
	for r := range rows {
		rows[r] = block[r*nq : (r+1)*nq]
	}
	return rows
}

// MapCDF returns, for each value of yValues, the value in x sharing the
// CDF that the given value has in y. The empirical CDF is evaluated with
// a lower sentinel so that values below the sample map to the sample
// minimum rather than an undefined quantile.
func MapCDF(x, y, yValues []float64) []float64 {
	qs := make([]float64, len(yValues))
	for i, yv := range yValues {
		qs[i] = ecdfLow(y, yv)
	}
	return stats.NaNQuantile(x, qs, 1, 1)
}

// ecdfLow is the empirical CDF with a virtual -Inf sample prepended.
func ecdfLow(sample []float64, value float64) float64 {
	le, valid := 1, 1
	for _, v := range sample {
		if v != v { // NaN
			continue
		}
		valid++
		if v <= value {
			le++
		}
	}
	return float64(le) / float64(valid)
}
