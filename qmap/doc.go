// Package qmap maps values through empirical quantile curves.
//
// A quantile map is defined by knot pairs (xq, yq) sampled at common
// quantile levels: evaluating it at a new value inverts the xq curve to
// find the quantile level and applies the yq curve at that level. This
// is the central transform of quantile-mapping bias correction.
//
// # Ungrouped Mapping
//
// Each grid point carries one curve over the trailing "quantiles"
// dimension:
//
//	out, err := qmap.InterpOnQuantiles(newx, xq, yq,
//	    grouping.GroupSpec{}, qmap.Linear, qmap.ExtrapConstant)
//
// # Grouped Mapping
//
// With a grouped spec (e.g. "time.month"), curves vary along the group
// property and each timestamp is evaluated at its fractional group
// position, interpolating between neighbouring groups across the period
// boundary:
//
//	group, _ := grouping.New("time.month", 0)
//	out, err := qmap.InterpOnQuantiles(newx, xq, yq,
//	    group, qmap.Linear, qmap.ExtrapConstant)
//
// # Extrapolation
//
// Values of newx outside the knot range follow the extrapolation policy:
// qmap.ExtrapNaN maps them to NaN, qmap.ExtrapConstant holds the first
// or last valid knot value. In grouped mode the held values are
// themselves interpolated along the group axis.
//
// Degenerate slices (all NaN, or too few valid knots) yield all-NaN
// results and a diagnostic through the diag package; they never abort a
// batched computation.
package qmap
