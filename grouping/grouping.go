// Package grouping defines how the time axis is partitioned for windowed
// statistics: by month, season or day of year, or not at all.
package grouping

import (
	"fmt"
	"strings"
	"time"

	"github.com/j-haacker/xsdba/grid"
)

// Group properties.
const (
	PropNone      = ""
	PropMonth     = "month"
	PropSeason    = "season"
	PropDayOfYear = "dayofyear"
)

// GroupSpec identifies how the time dimension is partitioned.
// The zero value means "ungrouped": statistics are computed over the
// whole time axis at once.
type GroupSpec struct {
	Dim    string // reduced dimension, always "time"
	Prop   string // periodic property, one of the Prop constants
	Window int    // optional centered window, in units of Prop steps
}

// New parses a group specification such as "time", "time.month" or
// "time.season", mirroring the string form used by adjustment callers.
func New(group string, window int) (GroupSpec, error) {
	dim, prop, _ := strings.Cut(group, ".")
	if dim != grid.TimeDim {
		return GroupSpec{}, fmt.Errorf("unknown grouping dimension %q", dim)
	}
	switch prop {
	case PropNone, PropMonth, PropSeason, PropDayOfYear:
	default:
		return GroupSpec{}, fmt.Errorf("unknown grouping property %q", prop)
	}
	if window < 0 || window%2 == 0 && window != 0 {
		return GroupSpec{}, fmt.Errorf("window must be an odd positive number, got %d", window)
	}
	return GroupSpec{Dim: grid.TimeDim, Prop: prop, Window: window}, nil
}

// Grouped reports whether the spec carries a periodic property.
func (g GroupSpec) Grouped() bool {
	return g.Prop != PropNone
}

// Coordinate returns the values of the group property dimension that a
// grouped quantile curve is indexed by.
func (g GroupSpec) Coordinate() []float64 {
	var n, first int
	switch g.Prop {
	case PropMonth:
		n, first = 12, 1
	case PropSeason:
		n, first = 4, 0
	case PropDayOfYear:
		n, first = 366, 1
	default:
		return nil
	}
	coord := make([]float64, n)
	for i := range coord {
		coord[i] = float64(first + i)
	}
	return coord
}

// Index maps each timestamp to its position along the group property.
// With interp false the index is the integer group a timestamp falls in;
// with interp true it is fractional, so that a timestamp in the middle of
// its group lands exactly on the group coordinate and interpolation
// between neighbouring groups is meaningful.
func (g GroupSpec) Index(times []time.Time, interp bool) ([]float64, error) {
	if !g.Grouped() {
		return nil, fmt.Errorf("cannot compute a group index for ungrouped spec")
	}
	out := make([]float64, len(times))
	for i, t := range times {
		switch g.Prop {
		case PropMonth:
			if interp {
				out[i] = float64(t.Month()) - 0.5 + float64(t.Day())/float64(daysInMonth(t))
			} else {
				out[i] = float64(t.Month())
			}
		case PropSeason:
			s, frac := seasonOf(t)
			if interp {
				out[i] = float64(s) - 0.5 + frac
			} else {
				out[i] = float64(s)
			}
		case PropDayOfYear:
			// Day-of-year groups are fine enough that no sub-group
			// position is defined.
			out[i] = float64(t.YearDay())
		}
	}
	return out, nil
}

// daysInMonth returns the calendar length of the month containing t.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// seasonOf returns the meteorological season index (DJF=0, MAM=1, JJA=2,
// SON=3) and the fractional position of t within that season.
func seasonOf(t time.Time) (int, float64) {
	m := int(t.Month()) % 12
	s := m / 3
	monthInSeason := m % 3
	frac := (float64(monthInSeason) + float64(t.Day())/float64(daysInMonth(t))) / 3
	return s, frac
}

// AddCyclicBounds pads a grouped curve along the group axis: the last
// slice is prepended and the first appended, so that interpolation near
// the period boundaries sees both neighbours. When cyclicCoords is false
// the two added coordinate values extend the original coordinate by one
// neighbouring step instead of wrapping around.
func AddCyclicBounds(a *grid.Array, axis int, coord []float64, cyclicCoords bool) (*grid.Array, []float64, error) {
	n := a.Shape[axis]
	if len(coord) != n {
		return nil, nil, fmt.Errorf("coordinate length %d does not match axis size %d", len(coord), n)
	}
	if n < 2 {
		return nil, nil, fmt.Errorf("cannot pad an axis of size %d", n)
	}
	padded := grid.Map(a, axis, n+2, func(dst, src []float64) {
		dst[0] = src[n-1]
		copy(dst[1:n+1], src)
		dst[n+1] = src[0]
	})
	newCoord := make([]float64, n+2)
	copy(newCoord[1:n+1], coord)
	if cyclicCoords {
		newCoord[0] = coord[n-1]
		newCoord[n+1] = coord[0]
	} else {
		newCoord[0] = coord[0] - (coord[1] - coord[0])
		newCoord[n+1] = coord[n-1] + (coord[n-1] - coord[n-2])
	}
	return padded, newCoord, nil
}
