// Package grid provides the dense n-dimensional array underlying all
// adjustment operations.
package grid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TimeDim is the name of the designated time dimension.
const TimeDim = "time"

// Array is a dense, row-major n-dimensional array of float64 values.
// NaN marks missing data. Arrays are caller-owned: operations in this
// module never mutate their inputs and always allocate fresh outputs.
type Array struct {
	Dims  []string
	Shape []int
	Data  []float64
	// Times optionally holds the coordinate of the "time" dimension.
	Times []time.Time
}

// New creates a zero-filled array with the given dimension names and shape.
func New(dims []string, shape []int) (*Array, error) {
	if len(dims) != len(shape) {
		return nil, errors.New("dims and shape must have the same length")
	}
	size := 1
	for i, n := range shape {
		if n <= 0 {
			return nil, fmt.Errorf("dimension %q has non-positive size %d", dims[i], n)
		}
		size *= n
	}
	return &Array{
		Dims:  append([]string(nil), dims...),
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, size),
	}, nil
}

// FromValues creates an array wrapping a copy of the given row-major data.
func FromValues(dims []string, shape []int, data []float64) (*Array, error) {
	a, err := New(dims, shape)
	if err != nil {
		return nil, err
	}
	if len(data) != len(a.Data) {
		return nil, fmt.Errorf("data length %d does not match shape size %d", len(data), len(a.Data))
	}
	copy(a.Data, data)
	return a, nil
}

// FromSeries creates a 1-dimensional time series array.
func FromSeries(values []float64, times []time.Time) (*Array, error) {
	if times != nil && len(times) != len(values) {
		return nil, errors.New("times and values must have the same length")
	}
	a, err := FromValues([]string{TimeDim}, []int{len(values)}, values)
	if err != nil {
		return nil, err
	}
	if times != nil {
		a.Times = append([]time.Time(nil), times...)
	}
	return a, nil
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	return len(a.Data)
}

// Axis returns the position of the named dimension.
func (a *Array) Axis(name string) (int, error) {
	for i, d := range a.Dims {
		if d == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("array has no dimension %q", name)
}

// strides returns the row-major stride of each dimension.
func (a *Array) strides() []int {
	st := make([]int, len(a.Shape))
	acc := 1
	for i := len(a.Shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= a.Shape[i]
	}
	return st
}

// flatIndex converts a multi-index to a position in Data.
func (a *Array) flatIndex(idx []int) int {
	st := a.strides()
	flat := 0
	for i, j := range idx {
		flat += j * st[i]
	}
	return flat
}

// At returns the element at the given multi-index.
func (a *Array) At(idx ...int) float64 {
	return a.Data[a.flatIndex(idx)]
}

// Set assigns the element at the given multi-index.
func (a *Array) Set(v float64, idx ...int) {
	a.Data[a.flatIndex(idx)] = v
}

// Copy creates a deep copy of the array.
func (a *Array) Copy() *Array {
	out := &Array{
		Dims:  append([]string(nil), a.Dims...),
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
	if a.Times != nil {
		out.Times = append([]time.Time(nil), a.Times...)
	}
	return out
}

// Slices returns how many 1-dimensional slices the array holds along axis.
func (a *Array) Slices(axis int) int {
	return len(a.Data) / a.Shape[axis]
}

// sliceOffset returns the position in Data of the first element of the
// i-th slice along axis. Slices are enumerated in row-major order of the
// remaining dimensions, so slice i of two arrays sharing those dimensions
// (in the same order) always refers to the same grid point.
func (a *Array) sliceOffset(axis, i int) int {
	st := a.strides()
	off := 0
	for d := len(a.Shape) - 1; d >= 0; d-- {
		if d == axis {
			continue
		}
		off += (i % a.Shape[d]) * st[d]
		i /= a.Shape[d]
	}
	return off
}

// Slice1D copies the i-th slice along axis into dst, growing it as needed.
func (a *Array) Slice1D(axis, i int, dst []float64) []float64 {
	n := a.Shape[axis]
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	off := a.sliceOffset(axis, i)
	step := a.strides()[axis]
	for j := 0; j < n; j++ {
		dst[j] = a.Data[off+j*step]
	}
	return dst
}

// SetSlice1D writes vals over the i-th slice along axis.
func (a *Array) SetSlice1D(axis, i int, vals []float64) {
	off := a.sliceOffset(axis, i)
	step := a.strides()[axis]
	for j, v := range vals {
		a.Data[off+j*step] = v
	}
}

// NanMin returns the smallest non-NaN value, or NaN if there is none.
func NanMin(values []float64) float64 {
	min := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// NanMax returns the largest non-NaN value, or NaN if there is none.
func NanMax(values []float64) float64 {
	max := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// NanMean returns the mean of the non-NaN values, or NaN if there are none.
func NanMean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// CountValid returns the number of non-NaN values.
func CountValid(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
