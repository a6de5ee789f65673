package grid

import (
	"runtime"
	"sync"
)

// ForEachSlice calls fn for every 1-dimensional slice of a along axis,
// spreading the slices over GOMAXPROCS goroutines. fn receives the slice
// index and a buffer holding the slice values; the buffer is reused
// between calls on the same goroutine and must not be retained.
// Slices are independent, so no ordering is guaranteed between calls.
func ForEachSlice(a *Array, axis int, fn func(i int, src []float64)) {
	n := a.Slices(axis)
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			var buf []float64
			for i := start; i < n; i += workers {
				buf = a.Slice1D(axis, i, buf)
				fn(i, buf)
			}
		}(w)
	}
	wg.Wait()
}

// Map evaluates fn on every slice of a along axis and assembles the
// results into an array of the same dimensions, with the target axis
// resized to outLen. fn must fill dst (length outLen) from src.
func Map(a *Array, axis, outLen int, fn func(dst, src []float64)) *Array {
	shape := append([]int(nil), a.Shape...)
	shape[axis] = outLen
	out, _ := New(a.Dims, shape)
	n := a.Slices(axis)
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			var src []float64
			dst := make([]float64, outLen)
			for i := start; i < n; i += workers {
				src = a.Slice1D(axis, i, src)
				fn(dst, src)
				out.SetSlice1D(axis, i, dst)
			}
		}(w)
	}
	wg.Wait()
	return out
}

// Reduce evaluates fn on every slice of a along axis and assembles the
// results into an array where the reduced axis is replaced by a new
// trailing dimension of length outLen. fn must fill dst from src.
func Reduce(a *Array, axis int, newDim string, outLen int, fn func(dst, src []float64)) *Array {
	dims := make([]string, 0, len(a.Dims))
	shape := make([]int, 0, len(a.Shape))
	for d := range a.Dims {
		if d == axis {
			continue
		}
		dims = append(dims, a.Dims[d])
		shape = append(shape, a.Shape[d])
	}
	dims = append(dims, newDim)
	shape = append(shape, outLen)
	out, _ := New(dims, shape)

	// Slice i along the reduced axis of a and slice i along the trailing
	// axis of out address the same point of the remaining dimensions.
	n := a.Slices(axis)
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			var src []float64
			dst := make([]float64, outLen)
			for i := start; i < n; i += workers {
				src = a.Slice1D(axis, i, src)
				fn(dst, src)
				copy(out.Data[i*outLen:(i+1)*outLen], dst)
			}
		}(w)
	}
	wg.Wait()
	return out
}
