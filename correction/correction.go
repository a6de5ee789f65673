// Package correction computes, applies and inverts the additive or
// multiplicative adjustment factors at the heart of bias correction.
package correction

import (
	"fmt"

	"github.com/j-haacker/xsdba/grid"
)

// Kind selects how a correction factor combines with data.
type Kind string

// The two supported factor kinds.
const (
	Additive       Kind = "+"
	Multiplicative Kind = "*"
)

// Factors is a factor array tagged with its kind. The tag travels with
// the factors so that Apply and Invert can be called without repeating it.
type Factors struct {
	Data *grid.Array
	Kind Kind
}

// GetValue returns the scalar correction turning x into y.
func GetValue(x, y float64, kind Kind) (float64, error) {
	switch kind {
	case Additive:
		return y - x, nil
	case Multiplicative:
		return y / x, nil
	}
	return 0, fmt.Errorf("kind must be + or *, got %q", kind)
}

// ApplyValue applies a scalar correction factor to x.
func ApplyValue(x, factor float64, kind Kind) (float64, error) {
	switch kind {
	case Additive:
		return x + factor, nil
	case Multiplicative:
		return x * factor, nil
	}
	return 0, fmt.Errorf("kind must be + or *, got %q", kind)
}

// Get returns the elementwise correction factors turning x into y:
// y-x for additive corrections, y/x for multiplicative ones. The result
// is tagged with kind.
func Get(x, y *grid.Array, kind Kind) (*Factors, error) {
	if kind != Additive && kind != Multiplicative {
		return nil, fmt.Errorf("kind must be + or *, got %q", kind)
	}
	if x.Size() != y.Size() {
		return nil, fmt.Errorf("shape mismatch: %v vs %v", x.Shape, y.Shape)
	}
	out := x.Copy()
	if kind == Additive {
		for i := range out.Data {
			out.Data[i] = y.Data[i] - x.Data[i]
		}
	} else {
		for i := range out.Data {
			out.Data[i] = y.Data[i] / x.Data[i]
		}
	}
	return &Factors{Data: out, Kind: kind}, nil
}

// Apply applies the correction factors to x elementwise. If kind is
// empty, the kind stored on the factors is used.
func Apply(x *grid.Array, factors *Factors, kind Kind) (*grid.Array, error) {
	if kind == "" {
		kind = factors.Kind
	}
	if kind != Additive && kind != Multiplicative {
		return nil, fmt.Errorf("kind must be + or *, got %q", kind)
	}
	if x.Size() != factors.Data.Size() {
		return nil, fmt.Errorf("shape mismatch: %v vs %v", x.Shape, factors.Data.Shape)
	}
	out := x.Copy()
	if kind == Additive {
		for i := range out.Data {
			out.Data[i] += factors.Data.Data[i]
		}
	} else {
		for i := range out.Data {
			out.Data[i] *= factors.Data.Data[i]
		}
	}
	return out, nil
}

// Invert inverts the factors: -x for additive, 1/x for multiplicative.
// A multiplicative factor of zero inverts to +Inf on purpose: the
// downstream application multiplies it back into a zero flow. If kind is
// empty, the kind stored on the factors is used; there is no default.
func Invert(factors *Factors, kind Kind) (*Factors, error) {
	if kind == "" {
		kind = factors.Kind
	}
	if kind != Additive && kind != Multiplicative {
		return nil, fmt.Errorf("kind must be + or *, got %q", kind)
	}
	out := factors.Data.Copy()
	if kind == Additive {
		for i := range out.Data {
			out.Data[i] = -out.Data[i]
		}
	} else {
		for i := range out.Data {
			out.Data[i] = 1 / out.Data[i]
		}
	}
	return &Factors{Data: out, Kind: kind}, nil
}
