package qmap

import (
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/j-haacker/xsdba/diag"
	"github.com/j-haacker/xsdba/grid"
	"github.com/j-haacker/xsdba/grouping"
)

// monthlyFactors holds one value per month, equal to the month number.
func monthlyFactors(t *testing.T) *grid.Array {
	t.Helper()
	v := make([]float64, 12)
	for m := range v {
		v[m] = float64(m + 1)
	}
	a, err := grid.FromValues([]string{grouping.PropMonth}, []int{12}, v)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestBroadcastNearest(t *testing.T) {
	group, err := grouping.New("time.month", 0)
	if err != nil {
		t.Fatal(err)
	}
	factors := monthlyFactors(t)
	times := []time.Time{
		time.Date(2001, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 7, 25, 0, 0, 0, 0, time.UTC),
	}

	out, err := Broadcast(factors, times, group, Nearest, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Data[0] != 1 || out.Data[1] != 7 {
		t.Errorf("expected [1 7], got %v", out.Data)
	}
	if out.Times == nil {
		t.Error("broadcast output must keep its timestamps")
	}
}

func TestBroadcastLinear(t *testing.T) {
	group, err := grouping.New("time.month", 0)
	if err != nil {
		t.Fatal(err)
	}
	factors := monthlyFactors(t)
	times := []time.Time{time.Date(2001, 7, 16, 0, 0, 0, 0, time.UTC)}

	out, err := Broadcast(factors, times, group, Linear, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Factors equal the month number, so linear interpolation returns the
	// fractional group position itself.
	want := 7 - 0.5 + 16.0/31
	if math.Abs(out.Data[0]-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, out.Data[0])
	}
}

func TestBroadcastCyclic(t *testing.T) {
	group, err := grouping.New("time.month", 0)
	if err != nil {
		t.Fatal(err)
	}
	factors := monthlyFactors(t)
	times := []time.Time{time.Date(2001, 1, 5, 0, 0, 0, 0, time.UTC)}

	out, err := Broadcast(factors, times, group, Linear, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Early January interpolates towards December across the period
	// boundary, so the value must fall between the two factors.
	if out.Data[0] <= 1 || out.Data[0] >= 12 {
		t.Errorf("expected a December-January blend, got %f", out.Data[0])
	}
}

func TestBroadcastQuantileSelection(t *testing.T) {
	group, err := grouping.New("time.month", 0)
	if err != nil {
		t.Fatal(err)
	}
	// Factors on a (month, quantiles) lattice: month number plus ten
	// times the quantile level.
	v := make([]float64, 12*2)
	for m := 0; m < 12; m++ {
		v[m*2] = float64(m + 1)
		v[m*2+1] = float64(m+1) + 10
	}
	factors, err := grid.FromValues([]string{grouping.PropMonth, QuantileDim}, []int{12, 2}, v)
	if err != nil {
		t.Fatal(err)
	}
	qcoord := []float64{0, 1}
	times := []time.Time{time.Date(2001, 7, 16, 0, 0, 0, 0, time.UTC)}

	out, err := Broadcast(factors, times, group, Linear, qcoord, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	gpos := 7 - 0.5 + 16.0/31
	want := gpos + 5
	if math.Abs(out.Data[0]-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, out.Data[0])
	}
}

func TestBroadcastCubicDowngrade(t *testing.T) {
	rec := diag.NewRecorder()
	diag.SetLogger(slog.New(rec))
	defer diag.SetLogger(slog.Default())

	group, err := grouping.New("time.month", 0)
	if err != nil {
		t.Fatal(err)
	}
	v := make([]float64, 12*2)
	for m := 0; m < 12; m++ {
		v[m*2] = float64(m + 1)
		v[m*2+1] = float64(m+1) + 10
	}
	factors, err := grid.FromValues([]string{grouping.PropMonth, QuantileDim}, []int{12, 2}, v)
	if err != nil {
		t.Fatal(err)
	}
	times := []time.Time{time.Date(2001, 7, 16, 0, 0, 0, 0, time.UTC)}

	cubicOut, err := Broadcast(factors, times, group, Cubic, []float64{0, 1}, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	msgs := rec.Messages()
	if len(msgs) == 0 || !strings.Contains(msgs[0], "linear") {
		t.Errorf("expected a downgrade diagnostic, got %v", msgs)
	}

	linearOut, err := Broadcast(factors, times, group, Linear, []float64{0, 1}, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	if cubicOut.Data[0] != linearOut.Data[0] {
		t.Errorf("cubic must downgrade to linear: %f vs %f", cubicOut.Data[0], linearOut.Data[0])
	}
}

func TestBroadcastErrors(t *testing.T) {
	group, err := grouping.New("time.month", 0)
	if err != nil {
		t.Fatal(err)
	}
	factors := monthlyFactors(t)
	times := []time.Time{time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)}

	if _, err := Broadcast(factors, times, group, "quintic", nil, nil); err == nil {
		t.Error("expected an error for an unknown method")
	}
	if _, err := Broadcast(factors, times, grouping.GroupSpec{Dim: grid.TimeDim}, Linear, nil, nil); err == nil {
		t.Error("expected an error for an ungrouped spec")
	}
	if _, err := Broadcast(factors, times, group, Linear, []float64{0, 1}, []float64{0.5, 0.5}); err == nil {
		t.Error("expected an error when qsel and times disagree in length")
	}

	short, err := grid.FromValues([]string{grouping.PropMonth}, []int{6}, make([]float64, 6))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Broadcast(short, times, group, Linear, nil, nil); err == nil {
		t.Error("expected an error for a short group axis")
	}
}
