// Package main walks through a bias-adjustment workflow: estimating
// quantiles of a reference and a simulated series, training additive
// quantile-mapping factors per month, applying them to a scenario,
// extracting threshold exceedance clusters, and orienting a
// principal-component transform.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	mfstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/j-haacker/xsdba/cluster"
	"github.com/j-haacker/xsdba/correction"
	"github.com/j-haacker/xsdba/grid"
	"github.com/j-haacker/xsdba/grouping"
	"github.com/j-haacker/xsdba/pca"
	"github.com/j-haacker/xsdba/qmap"
	"github.com/j-haacker/xsdba/stats"
)

const nQuantiles = 20

func main() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("xsdba Demonstration - Quantile-Mapping Bias Adjustment")
	fmt.Println(strings.Repeat("=", 80))

	rng := rand.New(rand.NewSource(42))
	times := dailyTimes(2001, 4)
	ref := syntheticSeries(times, rng, 0)
	// The simulation carries a seasonal bias: too warm in summer, too
	// cold in winter.
	sim := syntheticSeries(times, rng, 1)

	showPercentiles(ref, sim)
	adj := adjustSeries(ref, sim, times)
	showBias(ref, sim, adj)
	showClusters(adj)
	showOrientation(ref, sim, rng)
	showBroadcast(times)
}

// dailyTimes returns consecutive days starting January 1st of year.
func dailyTimes(year, years int) []time.Time {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(years, 0, 0)
	var out []time.Time
	for t := start; t.Before(end); t = t.AddDate(0, 0, 1) {
		out = append(out, t)
	}
	return out
}

// syntheticSeries builds an annual cycle plus noise. bias scales a
// seasonal error with summer maximum, mimicking a model drift.
func syntheticSeries(times []time.Time, rng *rand.Rand, bias float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		phase := 2 * math.Pi * float64(t.YearDay()) / 365.25
		seasonal := 10 * math.Sin(phase-math.Pi/2)
		out[i] = 15 + seasonal + rng.NormFloat64()*2 + bias*(2+3*math.Sin(phase-math.Pi/2))
	}
	return out
}

func showPercentiles(ref, sim []float64) {
	fmt.Println("\n1. Percentile estimation")
	ps := []float64{10, 50, 90}
	refP := stats.NaNPercentile(ref, ps, 1, 1)
	simP := stats.NaNPercentile(sim, ps, 1, 1)
	for i, p := range ps {
		fmt.Printf("   p%02.0f: reference=%7.3f  simulated=%7.3f\n", p, refP[i], simP[i])
	}

	med, _ := mfstats.Median(sim)
	fmt.Printf("   median cross-check: %.6f (montanaflynn: %.6f)\n", simP[1], med)
}

// monthlyQuantiles estimates a (month, quantiles) curve array from a
// daily series.
func monthlyQuantiles(values []float64, times []time.Time, qs []float64) *grid.Array {
	byMonth := make([][]float64, 12)
	for i, t := range times {
		m := int(t.Month()) - 1
		byMonth[m] = append(byMonth[m], values[i])
	}
	data := make([]float64, 0, 12*len(qs))
	for m := 0; m < 12; m++ {
		data = append(data, stats.NaNQuantile(byMonth[m], qs, 1, 1)...)
	}
	out, err := grid.FromValues([]string{grouping.PropMonth, qmap.QuantileDim}, []int{12, len(qs)}, data)
	if err != nil {
		panic(err)
	}
	return out
}

// adjustSeries trains additive monthly quantile-mapping factors from
// ref and sim and applies them back to sim.
func adjustSeries(ref, sim []float64, times []time.Time) []float64 {
	fmt.Println("\n2. Monthly quantile mapping")
	group, err := grouping.New("time.month", 0)
	if err != nil {
		panic(err)
	}
	qs := stats.EquallySpacedNodes(nQuantiles, 1e-6)

	refQ := monthlyQuantiles(ref, times, qs)
	simQ := monthlyQuantiles(sim, times, qs)
	factors, err := correction.Get(simQ, refQ, correction.Additive)
	if err != nil {
		panic(err)
	}
	fmt.Printf("   trained %d quantile levels x 12 months of additive factors\n", len(qs))

	simArr, err := grid.FromSeries(sim, times)
	if err != nil {
		panic(err)
	}
	perStep, err := qmap.InterpOnQuantiles(simArr, simQ, factors.Data, group, qmap.Linear, qmap.ExtrapConstant)
	if err != nil {
		panic(err)
	}
	adj, err := correction.Apply(simArr, &correction.Factors{Data: perStep, Kind: correction.Additive}, correction.Additive)
	if err != nil {
		panic(err)
	}
	return adj.Data
}

func showBias(ref, sim, adj []float64) {
	before := grid.NanMean(sim) - grid.NanMean(ref)
	after := grid.NanMean(adj) - grid.NanMean(ref)
	fmt.Printf("   mean bias: %.3f before adjustment, %.3f after\n", before, after)
}

func showClusters(values []float64) {
	fmt.Println("\n3. Exceedance clusters")
	u1 := stats.NaNPercentile(values, []float64{95}, 1, 1)[0]
	u2 := stats.NaNPercentile(values, []float64{80}, 1, 1)[0]
	clusters := cluster.Extract(values, u1, u2)
	fmt.Printf("   thresholds: u1=%.3f u2=%.3f -> %d clusters\n", u1, u2, len(clusters))
	for i, c := range clusters {
		if i == 3 {
			fmt.Println("   ...")
			break
		}
		fmt.Printf("   cluster %d: days %d-%d, peak %.3f on day %d\n", i, c.Start, c.End, c.Max, c.MaxPos)
	}
}

func showOrientation(ref, sim []float64, rng *rand.Rand) {
	fmt.Println("\n4. Principal-component orientation")
	n := len(ref)
	// A second variable correlated with the first.
	data := func(base []float64) *mat.Dense {
		d := mat.NewDense(2, n, nil)
		for j := 0; j < n; j++ {
			d.Set(0, j, base[j])
			d.Set(1, j, 0.6*base[j]+rng.NormFloat64())
		}
		return d
	}
	r, err := pca.PCMatrix(data(ref))
	if err != nil {
		panic(err)
	}
	h, err := pca.PCMatrix(data(sim))
	if err != nil {
		panic(err)
	}
	var hinv mat.Dense
	if err := hinv.Inverse(h); err != nil {
		panic(err)
	}
	signs, err := pca.BestOrientationSimple(r, &hinv, 1e6)
	if err != nil {
		panic(err)
	}
	fmt.Printf("   best orientation: %v\n", signs)

	rot, err := pca.RandRotationMatrix(3)
	if err != nil {
		panic(err)
	}
	var prod mat.Dense
	prod.Mul(rot.T(), rot)
	fmt.Printf("   random rotation: |RtR - I| = %.2e\n", orthogonalityError(&prod))
}

func orthogonalityError(prod *mat.Dense) float64 {
	n, _ := prod.Dims()
	worst := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if d := math.Abs(prod.At(i, j) - want); d > worst {
				worst = d
			}
		}
	}
	return worst
}

func showBroadcast(times []time.Time) {
	fmt.Println("\n5. Broadcasting grouped factors")
	group, err := grouping.New("time.month", 0)
	if err != nil {
		panic(err)
	}
	v := make([]float64, 12)
	for m := range v {
		v[m] = float64(m + 1)
	}
	factors, err := grid.FromValues([]string{grouping.PropMonth}, []int{12}, v)
	if err != nil {
		panic(err)
	}
	out, err := qmap.Broadcast(factors, times[:5], group, qmap.Linear, nil, nil)
	if err != nil {
		panic(err)
	}
	for i, t := range times[:5] {
		fmt.Printf("   %s -> %.3f\n", t.Format("2006-01-02"), out.Data[i])
	}
}
