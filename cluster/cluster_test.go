package cluster

import (
	"math"
	"testing"

	"github.com/j-haacker/xsdba/grid"
)

func TestExtract(t *testing.T) {
	data := []float64{0, 0, 5, 6, 0, 0, 9, 0}
	clusters := Extract(data, 4, 1)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	want := []Cluster{
		{Start: 2, End: 3, MaxPos: 3, Max: 6},
		{Start: 6, End: 6, MaxPos: 6, Max: 9},
	}
	for i, w := range want {
		if clusters[i] != w {
			t.Errorf("cluster %d: expected %+v, got %+v", i, w, clusters[i])
		}
	}
}

func TestExtractBoundaryRuns(t *testing.T) {
	// Runs touching either array end are still closed by the virtual
	// below-threshold samples.
	data := []float64{7, 2, 0, 2, 8}
	clusters := Extract(data, 4, 1)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Start != 0 || clusters[0].End != 1 || clusters[0].Max != 7 {
		t.Errorf("unexpected first cluster %+v", clusters[0])
	}
	if clusters[1].Start != 3 || clusters[1].End != 4 || clusters[1].Max != 8 {
		t.Errorf("unexpected second cluster %+v", clusters[1])
	}
}

func TestExtractRequiresExtreme(t *testing.T) {
	// A run above u2 whose maximum never exceeds u1 is not a cluster;
	// the comparison is strict.
	data := []float64{0, 3, 4, 0}
	if clusters := Extract(data, 4, 1); len(clusters) != 0 {
		t.Errorf("expected no clusters, got %+v", clusters)
	}
}

func TestExtractInvariants(t *testing.T) {
	data := []float64{1, 5, 0, 7, 7, 0, 2, 9, 3, 0, 6}
	u1, u2 := 4.0, 1.0
	clusters := Extract(data, u1, u2)

	prevEnd := -1
	for _, c := range clusters {
		if c.Max <= u1 {
			t.Errorf("cluster %+v does not exceed u1", c)
		}
		if c.Start <= prevEnd {
			t.Errorf("cluster %+v overlaps the previous one", c)
		}
		if c.Start < 0 || c.End >= len(data) || c.MaxPos < c.Start || c.MaxPos > c.End {
			t.Errorf("cluster %+v has indices outside the series", c)
		}
		if data[c.MaxPos] != c.Max {
			t.Errorf("cluster %+v maximum does not match the series", c)
		}
		prevEnd = c.End
	}
	if len(clusters) > len(data)/2 {
		t.Errorf("%d clusters exceed the N/2 bound", len(clusters))
	}
}

func TestExtractEmptyAndFlat(t *testing.T) {
	if clusters := Extract(nil, 4, 1); len(clusters) != 0 {
		t.Errorf("expected no clusters from an empty series, got %+v", clusters)
	}
	if clusters := Extract([]float64{0, 0, 0}, 4, 1); len(clusters) != 0 {
		t.Errorf("expected no clusters from a flat series, got %+v", clusters)
	}
}

func TestExtractBatch(t *testing.T) {
	data, err := grid.FromValues([]string{"site", "time"}, []int{2, 8}, []float64{
		0, 0, 5, 6, 0, 0, 9, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := ExtractBatch(data, "time", 4, 1)
	if err != nil {
		t.Fatal(err)
	}

	n := 4 // 8/2 clusters at most
	if res.Start.Shape[1] != n {
		t.Fatalf("expected cluster axis of length %d, got %d", n, res.Start.Shape[1])
	}

	// First site: two clusters, then sentinels.
	if res.Start.Data[0] != 2 || res.End.Data[0] != 3 || res.MaxPos.Data[0] != 3 || res.Maximum.Data[0] != 6 {
		t.Errorf("unexpected first cluster: start %f end %f maxpos %f max %f",
			res.Start.Data[0], res.End.Data[0], res.MaxPos.Data[0], res.Maximum.Data[0])
	}
	if res.Start.Data[1] != 6 || res.Maximum.Data[1] != 9 {
		t.Errorf("unexpected second cluster: start %f max %f", res.Start.Data[1], res.Maximum.Data[1])
	}
	for c := 2; c < n; c++ {
		if res.Start.Data[c] != -1 || !math.IsNaN(res.Maximum.Data[c]) {
			t.Errorf("expected sentinels at cluster %d", c)
		}
	}
	if res.Count.Data[0] != 2 {
		t.Errorf("expected count 2, got %f", res.Count.Data[0])
	}

	// Second site: no clusters at all.
	for c := 0; c < n; c++ {
		if res.Start.Data[n+c] != -1 || !math.IsNaN(res.Maximum.Data[n+c]) {
			t.Errorf("expected all sentinels for the flat site at cluster %d", c)
		}
	}
	if res.Count.Data[1] != 0 {
		t.Errorf("expected count 0, got %f", res.Count.Data[1])
	}
}

func TestExtractBatchErrors(t *testing.T) {
	data, _ := grid.FromValues([]string{"site", "time"}, []int{2, 1}, []float64{1, 2})
	if _, err := ExtractBatch(data, "time", 4, 1); err == nil {
		t.Error("expected an error for a too-short time axis")
	}
	if _, err := ExtractBatch(data, "lat", 4, 1); err == nil {
		t.Error("expected an error for a missing dimension")
	}
}
