package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("expected 2.5, got %f", got)
	}
	if got := Mean(nil); !math.IsNaN(got) {
		t.Errorf("expected NaN for empty input, got %f", got)
	}
}

func TestSampleStddev(t *testing.T) {
	// Sample stddev of {2,4,4,4,5,5,7,9} with n-1 denominator is ~2.138
	got := SampleStddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(got, 2.13809, 1e-4) {
		t.Errorf("expected ~2.13809, got %f", got)
	}
	if got := SampleStddev([]float64{5}); got != 0 {
		t.Errorf("expected 0 for single sample, got %f", got)
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	cases := []struct {
		p    float64
		want float64
	}{
		{0.0, 10},
		{0.5, 25},
		{0.25, 17.5},
		{1.0, 40},
	}
	for _, c := range cases {
		if got := Percentile(sorted, c.p); !almostEqual(got, c.want, 1e-9) {
			t.Errorf("Percentile(p=%.2f): got %f, want %f", c.p, got, c.want)
		}
	}
}

func TestMedianAndIQR(t *testing.T) {
	xs := []float64{7, 1, 3, 5} // sorted: 1 3 5 7
	if got := Median(xs); got != 4 {
		t.Errorf("expected median 4, got %f", got)
	}
	// P25 = 2.5, P75 = 5.5
	if got := IQR(xs); !almostEqual(got, 3, 1e-9) {
		t.Errorf("expected IQR 3, got %f", got)
	}
}

func TestFinite(t *testing.T) {
	xs := []float64{1, math.NaN(), 2, math.Inf(1), 3}
	got := Finite(xs)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("unexpected finite values: %v", got)
	}
}

func TestPearson_PerfectLinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	if got := Pearson(x, y); !almostEqual(got, 1, 1e-12) {
		t.Errorf("expected 1 for y=2x, got %f", got)
	}

	yNeg := []float64{10, 8, 6, 4, 2}
	if got := Pearson(x, yNeg); !almostEqual(got, -1, 1e-12) {
		t.Errorf("expected -1 for inverse line, got %f", got)
	}
}

func TestPearson_ZeroVariance(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{5, 5, 5}
	if got := Pearson(x, y); !math.IsNaN(got) {
		t.Errorf("expected NaN for constant sample, got %f", got)
	}
}

func TestSpearman_MonotonicNonLinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 8, 27, 64, 125} // monotonic but non-linear

	if got := Spearman(x, y); !almostEqual(got, 1, 1e-12) {
		t.Errorf("expected rank correlation 1, got %f", got)
	}
}

func TestSpearman_TiesUseAverageRanks(t *testing.T) {
	x := []float64{1, 2, 2, 3}
	y := []float64{10, 20, 20, 30}

	if got := Spearman(x, y); !almostEqual(got, 1, 1e-12) {
		t.Errorf("expected 1 with aligned ties, got %f", got)
	}
}

func TestKendallTau(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{1, 2, 3, 4}
	if got := KendallTau(x, y); !almostEqual(got, 1, 1e-12) {
		t.Errorf("expected tau 1, got %f", got)
	}

	yRev := []float64{4, 3, 2, 1}
	if got := KendallTau(x, yRev); !almostEqual(got, -1, 1e-12) {
		t.Errorf("expected tau -1, got %f", got)
	}
}

func TestCosine(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	if got := Cosine(a, b); got != 0 {
		t.Errorf("expected 0 for orthogonal vectors, got %f", got)
	}

	c := []float64{2, 2}
	d := []float64{4, 4}
	if got := Cosine(c, d); !almostEqual(got, 1, 1e-12) {
		t.Errorf("expected 1 for parallel vectors, got %f", got)
	}

	if got := Cosine([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Errorf("expected 0 for zero-norm vector, got %f", got)
	}
}

func TestEuclidean(t *testing.T) {
	if got := Euclidean([]float64{0, 0}, []float64{3, 4}); got != 5 {
		t.Errorf("expected 5, got %f", got)
	}
}

func TestFOneWay_SeparatedGroups(t *testing.T) {
	// Well-separated groups produce a large F; overlapping groups a small one.
	separated := [][]float64{
		{1.0, 1.1, 0.9},
		{10.0, 10.1, 9.9},
	}
	overlapping := [][]float64{
		{1.0, 2.0, 3.0},
		{1.5, 2.5, 3.5},
	}

	fSep := FOneWay(separated)
	fOver := FOneWay(overlapping)
	if math.IsNaN(fSep) || math.IsNaN(fOver) {
		t.Fatalf("unexpected NaN: sep=%f over=%f", fSep, fOver)
	}
	if fSep <= fOver {
		t.Errorf("expected separated F (%f) > overlapping F (%f)", fSep, fOver)
	}
}

func TestFOneWay_Undefined(t *testing.T) {
	if got := FOneWay([][]float64{{1, 2, 3}}); !math.IsNaN(got) {
		t.Errorf("expected NaN for a single group, got %f", got)
	}
	if got := FOneWay([][]float64{{1, 1}, {1, 1}}); !math.IsNaN(got) {
		t.Errorf("expected NaN for zero within-group variance, got %f", got)
	}
}
