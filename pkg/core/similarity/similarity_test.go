package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCosineKnownValues(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{0, 2}, []float32{0, -3}, -1.0},
		{"scaled", []float32{2, 0}, []float32{5, 0}, 1.0},
	}

	for _, c := range cases {
		got := Cosine(c.a, c.b)
		if !almostEqual(got, c.want, 1e-6) {
			t.Errorf("%s: Cosine = %f, want %f", c.name, got, c.want)
		}
	}
}

func TestCosineDegenerateInputs(t *testing.T) {
	// Zero-magnitude vectors must yield the 0 sentinel, never NaN.
	// A 0 can never beat a positive threshold, so degenerate embeddings
	// silently lose every comparison.
	if got := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("zero vector: got %f, want 0", got)
	}
	if got := Cosine([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("mismatched lengths: got %f, want 0", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Errorf("nil vectors: got %f, want 0", got)
	}
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	unit := Normalize(v)

	if !almostEqual(Norm(unit), 1.0, 1e-6) {
		t.Errorf("normalized norm = %f, want 1", Norm(unit))
	}
	// Input must stay untouched.
	if v[0] != 3 || v[1] != 4 {
		t.Errorf("Normalize mutated its input: %v", v)
	}

	// Zero vector passes through unchanged instead of dividing by zero.
	zero := []float32{0, 0}
	if got := Normalize(zero); got[0] != 0 || got[1] != 0 {
		t.Errorf("zero vector changed: %v", got)
	}
}

func TestCentroid(t *testing.T) {
	// 1. Mean of two unit vectors along x and y is the 45-degree diagonal.
	c := Centroid([][]float32{{1, 0}, {0, 1}})
	want := float32(math.Sqrt2 / 2)
	if !almostEqual(float64(c[0]), float64(want), 1e-6) || !almostEqual(float64(c[1]), float64(want), 1e-6) {
		t.Errorf("centroid = %v, want [%f %f]", c, want, want)
	}

	// 2. Vectors with a foreign dimensionality are skipped, not blended.
	c = Centroid([][]float32{{1, 0}, {1, 2, 3}})
	if len(c) != 2 {
		t.Fatalf("centroid kept a mismatched vector: %v", c)
	}

	// 3. Empty input has no centroid.
	if c := Centroid(nil); c != nil {
		t.Errorf("empty input: got %v, want nil", c)
	}
}

func TestHalfPrecisionPreservesSimilarity(t *testing.T) {
	a := []float32{0.12, -0.53, 0.81, 0.22}
	b := []float32{0.14, -0.49, 0.77, 0.31}

	full := Cosine(a, b)
	half := Cosine(CompressHalf(a).Decode(), CompressHalf(b).Decode())

	// Half precision loses ~3 decimal digits; thresholds in this system are
	// coarse (0.3..0.9), so 1e-2 slack is generous.
	if !almostEqual(full, half, 1e-2) {
		t.Errorf("half-precision cosine drifted: full=%f half=%f", full, half)
	}
}
