// Package similarity provides the embedding-vector primitives used by the
// visibility engine: dot product, cosine similarity, normalization and
// centroid computation.
//
// All functions are pure and never fail: degenerate inputs (zero-magnitude
// vectors, mismatched lengths, empty sets) degrade to neutral values instead
// of returning errors, because a per-frame decision cycle has no useful way
// to surface them.
//
// Float32 dot products are delegated to Gonum's BLAS implementation, which
// handles SIMD dispatch internally.
package similarity

import (
	"math"

	"gonum.org/v1/gonum/blas/gonum"
)

var blasEngine = gonum.Implementation{}

// Dot returns the dot product of two equal-length float32 vectors.
// Vectors of different lengths produce 0.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return float64(blasEngine.Sdot(len(a), a, 1, b, 1))
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	if len(v) == 0 {
		return 0
	}
	return float64(blasEngine.Snrm2(len(v), v, 1))
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
//
// If either vector has zero magnitude (or the lengths differ) the result is 0.
// Mathematically the value is undefined in that case; 0 is used as a sentinel
// because it can never pass a positive similarity threshold, so degenerate
// embeddings silently lose every comparison instead of poisoning them.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na := Norm(a)
	nb := Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Normalize returns the unit vector of v, or v unchanged when its norm is
// zero. The input slice is never modified.
func Normalize(v []float32) []float32 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	out := make([]float32, len(v))
	inv := float32(1.0 / n)
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

// Centroid returns the normalized element-wise mean of the given vectors.
// Vectors whose length differs from the first one are skipped. Returns nil
// when no usable vector remains.
func Centroid(vectors [][]float32) []float32 {
	var sum []float32
	count := 0
	for _, v := range vectors {
		if len(v) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float32, len(v))
		}
		if len(v) != len(sum) {
			continue
		}
		blasEngine.Saxpy(len(sum), 1, v, 1, sum, 1)
		count++
	}
	if count == 0 {
		return nil
	}
	inv := float32(1.0 / float64(count))
	for i := range sum {
		sum[i] *= inv
	}
	return Normalize(sum)
}

// IsFinite reports whether every component of v is a finite number.
// Snapshot loading uses it to drop embeddings that would corrupt centroids.
func IsFinite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
