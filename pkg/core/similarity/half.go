package similarity

import "github.com/x448/float16"

// HalfVector is an embedding stored at half precision (IEEE 754 binary16).
// Large graphs keep thousands of high-dimensional embeddings resident for the
// whole session, so halving the storage footprint matters more than the
// precision loss, which is far below any similarity threshold in use.
type HalfVector []uint16

// CompressHalf converts a float32 vector to half precision.
func CompressHalf(v []float32) HalfVector {
	out := make(HalfVector, len(v))
	for i, x := range v {
		out[i] = float16.Fromfloat32(x).Bits()
	}
	return out
}

// Decode expands the half-precision vector back to float32 for computation.
func (h HalfVector) Decode() []float32 {
	out := make([]float32, len(h))
	for i, b := range h {
		out[i] = float16.Frombits(b).Float32()
	}
	return out
}

// DecodeInto expands into dst when it has sufficient capacity, avoiding an
// allocation on hot per-frame paths. Returns the decoded slice.
func (h HalfVector) DecodeInto(dst []float32) []float32 {
	if cap(dst) < len(h) {
		dst = make([]float32, len(h))
	}
	dst = dst[:len(h)]
	for i, b := range h {
		dst[i] = float16.Frombits(b).Float32()
	}
	return dst
}
