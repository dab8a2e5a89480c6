package vectordb

import (
	"errors"
	"math"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, val := range v {
		norm += float64(val) * float64(val)
	}
	ret := make([]float32, len(v))
	if norm == 0 {
		copy(ret, v)
		return ret
	}
	norm = math.Sqrt(norm)
	for i, val := range v {
		ret[i] = float32(float64(val) / norm)
	}
	return ret
}

// Cosine computes the cosine similarity of a and b
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
