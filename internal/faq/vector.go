package faq

import "math"

// normalize scales v to unit length in place and returns it.
// A zero-norm vector is left untouched so it scores 0 against everything.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// dot returns the dot product of two equal-length vectors. For unit vectors
// this is the cosine similarity. Mismatched lengths score 0 rather than
// panicking; the cache validator guards against that case.
func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
