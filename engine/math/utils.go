package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Wrap returns f folded into [0, n) for positive n.
func Wrap[T constraints.Integer](f, n T) T {
	r := f % n
	if r < 0 {
		r += n
	}
	return r
}
