package glm

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Rad is an angle in radians.
type Rad = float32

func DegToRad(deg float32) Rad {
	return Rad(deg * (math.Pi / 180))
}

func Sincos(angle Rad) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}

func Clamp[T constraints.Ordered](value, lo, hi T) T {
	return min(max(value, lo), hi)
}

func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}
