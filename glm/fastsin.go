package glm

import (
	"golang.org/x/mobile/exp/f32"
)

// FastSincos trades precision for speed. Good enough for procedural
// content, do not use it for camera math.
func FastSincos(angle Rad) (sin, cos float32) {
	return FastSin(angle), FastCos(angle)
}

func FastSin(angle Rad) float32 {
	return f32.Sin(angle)
}

func FastCos(angle Rad) float32 {
	return f32.Cos(angle)
}
