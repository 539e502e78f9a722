package glm

import "math"

type Vec2 [2]float32

func (lhs Vec2) Add(rhs Vec2) Vec2 {
	return Vec2{lhs[0] + rhs[0], lhs[1] + rhs[1]}
}

func (lhs Vec2) Sub(rhs Vec2) Vec2 {
	return Vec2{lhs[0] - rhs[0], lhs[1] - rhs[1]}
}

func (lhs Vec2) MulScalar(s float32) Vec2 {
	return Vec2{lhs[0] * s, lhs[1] * s}
}

func (lhs Vec2) Dot(rhs Vec2) float32 {
	return lhs[0]*rhs[0] + lhs[1]*rhs[1]
}

func (lhs Vec2) Length() float32 {
	return float32(math.Sqrt(float64(lhs.Dot(lhs))))
}

func (lhs Vec2) Extend(z float32) Vec3 {
	return Vec3{lhs[0], lhs[1], z}
}

func (lhs Vec2) XY() (x, y float32) {
	return lhs[0], lhs[1]
}

type Vec3 [3]float32

func (lhs Vec3) Add(rhs Vec3) Vec3 {
	return Vec3{lhs[0] + rhs[0], lhs[1] + rhs[1], lhs[2] + rhs[2]}
}

func (lhs Vec3) Sub(rhs Vec3) Vec3 {
	return Vec3{lhs[0] - rhs[0], lhs[1] - rhs[1], lhs[2] - rhs[2]}
}

func (lhs Vec3) MulScalar(s float32) Vec3 {
	return Vec3{lhs[0] * s, lhs[1] * s, lhs[2] * s}
}

func (lhs Vec3) Dot(rhs Vec3) float32 {
	return lhs[0]*rhs[0] + lhs[1]*rhs[1] + lhs[2]*rhs[2]
}

func (lhs Vec3) Cross(rhs Vec3) Vec3 {
	return Vec3{
		lhs[1]*rhs[2] - rhs[1]*lhs[2],
		lhs[2]*rhs[0] - rhs[2]*lhs[0],
		lhs[0]*rhs[1] - rhs[0]*lhs[1],
	}
}

func (lhs Vec3) Length() float32 {
	return float32(math.Sqrt(float64(lhs.Dot(lhs))))
}

func (lhs Vec3) Normalize() Vec3 {
	return lhs.MulScalar(1 / lhs.Length())
}

func (lhs Vec3) Extend(w float32) Vec4 {
	return Vec4{lhs[0], lhs[1], lhs[2], w}
}

func (lhs Vec3) XYZ() (x, y, z float32) {
	return lhs[0], lhs[1], lhs[2]
}

type Vec4 [4]float32

func (lhs Vec4) Add(rhs Vec4) Vec4 {
	return Vec4{lhs[0] + rhs[0], lhs[1] + rhs[1], lhs[2] + rhs[2], lhs[3] + rhs[3]}
}

func (lhs Vec4) MulScalar(s float32) Vec4 {
	return Vec4{lhs[0] * s, lhs[1] * s, lhs[2] * s, lhs[3] * s}
}

func (lhs Vec4) Dot(rhs Vec4) float32 {
	return lhs[0]*rhs[0] + lhs[1]*rhs[1] + lhs[2]*rhs[2] + lhs[3]*rhs[3]
}

func (lhs Vec4) Truncate() Vec3 {
	return Vec3{lhs[0], lhs[1], lhs[2]}
}
