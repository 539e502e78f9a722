package glm

import "math"

// Quat is a rotation quaternion with vector part V and scalar part W.
type Quat struct {
	V Vec3
	W float32
}

func QuatIdent() Quat {
	return Quat{W: 1}
}

func QuatXYZW(x, y, z, w float32) Quat {
	return Quat{V: Vec3{x, y, z}, W: w}
}

// QuatAxisAngle builds the rotation of `angle` radians around `axis`.
// The axis must be a unit vector.
func QuatAxisAngle(axis Vec3, angle Rad) Quat {
	sin, cos := Sincos(angle * 0.5)
	return Quat{V: axis.MulScalar(sin), W: cos}
}

func QuatRotationX(angle Rad) Quat {
	return QuatAxisAngle(Vec3{1, 0, 0}, angle)
}

func QuatRotationY(angle Rad) Quat {
	return QuatAxisAngle(Vec3{0, 1, 0}, angle)
}

func QuatRotationZ(angle Rad) Quat {
	return QuatAxisAngle(Vec3{0, 0, 1}, angle)
}

// Mul composes two rotations. Not commutative: lhs.Mul(rhs) applies
// rhs first, then lhs.
func (lhs Quat) Mul(rhs Quat) Quat {
	return Quat{
		V: lhs.V.Cross(rhs.V).
			Add(rhs.V.MulScalar(lhs.W)).
			Add(lhs.V.MulScalar(rhs.W)),
		W: lhs.W*rhs.W - lhs.V.Dot(rhs.V),
	}
}

// Rotate applies the rotation to a vector:
// v + 2w*(q x v) + 2*q x (q x v)
func (lhs Quat) Rotate(v Vec3) Vec3 {
	cross := lhs.V.Cross(v)
	return v.
		Add(cross.MulScalar(2 * lhs.W)).
		Add(lhs.V.MulScalar(2).Cross(cross))
}

func (lhs Quat) Len() float32 {
	sqr := lhs.V.Dot(lhs.V) + lhs.W*lhs.W
	return float32(math.Sqrt(float64(sqr)))
}

func (lhs Quat) Normalize() Quat {
	length := lhs.Len()
	if length == 0 {
		return QuatIdent()
	}

	inv := 1 / length
	return Quat{V: lhs.V.MulScalar(inv), W: lhs.W * inv}
}
