package glm

import (
	"math"
	"testing"
)

const epsilon = 1e-5

func vecNear(t *testing.T, got, want Vec3) {
	t.Helper()

	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Fatalf("vector = %v, want %v", got, want)
		}
	}
}

func TestQuatIdentRotate(t *testing.T) {
	v := Vec3{1, 2, 3}
	vecNear(t, QuatIdent().Rotate(v), v)
}

func TestQuatAxisAngleRotate(t *testing.T) {
	// quarter turn around y maps +z onto +x
	q := QuatRotationY(math.Pi / 2)
	vecNear(t, q.Rotate(Vec3{0, 0, 1}), Vec3{1, 0, 0})

	// quarter turn around x maps +y onto +z
	q = QuatRotationX(math.Pi / 2)
	vecNear(t, q.Rotate(Vec3{0, 1, 0}), Vec3{0, 0, 1})

	// quarter turn around z maps +x onto +y
	q = QuatRotationZ(math.Pi / 2)
	vecNear(t, q.Rotate(Vec3{1, 0, 0}), Vec3{0, 1, 0})
}

func TestQuatMulAppliesRightHandSideFirst(t *testing.T) {
	yaw := QuatRotationY(math.Pi / 2)
	pitch := QuatRotationX(math.Pi / 2)

	// pitch.Mul(yaw) must rotate around y first, then around x.
	got := pitch.Mul(yaw).Rotate(Vec3{0, 0, 1})
	want := pitch.Rotate(yaw.Rotate(Vec3{0, 0, 1}))
	vecNear(t, got, want)
	vecNear(t, got, Vec3{1, 0, 0})
}

func TestQuatMulKeepsUnitLength(t *testing.T) {
	q := QuatRotationY(0.3).Mul(QuatRotationX(-1.2)).Mul(QuatRotationZ(2.5))
	if l := q.Len(); math.Abs(float64(l-1)) > epsilon {
		t.Errorf("length = %v, want 1", l)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := QuatXYZW(-0.04, 0.92, -0.05, -0.37).Normalize()
	if l := q.Len(); math.Abs(float64(l-1)) > epsilon {
		t.Errorf("length = %v, want 1", l)
	}

	if got := (Quat{}).Normalize(); got != QuatIdent() {
		t.Errorf("normalizing the zero quaternion = %+v, want identity", got)
	}
}

func TestQuatRotateMatchesInverseComposition(t *testing.T) {
	q := QuatRotationY(0.8)
	v := Vec3{1, 2, 3}

	// rotating forward and then backward must round-trip
	back := QuatRotationY(-0.8)
	vecNear(t, back.Rotate(q.Rotate(v)), v)
}
