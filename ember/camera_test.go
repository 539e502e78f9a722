package ember

import (
	"math"
	"testing"

	"github.com/oliverbestmann/glare/glimpse"
	"github.com/oliverbestmann/glare/glm"
)

const camEpsilon = 1e-5

func quatNear(t *testing.T, got, want glm.Quat) {
	t.Helper()

	// q and -q describe the same rotation, but the controller never
	// negates, so compare componentwise
	if math.Abs(float64(got.W-want.W)) > camEpsilon ||
		math.Abs(float64(got.V[0]-want.V[0])) > camEpsilon ||
		math.Abs(float64(got.V[1]-want.V[1])) > camEpsilon ||
		math.Abs(float64(got.V[2]-want.V[2])) > camEpsilon {
		t.Fatalf("quat = %+v, want %+v", got, want)
	}
}

func vec3Near(t *testing.T, got, want glm.Vec3) {
	t.Helper()

	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > camEpsilon {
			t.Fatalf("vec = %v, want %v", got, want)
		}
	}
}

func keyDown(key glimpse.Key) glimpse.Event {
	return glimpse.Event{Kind: glimpse.EventKeyDown, Key: key}
}

func mouseDown() glimpse.Event {
	return glimpse.Event{Kind: glimpse.EventMouseDown, Button: glimpse.MouseButtonLeft}
}

func mouseUp() glimpse.Event {
	return glimpse.Event{Kind: glimpse.EventMouseUp, Button: glimpse.MouseButtonLeft}
}

func mouseMove(x, y float32) glimpse.Event {
	return glimpse.Event{Kind: glimpse.EventMouseMove, X: x, Y: y}
}

func TestControllerForwardKeyMovesAlongLocalZ(t *testing.T) {
	cam := Camera{Pos: glm.Vec3{2.7, 1.6, 2.1}, Rot: glm.QuatIdent()}

	ctrl := NewController()
	ctrl.Update(&cam, []glimpse.Event{keyDown(glimpse.KeyW)})

	vec3Near(t, cam.Pos, glm.Vec3{2.7, 1.6, 3.1})

	// repeated presses accumulate linearly while orientation is fixed
	ctrl.Update(&cam, []glimpse.Event{keyDown(glimpse.KeyW), keyDown(glimpse.KeyW)})
	vec3Near(t, cam.Pos, glm.Vec3{2.7, 1.6, 5.1})
}

func TestControllerTranslationKeys(t *testing.T) {
	cases := []struct {
		key  glimpse.Key
		want glm.Vec3
	}{
		{glimpse.KeyW, glm.Vec3{0, 0, 1}},
		{glimpse.KeyS, glm.Vec3{0, 0, -1}},
		{glimpse.KeyD, glm.Vec3{1, 0, 0}},
		{glimpse.KeyA, glm.Vec3{-1, 0, 0}},
		{glimpse.KeyX, glm.Vec3{0, 1, 0}},
		{glimpse.KeyZ, glm.Vec3{0, -1, 0}},
	}

	for _, tc := range cases {
		cam := Camera{Rot: glm.QuatIdent()}
		NewController().Update(&cam, []glimpse.Event{keyDown(tc.key)})
		vec3Near(t, cam.Pos, tc.want)
	}
}

func TestControllerTranslationFollowsOrientation(t *testing.T) {
	// looking along +x after a quarter turn around y, so "forward"
	// must move along world +x
	cam := Camera{Rot: glm.QuatRotationY(math.Pi / 2)}

	NewController().Update(&cam, []glimpse.Event{keyDown(glimpse.KeyW)})

	vec3Near(t, cam.Pos, glm.Vec3{1, 0, 0})
}

func TestControllerRollKeys(t *testing.T) {
	base := glm.QuatRotationX(0.3)
	cam := Camera{Rot: base}
	ctrl := NewController()

	ctrl.Update(&cam, []glimpse.Event{keyDown(glimpse.KeyQ)})
	quatNear(t, cam.Rot, base.Mul(glm.QuatRotationZ(DefaultRotateStepZ)))

	ctrl.Update(&cam, []glimpse.Event{keyDown(glimpse.KeyE)})
	quatNear(t, cam.Rot, base)
}

func TestControllerDragRotation(t *testing.T) {
	base := glm.QuatRotationY(0.4)
	cam := Camera{Rot: base}
	ctrl := NewController()

	ctrl.Update(&cam, []glimpse.Event{
		mouseDown(),
		mouseMove(100, 200), // reference sample, must not rotate
		mouseMove(150, 230),
	})

	if !ctrl.Dragging() {
		t.Fatalf("controller not dragging after press")
	}

	yaw := glm.QuatRotationY(50 * DefaultRotateSpeed)
	pitch := glm.QuatRotationX(30 * DefaultRotateSpeed)
	quatNear(t, cam.Rot, base.Mul(pitch).Mul(yaw))
}

func TestControllerDragDependsOnlyOnDisplacement(t *testing.T) {
	base := glm.QuatRotationY(0.4)

	direct := Camera{Rot: base}
	NewController().Update(&direct, []glimpse.Event{
		mouseDown(),
		mouseMove(0, 0),
		mouseMove(80, -40),
	})

	// same displacement, reached through a detour across many moves
	detour := Camera{Rot: base}
	NewController().Update(&detour, []glimpse.Event{
		mouseDown(),
		mouseMove(0, 0),
		mouseMove(-300, 500),
		mouseMove(17, 3),
		mouseMove(80, -40),
	})

	quatNear(t, detour.Rot, direct.Rot)
}

func TestControllerPressReleaseWithoutMove(t *testing.T) {
	rot := glm.QuatRotationX(0.2).Mul(glm.QuatRotationY(0.7))
	cam := Camera{Rot: rot}
	ctrl := NewController()

	ctrl.Update(&cam, []glimpse.Event{mouseDown(), mouseUp()})

	if cam.Rot != rot {
		t.Errorf("orientation changed by press/release without movement: %+v", cam.Rot)
	}

	if ctrl.Dragging() {
		t.Errorf("controller still dragging after release")
	}
}

func TestControllerZeroDisplacementDrag(t *testing.T) {
	rot := glm.QuatRotationY(0.7)
	cam := Camera{Rot: rot}

	NewController().Update(&cam, []glimpse.Event{
		mouseDown(),
		mouseMove(42, 13),
		mouseMove(42, 13),
	})

	quatNear(t, cam.Rot, rot)
}

func TestControllerMovesWhileIdleIgnored(t *testing.T) {
	rot := glm.QuatRotationY(0.7)
	cam := Camera{Rot: rot}

	NewController().Update(&cam, []glimpse.Event{
		mouseMove(10, 20),
		mouseMove(500, 600),
	})

	if cam.Rot != rot {
		t.Errorf("orientation changed by moves outside a drag")
	}
}

func TestControllerReleaseEndsDrag(t *testing.T) {
	cam := Camera{Rot: glm.QuatIdent()}
	ctrl := NewController()

	ctrl.Update(&cam, []glimpse.Event{
		mouseDown(),
		mouseMove(0, 0),
		mouseMove(10, 0),
		mouseUp(),
	})

	afterRelease := cam.Rot

	ctrl.Update(&cam, []glimpse.Event{mouseMove(999, 999)})

	if cam.Rot != afterRelease {
		t.Errorf("orientation changed by moves after release")
	}
}

func TestControllerOtherButtonIgnored(t *testing.T) {
	cam := Camera{Rot: glm.QuatIdent()}
	ctrl := NewController()

	ctrl.Update(&cam, []glimpse.Event{
		{Kind: glimpse.EventMouseDown, Button: glimpse.MouseButtonRight},
		mouseMove(0, 0),
		mouseMove(50, 50),
	})

	if ctrl.Dragging() {
		t.Errorf("drag started on the wrong button")
	}

	if cam.Rot != glm.QuatIdent() {
		t.Errorf("orientation changed by non-drag button")
	}
}
