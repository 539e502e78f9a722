package ember

import (
	"github.com/oliverbestmann/glare/glimpse"
	"github.com/oliverbestmann/glare/glm"
)

// Camera is the viewer pose read by the renderer each frame. It is
// owned by the render loop and mutated only through the Controller.
type Camera struct {
	Pos glm.Vec3
	Rot glm.Quat

	// vertical field of view in radians
	FovY float32

	// far plane distance
	Depth float32
}

// Movement constants of the viewer.
const (
	DefaultMoveStep    = 1.0
	DefaultRotateSpeed = 0.01
	DefaultRotateStepZ = 0.1
)

type dragPhase uint8

const (
	dragIdle dragPhase = iota

	// button is held, the reference cursor position is still unknown.
	// Deferring the reference to the first move after the press keeps
	// the first sample from causing a jump.
	dragAwaitingReference

	// button is held and a reference position exists
	dragTracking
)

// Controller converts input events into camera pose updates. Discrete
// key presses translate along camera local axes or rotate around the
// vertical axis; holding Button and moving the cursor rotates relative
// to the orientation snapshot taken at press time.
type Controller struct {
	// Button starts the rotate drag. The zero value is the left
	// mouse button.
	Button glimpse.MouseButton

	MoveStep    float32
	RotateSpeed float32
	RotateStepZ float32

	phase   dragPhase
	baseRot glm.Quat
	ref     glm.Vec2
}

func NewController() *Controller {
	return &Controller{
		Button:      glimpse.MouseButtonLeft,
		MoveStep:    DefaultMoveStep,
		RotateSpeed: DefaultRotateSpeed,
		RotateStepZ: DefaultRotateStepZ,
	}
}

// Update applies the tick's events in order. Events that do not fit
// the current drag phase (release without press, moves while idle)
// are no-ops.
func (c *Controller) Update(cam *Camera, events []glimpse.Event) {
	for _, ev := range events {
		c.apply(cam, ev)
	}
}

// Dragging reports whether the rotate gesture is currently active.
func (c *Controller) Dragging() bool {
	return c.phase != dragIdle
}

func (c *Controller) apply(cam *Camera, ev glimpse.Event) {
	switch ev.Kind {
	case glimpse.EventKeyDown:
		c.applyKey(cam, ev.Key)

	case glimpse.EventMouseDown:
		if ev.Button == c.Button {
			c.phase = dragAwaitingReference
			c.baseRot = cam.Rot
		}

	case glimpse.EventMouseUp:
		if ev.Button == c.Button {
			c.phase = dragIdle
		}

	case glimpse.EventMouseMove:
		c.applyMove(cam, glm.Vec2{ev.X, ev.Y})
	}
}

func (c *Controller) applyMove(cam *Camera, pos glm.Vec2) {
	switch c.phase {
	case dragAwaitingReference:
		c.ref = pos
		c.phase = dragTracking

	case dragTracking:
		// rebuild from the snapshot every time. Rotation is a pure
		// function of the total displacement since drag start, so
		// repeated small moves cannot accumulate drift.
		delta := pos.Sub(c.ref)
		yaw := glm.QuatRotationY(delta[0] * c.RotateSpeed)
		pitch := glm.QuatRotationX(delta[1] * c.RotateSpeed)
		cam.Rot = c.baseRot.Mul(pitch).Mul(yaw)
	}
}

func (c *Controller) applyKey(cam *Camera, key glimpse.Key) {
	switch key {
	case glimpse.KeyW:
		c.translate(cam, glm.Vec3{0, 0, c.MoveStep})
	case glimpse.KeyS:
		c.translate(cam, glm.Vec3{0, 0, -c.MoveStep})
	case glimpse.KeyA:
		c.translate(cam, glm.Vec3{-c.MoveStep, 0, 0})
	case glimpse.KeyD:
		c.translate(cam, glm.Vec3{c.MoveStep, 0, 0})
	case glimpse.KeyZ:
		c.translate(cam, glm.Vec3{0, -c.MoveStep, 0})
	case glimpse.KeyX:
		c.translate(cam, glm.Vec3{0, c.MoveStep, 0})

	case glimpse.KeyQ:
		cam.Rot = cam.Rot.Mul(glm.QuatRotationZ(c.RotateStepZ))
	case glimpse.KeyE:
		cam.Rot = cam.Rot.Mul(glm.QuatRotationZ(-c.RotateStepZ))
	}
}

// translate moves the camera by a camera local offset, converted to
// world space through the current orientation.
func (c *Controller) translate(cam *Camera, local glm.Vec3) {
	cam.Pos = cam.Pos.Add(cam.Rot.Rotate(local))
}
