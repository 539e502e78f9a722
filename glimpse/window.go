package glimpse

import "github.com/cogentcore/webgpu/wgpu"

// Window is the native window plus its input event source. The original
// renderer runs on the desktop only, so there is a single glfw backed
// implementation.
type Window interface {
	GetSize() (uint32, uint32)
	GetContentScale() float32
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// RequestClose marks the window as closing. The Run loop finishes
	// the current frame callback and returns afterwards.
	RequestClose()

	// Run drives the frame loop. Each iteration polls the platform and
	// hands the events observed since the previous iteration, in the
	// order they occurred, to the frame callback.
	Run(frame func(events []Event) error) error

	Terminate()
}
