package glimpse

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
)

type glfwWindow struct {
	win  *glfw.Window
	prof interface{ Stop() }

	// events recorded by the glfw callbacks since the last poll
	events []Event
}

func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	if os.Getenv("GLARE_PROFILE") == "1" {
		w.prof = profile.Start(profile.CPUProfile)
	}

	w.configureCallbacks()

	return w, nil
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) GetContentScale() float32 {
	scale, _ := g.win.GetContentScale()
	return scale
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) RequestClose() {
	g.win.SetShouldClose(true)
}

func (g *glfwWindow) Terminate() {
	if g.prof != nil {
		g.prof.Stop()
	}

	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(frame func(events []Event) error) error {
	for !g.win.ShouldClose() {
		g.events = g.events[:0]
		glfw.PollEvents()

		if err := frame(g.events); err != nil {
			return err
		}
	}

	return nil
}

func (g *glfwWindow) configureCallbacks() {
	g.win.SetKeyCallback(func(_ *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		ev, ok := keyEventOf(action, key)
		if !ok {
			return
		}

		if action == glfw.Press {
			slog.Debug("Key just pressed", slog.String("key", key.String()))
		}

		g.events = append(g.events, ev)
	})

	g.win.SetMouseButtonCallback(func(_ *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		button := MouseButton(btn)

		switch action {
		case glfw.Press:
			g.events = append(g.events, mouseButtonEvent(EventMouseDown, button))
		case glfw.Release:
			g.events = append(g.events, mouseButtonEvent(EventMouseUp, button))
		}
	})

	g.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		g.events = append(g.events, mouseMoveEvent(float32(xpos), float32(ypos)))
	})

	g.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		g.events = append(g.events, Event{
			Kind:   EventResize,
			Width:  uint32(width),
			Height: uint32(height),
		})
	})
}

// keyEventOf maps a key action to an input event. OS key repeats
// arrive as further key down events, so a held key keeps firing.
func keyEventOf(action glfw.Action, key Key) (Event, bool) {
	switch action {
	case glfw.Press, glfw.Repeat:
		return keyEvent(EventKeyDown, key), true
	case glfw.Release:
		return keyEvent(EventKeyUp, key), true
	}

	return Event{}, false
}

func keyOf(glfwKey glfw.Key) (Key, bool) {
	switch {
	case glfwKey >= glfw.KeyA && glfwKey <= glfw.KeyZ:
		return KeyA + Key(glfwKey-glfw.KeyA), true
	}

	switch glfwKey {
	case glfw.KeyEscape:
		return KeyEscape, true
	case glfw.KeySpace:
		return KeySpace, true
	case glfw.KeyLeft:
		return KeyLeft, true
	case glfw.KeyRight:
		return KeyRight, true
	case glfw.KeyUp:
		return KeyUp, true
	case glfw.KeyDown:
		return KeyDown, true
	}

	return 0, false
}
