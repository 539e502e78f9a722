package glimpse

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestKeyString(t *testing.T) {
	cases := map[Key]string{
		KeyA:      "A",
		KeyW:      "W",
		KeyZ:      "Z",
		KeyEscape: "Escape",
		KeySpace:  "Space",
		keyCount:  "Key(32)",
	}

	for key, want := range cases {
		if got := key.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", uint32(key), got, want)
		}
	}
}

func TestKeyEventOf(t *testing.T) {
	cases := []struct {
		action glfw.Action
		want   EventKind
	}{
		{glfw.Press, EventKeyDown},
		// a held key repeats as further key down events
		{glfw.Repeat, EventKeyDown},
		{glfw.Release, EventKeyUp},
	}

	for _, tc := range cases {
		ev, ok := keyEventOf(tc.action, KeyW)
		if !ok {
			t.Fatalf("keyEventOf(%v) dropped the action", tc.action)
		}

		if ev.Kind != tc.want || ev.Key != KeyW {
			t.Errorf("keyEventOf(%v) = %+v, want kind %v", tc.action, ev, tc.want)
		}
	}
}

func TestEventConstructors(t *testing.T) {
	ev := keyEvent(EventKeyDown, KeyQ)
	if ev.Kind != EventKeyDown || ev.Key != KeyQ {
		t.Errorf("keyEvent = %+v", ev)
	}

	ev = mouseMoveEvent(10, 20)
	if ev.Kind != EventMouseMove || ev.X != 10 || ev.Y != 20 {
		t.Errorf("mouseMoveEvent = %+v", ev)
	}
}
