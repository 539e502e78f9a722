package ember

import (
	"errors"
	"testing"
	"time"
)

// fakeSync is a sync point whose resolution is controlled by the test.
type fakeSync struct {
	resolved bool
	err      error
	waits    int
}

func (s *fakeSync) Wait(timeout time.Duration) (bool, error) {
	s.waits++
	return s.resolved, s.err
}

// fakeBuffer records its destruction and the order it happened in.
type fakeBuffer struct {
	name      string
	destroyed bool
	log       *[]string
}

func (b *fakeBuffer) Destroy() {
	if b.destroyed {
		panic("buffer destroyed twice: " + b.name)
	}

	b.destroyed = true

	if b.log != nil {
		*b.log = append(*b.log, b.name)
	}
}

func TestRetireQueueFreesOnlyAfterResolve(t *testing.T) {
	q := &RetireQueue{StallTimeout: time.Millisecond}

	syncA := &fakeSync{resolved: true}
	bufA := &fakeBuffer{name: "a"}

	if err := q.Install(Generation{Buffers: []Buffer{bufA}, Sync: syncA}); err != nil {
		t.Fatalf("install first generation: %v", err)
	}

	if bufA.destroyed {
		t.Errorf("buffer freed at install time, before any later frame")
	}

	if got := q.PendingBuffers(); got != 1 {
		t.Errorf("PendingBuffers = %d, want 1", got)
	}

	syncB := &fakeSync{resolved: true}
	bufB := &fakeBuffer{name: "b"}

	if err := q.Install(Generation{Buffers: []Buffer{bufB}, Sync: syncB}); err != nil {
		t.Fatalf("install second generation: %v", err)
	}

	if !bufA.destroyed {
		t.Errorf("first generation not freed when the next one installed")
	}

	if bufB.destroyed {
		t.Errorf("second generation freed too early")
	}

	if syncA.waits == 0 {
		t.Errorf("first generation freed without consulting its sync point")
	}
}

func TestRetireQueueStallReturnsErrDeviceStalled(t *testing.T) {
	q := &RetireQueue{StallTimeout: time.Millisecond}

	stuck := &fakeSync{resolved: false}
	buf := &fakeBuffer{name: "stuck"}

	if err := q.Install(Generation{Buffers: []Buffer{buf}, Sync: stuck}); err != nil {
		t.Fatalf("install: %v", err)
	}

	err := q.Install(Generation{Sync: &fakeSync{resolved: true}})
	if !errors.Is(err, ErrDeviceStalled) {
		t.Fatalf("Install = %v, want ErrDeviceStalled", err)
	}

	if buf.destroyed {
		t.Errorf("buffer freed although the sync point never resolved")
	}

	// the stalled generation must remain pending, not be replaced
	if got := q.PendingBuffers(); got != 1 {
		t.Errorf("PendingBuffers after stall = %d, want 1", got)
	}
}

func TestRetireQueueWaitErrorPropagates(t *testing.T) {
	q := &RetireQueue{}

	waitErr := errors.New("device poll failed")
	buf := &fakeBuffer{name: "x"}

	if err := q.Install(Generation{Buffers: []Buffer{buf}, Sync: &fakeSync{err: waitErr}}); err != nil {
		t.Fatalf("install: %v", err)
	}

	err := q.DrainFinal()
	if !errors.Is(err, waitErr) {
		t.Fatalf("DrainFinal = %v, want wrapped %v", err, waitErr)
	}

	if buf.destroyed {
		t.Errorf("buffer freed despite wait error")
	}
}

func TestRetireQueueDrainFinal(t *testing.T) {
	q := &RetireQueue{}

	var order []string
	bufs := []Buffer{
		&fakeBuffer{name: "v", log: &order},
		&fakeBuffer{name: "i", log: &order},
	}

	if err := q.Install(Generation{Buffers: bufs, Sync: &fakeSync{resolved: true}}); err != nil {
		t.Fatalf("install: %v", err)
	}

	if err := q.DrainFinal(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if got := q.PendingBuffers(); got != 0 {
		t.Errorf("PendingBuffers after final drain = %d, want 0", got)
	}

	if len(order) != 2 || order[0] != "v" || order[1] != "i" {
		t.Errorf("buffers destroyed as %v, want tracking order [v i]", order)
	}

	// draining an empty queue is a no-op
	if err := q.DrainFinal(); err != nil {
		t.Errorf("second drain: %v", err)
	}
}

func TestRetireQueueAdopt(t *testing.T) {
	q := &RetireQueue{}

	// without a pending generation adopted buffers die immediately
	loose := &fakeBuffer{name: "loose"}
	q.Adopt([]Buffer{loose})

	if !loose.destroyed {
		t.Errorf("adopted buffer not destroyed with nothing pending")
	}

	sync := &fakeSync{}
	kept := &fakeBuffer{name: "kept"}

	if err := q.Install(Generation{Buffers: []Buffer{kept}, Sync: sync}); err != nil {
		t.Fatalf("install: %v", err)
	}

	adopted := &fakeBuffer{name: "adopted"}
	q.Adopt([]Buffer{adopted})

	if adopted.destroyed {
		t.Errorf("adopted buffer freed before the pending sync point resolved")
	}

	if got := q.PendingBuffers(); got != 2 {
		t.Errorf("PendingBuffers = %d, want 2", got)
	}

	sync.resolved = true

	if err := q.DrainFinal(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if !adopted.destroyed || !kept.destroyed {
		t.Errorf("pending buffers survived the drain")
	}
}

func TestRetireQueueAtMostOnePending(t *testing.T) {
	q := &RetireQueue{}

	for i := 0; i < 5; i++ {
		gen := Generation{
			Buffers: []Buffer{&fakeBuffer{name: "b"}},
			Sync:    &fakeSync{resolved: true},
		}

		if err := q.Install(gen); err != nil {
			t.Fatalf("install %d: %v", i, err)
		}

		if got := q.PendingBuffers(); got != 1 {
			t.Fatalf("after install %d: PendingBuffers = %d, want 1", i, got)
		}
	}
}
