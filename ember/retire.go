package ember

import (
	"fmt"
	"time"
)

// SyncPoint marks a position in the GPU timeline. It resolves once all
// work submitted up to that position has finished executing.
type SyncPoint interface {
	// Wait blocks until the sync point resolves or the timeout
	// expires. A negative timeout waits without bound. Returns false
	// if the timeout expired first.
	Wait(timeout time.Duration) (resolved bool, err error)
}

// Buffer is GPU memory whose destruction is deferred until the GPU has
// proven it no longer executes work that references it.
type Buffer interface {
	Destroy()
}

// Generation couples the ephemeral buffers recorded for one frame with
// the sync point of that frame's submission. None of the buffers may
// be destroyed before the sync point has been observed resolved.
type Generation struct {
	Buffers []Buffer
	Sync    SyncPoint
}

// DefaultStallTimeout bounds the mid-loop retirement wait. In steady
// state the wait targets the previous frame and resolves almost
// immediately, so hitting this bound means the device hung.
const DefaultStallTimeout = 5 * time.Second

// RetireQueue defers destruction of per-frame transient buffers by one
// frame: the generation installed for frame K is drained when frame
// K+1 installs its own. At most one generation is pending at any time.
type RetireQueue struct {
	// StallTimeout overrides DefaultStallTimeout when positive.
	StallTimeout time.Duration

	pending *Generation
}

// Install drains the currently pending generation, then makes gen the
// new pending one. Draining waits on the pending generation's sync
// point, bounded by the stall timeout, and destroys its buffers.
//
// On error nothing is installed and the pending generation stays
// untouched; the caller is expected to tear the loop down.
func (q *RetireQueue) Install(gen Generation) error {
	if err := q.drain(q.stallTimeout()); err != nil {
		return err
	}

	q.pending = &gen

	return nil
}

// DrainFinal waits without bound for the pending generation and
// destroys its buffers. Used at shutdown, after the last submission,
// to leave no GPU memory outstanding.
func (q *RetireQueue) DrainFinal() error {
	return q.drain(-1)
}

// Adopt folds buffers into the pending generation: they are freed
// together with it, after its sync point resolves. Without a pending
// generation no submitted work can still reference the buffers and
// they are destroyed right away.
func (q *RetireQueue) Adopt(buffers []Buffer) {
	if q.pending == nil {
		for _, buf := range buffers {
			buf.Destroy()
		}

		return
	}

	q.pending.Buffers = append(q.pending.Buffers, buffers...)
}

// PendingBuffers returns the number of buffers awaiting retirement.
func (q *RetireQueue) PendingBuffers() int {
	if q.pending == nil {
		return 0
	}

	return len(q.pending.Buffers)
}

func (q *RetireQueue) drain(timeout time.Duration) error {
	if q.pending == nil {
		return nil
	}

	resolved, err := q.pending.Sync.Wait(timeout)
	if err != nil {
		return fmt.Errorf("wait for retirement sync point: %w", err)
	}

	if !resolved {
		return fmt.Errorf("%w: sync point not resolved after %s", ErrDeviceStalled, timeout)
	}

	for _, buf := range q.pending.Buffers {
		buf.Destroy()
	}

	q.pending = nil

	return nil
}

func (q *RetireQueue) stallTimeout() time.Duration {
	if q.StallTimeout > 0 {
		return q.StallTimeout
	}

	return DefaultStallTimeout
}
