package ember

import "fmt"

// Queue abstracts command recording and submission of the GPU context.
type Queue interface {
	// Begin opens a fresh command recording context.
	Begin() error

	// Submit finalizes and submits everything recorded since Begin
	// and returns the sync point of the submission.
	Submit() (SyncPoint, error)

	// Abort discards everything recorded since Begin without
	// submitting it.
	Abort()
}

// Frame is the recording context of a single displayed frame. It
// accumulates the ephemeral buffers allocated while recording.
type Frame struct {
	temp []Buffer
}

// Track registers buffers that must stay alive until the GPU has
// finished executing this frame's submission.
func (f *Frame) Track(buffers ...Buffer) {
	f.temp = append(f.temp, buffers...)
}

// Scheduler drives the per frame record/submit cycle and advances
// retirement at exactly one point: End.
type Scheduler struct {
	queue   Queue
	retire  *RetireQueue
	current *Frame
}

func NewScheduler(queue Queue, retire *RetireQueue) *Scheduler {
	return &Scheduler{queue: queue, retire: retire}
}

// Begin opens recording for the next frame. Must be balanced by
// exactly one End or Abandon; calling Begin twice is programmer error
// and panics.
func (s *Scheduler) Begin() (*Frame, error) {
	if s.current != nil {
		panic("Begin called while a frame is still recording")
	}

	if err := s.queue.Begin(); err != nil {
		return nil, fmt.Errorf("begin frame recording: %w", err)
	}

	s.current = &Frame{}

	return s.current, nil
}

// End submits the frame's recorded work and installs its tracked
// buffers, gated on the submission's sync point, into the retire
// queue. Installing drains the previous frame's generation first.
func (s *Scheduler) End(f *Frame) error {
	if f == nil || f != s.current {
		panic("End called without matching Begin")
	}

	s.current = nil

	sync, err := s.queue.Submit()
	if err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}

	return s.retire.Install(Generation{Buffers: f.temp, Sync: sync})
}

// Abandon discards an in-flight recording without submitting it. The
// GPU never sees the recorded work, but a tracked buffer may have been
// taken over from a resource the previous submission still reads, so
// the buffers retire with the pending generation. Only when nothing is
// pending are they destroyed right away.
func (s *Scheduler) Abandon(f *Frame) {
	if f == nil || f != s.current {
		return
	}

	s.current = nil
	s.queue.Abort()

	s.retire.Adopt(f.temp)
}
