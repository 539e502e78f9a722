package gpu

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// SyncPoint marks a position in the GPU timeline. It resolves once all
// work submitted up to and including its submission has finished.
type SyncPoint struct {
	queue  *wgpu.Queue
	device *wgpu.Device
	index  wgpu.SubmissionIndex
}

// Submit hands the finished command encoder to the queue and returns the
// SyncPoint of this submission. The encoder must not be reused afterwards.
func (ctx *Context) Submit(enc *wgpu.CommandEncoder) (*SyncPoint, error) {
	defer enc.Release()

	buf, err := enc.Finish(nil)
	if err != nil {
		return nil, err
	}

	defer buf.Release()

	index := ctx.Queue.Submit(buf)

	return &SyncPoint{
		queue:  ctx.Queue,
		device: ctx.Device,
		index:  index,
	}, nil
}

// Wait blocks until the sync point resolves. A negative timeout waits
// without bound. Returns false if the timeout expired before the GPU
// reached the sync point.
func (sp *SyncPoint) Wait(timeout time.Duration) (bool, error) {
	wrapped := &wgpu.WrappedSubmissionIndex{
		Queue:           sp.queue,
		SubmissionIndex: sp.index,
	}

	if timeout < 0 {
		// the blocking poll returns once the submission completed
		for !sp.device.Poll(true, wrapped) {
		}
		return true, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		if sp.device.Poll(false, wrapped) {
			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		time.Sleep(100 * time.Microsecond)
	}
}
