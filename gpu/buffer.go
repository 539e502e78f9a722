package gpu

import (
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer wraps a wgpu.Buffer together with its label. Destroy releases
// the GPU memory and is safe to call exactly once per buffer.
type Buffer struct {
	Raw   *wgpu.Buffer
	Label string
	Size  uint64
}

func (b *Buffer) Destroy() {
	if b.Raw == nil {
		panic("buffer destroyed twice: " + b.Label)
	}

	slog.Debug("Destroy buffer", slog.String("label", b.Label), slog.Uint64("size", b.Size))

	b.Raw.Release()
	b.Raw = nil
}

func (ctx *Context) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*Buffer, error) {
	raw, err := ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}

	return &Buffer{Raw: raw, Label: label, Size: size}, nil
}

func (ctx *Context) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (*Buffer, error) {
	raw, err := ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, err
	}

	return &Buffer{Raw: raw, Label: label, Size: uint64(len(contents))}, nil
}

func (ctx *Context) WriteBuffer(target *Buffer, data []byte) error {
	return ctx.Queue.WriteBuffer(target.Raw, 0, data)
}
