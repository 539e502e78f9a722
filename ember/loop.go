package ember

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glare/glimpse"
	"github.com/oliverbestmann/glare/gpu"
)

// Renderer records the scene rendering of one frame. Its internals
// (trace algorithm, pipelines) are opaque to the loop; the loop only
// cares that ephemeral buffers end up tracked on the frame.
type Renderer interface {
	// Resize reallocates internal render targets for a new surface
	// size and pixel format.
	Resize(width, height uint32, format wgpu.TextureFormat) error

	// Prepare records per frame uploads (camera uniform, pending
	// geometry). Buffers allocated for this frame only must be
	// tracked on the frame.
	Prepare(enc *wgpu.CommandEncoder, frame *Frame, cam *Camera) error

	// Trace records the actual rendering into the internal target.
	Trace(enc *wgpu.CommandEncoder) error

	// Blit draws the internal target into the active surface pass.
	Blit(pass *wgpu.RenderPassEncoder) error
}

// RunOptions configures Run. Only Renderer is required.
type RunOptions struct {
	// NewRenderer builds the renderer once the surface format is
	// known. Required.
	NewRenderer func(ctx *gpu.Context, format wgpu.TextureFormat) (Renderer, error)

	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	Camera Camera

	// StallTimeout bounds the mid-loop retirement wait, see
	// RetireQueue. Zero selects DefaultStallTimeout.
	StallTimeout time.Duration

	// Update runs once per frame after the camera controller, before
	// recording starts. Optional.
	Update func(cam *Camera, stats *FrameTimes) error

	// Overlay records extra drawing (the GUI layer) into the surface
	// pass, after the renderer's blit. Optional.
	Overlay func(pass *wgpu.RenderPassEncoder, frame *Frame, width, height uint32, scale float32) error
}

// Run owns the whole frame loop: window and device setup, input
// polling, camera updates, frame recording and submission, and the
// shutdown drain. It returns when the window closes or a fatal device
// condition occurs.
func Run(opts RunOptions) error {
	if opts.NewRenderer == nil {
		return errors.New("NewRenderer must not be nil")
	}

	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1000
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 600
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "glare"
	}

	win, err := glimpse.NewWindow(opts.WindowWidth, opts.WindowHeight, opts.WindowTitle)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	ctx, err := gpu.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer ctx.Release()

	view := gpu.NewView(ctx)

	surfaceWidth, surfaceHeight := win.GetSize()
	format := view.Configure(surfaceWidth, surfaceHeight)

	renderer, err := opts.NewRenderer(ctx, format)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	if rel, ok := renderer.(interface{ Release() }); ok {
		defer rel.Release()
	}

	if err := renderer.Resize(surfaceWidth, surfaceHeight, format); err != nil {
		return fmt.Errorf("size renderer targets: %w", err)
	}

	retire := &RetireQueue{StallTimeout: opts.StallTimeout}
	queue := &encoderQueue{ctx: ctx}
	sched := NewScheduler(queue, retire)
	controller := NewController()

	cam := opts.Camera

	var stats FrameTimes

	loopErr := win.Run(func(events []glimpse.Event) error {
		stats.Tick()

		for _, ev := range events {
			if ev.Kind == glimpse.EventKeyDown && ev.Key == glimpse.KeyEscape {
				win.RequestClose()
			}
		}

		controller.Update(&cam, events)

		if opts.Update != nil {
			if err := opts.Update(&cam, &stats); err != nil {
				return fmt.Errorf("update: %w", err)
			}
		}

		// reconfigure surface if needed
		width, height := win.GetSize()
		if width == 0 || height == 0 {
			// minimized, nothing to render
			return nil
		}

		if width != surfaceWidth || height != surfaceHeight {
			slog.Debug("Resize surface",
				slog.Int("width", int(width)),
				slog.Int("height", int(height)),
			)

			// Configure may settle on a different pixel format, the
			// renderer targets must follow it
			format = view.Configure(width, height)

			if err := renderer.Resize(width, height, format); err != nil {
				return fmt.Errorf("resize renderer targets: %w", err)
			}

			surfaceWidth, surfaceHeight = width, height
		}

		return renderFrame(renderFrameArgs{
			opts:     &opts,
			view:     view,
			sched:    sched,
			queue:    queue,
			renderer: renderer,
			cam:      &cam,
			width:    width,
			height:   height,
			scale:    win.GetContentScale(),
		})
	})

	if loopErr != nil {
		// the device may never signal the pending sync point, do not
		// risk blocking forever on the unbounded final drain
		slog.Error("Frame loop failed, skipping final drain", slog.Any("error", loopErr))
		return loopErr
	}

	if err := retire.DrainFinal(); err != nil {
		return fmt.Errorf("final drain: %w", err)
	}

	return nil
}

type renderFrameArgs struct {
	opts     *RunOptions
	view     *gpu.View
	sched    *Scheduler
	queue    *encoderQueue
	renderer Renderer
	cam      *Camera
	width    uint32
	height   uint32
	scale    float32
}

func renderFrame(args renderFrameArgs) error {
	frame, err := args.sched.Begin()
	if err != nil {
		return err
	}

	// on any failure below the frame is abandoned, never submitted
	submitted := false
	defer func() {
		if !submitted {
			args.sched.Abandon(frame)
		}
	}()

	enc := args.queue.Encoder()

	if err := args.renderer.Prepare(enc, frame, args.cam); err != nil {
		return fmt.Errorf("prepare scene: %w", err)
	}

	if err := args.renderer.Trace(enc); err != nil {
		return fmt.Errorf("trace scene: %w", err)
	}

	surface, err := args.view.AcquireFrame()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}

	defer surface.Release()

	pass := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "SurfacePass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       surface.View,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
		},
	})

	if err := args.renderer.Blit(pass); err != nil {
		return fmt.Errorf("blit: %w", err)
	}

	if args.opts.Overlay != nil {
		err := args.opts.Overlay(pass, frame, args.width, args.height, args.scale)
		if err != nil {
			return fmt.Errorf("overlay: %w", err)
		}
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("end surface pass: %w", err)
	}

	pass.Release()

	// the sole point where retirement progresses
	submitted = true
	if err := args.sched.End(frame); err != nil {
		return err
	}

	args.view.Present()

	return nil
}

// encoderQueue adapts the gpu context to the scheduler's Queue.
type encoderQueue struct {
	ctx *gpu.Context
	enc *wgpu.CommandEncoder
}

func (q *encoderQueue) Begin() error {
	enc, err := q.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "FrameEncoder",
	})
	if err != nil {
		return err
	}

	q.enc = enc

	return nil
}

func (q *encoderQueue) Encoder() *wgpu.CommandEncoder {
	return q.enc
}

func (q *encoderQueue) Submit() (SyncPoint, error) {
	enc := q.enc
	q.enc = nil

	sync, err := q.ctx.Submit(enc)
	if err != nil {
		return nil, err
	}

	return sync, nil
}

func (q *encoderQueue) Abort() {
	if q.enc != nil {
		q.enc.Release()
		q.enc = nil
	}
}
