// Package rt renders a scene by ray tracing it in a compute pass into
// a storage texture, which is then blitted onto the surface.
package rt

import (
	_ "embed"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glare/ember"
	"github.com/oliverbestmann/glare/gpu"
	"github.com/oliverbestmann/glare/scene"
)

//go:embed trace.wgsl
var traceShaderSource string

//go:embed blit.wgsl
var blitShaderSource string

// layout shared with trace.wgsl
type cameraUniform struct {
	Rot           [4]float32
	Pos           [3]float32
	FovY          float32
	Aspect        float32
	Depth         float32
	TriangleCount uint32

	_ uint32
}

type gpuVertex struct {
	Pos    [3]float32
	_      float32
	Normal [3]float32
	_      float32
}

// Renderer implements ember.Renderer. Geometry and the camera uniform
// are uploaded through staging buffers that live for exactly one frame
// and are handed to the frame for deferred destruction.
type Renderer struct {
	ctx *gpu.Context

	tracePipeline *wgpu.ComputePipeline
	blitPipeline  *wgpu.RenderPipeline

	cameraBuf *gpu.Buffer

	vertexBuf     *gpu.Buffer
	indexBuf      *gpu.Buffer
	triangleCount uint32

	target     *wgpu.Texture
	targetView *wgpu.TextureView
	width      uint32
	height     uint32

	traceGroup *wgpu.BindGroup
	blitGroup  *wgpu.BindGroup

	// scene waiting to be uploaded on the next Prepare
	pending *scene.Mesh
}

func New(ctx *gpu.Context, format wgpu.TextureFormat) (*Renderer, error) {
	r := &Renderer{ctx: ctx}

	if err := r.createPipelines(format); err != nil {
		return nil, err
	}

	cameraBuf, err := ctx.CreateBuffer("Camera.Uniform",
		uint64(unsafe.Sizeof(cameraUniform{})),
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create camera buffer: %w", err)
	}

	r.cameraBuf = cameraBuf

	return r, nil
}

func (r *Renderer) createPipelines(format wgpu.TextureFormat) error {
	traceShader, err := r.ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Trace.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: traceShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile trace shader: %w", err)
	}

	defer traceShader.Release()

	r.tracePipeline, err = r.ctx.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Trace",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     traceShader,
			EntryPoint: "trace",
		},
	})
	if err != nil {
		return fmt.Errorf("build trace pipeline: %w", err)
	}

	blitShader, err := r.ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Blit.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: blitShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile blit shader: %w", err)
	}

	defer blitShader.Release()

	r.blitPipeline, err = r.ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Blit.%s", format),
		Vertex: wgpu.VertexState{
			Module:     blitShader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     blitShader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("build blit pipeline: %w", err)
	}

	return nil
}

// SetScene schedules the mesh for upload during the next Prepare. The
// previous geometry stays valid until that frame's upload is recorded.
func (r *Renderer) SetScene(mesh *scene.Mesh) {
	r.pending = mesh
}

// Resize reallocates the trace target for a new surface size.
func (r *Renderer) Resize(width, height uint32, format wgpu.TextureFormat) error {
	if r.targetView != nil {
		r.targetView.Release()
		r.target.Release()
		r.targetView, r.target = nil, nil
	}

	target, err := r.ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Trace.Target",
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Usage: wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create trace target: %w", err)
	}

	targetView, err := target.CreateView(nil)
	if err != nil {
		target.Release()
		return fmt.Errorf("create trace target view: %w", err)
	}

	r.target = target
	r.targetView = targetView
	r.width = width
	r.height = height

	return r.rebuildBindGroups()
}

func (r *Renderer) rebuildBindGroups() error {
	if r.blitGroup != nil {
		r.blitGroup.Release()
		r.blitGroup = nil
	}

	if r.traceGroup != nil {
		r.traceGroup.Release()
		r.traceGroup = nil
	}

	sampler, err := r.ctx.CachedSampler(wgpu.SamplerDescriptor{
		MagFilter: wgpu.FilterModeNearest,
		MinFilter: wgpu.FilterModeNearest,
	})
	if err != nil {
		return err
	}

	blitLayout := r.blitPipeline.GetBindGroupLayout(0)
	defer blitLayout.Release()

	r.blitGroup, err = r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit.BindGroup",
		Layout: blitLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: r.targetView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("create blit bind group: %w", err)
	}

	// the trace group also needs geometry, which arrives with the
	// first scene upload
	if r.vertexBuf == nil {
		return nil
	}

	traceLayout := r.tracePipeline.GetBindGroupLayout(0)
	defer traceLayout.Release()

	r.traceGroup, err = r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Trace.BindGroup",
		Layout: traceLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuf.Raw, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: r.vertexBuf.Raw, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: r.indexBuf.Raw, Size: wgpu.WholeSize},
			{Binding: 3, TextureView: r.targetView},
		},
	})
	if err != nil {
		return fmt.Errorf("create trace bind group: %w", err)
	}

	return nil
}

// Prepare records this frame's uploads: the camera uniform and, if a
// new scene is pending, the geometry buffers. All staging buffers are
// tracked on the frame.
func (r *Renderer) Prepare(enc *wgpu.CommandEncoder, frame *ember.Frame, cam *ember.Camera) error {
	if r.pending != nil {
		if err := r.uploadScene(enc, frame); err != nil {
			return err
		}
	}

	uniform := cameraUniform{
		Rot:           [4]float32{cam.Rot.V[0], cam.Rot.V[1], cam.Rot.V[2], cam.Rot.W},
		Pos:           cam.Pos,
		FovY:          cam.FovY,
		Aspect:        float32(r.width) / float32(max(r.height, 1)),
		Depth:         cam.Depth,
		TriangleCount: r.triangleCount,
	}

	staging, err := r.ctx.CreateBufferInit("Camera.Staging",
		gpu.AsByteSlice(&uniform), wgpu.BufferUsageCopySrc)
	if err != nil {
		return fmt.Errorf("create camera staging buffer: %w", err)
	}

	frame.Track(staging)

	err = enc.CopyBufferToBuffer(staging.Raw, 0, r.cameraBuf.Raw, 0, staging.Size)
	if err != nil {
		return fmt.Errorf("record camera upload: %w", err)
	}

	return nil
}

func (r *Renderer) uploadScene(enc *wgpu.CommandEncoder, frame *ember.Frame) error {
	mesh := r.pending
	r.pending = nil

	vertices := make([]gpuVertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		vertices[i] = gpuVertex{Pos: v.Pos, Normal: v.Normal}
	}

	// replaced geometry retires with this frame, the last frame that
	// may still reference it
	if r.vertexBuf != nil {
		frame.Track(r.vertexBuf, r.indexBuf)
		r.vertexBuf, r.indexBuf = nil, nil
	}

	vertexBuf, err := r.uploadStorage(enc, frame, "Scene.Vertices", gpu.SliceAsBytes(vertices))
	if err != nil {
		return err
	}

	indexBuf, err := r.uploadStorage(enc, frame, "Scene.Indices", gpu.SliceAsBytes(mesh.Indices))
	if err != nil {
		vertexBuf.Destroy()
		return err
	}

	r.vertexBuf = vertexBuf
	r.indexBuf = indexBuf
	r.triangleCount = uint32(mesh.TriangleCount())

	slog.Info("Uploaded scene geometry",
		slog.String("name", mesh.Name),
		slog.Int("triangles", mesh.TriangleCount()))

	return r.rebuildBindGroups()
}

func (r *Renderer) uploadStorage(enc *wgpu.CommandEncoder, frame *ember.Frame, label string, data []byte) (*gpu.Buffer, error) {
	buf, err := r.ctx.CreateBuffer(label, uint64(len(data)),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}

	staging, err := r.ctx.CreateBufferInit(label+".Staging", data, wgpu.BufferUsageCopySrc)
	if err != nil {
		buf.Destroy()
		return nil, fmt.Errorf("create %s staging buffer: %w", label, err)
	}

	frame.Track(staging)

	if err := enc.CopyBufferToBuffer(staging.Raw, 0, buf.Raw, 0, staging.Size); err != nil {
		buf.Destroy()
		return nil, fmt.Errorf("record %s upload: %w", label, err)
	}

	return buf, nil
}

// Trace dispatches the ray tracing pass into the internal target.
func (r *Renderer) Trace(enc *wgpu.CommandEncoder) error {
	if r.traceGroup == nil {
		// no geometry yet
		return nil
	}

	pass := enc.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "Trace"})
	defer pass.Release()

	pass.SetPipeline(r.tracePipeline)
	pass.SetBindGroup(0, r.traceGroup, nil)
	pass.DispatchWorkgroups((r.width+7)/8, (r.height+7)/8, 1)

	if err := pass.End(); err != nil {
		return fmt.Errorf("end trace pass: %w", err)
	}

	return nil
}

// Blit draws the trace target as a fullscreen triangle into the
// surface pass.
func (r *Renderer) Blit(pass *wgpu.RenderPassEncoder) error {
	pass.SetPipeline(r.blitPipeline)
	pass.SetBindGroup(0, r.blitGroup, nil)
	pass.Draw(3, 1, 0, 0)

	return nil
}

// Release frees all persistent GPU resources of the renderer.
func (r *Renderer) Release() {
	for _, group := range []*wgpu.BindGroup{r.traceGroup, r.blitGroup} {
		if group != nil {
			group.Release()
		}
	}

	for _, buf := range []*gpu.Buffer{r.cameraBuf, r.vertexBuf, r.indexBuf} {
		if buf != nil {
			buf.Destroy()
		}
	}

	if r.targetView != nil {
		r.targetView.Release()
		r.target.Release()
	}

	if r.tracePipeline != nil {
		r.tracePipeline.Release()
	}

	if r.blitPipeline != nil {
		r.blitPipeline.Release()
	}
}
