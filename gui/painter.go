// Package gui paints screen space overlays (text, untextured quads)
// on top of a rendered frame. It handles textures and clipped
// textured triangle primitives; widget layout is up to the caller.
package gui

import (
	_ "embed"
	"fmt"
	"image"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/glare/ember"
	"github.com/oliverbestmann/glare/glm"
	"github.com/oliverbestmann/glare/gpu"
)

//go:embed gui.wgsl
var guiShaderSource string

// TextureID identifies an overlay texture. WhiteTexture is always
// available and fully opaque white.
type TextureID uint32

const WhiteTexture TextureID = 0

// Screen describes the current surface in physical pixels plus the
// content scale used to convert logical to physical coordinates.
type Screen struct {
	Width  uint32
	Height uint32
	Scale  float32
}

// Vertex of an overlay primitive. Pos is in logical points with the
// origin in the top left corner.
type Vertex struct {
	Pos   glm.Vec2
	UV    glm.Vec2
	Color glm.Vec4
}

// Rect in logical points.
type Rect struct {
	Min glm.Vec2
	Max glm.Vec2
}

// Primitive is one clipped textured triangle list.
type Primitive struct {
	Clip     Rect
	Texture  TextureID
	Vertices []Vertex
	Indices  []uint32
}

type paintTexture struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

func (t *paintTexture) release() {
	t.bindGroup.Release()
	t.view.Release()
	t.texture.Release()
}

// Painter owns the overlay pipeline and its textures. Per frame
// vertex and index buffers are ephemeral and handed to the frame for
// deferred destruction.
type Painter struct {
	ctx      *gpu.Context
	pipeline *wgpu.RenderPipeline
	textures map[TextureID]*paintTexture
	nextID   TextureID
}

func NewPainter(ctx *gpu.Context, format wgpu.TextureFormat) (*Painter, error) {
	shader, err := ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Gui.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: guiShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile gui shader: %w", err)
	}

	defer shader.Release()

	pipeline, err := ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Gui.%s", format),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(Vertex{}.Pos)),
							ShaderLocation: 0,
						},
						{
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(Vertex{}.UV)),
							ShaderLocation: 1,
						},
						{
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         uint64(unsafe.Offsetof(Vertex{}.Color)),
							ShaderLocation: 2,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     &wgpu.BlendStateAlphaBlending,
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
		return nil, fmt.Errorf("build gui pipeline: %w", err)
	}

	p := &Painter{
		ctx:      ctx,
		pipeline: pipeline,
		textures: map[TextureID]*paintTexture{},
		nextID:   WhiteTexture + 1,
	}

	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	white.Pix[0], white.Pix[1], white.Pix[2], white.Pix[3] = 255, 255, 255, 255

	if err := p.setTexture(WhiteTexture, white); err != nil {
		pipeline.Release()
		return nil, fmt.Errorf("create white texture: %w", err)
	}

	return p, nil
}

// AddTexture uploads an image and returns its id.
func (p *Painter) AddTexture(img *image.RGBA) (TextureID, error) {
	id := p.nextID
	p.nextID++

	if err := p.setTexture(id, img); err != nil {
		return 0, err
	}

	return id, nil
}

// SetTexture replaces the full content of an overlay texture. If the
// size changed the underlying texture is recreated.
func (p *Painter) SetTexture(id TextureID, img *image.RGBA) error {
	return p.setTexture(id, img)
}

// UpdateTexture writes a sub region delta into an existing texture.
// The image bounds select the destination region.
func (p *Painter) UpdateTexture(id TextureID, img *image.RGBA) error {
	entry, ok := p.textures[id]
	if !ok {
		return fmt.Errorf("unknown overlay texture %d", id)
	}

	bounds := img.Bounds()

	return p.ctx.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture: entry.texture,
			Origin:  wgpu.Origin3D{X: uint32(bounds.Min.X), Y: uint32(bounds.Min.Y)},
			Aspect:  wgpu.TextureAspectAll,
		},
		img.Pix,
		&wgpu.TextureDataLayout{
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: uint32(bounds.Dy()),
		},
		&wgpu.Extent3D{
			Width:              uint32(bounds.Dx()),
			Height:             uint32(bounds.Dy()),
			DepthOrArrayLayers: 1,
		},
	)
}

// FreeTexture releases an overlay texture. Freeing the white texture
// is programmer error and panics.
func (p *Painter) FreeTexture(id TextureID) {
	if id == WhiteTexture {
		panic("cannot free the builtin white texture")
	}

	if entry, ok := p.textures[id]; ok {
		entry.release()
		delete(p.textures, id)
	}
}

func (p *Painter) setTexture(id TextureID, img *image.RGBA) error {
	if entry, ok := p.textures[id]; ok {
		entry.release()
		delete(p.textures, id)
	}

	bounds := img.Bounds()

	texture, err := p.ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:         fmt.Sprintf("Gui.Texture.%d", id),
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
		Size: wgpu.Extent3D{
			Width:              uint32(bounds.Dx()),
			Height:             uint32(bounds.Dy()),
			DepthOrArrayLayers: 1,
		},
		Usage: wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create overlay texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("create overlay texture view: %w", err)
	}

	sampler, err := p.ctx.CachedSampler(wgpu.SamplerDescriptor{
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return err
	}

	layout := p.pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	bindGroup, err := p.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("Gui.BindGroup.%d", id),
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		view.Release()
		texture.Release()
		return fmt.Errorf("create overlay bind group: %w", err)
	}

	p.textures[id] = &paintTexture{texture: texture, view: view, bindGroup: bindGroup}

	err = p.ctx.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: texture, Aspect: wgpu.TextureAspectAll},
		img.Pix,
		&wgpu.TextureDataLayout{
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: uint32(bounds.Dy()),
		},
		&wgpu.Extent3D{
			Width:              uint32(bounds.Dx()),
			Height:             uint32(bounds.Dy()),
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		return fmt.Errorf("upload overlay texture: %w", err)
	}

	return nil
}

// drawBatch is one primitive resolved to buffer ranges and a physical
// pixel scissor rect.
type drawBatch struct {
	texture    TextureID
	firstIndex uint32
	indexCount uint32
	baseVertex int32
	scissor    [4]uint32
}

// Paint records all primitives into the active surface pass. Vertex
// positions are converted from logical points to clip space on the
// CPU, so the pipeline needs no per frame uniform data.
func (p *Painter) Paint(pass *wgpu.RenderPassEncoder, frame *ember.Frame, screen Screen, prims []Primitive) error {
	vertices, indices, batches := buildBatches(screen, prims)
	if len(batches) == 0 {
		return nil
	}

	vertexBuf, err := p.ctx.CreateBufferInit("Gui.Vertices",
		gpu.SliceAsBytes(vertices), wgpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("create overlay vertex buffer: %w", err)
	}

	frame.Track(vertexBuf)

	indexBuf, err := p.ctx.CreateBufferInit("Gui.Indices",
		gpu.SliceAsBytes(indices), wgpu.BufferUsageIndex)
	if err != nil {
		return fmt.Errorf("create overlay index buffer: %w", err)
	}

	frame.Track(indexBuf)

	pass.SetPipeline(p.pipeline)
	pass.SetVertexBuffer(0, vertexBuf.Raw, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(indexBuf.Raw, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

	for _, batch := range batches {
		entry, ok := p.textures[batch.texture]
		if !ok {
			return fmt.Errorf("unknown overlay texture %d", batch.texture)
		}

		pass.SetScissorRect(batch.scissor[0], batch.scissor[1], batch.scissor[2], batch.scissor[3])
		pass.SetBindGroup(0, entry.bindGroup, nil)
		pass.DrawIndexed(batch.indexCount, 1, batch.firstIndex, batch.baseVertex, 0)
	}

	// restore the full surface scissor for later pass users
	pass.SetScissorRect(0, 0, screen.Width, screen.Height)

	return nil
}

// buildBatches flattens primitives into shared vertex/index slices.
// Degenerate primitives and fully clipped ones are dropped.
func buildBatches(screen Screen, prims []Primitive) ([]Vertex, []uint32, []drawBatch) {
	var vertices []Vertex
	var indices []uint32
	var batches []drawBatch

	for _, prim := range prims {
		if len(prim.Indices) == 0 || len(prim.Vertices) == 0 {
			continue
		}

		scissor, ok := scissorOf(screen, prim.Clip)
		if !ok {
			continue
		}

		batches = append(batches, drawBatch{
			texture:    prim.Texture,
			firstIndex: uint32(len(indices)),
			indexCount: uint32(len(prim.Indices)),
			baseVertex: int32(len(vertices)),
			scissor:    scissor,
		})

		for _, v := range prim.Vertices {
			v.Pos = toClipSpace(screen, v.Pos)
			vertices = append(vertices, v)
		}

		indices = append(indices, prim.Indices...)
	}

	return vertices, indices, batches
}

// toClipSpace maps a logical point to ndc, y up.
func toClipSpace(screen Screen, pos glm.Vec2) glm.Vec2 {
	x := pos[0] * screen.Scale / float32(screen.Width) * 2.0
	y := pos[1] * screen.Scale / float32(screen.Height) * 2.0

	return glm.Vec2{x - 1.0, 1.0 - y}
}

// scissorOf converts a logical clip rect to a physical pixel scissor,
// clamped to the surface. Reports false if nothing remains visible.
func scissorOf(screen Screen, clip Rect) ([4]uint32, bool) {
	// zero clip means unclipped
	if clip.Min == clip.Max {
		return [4]uint32{0, 0, screen.Width, screen.Height}, true
	}

	x0 := glm.Clamp(int32(clip.Min[0]*screen.Scale), 0, int32(screen.Width))
	y0 := glm.Clamp(int32(clip.Min[1]*screen.Scale), 0, int32(screen.Height))
	x1 := glm.Clamp(int32(clip.Max[0]*screen.Scale+0.5), 0, int32(screen.Width))
	y1 := glm.Clamp(int32(clip.Max[1]*screen.Scale+0.5), 0, int32(screen.Height))

	if x1 <= x0 || y1 <= y0 {
		return [4]uint32{}, false
	}

	return [4]uint32{uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)}, true
}

// Release frees the pipeline and all overlay textures.
func (p *Painter) Release() {
	for id, entry := range p.textures {
		entry.release()
		delete(p.textures, id)
	}

	p.pipeline.Release()
}
