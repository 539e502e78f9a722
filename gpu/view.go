package gpu

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// View owns the surface configuration and hands out presentable frames.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration
}

func NewView(ctx *Context) *View {
	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	return &View{
		Context: ctx,
		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      wgpu.TextureFormatBGRA8Unorm,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],
		},
	}
}

// Configure applies a new surface size and returns the pixel format
// render pipelines targeting the surface must use.
func (vs *View) Configure(width, height uint32) wgpu.TextureFormat {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Adapter, vs.Device, vs.surfaceConfig)

	return vs.surfaceConfig.Format
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

// SurfaceFrame is one presentable image of the surface together with
// its identity view.
type SurfaceFrame struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

func (f *SurfaceFrame) Release() {
	if f.View != nil {
		f.View.Release()
		f.View = nil
	}

	if f.Texture != nil {
		f.Texture.Release()
		f.Texture = nil
	}
}

// AcquireFrame fetches the next presentable surface image. The caller
// must Release the frame after presenting.
func (vs *View) AcquireFrame() (*SurfaceFrame, error) {
	texture, err := vs.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("get current texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create surface view: %w", err)
	}

	return &SurfaceFrame{Texture: texture, View: view}, nil
}

func (vs *View) Present() {
	vs.Surface.Present()
}
