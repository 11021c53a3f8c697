package gpu

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture together with its identity wgpu.TextureView.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView

	format wgpu.TextureFormat
	width  uint32
	height uint32
}

type NewTextureOptions struct {
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
	Usage  wgpu.TextureUsage
	Label  string
}

func NewTexture(ctx *Context, opts NewTextureOptions) (*Texture, error) {
	texture, err := ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        opts.Format,
		Usage:         opts.Usage,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()

		return nil, fmt.Errorf("create texture view: %w", err)
	}

	return &Texture{
		texture: texture,
		view:    view,
		format:  opts.Format,
		width:   opts.Width,
		height:  opts.Height,
	}, nil
}

func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *Texture) ToWGPUTexture() *wgpu.Texture {
	return t.texture
}

// Release releases the texture and its view. You must be sure to not use
// the texture after calling Release.
func (t *Texture) Release() {
	t.view.Release()
	t.texture.Release()
}

// WritePixels copies pixel data for the full texture to the gpu. A stride
// of zero defaults to the tightly packed four bytes per texel.
func (t *Texture) WritePixels(ctx *Context, pixels []byte, stride uint32) error {
	if stride == 0 {
		stride = t.width * 4
	}

	layout := &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  stride,
		RowsPerImage: t.height,
	}

	size := &wgpu.Extent3D{
		Width:              t.width,
		Height:             t.height,
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.ImageCopyTexture{
		Texture:  t.texture,
		MipLevel: 0,
		Origin:   wgpu.Origin3D{},
		Aspect:   wgpu.TextureAspectAll,
	}

	// send data to the gpu
	if err := ctx.WriteTexture(dest, pixels, layout, size); err != nil {
		return fmt.Errorf("copy image data to texture: %w", err)
	}

	return nil
}

// NewTextureFromImage converts src to RGBA8 and uploads it into a freshly
// allocated texture that can be bound by a shader.
func NewTextureFromImage(ctx *Context, src image.Image, label string) (*Texture, error) {
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, iw, ih))

	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)

	t, err := NewTexture(ctx, NewTextureOptions{
		Format: ctx.OutputFormat,
		Width:  uint32(iw),
		Height: uint32(ih),
		Usage:  wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Label:  label,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	if err := t.WritePixels(ctx, rgba.Pix, 0); err != nil {
		t.Release()
		return nil, fmt.Errorf("upload texture: %w", err)
	}

	return t, nil
}
