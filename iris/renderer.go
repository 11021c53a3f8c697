package iris

import (
	_ "embed"
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/iris/glm"
	"github.com/oliverbestmann/iris/gpu"
)

//go:embed image.wgsl
var imageShaderCode string

// the clear color behind the image quad
var backgroundColor = wgpu.Color{R: 0.051, G: 0.051, B: 0.051, A: 1}

// uniformBlock is the wire layout of the shader uniforms. The trailing
// padding keeps the struct 16 byte aligned as the uniform buffer requires.
type uniformBlock struct {
	viewProj   glm.Mat4f
	imageScale glm.Vec2f
	_pad       glm.Vec2f
}

// outputTarget is the offscreen texture a frame is rendered into, together
// with the buffer the result is read back through. A target is replaced
// wholesale on resize, never mutated.
type outputTarget struct {
	texture  *gpu.Texture
	readback *wgpu.Buffer
	width    uint32
	height   uint32
	stride   uint32
}

func newOutputTarget(ctx *gpu.Context, width, height uint32) (*outputTarget, error) {
	texture, err := gpu.NewTexture(ctx, gpu.NewTextureOptions{
		Format: ctx.OutputFormat,
		Width:  width,
		Height: height,
		Usage:  wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		Label:  "Iris.OutputTexture",
	})
	if err != nil {
		return nil, fmt.Errorf("create output texture: %w", err)
	}

	stride := paddedBytesPerRow(width)

	readback, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Iris.ReadbackBuffer",
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		Size:  uint64(stride) * uint64(height),
	})
	if err != nil {
		texture.Release()

		return nil, fmt.Errorf("create readback buffer: %w", err)
	}

	return &outputTarget{
		texture:  texture,
		readback: readback,
		width:    width,
		height:   height,
		stride:   stride,
	}, nil
}

func (t *outputTarget) release() {
	if t == nil {
		return
	}

	t.readback.Release()
	t.texture.Release()
}

// targetSpec tracks the dimensions of the allocated output target and
// decides when a resize must reallocate it. Zero sized and unchanged
// dimensions keep the current target.
type targetSpec struct {
	width  uint32
	height uint32
}

func (s *targetSpec) update(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}

	if s.width == width && s.height == height {
		return false
	}

	s.width = width
	s.height = height

	return true
}

// FrameRenderer draws the current image as a single textured quad into an
// offscreen target and reads the result back to host memory. All methods
// must be called from the render thread.
type FrameRenderer struct {
	ctx *gpu.Context

	pipeline *wgpu.RenderPipeline
	layout   *wgpu.BindGroupLayout
	uniforms *wgpu.Buffer
	sampler  *wgpu.Sampler
	current  *imageResource
	target   *outputTarget
	spec     targetSpec

	// number of output target allocations, exposed for stats
	reallocs int
}

func NewFrameRenderer(ctx *gpu.Context, width, height uint32) (r *FrameRenderer, err error) {
	r = &FrameRenderer{ctx: ctx}

	defer func() {
		if err != nil {
			r.Release()
			r = nil
		}
	}()

	r.uniforms, err = ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Iris.Uniforms",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof(uniformBlock{})),
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	r.sampler, err = ctx.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Iris.Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	r.layout, err = ctx.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Iris.BindGroupLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	r.pipeline, err = r.buildPipeline()
	if err != nil {
		return nil, fmt.Errorf("build image pipeline: %w", err)
	}

	r.current, err = r.defaultResource()
	if err != nil {
		return nil, fmt.Errorf("create default image resource: %w", err)
	}

	if err := r.Resize(width, height); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *FrameRenderer) buildPipeline() (*wgpu.RenderPipeline, error) {
	shader, err := r.ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Iris.ImageShader",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: imageShaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("compile image shader: %w", err)
	}

	defer shader.Release()

	pipelineLayout, err := r.ctx.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Iris.PipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.layout},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	defer pipelineLayout.Release()

	return r.ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Iris.ImagePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: r.ctx.OutputFormat,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
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
}

// defaultResource is the 1x1 white texture rendered until the first image
// is installed.
func (r *FrameRenderer) defaultResource() (*imageResource, error) {
	texture, err := gpu.NewTexture(r.ctx, gpu.NewTextureOptions{
		Format: r.ctx.OutputFormat,
		Width:  1,
		Height: 1,
		Usage:  wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Label:  "Iris.DefaultTexture",
	})
	if err != nil {
		return nil, err
	}

	if err := texture.WritePixels(r.ctx, []byte{255, 255, 255, 255}, 0); err != nil {
		texture.Release()
		return nil, err
	}

	return r.bindResource(texture)
}

// bindResource wraps texture into an imageResource with a bind group
// referencing it together with the shared sampler and uniform buffer.
func (r *FrameRenderer) bindResource(texture *gpu.Texture) (*imageResource, error) {
	bindGroup, err := r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Iris.ImageBindGroup",
		Layout: r.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.uniforms,
				Size:    wgpu.WholeSize,
			},
			{
				Binding:     1,
				TextureView: texture.View(),
			},
			{
				Binding: 2,
				Sampler: r.sampler,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create image bind group: %w", err)
	}

	return &imageResource{
		texture:   texture,
		bindGroup: bindGroup,
		width:     texture.Width(),
		height:    texture.Height(),
	}, nil
}

// InstallImage uploads img into a new texture and swaps it in as the
// current image resource. The swap is the last step, a concurrent render
// sees either the fully previous or the fully new resource.
func (r *FrameRenderer) InstallImage(img image.Image) error {
	texture, err := gpu.NewTextureFromImage(r.ctx, img, "Iris.ImageTexture")
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	resource, err := r.bindResource(texture)
	if err != nil {
		texture.Release()
		return err
	}

	previous := r.current
	r.current = resource
	previous.release()

	slog.Info("Installed image resource",
		slog.Int("width", int(resource.width)),
		slog.Int("height", int(resource.height)),
	)

	return nil
}

// Resize recreates the output target and its readback buffer when the
// dimensions actually change. Calling it again with the same dimensions is
// a no-op, as is a zero width or height.
func (r *FrameRenderer) Resize(width, height uint32) error {
	if !r.spec.update(width, height) {
		return nil
	}

	target, err := newOutputTarget(r.ctx, width, height)
	if err != nil {
		return fmt.Errorf("recreate output target: %w", err)
	}

	r.target.release()
	r.target = target
	r.reallocs++

	slog.Debug("Reallocated output target",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Int("stride", int(target.stride)),
	)

	return nil
}

// TargetReallocs returns how often the output target was allocated.
func (r *FrameRenderer) TargetReallocs() int {
	return r.reallocs
}

// Render draws one frame and blocks until its pixels have been read back.
// One frame is fully completed, readback included, before the call
// returns; only a single frame is ever in flight.
func (r *FrameRenderer) Render(camera *Camera) (Frame, error) {
	uniforms := uniformBlock{
		viewProj:   camera.ViewProjection(),
		imageScale: imageScale(r.current.width, r.current.height),
	}

	if err := r.ctx.Queue.WriteBuffer(r.uniforms, 0, gpu.AsByteSlice(&uniforms)); err != nil {
		return Frame{}, fmt.Errorf("write uniforms: %w", err)
	}

	encoder, err := r.ctx.CreateCommandEncoder(nil)
	if err != nil {
		return Frame{}, fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Iris.ImagePass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       r.target.texture.View(),
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: backgroundColor,
			},
		},
	})

	passGuard := gpu.NewReleaseGuard(pass)
	defer passGuard.Release()

	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.current.bindGroup, nil)
	pass.Draw(6, 1, 0, 0)

	if err := pass.End(); err != nil {
		return Frame{}, fmt.Errorf("end render pass: %w", err)
	}

	// must release the pass before finishing the encoder
	passGuard.Release()

	err = encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  r.target.texture.ToWGPUTexture(),
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: r.target.readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  r.target.stride,
				RowsPerImage: r.target.height,
			},
		},
		&wgpu.Extent3D{
			Width:              r.target.width,
			Height:             r.target.height,
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		return Frame{}, fmt.Errorf("copy output to readback buffer: %w", err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return Frame{}, fmt.Errorf("finish encoder: %w", err)
	}

	defer cmdBuffer.Release()

	r.ctx.Queue.Submit(cmdBuffer)

	return r.readFrame()
}

// readFrame maps the readback buffer, blocks until the GPU signals
// completion and copies the mapped bytes out. A failing map indicates an
// unrecoverable driver state and is returned as an error.
func (r *FrameRenderer) readFrame() (Frame, error) {
	size := uint64(r.target.stride) * uint64(r.target.height)

	// fail closed if the callback never runs
	mapStatus := wgpu.BufferMapAsyncStatusUnknown

	err := r.target.readback.MapAsync(wgpu.MapModeRead, 0, size,
		func(status wgpu.BufferMapAsyncStatus) {
			mapStatus = status
		})
	if err != nil {
		return Frame{}, fmt.Errorf("map readback buffer: %w", err)
	}

	// single frame in flight: wait for the GPU to finish
	r.ctx.Device.Poll(true, nil)

	if mapStatus != wgpu.BufferMapAsyncStatusSuccess {
		return Frame{}, fmt.Errorf("map readback buffer: status %v", mapStatus)
	}

	defer r.target.readback.Unmap()

	data := r.target.readback.GetMappedRange(0, uint(size))

	pixels := make([]byte, len(data))
	copy(pixels, data)

	return Frame{
		Width:  r.target.width,
		Height: r.target.height,
		Stride: r.target.stride,
		Pixels: pixels,
	}, nil
}

func (r *FrameRenderer) Release() {
	r.target.release()
	r.current.release()

	if r.pipeline != nil {
		r.pipeline.Release()
	}

	if r.layout != nil {
		r.layout.Release()
	}

	if r.sampler != nil {
		r.sampler.Release()
	}

	if r.uniforms != nil {
		r.uniforms.Release()
	}
}
