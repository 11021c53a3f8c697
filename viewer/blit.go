package viewer

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/iris/gpu"
	"github.com/oliverbestmann/iris/iris"
)

//go:embed blit.wgsl
var blitShaderCode string

// blitPipelineConfig keys the cached blit pipeline by the surface format it
// renders into.
type blitPipelineConfig struct {
	format wgpu.TextureFormat
}

func (c blitPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Viewer.BlitShader",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: blitShaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("compile blit shader: %w", err)
	}

	defer shader.Release()

	return dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Viewer.BlitPipeline",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    c.format,
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

// SurfaceSink presents rendered frames by uploading them into a staging
// texture and blitting that to the window surface. All methods run on the
// render thread.
type SurfaceSink struct {
	ctx       *gpu.Context
	view      *View
	pipelines *gpu.PipelineCache[blitPipelineConfig]

	staging   *gpu.Texture
	bindGroup *wgpu.BindGroup
}

func NewSurfaceSink(ctx *gpu.Context) (*SurfaceSink, error) {
	if ctx.Surface == nil {
		return nil, fmt.Errorf("surface sink requires a windowed gpu context")
	}

	return &SurfaceSink{
		ctx:       ctx,
		view:      NewView(ctx),
		pipelines: gpu.NewPipelineCache[blitPipelineConfig](ctx),
	}, nil
}

// Present uploads frame and draws it to the surface. Transient surface
// errors, a resize race for example, skip the frame instead of failing.
func (s *SurfaceSink) Present(frame iris.Frame) {
	if err := s.present(frame); err != nil {
		slog.Warn("Skipping frame", slog.Any("error", err))
	}
}

func (s *SurfaceSink) present(frame iris.Frame) error {
	pipeline, err := s.pipelines.Get(blitPipelineConfig{format: s.view.Format()})
	if err != nil {
		return err
	}

	if err := s.ensureStaging(pipeline, frame.Width, frame.Height); err != nil {
		return err
	}

	if err := s.staging.WritePixels(s.ctx, frame.Pixels, frame.Stride); err != nil {
		return err
	}

	screen, err := s.ctx.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}

	defer func() {
		// presenting consumes the surface texture, only release it if we
		// bailed out before that
		if screen != nil {
			screen.Release()
		}
	}()

	screenView, err := screen.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface texture view: %w", err)
	}

	defer screenView.Release()

	encoder, err := s.ctx.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Viewer.BlitPass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    screenView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
			},
		},
	})

	passGuard := gpu.NewReleaseGuard(pass)
	defer passGuard.Release()

	pass.SetPipeline(pipeline.Pipeline)
	pass.SetBindGroup(0, s.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)

	if err := pass.End(); err != nil {
		return fmt.Errorf("end blit pass: %w", err)
	}

	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}

	defer cmdBuffer.Release()

	s.ctx.Queue.Submit(cmdBuffer)
	s.ctx.Surface.Present()
	screen = nil

	return nil
}

// ensureStaging keeps the staging texture and its bind group in sync with
// the frame dimensions. The surface is reconfigured alongside.
func (s *SurfaceSink) ensureStaging(pipeline gpu.CachedPipeline, width, height uint32) error {
	if s.staging != nil && s.staging.Width() == width && s.staging.Height() == height {
		return nil
	}

	s.view.Configure(width, height)

	staging, err := gpu.NewTexture(s.ctx, gpu.NewTextureOptions{
		Format: s.ctx.OutputFormat,
		Width:  width,
		Height: height,
		Usage:  wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Label:  "Viewer.StagingTexture",
	})
	if err != nil {
		return fmt.Errorf("create staging texture: %w", err)
	}

	sampler, err := gpu.CachedSampler(s.ctx.Device, wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})
	if err != nil {
		staging.Release()
		return err
	}

	bindGroup, err := s.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Viewer.BlitBindGroup",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: staging.View(),
			},
			{
				Binding: 1,
				Sampler: sampler,
			},
		},
	})
	if err != nil {
		staging.Release()
		return fmt.Errorf("create blit bind group: %w", err)
	}

	if s.bindGroup != nil {
		s.bindGroup.Release()
	}

	if s.staging != nil {
		s.staging.Release()
	}

	s.staging = staging
	s.bindGroup = bindGroup

	return nil
}

func (s *SurfaceSink) Release() {
	if s.bindGroup != nil {
		s.bindGroup.Release()
	}

	if s.staging != nil {
		s.staging.Release()
	}
}
