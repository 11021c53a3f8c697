package iris

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/iris/gpu"
)

// frameRenderer is what the Viewport needs from the renderer. Satisfied by
// FrameRenderer.
type frameRenderer interface {
	Resize(width, height uint32) error
	Render(camera *Camera) (Frame, error)
	InstallImage(img image.Image) error
	TargetReallocs() int
	Release()
}

type viewportState int

const (
	// gpu initialization still running in the background
	stateUninitialized viewportState = iota

	// gpu ready, showing the placeholder until an image arrives
	stateReady

	// a decoded image is installed and on display
	stateDisplaying
)

type Options struct {
	// Surface to create the gpu context against. May be nil for headless
	// operation.
	Surface *wgpu.SurfaceDescriptor

	// MakeSink builds the display sink once the gpu context exists. It runs
	// on the render thread. May be nil if no frames should be presented.
	MakeSink func(ctx *gpu.Context) (DisplaySink, error)

	// Decoder used by LoadImage. Defaults to FileDecoder.
	Decoder Decoder
}

type initResult struct {
	ctx *gpu.Context
	err error
}

// Viewport drives the render loop: it owns the gpu context, the camera and
// the current image, collects decode completions and produces one frame per
// tick. All methods must be called from the render thread, decoding happens
// on background goroutines.
type Viewport struct {
	Camera Camera

	opts  Options
	state viewportState

	ready   chan initResult
	decoded chan decodeResult
	tracker loadTracker

	ctx      *gpu.Context
	renderer frameRenderer
	sink     DisplaySink

	times FrameTimes

	// overridable for tests
	makeRenderer func(ctx *gpu.Context, width, height uint32) (frameRenderer, error)
}

func New(opts Options) *Viewport {
	if opts.Decoder == nil {
		opts.Decoder = FileDecoder{}
	}

	v := &Viewport{
		Camera:  NewCamera(),
		opts:    opts,
		ready:   make(chan initResult, 1),
		decoded: make(chan decodeResult, 8),
	}

	go func() {
		ctx, err := gpu.New(opts.Surface)
		v.ready <- initResult{ctx: ctx, err: err}
	}()

	return v
}

// LoadImage schedules path for decoding on a background goroutine. Calling
// it again before a previous decode finished supersedes that request: only
// the most recently requested image is ever installed.
func (v *Viewport) LoadImage(path string) {
	token := v.tracker.issue()

	slog.Info("Loading image", slog.String("path", path), slog.Uint64("token", token))

	go func() {
		img, err := v.opts.Decoder.Decode(path)
		v.decoded <- decodeResult{token: token, path: path, img: img, err: err}
	}()
}

// OnTick advances the viewport by one frame: it finishes pending gpu
// initialization, applies decode completions, tracks the viewport size and
// renders. A zero sized viewport skips the frame. Returned errors are
// unrecoverable.
func (v *Viewport) OnTick(width, height uint32) error {
	if v.state == stateUninitialized {
		installed, err := v.finishInit(width, height)
		if err != nil {
			return err
		}

		if !installed {
			return nil
		}
	}

	v.drainDecoded()

	if width == 0 || height == 0 {
		// minimized, nothing to render
		return nil
	}

	v.Camera.SetViewportSize(width, height)

	if err := v.renderer.Resize(width, height); err != nil {
		return err
	}

	frame, err := v.renderer.Render(&v.Camera)
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	if v.sink != nil {
		v.sink.Present(frame)
	}

	if v.times.Tick() {
		slog.Debug("Frame stats",
			slog.Float64("fps", v.times.FPS()),
			slog.Duration("avg", v.times.AverageDuration),
			slog.Duration("max", v.times.MaxDuration),
			slog.Int("target_reallocs", v.renderer.TargetReallocs()),
		)
	}

	return nil
}

// finishInit consumes the result of the background gpu initialization if it
// is available. It reports whether the renderer is now installed.
func (v *Viewport) finishInit(width, height uint32) (bool, error) {
	select {
	case result := <-v.ready:
		if result.err != nil {
			return false, fmt.Errorf("initialize gpu: %w", result.err)
		}

		v.ctx = result.ctx

	default:
		// still initializing, skip this tick
		return false, nil
	}

	if width == 0 {
		width = 1
	}

	if height == 0 {
		height = 1
	}

	makeRenderer := v.makeRenderer
	if makeRenderer == nil {
		makeRenderer = func(ctx *gpu.Context, width, height uint32) (frameRenderer, error) {
			return NewFrameRenderer(ctx, width, height)
		}
	}

	renderer, err := makeRenderer(v.ctx, width, height)
	if err != nil {
		return false, fmt.Errorf("create frame renderer: %w", err)
	}

	v.renderer = renderer

	if v.opts.MakeSink != nil {
		sink, err := v.opts.MakeSink(v.ctx)
		if err != nil {
			return false, fmt.Errorf("create display sink: %w", err)
		}

		v.sink = sink
	}

	v.state = stateReady

	slog.Info("Viewport ready")

	return true, nil
}

// drainDecoded applies all decode completions that arrived since the last
// tick. Later completions win, stale ones are dropped.
func (v *Viewport) drainDecoded() {
	for {
		select {
		case result := <-v.decoded:
			v.applyDecodeResult(result)

		default:
			return
		}
	}
}

func (v *Viewport) applyDecodeResult(result decodeResult) {
	if !v.tracker.isCurrent(result.token) {
		slog.Debug("Dropping stale decode result",
			slog.String("path", result.path),
			slog.Uint64("token", result.token),
		)

		return
	}

	if result.err != nil {
		// keep whatever is on display
		slog.Error("Image decode failed",
			slog.String("path", result.path),
			slog.Any("error", result.err),
		)

		return
	}

	if err := v.renderer.InstallImage(result.img); err != nil {
		slog.Error("Image upload failed",
			slog.String("path", result.path),
			slog.Any("error", err),
		)

		return
	}

	v.state = stateDisplaying
}

func (v *Viewport) Release() {
	if v.renderer != nil {
		v.renderer.Release()
	}

	if v.ctx != nil {
		v.ctx.Release()
	}
}
