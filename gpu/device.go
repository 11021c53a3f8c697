package gpu

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// Context encapsulates the low level state of the webgpu context: the
// Device, its Queue, the active Adapter and, when rendering into a window,
// the Surface. There is exactly one Context per process and it lives as
// long as the viewport does.
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter

	// OutputFormat is the pixel format of offscreen render targets and of
	// the frames read back from them.
	OutputFormat wgpu.TextureFormat
}

// New acquires a high performance adapter and a logical device. A nil
// surface descriptor creates a headless context that can only render
// offscreen.
//
// The instance is restricted to the Vulkan and GL backends so the driver
// context can not clash with the context type the windowing system uses
// for its own drawing.
//
// There is no recovery path: if no adapter or no device can be acquired
// the returned error is fatal to the viewport.
func New(sd *wgpu.SurfaceDescriptor) (st *Context, err error) {
	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Context{OutputFormat: wgpu.TextureFormatRGBA8Unorm}

	instance := wgpu.CreateInstance(&wgpu.InstanceDescriptor{
		Backends: wgpu.InstanceBackendVulkan | wgpu.InstanceBackendGL,
	})
	defer instance.Release()

	if sd != nil {
		st.Surface = instance.CreateSurface(sd)
	}

	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      wgpu.PowerPreferenceHighPerformance,
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    st.Surface,
	})

	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	info := st.Adapter.GetInfo()
	slog.Info("Initialized GPU adapter", slog.String("name", info.Name))

	// get a Device with the default settings
	st.Device, err = st.Adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	st.Queue = st.Device.GetQueue()

	return st, nil
}

func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}
