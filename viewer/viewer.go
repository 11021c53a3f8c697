package viewer

import (
	"fmt"

	"github.com/oliverbestmann/iris/glimpse"
	"github.com/oliverbestmann/iris/gpu"
	"github.com/oliverbestmann/iris/iris"
)

type Options struct {
	// Path of the image to show on startup. May be empty.
	Path string

	WindowWidth  int
	WindowHeight int
	WindowTitle  string
}

// Run opens a window and drives the viewport until the window is closed.
func Run(opts Options) error {
	win, err := glimpse.NewWindow(opts.WindowWidth, opts.WindowHeight, opts.WindowTitle)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	var sink *SurfaceSink

	vp := iris.New(iris.Options{
		Surface: win.SurfaceDescriptor(),
		MakeSink: func(ctx *gpu.Context) (iris.DisplaySink, error) {
			sink, err = NewSurfaceSink(ctx)
			return sink, err
		},
	})

	defer func() {
		if sink != nil {
			sink.Release()
		}

		vp.Release()
	}()

	if opts.Path != "" {
		vp.LoadImage(opts.Path)
	}

	return win.Run(func(updateInput glimpse.UpdateInputState) error {
		input := updateInput()

		width, height := win.GetSize()
		applyInput(&vp.Camera, input.Mouse, height)

		return vp.OnTick(width, height)
	})
}
