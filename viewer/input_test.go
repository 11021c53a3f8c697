package viewer

import (
	"math"
	"testing"

	"github.com/oliverbestmann/iris/glimpse"
	"github.com/oliverbestmann/iris/iris"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestApplyInputZoom(t *testing.T) {
	tests := []struct {
		name    string
		zoom    float32
		scrollY float32
		want    float32
	}{
		{name: "scroll up zooms in", zoom: 1, scrollY: 1, want: 1.1},
		{name: "scroll down zooms out", zoom: 1.1, scrollY: -1, want: 1},
		{name: "clamped at max zoom", zoom: 9.9, scrollY: 10, want: 10},
		{name: "clamped at min zoom", zoom: 0.11, scrollY: -10, want: 0.1},
		{name: "no scroll keeps zoom", zoom: 2.5, scrollY: 0, want: 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			camera := iris.NewCamera()
			camera.Zoom = tc.zoom

			applyInput(&camera, glimpse.MouseState{ScrollY: tc.scrollY}, 800)

			if !almostEqual(camera.Zoom, tc.want) {
				t.Errorf("Zoom = %v, want %v", camera.Zoom, tc.want)
			}
		})
	}
}

func TestApplyInputPan(t *testing.T) {
	camera := iris.NewCamera()

	mouse := glimpse.MouseState{
		DeltaX:  100,
		DeltaY:  -50,
		Pressed: map[glimpse.MouseButton]bool{glimpse.MouseButtonLeft: true},
	}

	// 800 pixels of height span 2 world units at zoom 1
	applyInput(&camera, mouse, 800)

	wantX := float32(-100 * 2.0 / 800.0)
	wantY := float32(-50 * 2.0 / 800.0)

	if !almostEqual(camera.Position[0], wantX) || !almostEqual(camera.Position[1], wantY) {
		t.Errorf("Position = %v, want {%v, %v}", camera.Position, wantX, wantY)
	}
}

func TestApplyInputNoPanWithoutButton(t *testing.T) {
	camera := iris.NewCamera()

	applyInput(&camera, glimpse.MouseState{DeltaX: 100, DeltaY: 100}, 800)

	if camera.Position != (iris.NewCamera().Position) {
		t.Errorf("Position = %v, want origin", camera.Position)
	}
}

func TestApplyInputZeroHeight(t *testing.T) {
	camera := iris.NewCamera()

	mouse := glimpse.MouseState{
		DeltaX:  100,
		Pressed: map[glimpse.MouseButton]bool{glimpse.MouseButtonLeft: true},
	}

	applyInput(&camera, mouse, 0)

	if camera.Position != (iris.NewCamera().Position) {
		t.Errorf("Position = %v, want origin", camera.Position)
	}
}
