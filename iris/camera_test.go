package iris

import (
	"math"
	"testing"

	"github.com/oliverbestmann/iris/glm"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func projectXY(c *Camera, x, y float32) (float32, float32) {
	clip := c.ViewProjection().Transform(glm.Vec4f{x, y, 0, 1})
	return clip[0], clip[1]
}

func TestCameraViewProjection(t *testing.T) {
	tests := []struct {
		name     string
		position glm.Vec2f
		zoom     float32
		aspect   float32
		world    glm.Vec2f
		want     glm.Vec2f
	}{
		{
			name:   "default camera keeps origin centered",
			zoom:   1,
			aspect: 1,
			world:  glm.Vec2f{0, 0},
			want:   glm.Vec2f{0, 0},
		},
		{
			name:   "default camera maps unit x to right edge",
			zoom:   1,
			aspect: 1,
			world:  glm.Vec2f{1, 0},
			want:   glm.Vec2f{1, 0},
		},
		{
			name:   "wide viewport shrinks x",
			zoom:   1,
			aspect: 2,
			world:  glm.Vec2f{1, 0},
			want:   glm.Vec2f{0.5, 0},
		},
		{
			name:   "zoom magnifies around the camera position",
			zoom:   2,
			aspect: 1,
			world:  glm.Vec2f{0.5, 0.25},
			want:   glm.Vec2f{1, 0.5},
		},
		{
			name:     "camera position is mapped to the center",
			position: glm.Vec2f{3, -2},
			zoom:     1,
			aspect:   1,
			world:    glm.Vec2f{3, -2},
			want:     glm.Vec2f{0, 0},
		},
		{
			name:     "pan and zoom combined",
			position: glm.Vec2f{1, 1},
			zoom:     2,
			aspect:   2,
			world:    glm.Vec2f{2, 1},
			want:     glm.Vec2f{1, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			camera := Camera{
				Position:    tc.position,
				Zoom:        tc.zoom,
				AspectRatio: tc.aspect,
			}

			gotX, gotY := projectXY(&camera, tc.world[0], tc.world[1])

			if !almostEqual(gotX, tc.want[0]) || !almostEqual(gotY, tc.want[1]) {
				t.Errorf("project(%v) = (%v, %v), want %v", tc.world, gotX, gotY, tc.want)
			}
		})
	}
}

func TestCameraSetViewportSize(t *testing.T) {
	camera := NewCamera()

	camera.SetViewportSize(200, 100)
	if !almostEqual(camera.AspectRatio, 2) {
		t.Errorf("AspectRatio = %v, want 2", camera.AspectRatio)
	}

	// zero height must not divide by zero or reset the aspect ratio
	camera.SetViewportSize(200, 0)
	if !almostEqual(camera.AspectRatio, 2) {
		t.Errorf("AspectRatio after zero height = %v, want 2", camera.AspectRatio)
	}
}

func TestNewCameraDefaults(t *testing.T) {
	camera := NewCamera()

	if camera.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", camera.Zoom)
	}

	if camera.AspectRatio != 1 {
		t.Errorf("AspectRatio = %v, want 1", camera.AspectRatio)
	}

	if camera.Position != (glm.Vec2f{}) {
		t.Errorf("Position = %v, want origin", camera.Position)
	}
}
