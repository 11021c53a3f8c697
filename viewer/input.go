package viewer

import (
	"math"

	"github.com/oliverbestmann/iris/glimpse"
	"github.com/oliverbestmann/iris/glm"
	"github.com/oliverbestmann/iris/iris"
)

const (
	minZoom = 0.1
	maxZoom = 10

	// zoom factor per scroll wheel step
	zoomStep = 1.1
)

// applyInput maps mouse input to the camera: the scroll wheel zooms, a left
// button drag pans. Dragging moves the content with the cursor, one dragged
// pixel shifts the world by one pixel worth of world units.
func applyInput(camera *iris.Camera, mouse glimpse.MouseState, height uint32) {
	if mouse.ScrollY != 0 {
		factor := float32(math.Pow(zoomStep, float64(mouse.ScrollY)))
		camera.Zoom = clamp(camera.Zoom*factor, minZoom, maxZoom)
	}

	if mouse.Pressed[glimpse.MouseButtonLeft] && height > 0 {
		// the viewport spans 2/zoom world units vertically. cursor y grows
		// downwards, world y grows upwards.
		worldPerPixel := 2 / (camera.Zoom * float32(height))

		camera.Position = camera.Position.Sub(glm.Vec2f{
			mouse.DeltaX * worldPerPixel,
			-mouse.DeltaY * worldPerPixel,
		})
	}
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
