package iris

import "github.com/oliverbestmann/iris/glm"

// Camera describes the visible region of the world. Position and Zoom are
// mutated by the hosts pan and zoom input handling, AspectRatio follows the
// viewport size.
type Camera struct {
	Position    glm.Vec2f
	Zoom        float32
	AspectRatio float32
}

func NewCamera() Camera {
	return Camera{
		Zoom:        1,
		AspectRatio: 1,
	}
}

func (c *Camera) SetViewportSize(width, height uint32) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// ViewProjection composes the orthographic projection with the inverse of
// the camera transform. At the default camera and a square viewport the
// result is the identity, up to the fixed depth mapping of the projection.
func (c *Camera) ViewProjection() glm.Mat4f {
	projection := glm.Orthographic(-c.AspectRatio, c.AspectRatio, -1, 1, -1, 1)

	view := glm.ScaleMat4(c.Zoom, c.Zoom, 1).
		Mul(glm.TranslationMat4(-c.Position[0], -c.Position[1], 0))

	return projection.Mul(view)
}
