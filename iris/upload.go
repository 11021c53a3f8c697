package iris

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/iris/glm"
	"github.com/oliverbestmann/iris/gpu"
)

// decodeResult crosses from a decode goroutine back to the render thread.
// Exactly one result is sent per LoadImage call.
type decodeResult struct {
	token uint64
	path  string
	img   image.Image
	err   error
}

// loadTracker hands out request tokens and recognizes stale completions. A
// completion is stale if another LoadImage call was issued after it; stale
// results must never replace a newer image, regardless of the order the
// decodes finish in.
type loadTracker struct {
	latest uint64
}

func (t *loadTracker) issue() uint64 {
	t.latest++
	return t.latest
}

func (t *loadTracker) isCurrent(token uint64) bool {
	return token == t.latest
}

// imageResource groups the texture currently on display with the bind group
// the shader reads it through. It is replaced wholesale on every successful
// upload, never mutated, so a render always sees either the fully previous
// or the fully new resource.
type imageResource struct {
	texture   *gpu.Texture
	bindGroup *wgpu.BindGroup
	width     uint32
	height    uint32
}

func (r *imageResource) release() {
	if r == nil {
		return
	}

	r.bindGroup.Release()
	r.texture.Release()
}

// imageScale maps image dimensions to the extent of the quad in world
// units: the longer axis spans one unit, the shorter one preserves the
// aspect ratio.
func imageScale(width, height uint32) glm.Vec2f {
	aspect := float32(width) / float32(height)

	if aspect > 1 {
		return glm.Vec2f{1, 1 / aspect}
	}

	return glm.Vec2f{aspect, 1}
}
