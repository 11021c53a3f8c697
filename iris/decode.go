package iris

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns a file path into a decoded image. Decode runs off the
// render thread and must not touch GPU state.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// FileDecoder decodes with the image formats registered at build time:
// png, jpeg and gif from the standard library plus bmp, tiff and webp.
type FileDecoder struct{}

func (FileDecoder) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}

	return img, nil
}
