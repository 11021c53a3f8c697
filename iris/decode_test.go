package iris

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFileDecoderDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	img, err := FileDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("Decode() = %v, want nil", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 4 {
		t.Errorf("Bounds() = %v, want 8x4", bounds)
	}
}

func TestFileDecoderMissingFile(t *testing.T) {
	_, err := FileDecoder{}.Decode(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("Decode() = nil, want error for missing file")
	}
}

func TestFileDecoderCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")

	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := FileDecoder{}.Decode(path)
	if err == nil {
		t.Fatal("Decode() = nil, want error for corrupt file")
	}
}
