package iris

// Frame is one rendered viewport image read back from the GPU. Pixels holds
// RGBA8 scanlines, each padded to Stride bytes.
type Frame struct {
	Width  uint32
	Height uint32
	Stride uint32
	Pixels []byte
}

// DisplaySink receives every rendered frame. The host owns converting a
// frame into its native display primitive.
type DisplaySink interface {
	Present(frame Frame)
}

// buffers that are mapped for reading must have their rows aligned
// to 256 bytes
const rowAlignment = 256

func paddedBytesPerRow(width uint32) uint32 {
	unpadded := width * 4
	padding := (rowAlignment - unpadded%rowAlignment) % rowAlignment
	return unpadded + padding
}
