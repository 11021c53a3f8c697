package iris

import "testing"

func TestPaddedBytesPerRow(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{width: 1, want: 256},
		{width: 63, want: 256},
		{width: 64, want: 256},
		{width: 65, want: 512},
		{width: 100, want: 512},
		{width: 128, want: 512},
		{width: 256, want: 1024},
		{width: 1200, want: 4864},
	}

	for _, tc := range tests {
		got := paddedBytesPerRow(tc.width)

		if got != tc.want {
			t.Errorf("paddedBytesPerRow(%d) = %d, want %d", tc.width, got, tc.want)
		}

		if got%rowAlignment != 0 {
			t.Errorf("paddedBytesPerRow(%d) = %d, not aligned to %d", tc.width, got, rowAlignment)
		}

		if got < tc.width*4 {
			t.Errorf("paddedBytesPerRow(%d) = %d, smaller than the unpadded row", tc.width, got)
		}
	}
}
