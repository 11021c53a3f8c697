package iris

import "testing"

func TestImageScale(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		wantX, wantY  float32
	}{
		{name: "square", width: 100, height: 100, wantX: 1, wantY: 1},
		{name: "landscape", width: 200, height: 100, wantX: 1, wantY: 0.5},
		{name: "portrait", width: 100, height: 200, wantX: 0.5, wantY: 1},
		{name: "single pixel", width: 1, height: 1, wantX: 1, wantY: 1},
		{name: "extreme landscape", width: 1000, height: 10, wantX: 1, wantY: 0.01},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := imageScale(tc.width, tc.height)

			if !almostEqual(got[0], tc.wantX) || !almostEqual(got[1], tc.wantY) {
				t.Errorf("imageScale(%d, %d) = %v, want {%v, %v}",
					tc.width, tc.height, got, tc.wantX, tc.wantY)
			}

			// the longer axis spans exactly one unit, the other never
			// exceeds it
			if got[0] > 1 || got[1] > 1 || (got[0] != 1 && got[1] != 1) {
				t.Errorf("imageScale(%d, %d) = %v, not normalized to the longer axis",
					tc.width, tc.height, got)
			}
		})
	}
}

func TestLoadTracker(t *testing.T) {
	var tracker loadTracker

	first := tracker.issue()
	second := tracker.issue()

	if first == second {
		t.Fatalf("issue() returned the same token twice: %d", first)
	}

	if tracker.isCurrent(first) {
		t.Errorf("isCurrent(%d) = true for a superseded token", first)
	}

	if !tracker.isCurrent(second) {
		t.Errorf("isCurrent(%d) = false for the latest token", second)
	}

	third := tracker.issue()

	if tracker.isCurrent(second) {
		t.Errorf("isCurrent(%d) = true after issuing %d", second, third)
	}
}
