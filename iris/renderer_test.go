package iris

import "testing"

func TestTargetSpecUpdate(t *testing.T) {
	var spec targetSpec

	steps := []struct {
		name          string
		width, height uint32
		want          bool
	}{
		{name: "first size allocates", width: 100, height: 100, want: true},
		{name: "same size is a no-op", width: 100, height: 100, want: false},
		{name: "changed size reallocates", width: 200, height: 150, want: true},
		{name: "zero width is ignored", width: 0, height: 150, want: false},
		{name: "zero height is ignored", width: 200, height: 0, want: false},
		{name: "previous size still current", width: 200, height: 150, want: false},
	}

	for _, step := range steps {
		if got := spec.update(step.width, step.height); got != step.want {
			t.Errorf("%s: update(%d, %d) = %v, want %v",
				step.name, step.width, step.height, got, step.want)
		}
	}

	if spec.width != 200 || spec.height != 150 {
		t.Errorf("spec = %dx%d, want 200x150", spec.width, spec.height)
	}
}
