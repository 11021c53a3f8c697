package glm

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestOrthographic(t *testing.T) {
	tests := []struct {
		name  string
		proj  Mat4f
		point Vec4f
		want  Vec4f
	}{
		{
			name:  "center maps to origin",
			proj:  Orthographic[float32](-1, 1, -1, 1, -1, 1),
			point: Vec4f{0, 0, 0, 1},
			want:  Vec4f{0, 0, 0.5, 1},
		},
		{
			name:  "right edge maps to clip x one",
			proj:  Orthographic[float32](-1, 1, -1, 1, -1, 1),
			point: Vec4f{1, 0, 0, 1},
			want:  Vec4f{1, 0, 0.5, 1},
		},
		{
			name:  "top edge maps to clip y one",
			proj:  Orthographic[float32](-2, 2, -1, 1, -1, 1),
			point: Vec4f{0, 1, 0, 1},
			want:  Vec4f{0, 1, 0.5, 1},
		},
		{
			name:  "wide region halves x",
			proj:  Orthographic[float32](-2, 2, -1, 1, -1, 1),
			point: Vec4f{1, 0, 0, 1},
			want:  Vec4f{0.5, 0, 0.5, 1},
		},
		{
			name:  "off center region",
			proj:  Orthographic[float32](0, 2, 0, 2, -1, 1),
			point: Vec4f{1, 1, 0, 1},
			want:  Vec4f{0, 0, 0.5, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.proj.Transform(tc.point)

			for idx := range got {
				if !almostEqual(got[idx], tc.want[idx]) {
					t.Errorf("Transform(%v) = %v, want %v", tc.point, got, tc.want)
					break
				}
			}
		})
	}
}

func TestMat4Mul(t *testing.T) {
	translate := TranslationMat4[float32](1, 2, 3)
	scale := ScaleMat4[float32](2, 2, 2)

	// scale first, then translate
	combined := translate.Mul(scale)

	got := combined.Transform(Vec4f{1, 1, 1, 1})
	want := Vec4f{3, 4, 5, 1}

	if got != want {
		t.Errorf("Transform() = %v, want %v", got, want)
	}
}

func TestMat4IdentityIsNeutral(t *testing.T) {
	m := TranslationMat4[float32](4, 5, 6).Scale(2, 3, 4)

	if got := m.Mul(IdentityMat4[float32]()); got != m {
		t.Errorf("m * identity = %v, want %v", got, m)
	}

	if got := IdentityMat4[float32]().Mul(m); got != m {
		t.Errorf("identity * m = %v, want %v", got, m)
	}
}
