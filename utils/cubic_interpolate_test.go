// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
	}{
		{"start is y1", 0, 1, 2, 3, 0, 1},
		{"end is y2", 0, 1, 2, 3, 1, 2},
		{"linear midpoint", 0, 1, 2, 3, 0.5, 1.5},
		{"linear quarter", 1, 2, 3, 4, 0.25, 2.25},
		{"constant", 0.5, 0.5, 0.5, 0.5, 0.7, 0.5},
		{"symmetric peak", 0, 1, 1, 0, 0.5, 1.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CubicInterpolate(%v, %v, %v, %v, %v) = %v, want %v",
					tt.y0, tt.y1, tt.y2, tt.y3, tt.x, got, tt.want)
			}
		})
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var sink float32
	b.ReportAllocs()
	for b.Loop() {
		sink = CubicInterpolate(0.1, 0.5, -0.3, 0.2, 0.37)
	}
	_ = sink
}
