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
		tolerance      float32
	}{
		{"start returns y1", 0, 1, 2, 3, 0, 1, 0},
		{"end returns y2", 0, 1, 2, 3, 1, 2, 0},
		{"linear data stays linear", 1, 2, 3, 4, 0.25, 2.25, 1e-6},
		{"symmetric crossing", -1, -0.5, 0.5, 1, 0.5, 0, 1e-6},
		{"flat", 0.3, 0.3, 0.3, 0.3, 0.7, 0.3, 1e-6},
		{"peak overshoot is bounded", 0.5, 0.9, 0.7, 0.3, 0.3, 0.85, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if d := float32(math.Abs(float64(got - tt.want))); d > tt.tolerance {
				t.Errorf("CubicInterpolate() = %v, want %v (diff %v)", got, tt.want, d)
			}
		})
	}
}

func TestCubicInterpolate_TracksSine(t *testing.T) {
	t.Parallel()

	// 64 samples per period is dense enough for the spline to be near exact
	const step = 2 * math.Pi / 64
	for i := 1; i < 62; i++ {
		y0 := float32(math.Sin(float64(i-1) * step))
		y1 := float32(math.Sin(float64(i) * step))
		y2 := float32(math.Sin(float64(i+1) * step))
		y3 := float32(math.Sin(float64(i+2) * step))
		got := CubicInterpolate(y0, y1, y2, y3, 0.5)
		want := math.Sin((float64(i) + 0.5) * step)
		if math.Abs(float64(got)-want) > 1e-3 {
			t.Fatalf("i=%d: got %v, want %v", i, got, want)
		}
	}
}

func TestCubicInterpolate_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = CubicInterpolate(0.5, 1.0, 0.8, 0.3, 0.5)
	})
	if allocs > 0 {
		t.Errorf("CubicInterpolate allocated %v times, want 0", allocs)
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	samples := make([]float32, 8000)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		for j := range samples {
			x := float32(j%100) / 100
			samples[j] = CubicInterpolate(0.1, 0.5, 0.3, -0.2, x)
		}
	}
}
