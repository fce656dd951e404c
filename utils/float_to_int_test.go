// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloatToPCM16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, 0},
		{"max positive", 1, math.MaxInt16},
		{"max negative", -1, math.MinInt16},
		{"half positive", 0.5, 16383},
		{"half negative", -0.5, -16384},
		{"small positive", 0.001, 32},
		{"small negative", -0.001, -32},
		{"clamp over max", 1.5, math.MaxInt16},
		{"clamp under min", -1.5, math.MinInt16},
		{"clamp way over max", 100, math.MaxInt16},
		{"clamp way under min", -100, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FloatToPCM16(tt.input); got != tt.want {
				t.Errorf("FloatToPCM16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPCM16_RoundTrip(t *testing.T) {
	t.Parallel()

	// one LSB of either scale
	const tolerance = 1.0 / 0x7fff

	for f := -1.0; f <= 1.0; f += 0.001 {
		back := PCM16ToFloat(FloatToPCM16(float32(f)))
		if d := math.Abs(float64(back) - f); d > tolerance {
			t.Fatalf("round trip of %v = %v (diff %v)", f, back, d)
		}
	}

	if PCM16ToFloat(math.MinInt16) != -1 || PCM16ToFloat(math.MaxInt16) != 1 {
		t.Error("PCM16ToFloat does not map the extremes to ±1")
	}
}

func TestFloatToPCM16_Monotonic(t *testing.T) {
	t.Parallel()

	prev := FloatToPCM16(-1)
	for f := -0.999; f <= 1.0; f += 0.001 {
		curr := FloatToPCM16(float32(f))
		if curr < prev {
			t.Fatalf("not monotonic at %v: %v < %v", f, curr, prev)
		}
		prev = curr
	}
}

func TestClampAndLerp(t *testing.T) {
	t.Parallel()

	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.3, 0, 1) != 0.3 {
		t.Error("Clamp returned an unexpected value")
	}
	if Lerp(2, 4, 0.5) != 3 || Lerp(2, 4, 0) != 2 || Lerp(2, 4, 1) != 4 {
		t.Error("Lerp returned an unexpected value")
	}
}

func TestFloatToPCM16_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	in := make([]float32, 1024)
	out := make([]int16, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		for i := range in {
			out[i] = FloatToPCM16(in[i])
		}
	})
	if allocs > 0 {
		t.Errorf("FloatToPCM16 allocated %v times, want 0", allocs)
	}
}

func BenchmarkFloatToPCM16(b *testing.B) {
	in := make([]float32, 8000)
	out := make([]int16, 8000)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) * 0.1))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		for j := range in {
			out[j] = FloatToPCM16(in[j])
		}
	}
}
