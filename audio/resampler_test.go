// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"testing"

	"github.com/ik5/wavescan/internal/audiotest"
)

func TestResample_Identity(t *testing.T) {
	t.Parallel()

	src := audiotest.Planar(1, 1000, audiotest.Sine(44100, 440))[0]
	got := Resample(src, len(src))

	for i := range src {
		if got[i] != src[i] {
			t.Fatalf("Resample() identity changed sample %d: %v != %v", i, got[i], src[i])
		}
	}
}

func TestResample_LengthContract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m, n int
	}{
		{1, 1},
		{1, 2048},
		{100, 2048},
		{2048, 100},
		{4096, 2048},
		{3, 7},
		{7, 3},
		{999, 1000},
	}

	for _, tt := range tests {
		src := audiotest.Planar(1, tt.m, audiotest.Sine(8000, 300))[0]
		got := Resample(src, tt.n)
		if len(got) != tt.n {
			t.Errorf("Resample(len=%d, %d) returned %d samples", tt.m, tt.n, len(got))
		}
		for i, v := range got {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("Resample(len=%d, %d)[%d] = %v", tt.m, tt.n, i, v)
			}
		}
	}
}

func TestResample_EmptyInput(t *testing.T) {
	t.Parallel()

	got := Resample(nil, 16)
	if len(got) != 16 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("got[%d] = %v, want 0", i, v)
		}
	}

	if out := Resample([]float32{1, 2, 3}, 0); len(out) != 0 {
		t.Errorf("Resample(n=0) returned %d samples", len(out))
	}
}

func TestResample_ConstantIsPreserved(t *testing.T) {
	t.Parallel()

	// weight normalisation must keep DC exact, including at the truncated edges
	src := audiotest.Planar(1, 300, audiotest.Constant(0.5))[0]
	for _, n := range []int{50, 299, 301, 2048} {
		for i, v := range Resample(src, n) {
			if math.Abs(float64(v-0.5)) > 1e-5 {
				t.Fatalf("n=%d: got[%d] = %v, want 0.5", n, i, v)
			}
		}
	}
}

func TestResample_UpsampledSineKeepsShape(t *testing.T) {
	t.Parallel()

	// one period of a sine in 100 samples, stretched to 2048
	src := make([]float32, 100)
	for i := range src {
		src[i] = float32(math.Sin(2 * math.Pi * (float64(i) + 0.5) / 100))
	}
	got := Resample(src, 2048)

	// away from the edges the result must follow the continuous sine
	for j := 200; j < 1848; j++ {
		want := math.Sin(2 * math.Pi * (float64(j) + 0.5) / 2048)
		if d := math.Abs(float64(got[j]) - want); d > 0.01 {
			t.Fatalf("got[%d] = %v, want %v (diff %v)", j, got[j], want, d)
		}
	}
}

func TestResample_DownsamplingAttenuatesAboveNyquist(t *testing.T) {
	t.Parallel()

	// alternating +1/-1 is at the input Nyquist frequency; halving the length
	// must filter it out rather than alias it to DC
	src := make([]float32, 4096)
	for i := range src {
		if i%2 == 0 {
			src[i] = 1
		} else {
			src[i] = -1
		}
	}
	got := Resample(src, 2048)

	var energy float64
	for _, v := range got[64 : len(got)-64] {
		energy += float64(v) * float64(v)
	}
	rms := math.Sqrt(energy / float64(len(got)-128))
	if rms > 0.05 {
		t.Errorf("downsampled Nyquist tone rms = %v, want < 0.05", rms)
	}
}

func TestLanczos_SpecialCases(t *testing.T) {
	t.Parallel()

	if got := lanczos(0, 6); got != 1 {
		t.Errorf("lanczos(0) = %v, want 1", got)
	}
	if got := lanczos(1e-10, 6); got != 1 {
		t.Errorf("lanczos(~0) = %v, want 1", got)
	}
	for _, x := range []float64{6, -6, 7.5, -100} {
		if got := lanczos(x, 6); got != 0 {
			t.Errorf("lanczos(%v) = %v, want 0", x, got)
		}
	}
	if got := lanczos(2, 6); math.Abs(got) > 1e-12 {
		t.Errorf("lanczos(2) = %v, want ~0", got)
	}
}

func TestResampleInto_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := audiotest.Planar(1, 100, audiotest.Sine(44100, 441))[0]
	dst := make([]float32, 2048)

	allocs := testing.AllocsPerRun(20, func() {
		ResampleInto(dst, src)
	})
	if allocs > 0 {
		t.Errorf("ResampleInto allocated %v times, want 0", allocs)
	}
}

func BenchmarkResample_PeriodToFrame(b *testing.B) {
	src := audiotest.Planar(1, 100, audiotest.Sine(44100, 441))[0]
	dst := make([]float32, 2048)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		ResampleInto(dst, src)
	}
}

func BenchmarkResample_Downsample(b *testing.B) {
	src := audiotest.Planar(1, 44100, audiotest.Sine(44100, 441))[0]
	dst := make([]float32, 8000)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		ResampleInto(dst, src)
	}
}
