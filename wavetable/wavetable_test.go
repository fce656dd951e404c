// SPDX-License-Identifier: EPL-2.0

package wavetable

import (
	"math"
	"testing"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/internal/audiotest"
)

func monoBuffer(rate, frames int, w audiotest.Waveform) *audio.Buffer {
	return audio.NewMonoBuffer(rate, audiotest.Planar(1, frames, w)[0])
}

func checkInvariant(t *testing.T, fs FrameSet) {
	t.Helper()

	if fs.Len() < MinFrames {
		t.Fatalf("Len() = %d, want >= %d", fs.Len(), MinFrames)
	}
	for i, f := range fs {
		if len(f) != FrameSize {
			t.Fatalf("frame %d has %d samples, want %d", i, len(f), FrameSize)
		}
	}
	if !fs.Valid() {
		t.Fatal("Valid() = false")
	}
}

// signChanges counts sign flips, ignoring values too small to matter.
func signChanges(f Frame) int {
	changes, prev := 0, 0
	for _, v := range f {
		s := 0
		switch {
		case v > 1e-3:
			s = 1
		case v < -1e-3:
			s = -1
		}
		if s != 0 {
			if prev != 0 && s != prev {
				changes++
			}
			prev = s
		}
	}
	return changes
}

func TestExtract_FrameInvariant(t *testing.T) {
	t.Parallel()

	stereo, _ := audio.NewBuffer(44100, audiotest.Planar(2, 30000, audiotest.Sine(44100, 220)))

	tests := []struct {
		name string
		buf  *audio.Buffer
	}{
		{"nil buffer", nil},
		{"empty", audio.NewMonoBuffer(44100, nil)},
		{"one sample", audio.NewMonoBuffer(44100, []float32{1})},
		{"shorter than a frame", monoBuffer(44100, 100, audiotest.Sine(44100, 440))},
		{"shorter than the window", monoBuffer(44100, 3000, audiotest.Sine(44100, 440))},
		{"silence", monoBuffer(44100, 88200, audiotest.Constant(0))},
		{"dc offset", monoBuffer(44100, 20000, audiotest.Constant(0.5))},
		{"sine", monoBuffer(44100, 88200, audiotest.Sine(44100, 440))},
		{"noise", monoBuffer(44100, 88200, audiotest.Noise(1, 1))},
		{"stereo", stereo},
		{"low sample rate", monoBuffer(8000, 16000, audiotest.Sine(8000, 100))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			checkInvariant(t, Extract(tt.buf, DefaultOptions()))
		})
	}
}

func TestExtract_SineUsesSingleCycles(t *testing.T) {
	t.Parallel()

	fs := Extract(monoBuffer(44100, 88200, audiotest.Sine(44100, 440)), DefaultOptions())
	checkInvariant(t, fs)

	for i, f := range fs {
		// one period starting on a rising crossing: + then -
		if n := signChanges(f); n < 1 || n > 3 {
			t.Fatalf("frame %d has %d sign changes, want a single cycle", i, n)
		}
		if f[0] != 0 || f[FrameSize-1] != 0 {
			t.Fatalf("frame %d is not windowed at its edges", i)
		}
	}
}

func TestExtract_NoiseFallsBack(t *testing.T) {
	t.Parallel()

	mono := audiotest.Planar(1, 88200, audiotest.Noise(42, 1))[0]
	fs := ExtractMono(mono, 44100, DefaultOptions())

	// 50% overlapping FrameSize segments across the whole signal
	want := (len(mono)-FrameSize)/(FrameSize/2) + 1
	if fs.Len() != want {
		t.Fatalf("Len() = %d, want %d overlapping segments", fs.Len(), want)
	}

	hann := hannWindow(FrameSize)
	second := fs[1]
	for i := range FrameSize {
		exp := mono[FrameSize/2+i] * hann[i]
		if second[i] != exp {
			t.Fatalf("segment 1 sample %d = %v, want %v", i, second[i], exp)
		}
	}
}

func TestExtract_ShortInputIsPadded(t *testing.T) {
	t.Parallel()

	mono := []float32{0.5, 0.5, 0.5}
	fs := ExtractMono(mono, 44100, DefaultOptions())
	checkInvariant(t, fs)

	for i := 1; i < fs.Len(); i++ {
		for j := range FrameSize {
			if fs[i][j] != fs[0][j] {
				t.Fatalf("padded frame %d differs at %d", i, j)
			}
		}
	}
	if &fs[1][0] == &fs[0][0] {
		t.Error("padded frames share storage")
	}
	for j := 3; j < FrameSize; j++ {
		if fs[0][j] != 0 {
			t.Fatalf("zero padding missing at %d", j)
		}
	}
}

func TestExtract_MinFramesOption(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.MinFrames = 64
	fs := Extract(monoBuffer(44100, 10000, audiotest.Sine(44100, 440)), opts)
	if fs.Len() < 64 {
		t.Errorf("Len() = %d, want >= 64", fs.Len())
	}
}

func TestPitchDetector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rate int
		freq float64
	}{
		{"a4", 44100, 440},
		{"low e", 44100, 82.41},
		{"1k at 48k", 48000, 1000},
		{"high", 44100, 3520},
	}

	d := NewPitchDetector()
	for _, tt := range tests {
		x := audiotest.Planar(1, 4096, audiotest.Sine(tt.rate, tt.freq))[0]
		freq, clarity := d.Detect(x, tt.rate)
		if math.Abs(freq-tt.freq)/tt.freq > 0.005 {
			t.Errorf("%s: freq = %v, want %v", tt.name, freq, tt.freq)
		}
		if clarity < 0.95 {
			t.Errorf("%s: clarity = %v, want >= 0.95", tt.name, clarity)
		}
	}

	if _, c := d.Detect(make([]float32, 4096), 44100); c != 0 {
		t.Errorf("silence clarity = %v, want 0", c)
	}
	noise := audiotest.Planar(1, 4096, audiotest.Noise(3, 1))[0]
	if _, c := d.Detect(noise, 44100); c >= 0.9 {
		t.Errorf("noise clarity = %v, want < 0.9", c)
	}
	if f, c := d.Detect([]float32{1, 2}, 44100); f != 0 || c != 0 {
		t.Errorf("tiny input = %v, %v", f, c)
	}
}

func TestNearestZeroCrossing(t *testing.T) {
	t.Parallel()

	x := []float32{-1, 1, 1, 1, -1, -1, -1, 1, 1, 1}
	tests := []struct {
		center, period, want int
	}{
		{5, 3, 7},
		{3, 3, 1},
		{5, 1, 5}, // nothing in range
		{4, 3, 1}, // tie goes to the earlier crossing
	}
	for _, tt := range tests {
		if got := nearestZeroCrossing(x, tt.center, tt.period); got != tt.want {
			t.Errorf("nearestZeroCrossing(center=%d, period=%d) = %d, want %d", tt.center, tt.period, got, tt.want)
		}
	}
}

func TestFrameSet_Clone(t *testing.T) {
	t.Parallel()

	fs := ExtractMono(audiotest.Planar(1, 5000, audiotest.Sine(44100, 440))[0], 44100, DefaultOptions())
	c := fs.Clone()
	c[0][100] = 42
	if fs[0][100] == 42 {
		t.Error("Clone shares storage with the original")
	}
	if c.Len() != fs.Len() || c.FrameSize() != FrameSize {
		t.Errorf("Clone() = %d x %d", c.Len(), c.FrameSize())
	}
	if FrameSet(nil).Clone() != nil {
		t.Error("nil Clone should stay nil")
	}
	if (FrameSet{make(Frame, 4), make(Frame, 5)}).Valid() {
		t.Error("ragged set reported valid")
	}
}

func TestOptions_Normalize(t *testing.T) {
	t.Parallel()

	got := Options{Confidence: 2, MaxFreq: 5, MinFreq: 10}.normalize()
	d := DefaultOptions()
	if got.WindowSize != d.WindowSize || got.Confidence != d.Confidence || got.MaxFreq != d.MaxFreq || got.MinFrames != d.MinFrames {
		t.Errorf("normalize() = %+v", got)
	}
	if got.MinFreq != 10 {
		t.Errorf("MinFreq = %v, want 10 kept", got.MinFreq)
	}

	for _, n := range []int{-3, 0, 1, MinFrames - 1} {
		if got := (Options{MinFrames: n}).normalize(); got.MinFrames != MinFrames {
			t.Errorf("MinFrames %d normalized to %d, want %d", n, got.MinFrames, MinFrames)
		}
	}
	if got := (Options{MinFrames: 32}).normalize(); got.MinFrames != 32 {
		t.Errorf("MinFrames 32 normalized to %d, want 32", got.MinFrames)
	}
}

func TestExtract_MinFramesNeverBelowFloor(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.MinFrames = 2
	fs := Extract(monoBuffer(44100, 100, audiotest.Constant(0.25)), opts)
	if fs.Len() < MinFrames {
		t.Errorf("Len() = %d with MinFrames 2, want >= %d", fs.Len(), MinFrames)
	}
}

func BenchmarkExtract_Sine(b *testing.B) {
	buf := monoBuffer(44100, 88200, audiotest.Sine(44100, 440))

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = Extract(buf, DefaultOptions())
	}
}
