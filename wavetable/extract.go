// SPDX-License-Identifier: EPL-2.0

package wavetable

import (
	"math"

	"github.com/mjibson/go-dsp/window"

	"github.com/ik5/wavescan/audio"
)

// Extract derives a FrameSet from buf. It never fails: silent, noisy or very
// short input degrades to overlapping segments or a single padded frame, and
// the result always holds at least opts.MinFrames frames of FrameSize.
func Extract(buf *audio.Buffer, opts Options) FrameSet {
	if buf == nil {
		return ExtractMono(nil, 0, opts)
	}
	return ExtractMono(buf.Mono(), buf.SampleRate(), opts)
}

// ExtractMono is Extract for a signal that is already mono.
func ExtractMono(mono []float32, sampleRate int, opts Options) FrameSet {
	opts = opts.normalize()
	hann := hannWindow(FrameSize)

	var frames FrameSet
	if len(mono) >= opts.WindowSize && sampleRate > 0 {
		frames = pitchSynchronous(mono, sampleRate, opts, hann)
	}
	if len(frames) < opts.MinFrames {
		frames = overlapping(mono, hann)
	}
	if len(frames) == 0 {
		frames = FrameSet{single(mono, hann)}
	}

	return pad(frames, opts.MinFrames)
}

func pitchSynchronous(mono []float32, sampleRate int, opts Options, hann []float32) FrameSet {
	var (
		frames   FrameSet
		detector = NewPitchDetector()
		hop      = opts.WindowSize / 2
	)

	for pos := 0; pos+opts.WindowSize <= len(mono); pos += hop {
		freq, clarity := detector.Detect(mono[pos:pos+opts.WindowSize], sampleRate)
		if clarity < opts.Confidence || freq < opts.MinFreq || freq > opts.MaxFreq {
			continue
		}

		period := int(math.Round(float64(sampleRate) / freq))
		if period < 2 {
			continue
		}

		start := nearestZeroCrossing(mono, pos+opts.WindowSize/2, period)
		if start+period > len(mono) {
			continue
		}

		f := make(Frame, FrameSize)
		audio.ResampleInto(f, mono[start:start+period])
		applyWindow(f, hann)
		frames = append(frames, f)
	}

	return frames
}

// nearestZeroCrossing returns the rising zero crossing closest to center
// within one period on either side, or center itself if there is none.
func nearestZeroCrossing(x []float32, center, period int) int {
	lo := max(center-period, 1)
	hi := min(center+period, len(x)-1)

	best, bestDist := center, period+1
	for i := lo; i <= hi; i++ {
		if x[i-1] < 0 && x[i] >= 0 {
			d := i - center
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	return best
}

// overlapping cuts FrameSize segments at a hop of FrameSize/2.
func overlapping(mono []float32, hann []float32) FrameSet {
	var frames FrameSet
	for pos := 0; pos+FrameSize <= len(mono); pos += FrameSize / 2 {
		f := make(Frame, FrameSize)
		copy(f, mono[pos:pos+FrameSize])
		applyWindow(f, hann)
		frames = append(frames, f)
	}
	return frames
}

// single windows the head of mono, zero padded to FrameSize.
func single(mono []float32, hann []float32) Frame {
	f := make(Frame, FrameSize)
	copy(f, mono)
	applyWindow(f, hann)
	return f
}

// pad repeats the last frame until there are at least n frames.
func pad(frames FrameSet, n int) FrameSet {
	if len(frames) == 0 {
		return frames
	}
	last := frames[len(frames)-1]
	for len(frames) < n {
		dup := make(Frame, len(last))
		copy(dup, last)
		frames = append(frames, dup)
	}
	return frames
}

func hannWindow(n int) []float32 {
	w := window.Hann(n)
	out := make([]float32, n)
	for i, v := range w {
		out[i] = float32(v)
	}
	return out
}

func applyWindow(f Frame, w []float32) {
	for i := range f {
		f[i] *= w[i]
	}
}
