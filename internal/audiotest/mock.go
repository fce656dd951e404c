// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates deterministic test signals, both as streaming
// sources and as planar sample slices.
package audiotest

import (
	"io"
	"math"
	"math/rand/v2"
)

// Waveform returns the value of a sample given its frame index and channel.
type Waveform func(frame, channel int) float32

// Sine is a unit-amplitude sine at freq Hz.
func Sine(sampleRate int, freq float64) Waveform {
	return func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * freq * t))
	}
}

// Constant holds value on every channel.
func Constant(value float32) Waveform {
	return func(int, int) float32 { return value }
}

// Noise is uniform white noise in [-amp, amp] from a fixed seed.
// The returned Waveform is only valid for in-order, single pass use.
func Noise(seed uint64, amp float32) Waveform {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(int, int) float32 {
		return (rng.Float32()*2 - 1) * amp
	}
}

// Planar renders frames samples of w into per-channel slices.
func Planar(channels, frames int, w Waveform) [][]float32 {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	for i := range frames {
		for c := range channels {
			out[c][i] = w(i, c)
		}
	}
	return out
}

// MockSource streams a Waveform as interleaved samples.
// It satisfies audio.Source without importing it.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	waveform   Waveform
}

// NewMockSource creates a source producing frames frames of w.
func NewMockSource(sampleRate, channels, frames int, w Waveform) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   w,
	}
}

func NewSineSource(sampleRate, channels, frames int, freq float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Sine(sampleRate, freq))
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Constant(0))
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the source.
func (m *MockSource) Reset() { m.pos = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.pos+f, c)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
