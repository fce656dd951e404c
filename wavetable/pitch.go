// SPDX-License-Identifier: EPL-2.0

package wavetable

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// keyMaximumRatio picks the first NSDF key maximum within this fraction of
// the highest one, which favours the fundamental over its sub-octaves.
const keyMaximumRatio = 0.93

// PitchDetector estimates the fundamental of a window with the McLeod pitch
// method: a normalised square difference function computed from an FFT
// autocorrelation, followed by key-maximum peak picking.
//
// A PitchDetector reuses its scratch buffers and is not safe for concurrent
// use.
type PitchDetector struct {
	padded []float64
	nsdf   []float64
}

func NewPitchDetector() *PitchDetector {
	return &PitchDetector{}
}

// Detect returns the estimated frequency in Hz and the clarity of the
// estimate in [0,1]. Silent or unpitched input returns a clarity near 0.
func (p *PitchDetector) Detect(x []float32, sampleRate int) (freq, clarity float64) {
	w := len(x)
	if w < 4 || sampleRate <= 0 {
		return 0, 0
	}

	size := 1
	for size < 2*w {
		size <<= 1
	}
	if cap(p.padded) < size {
		p.padded = make([]float64, size)
	}
	p.padded = p.padded[:size]
	clear(p.padded)

	var energy float64
	for i, v := range x {
		p.padded[i] = float64(v)
		energy += float64(v) * float64(v)
	}
	if energy < 1e-12 {
		return 0, 0
	}

	// autocorrelation through the power spectrum; IFFT already divides by size
	spec := fft.FFTReal(p.padded)
	for i, c := range spec {
		re, im := real(c), imag(c)
		spec[i] = complex(re*re+im*im, 0)
	}
	acf := fft.IFFT(spec)

	maxLag := w / 2
	if cap(p.nsdf) < maxLag {
		p.nsdf = make([]float64, maxLag)
	}
	nsdf := p.nsdf[:maxLag]

	m := 2 * energy
	for tau := range maxLag {
		if tau > 0 {
			a, b := float64(x[tau-1]), float64(x[w-tau])
			m -= a*a + b*b
		}
		if m <= 1e-12 {
			nsdf[tau] = 0
			continue
		}
		nsdf[tau] = 2 * real(acf[tau]) / m
	}

	tau, value := pickPeak(nsdf)
	if tau <= 0 {
		return 0, 0
	}
	return float64(sampleRate) / tau, math.Min(value, 1)
}

// pickPeak returns the interpolated lag and height of the chosen key maximum,
// or a lag of 0 if none exists.
func pickPeak(nsdf []float64) (float64, float64) {
	type peak struct {
		index int
		value float64
	}
	var (
		peaks   []peak
		highest float64
	)

	// skip the lobe around lag 0
	i := 1
	for i < len(nsdf) && nsdf[i] > 0 {
		i++
	}

	for i < len(nsdf) {
		for i < len(nsdf) && nsdf[i] <= 0 {
			i++
		}
		best := -1
		for ; i < len(nsdf) && nsdf[i] > 0; i++ {
			if best < 0 || nsdf[i] > nsdf[best] {
				best = i
			}
		}
		// a lobe cut off by the end of the lag range is not a key maximum
		if best > 0 && i < len(nsdf) {
			peaks = append(peaks, peak{best, nsdf[best]})
			highest = math.Max(highest, nsdf[best])
		}
	}

	for _, pk := range peaks {
		if pk.value >= keyMaximumRatio*highest {
			return interpolatePeak(nsdf, pk.index)
		}
	}
	return 0, 0
}

// interpolatePeak refines a discrete maximum with a parabola through its
// neighbours.
func interpolatePeak(y []float64, i int) (float64, float64) {
	if i <= 0 || i >= len(y)-1 {
		return float64(i), y[i]
	}
	a, b, c := y[i-1], y[i], y[i+1]
	den := a - 2*b + c
	if math.Abs(den) < 1e-12 {
		return float64(i), b
	}
	d := 0.5 * (a - c) / den
	return float64(i) + d, b - 0.25*(a-c)*d
}
