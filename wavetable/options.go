// SPDX-License-Identifier: EPL-2.0

package wavetable

// Options tunes the extractor. The thresholds were chosen empirically and
// may be recalibrated without breaking any other part of the engine.
type Options struct {
	// WindowSize is the pitch analysis window in samples. Buffers shorter
	// than this skip straight to the fallback path.
	WindowSize int
	// Confidence is the minimum detector clarity, in [0,1], for a window to
	// contribute a pitch-synchronous frame.
	Confidence float64
	// MinFreq and MaxFreq bound accepted pitch estimates in Hz.
	MinFreq float64
	MaxFreq float64
	// MinFrames is both the fallback trigger and the padding target. It
	// can be raised but never lowered below the package MinFrames.
	MinFrames int
}

// DefaultOptions returns the stock extractor settings.
func DefaultOptions() Options {
	return Options{
		WindowSize: 4096,
		Confidence: 0.9,
		MinFreq:    20,
		MaxFreq:    20000,
		MinFrames:  MinFrames,
	}
}

func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.WindowSize < 64 {
		o.WindowSize = d.WindowSize
	}
	if o.Confidence <= 0 || o.Confidence > 1 {
		o.Confidence = d.Confidence
	}
	if o.MinFreq <= 0 {
		o.MinFreq = d.MinFreq
	}
	if o.MaxFreq <= o.MinFreq {
		o.MaxFreq = d.MaxFreq
	}
	o.MinFrames = max(o.MinFrames, MinFrames)
	return o
}
