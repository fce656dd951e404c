// SPDX-License-Identifier: EPL-2.0

// Package wavetable turns a recording into a set of single-cycle frames for
// phase-accumulator playback.
//
// Extract first tries pitch-synchronous extraction: an analysis window slides
// over the mono mix at a 50% hop, each window's fundamental is estimated with
// PitchDetector, and one period starting at the nearest rising zero crossing
// is resampled to FrameSize and Hann windowed. Material without a stable
// pitch falls back to overlapping Hann segments, and anything shorter than a
// frame becomes a single zero-padded frame. The result is padded to MinFrames
// by repeating the last frame.
//
//	frames := wavetable.Extract(buf, wavetable.DefaultOptions())
package wavetable
