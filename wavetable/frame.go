// SPDX-License-Identifier: EPL-2.0

package wavetable

const (
	// FrameSize is the number of samples in every single-cycle frame.
	FrameSize = 2048
	// MinFrames is the smallest FrameSet Extract returns.
	MinFrames = 8
)

// Frame is one windowed single-cycle waveform of FrameSize samples.
type Frame []float32

// FrameSet is an ordered list of frames of equal length. It is not modified
// after extraction; hand a Clone to anything that runs on another goroutine.
type FrameSet []Frame

// Len returns the number of frames.
func (fs FrameSet) Len() int { return len(fs) }

// FrameSize returns the length of the frames, or 0 for an empty set.
func (fs FrameSet) FrameSize() int {
	if len(fs) == 0 {
		return 0
	}
	return len(fs[0])
}

// Valid reports whether the set is non-empty and every frame has the same,
// non-zero length.
func (fs FrameSet) Valid() bool {
	n := fs.FrameSize()
	if n == 0 {
		return false
	}
	for _, f := range fs {
		if len(f) != n {
			return false
		}
	}
	return true
}

// Clone returns a deep copy with its own sample storage.
func (fs FrameSet) Clone() FrameSet {
	if fs == nil {
		return nil
	}
	n := fs.FrameSize()
	backing := make([]float32, n*len(fs))
	out := make(FrameSet, len(fs))
	for i, f := range fs {
		dst := backing[i*n : (i+1)*n : (i+1)*n]
		copy(dst, f)
		out[i] = dst
	}
	return out
}
