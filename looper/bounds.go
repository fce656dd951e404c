// SPDX-License-Identifier: EPL-2.0

package looper

import (
	"math"

	"github.com/ik5/wavescan/utils"
)

// MinSeparation is the smallest allowed distance between loop start and end,
// as a fraction of the buffer.
const MinSeparation = 0.01

// Bounds are loop markers as fractions of buffer duration. Values produced
// by the With methods always satisfy 0 <= Start <= End-MinSeparation and
// End <= 1.
type Bounds struct {
	Start float64
	End   float64
}

// FullBounds loops the whole buffer.
func FullBounds() Bounds { return Bounds{Start: 0, End: 1} }

// WithStart moves the start marker, pushing End out if needed.
func (b Bounds) WithStart(start float64) Bounds {
	b.Start = utils.Clamp(finite(start, 0), 0, 1-MinSeparation)
	if b.End < b.Start+MinSeparation {
		b.End = b.Start + MinSeparation
	}
	b.End = math.Min(b.End, 1)
	return b
}

// WithEnd moves the end marker, keeping it at least MinSeparation past
// Start.
func (b Bounds) WithEnd(end float64) Bounds {
	b.End = utils.Clamp(finite(end, 1), MinSeparation, 1)
	if b.End < b.Start+MinSeparation {
		b.End = math.Min(b.Start+MinSeparation, 1)
	}
	return b
}

// Frames converts the markers to frame indexes for a buffer of n frames.
func (b Bounds) Frames(n int) (start, end int) {
	return int(math.Floor(b.Start * float64(n))), int(math.Floor(b.End * float64(n)))
}

func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
