// SPDX-License-Identifier: EPL-2.0

package automation

import (
	"sync/atomic"
	"time"
)

// Clock counts rendered frames. The render goroutine advances it once per
// block; everything else only reads it.
type Clock struct {
	sampleRate int
	frames     atomic.Int64
}

func NewClock(sampleRate int) *Clock {
	return &Clock{sampleRate: max(sampleRate, 1)}
}

func (c *Clock) SampleRate() int { return c.sampleRate }

// Now returns the number of frames rendered so far.
func (c *Clock) Now() int64 { return c.frames.Load() }

// Advance moves the clock forward by n frames.
func (c *Clock) Advance(n int) { c.frames.Add(int64(n)) }

// Elapsed is Now converted to wall time.
func (c *Clock) Elapsed() time.Duration {
	return c.Duration(c.Now())
}

// Frames converts a duration to a frame count, rounding to the nearest frame.
func (c *Clock) Frames(d time.Duration) int64 {
	return (int64(d)*int64(c.sampleRate) + int64(time.Second)/2) / int64(time.Second)
}

// Duration converts a frame count to wall time.
func (c *Clock) Duration(frames int64) time.Duration {
	return time.Duration(frames * int64(time.Second) / int64(c.sampleRate))
}
