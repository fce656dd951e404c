// SPDX-License-Identifier: EPL-2.0

// Package looper plays a decoded buffer in a loop and crossfades between
// successive playback instances.
//
// Each Play creates a new instance with its own gain, loop markers and
// playback rate. When an instance is already sounding the two overlap for
// the crossfade time: the old one follows a cosine down, the new one a sine
// up, so their powers always sum to one. The old instance is removed only
// after the clock shows its fade has been rendered.
//
// Loop markers are fractions of the buffer duration and are clamped on every
// change so that start stays at least MinSeparation before end:
//
//	l.SetLoopStart(0.6)
//	l.SetLoopEnd(0.5) // end becomes 0.61
package looper
