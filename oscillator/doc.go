// SPDX-License-Identifier: EPL-2.0

// Package oscillator renders a wavetable with a phase accumulator.
//
// A Processor is split in two halves. Control methods may be called from any
// goroutine; the frame set and automation curves travel to the render side
// through a fixed-size single-producer mailbox, while frequency and scan
// position are plain atomics. Process runs on the render goroutine and never
// blocks or allocates.
//
// Each output sample reads two neighbouring frames at the scan position and
// interpolates linearly both within a frame and between frames:
//
//	p := oscillator.New(48000, 64)
//	_ = p.LoadFrames(frames)
//	p.SetNote(69)
//	p.Process(block)
package oscillator
