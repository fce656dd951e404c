// SPDX-License-Identifier: EPL-2.0

// Package automation schedules parameter changes against a shared sample
// clock.
//
// A Param holds an immutable Timeline of set, linear ramp and value curve
// events. Control code edits the schedule ahead of time; the render goroutine
// loads the current Timeline once per block and evaluates it per frame, so it
// never waits on a lock or asks the control side for anything mid-block.
//
//	gain := automation.NewParam(0)
//	now := clock.Now()
//	gain.SetValueAt(0, now)
//	gain.LinearRampTo(1, now+clock.Frames(10*time.Millisecond))
package automation
