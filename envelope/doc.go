// SPDX-License-Identifier: EPL-2.0

// Package envelope implements an ADSR amplitude envelope as a sequence of
// scheduled linear ramps on an automation.Param.
//
// Only the release has a wall clock side: TriggerRelease can run a callback
// once the ramp has finished, which is how a voice knows it can be torn
// down. The callback timer is cancelled by any later attack, release or
// bypass.
package envelope
