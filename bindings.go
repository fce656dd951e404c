// SPDX-License-Identifier: EPL-2.0

package wavescan

import (
	"math"

	"github.com/ik5/wavescan/oscillator"
)

// bindMIDI installs the default mapping: notes play the engine, and the
// configured controllers move the scan position, the frequency and the
// transpose.
func (e *Engine) bindMIDI() {
	e.router.OnNote(func(note uint8, velocity float64, on bool) {
		if on {
			e.NoteOn(int(note), velocity)
			return
		}
		e.NoteOff(int(note))
	})

	if e.cfg.ScanCC < 128 {
		e.router.OnControlChange(e.cfg.ScanCC, e.SetScan)
	}
	if e.cfg.FrequencyCC < 128 {
		e.router.OnControlChange(e.cfg.FrequencyCC, func(v float64) {
			e.SetFrequency(ControlFrequency(v))
		})
	}
	if e.cfg.TransposeCC < 128 {
		r := e.cfg.TransposeRange
		e.router.OnControlChange(e.cfg.TransposeCC, func(v float64) {
			e.SetTranspose(math.Round((2*v - 1) * r))
		})
	}
}

// ControlFrequency maps a controller value in [0, 1] exponentially onto
// the oscillator's frequency range.
func ControlFrequency(v float64) float64 {
	const lo, hi float64 = oscillator.MinFrequency, oscillator.MaxFrequency
	return lo * math.Pow(hi/lo, v)
}
