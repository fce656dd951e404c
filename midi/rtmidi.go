// SPDX-License-Identifier: EPL-2.0

//go:build rtmidi

package midi

// Registers the RtMidi driver with gomidi so DefaultHost finds hardware
// ports. Requires cgo and the RtMidi system libraries.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
