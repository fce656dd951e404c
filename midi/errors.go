// SPDX-License-Identifier: EPL-2.0

package midi

import "errors"

var (
	// ErrUnsupported is returned when the host has no MIDI capability.
	ErrUnsupported = errors.New("midi is not supported on this host")

	// ErrDeviceNotFound is returned by Select for an unknown device id.
	ErrDeviceNotFound = errors.New("midi device not found")
)
