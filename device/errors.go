// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrUnavailable is returned when the host has no usable output for the
	// requested backend or format.
	ErrUnavailable = errors.New("audio output unavailable")

	// ErrNotOpen is returned by Close on an output that is not open.
	ErrNotOpen = errors.New("audio output not open")
)
