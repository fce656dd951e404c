// SPDX-License-Identifier: EPL-2.0

package oscillator

import "errors"

var (
	ErrMailboxFull   = errors.New("oscillator mailbox is full")
	ErrInvalidFrames = errors.New("frames must all have the same length")
)
