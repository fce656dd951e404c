// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidFormat  = errors.New("sample rate and channel count must be positive")
	ErrChannelLength  = errors.New("all channels must have the same length")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
	ErrEmptyBuffer    = errors.New("no audio buffer")
)
