// SPDX-License-Identifier: EPL-2.0

package looper

import "errors"

var (
	ErrNoBuffer        = errors.New("no buffer loaded")
	ErrDegenerateRange = errors.New("loop range is empty")
	ErrInvalidRate     = errors.New("export sample rate must be positive")
)
