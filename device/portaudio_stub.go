// SPDX-License-Identifier: EPL-2.0

//go:build !portaudio

package device

import (
	"fmt"
	"log"
)

// PortAudio is unavailable in this build; build with -tags portaudio.
type PortAudio struct{}

func NewPortAudio(*log.Logger) *PortAudio { return &PortAudio{} }

func (p *PortAudio) Open(Format, Renderer) error {
	return fmt.Errorf("%w: portaudio support not enabled (build with -tags portaudio)", ErrUnavailable)
}

func (p *PortAudio) Close() error { return ErrNotOpen }
