// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"log"
	"strings"
)

// Renderer fills out with interleaved float32 frames. It is called from the
// host's audio goroutine and must not block.
type Renderer interface {
	Render(out []float32)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(out []float32)

func (f RenderFunc) Render(out []float32) { f(out) }

// Format describes the stream an Output pulls from its Renderer. BlockSize
// is the number of frames per Render call.
type Format struct {
	SampleRate int
	Channels   int
	BlockSize  int
}

func (f Format) validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 || f.BlockSize <= 0 {
		return fmt.Errorf("%w: %d Hz, %d channels, %d frames per block",
			ErrUnavailable, f.SampleRate, f.Channels, f.BlockSize)
	}
	return nil
}

// Output is a host audio device. Open starts pulling from r; Close stops it
// and releases the device.
type Output interface {
	Open(f Format, r Renderer) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
	BackendNone      = "none"
)

// Null is an Output that opens without a device and never pulls. It is for
// offline rendering, where the caller drives Render itself.
type Null struct{}

func (Null) Open(f Format, _ Renderer) error { return f.validate() }
func (Null) Close() error                    { return nil }

// New returns the output for a backend name. An empty name selects oto.
func New(backend string, logger *log.Logger) (Output, error) {
	if logger == nil {
		logger = log.Default()
	}

	switch strings.ToLower(backend) {
	case "", BackendOto:
		return NewOto(logger), nil
	case BackendPortAudio:
		return NewPortAudio(logger), nil
	case BackendNone:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrUnavailable, backend)
	}
}
