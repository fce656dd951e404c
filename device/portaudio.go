// SPDX-License-Identifier: EPL-2.0

//go:build portaudio

package device

import (
	"fmt"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudio renders straight from the PortAudio stream callback, so every
// callback is exactly one Render call of the host's buffer size.
type PortAudio struct {
	logger *log.Logger

	mu     sync.Mutex
	stream *portaudio.Stream
}

func NewPortAudio(logger *log.Logger) *PortAudio {
	if logger == nil {
		logger = log.Default()
	}
	return &PortAudio{logger: logger}
}

func (p *PortAudio) Open(f Format, r Renderer) error {
	if err := f.validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream != nil {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initializing portaudio: %w", ErrUnavailable, err)
	}

	stream, err := portaudio.OpenDefaultStream(0, f.Channels, float64(f.SampleRate), f.BlockSize, func(out []float32) {
		r.Render(out)
	})
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("%w: opening stream: %w", ErrUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("starting stream: %w", err)
	}

	p.stream = stream
	p.logger.Printf("Audio output initialized: %dHz, %d channels (portaudio)", f.SampleRate, f.Channels)
	return nil
}

func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	stream := p.stream
	p.stream = nil

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("stopping stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("closing stream: %w", err)
	}
	return portaudio.Terminate()
}
