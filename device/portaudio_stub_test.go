// SPDX-License-Identifier: EPL-2.0

//go:build !portaudio

package device

import (
	"errors"
	"testing"
)

func TestPortAudioStub(t *testing.T) {
	t.Parallel()

	p := NewPortAudio(nil)
	if err := p.Open(Format{SampleRate: 44100, Channels: 2, BlockSize: 128}, RenderFunc(func([]float32) {})); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Open() err = %v, want ErrUnavailable", err)
	}
	if err := p.Close(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Close() err = %v, want ErrNotOpen", err)
	}
}
