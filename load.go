// SPDX-License-Identifier: EPL-2.0

package wavescan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/formats/aiff"
	"github.com/ik5/wavescan/formats/mp3"
	"github.com/ik5/wavescan/formats/vorbis"
	"github.com/ik5/wavescan/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by file
// extension.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

// Formats lists the extensions Load accepts.
func (e *Engine) Formats() []string { return e.registry.Formats() }

// Load decodes r as format (an extension, with or without the dot) and
// makes the result the current buffer.
func (e *Engine) Load(r io.Reader, format string) error {
	buf, err := e.registry.Decode(format, r)
	if err != nil {
		return fmt.Errorf("loading %s: %w", format, err)
	}
	return e.SetBuffer(buf)
}

// LoadFile loads a file, picking the decoder from its extension.
func (e *Engine) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return e.Load(f, filepath.Ext(path))
}

// LoadWAVBase64 loads a base64 encoded WAV file. A data URL prefix is
// accepted.
func (e *Engine) LoadWAVBase64(s string) error {
	buf, err := wav.DecodeBase64(s)
	if err != nil {
		return err
	}
	return e.SetBuffer(buf)
}
