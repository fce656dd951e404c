// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/wavescan/audio"
)

// mockMP3Reader hands out PCM bytes in chunks of at most step bytes.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	step       int
	err        error
}

func newMockReader(rate, step int, samples ...int16) *mockMP3Reader {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: rate, data: data, step: step}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.data) == 0 {
		return 0, io.EOF
	}
	n := copy(buf[:min(len(buf), m.step)], m.data)
	m.data = m.data[n:]
	return n, nil
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	// odd chunk sizes split samples across reads
	src := newSource(newMockReader(44100, 3, 16384, -16384, 32767, -32768))
	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if buf.SampleRate() != 44100 || buf.NumChannels() != 2 || buf.Len() != 2 {
		t.Fatalf("buffer = %v", buf)
	}
	want := [][]float32{{0.5, 32767.0 / 32768}, {-0.5, -1}}
	for c := range want {
		for i, w := range want[c] {
			if got := buf.Channel(c)[i]; got != w {
				t.Errorf("ch %d frame %d = %v, want %v", c, i, got, w)
			}
		}
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	mock := newMockReader(22050, 8)
	mock.err = io.ErrUnexpectedEOF
	src := newSource(mock)

	_, err := src.ReadSamples(make([]float32, 8))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() err = %v, want ErrUnexpectedEOF", err)
	}
	if src.Channels() != 2 || src.SampleRate() != 22050 {
		t.Errorf("metadata = %d ch, %d Hz", src.Channels(), src.SampleRate())
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil", data)
		}
	}
}
