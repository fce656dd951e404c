// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

// pcmReader is the part of gowav.Decoder used by source, split out for tests.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	empty      bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 * s.channels }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.empty {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil {
		return 0, fmt.Errorf("decoding PCM: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	convert(dst[:n], s.intBuf.Data[:n], s.bitDepth)
	return n, nil
}

// convert scales integer PCM to [-1,1]. 8-bit WAV data is unsigned.
func convert(dst []float32, src []int, bitDepth int) {
	switch bitDepth {
	case 8:
		for i, v := range src {
			dst[i] = float32(v-128) / 128
		}
	case 16:
		for i, v := range src {
			dst[i] = utils.PCM16ToFloat(int16(v))
		}
	case 24:
		for i, v := range src {
			dst[i] = float32(v) / 8388608
		}
	default:
		for i, v := range src {
			dst[i] = float32(float64(v) / 2147483648)
		}
	}
}

// Decoder reads RIFF/WAVE containers holding integer PCM at 8, 16, 24 or 32
// bits. Chunks other than fmt and data are skipped.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio walks chunks with Seek
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	valid := dec.IsValidFile()
	if !valid && (dec.Err() != nil || dec.NumChans < 1 || dec.SampleRate == 0) {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, ErrOnlyPCMSupported
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   bitDepth,
		// a parsed header with no PCM frames
		empty: !valid,
	}, nil
}

// DecodeBuffer decodes a whole WAV container into memory.
func DecodeBuffer(r io.Reader) (*audio.Buffer, error) {
	src, err := Decoder{}.Decode(r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return audio.ReadAll(src)
}
