// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer is a fully decoded block of planar float32 audio.
//
// A Buffer is immutable once built: it is shared by reference between the
// looper, the frame extractor and the exporters, and none of them write to the
// channel slices. Callers that need to modify samples must copy them first.
type Buffer struct {
	sampleRate int
	data       [][]float32
}

// NewBuffer wraps per-channel sample slices. The slices are owned by the
// Buffer afterwards and must not be modified.
func NewBuffer(sampleRate int, channels [][]float32) (*Buffer, error) {
	if sampleRate <= 0 || len(channels) == 0 {
		return nil, ErrInvalidFormat
	}
	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != n {
			return nil, ErrChannelLength
		}
	}
	return &Buffer{sampleRate: sampleRate, data: channels}, nil
}

// NewMonoBuffer is NewBuffer for a single channel.
func NewMonoBuffer(sampleRate int, samples []float32) *Buffer {
	b, err := NewBuffer(sampleRate, [][]float32{samples})
	if err != nil {
		// only reachable with a non-positive rate
		return &Buffer{sampleRate: 1, data: [][]float32{samples}}
	}
	return b
}

func (b *Buffer) SampleRate() int  { return b.sampleRate }
func (b *Buffer) NumChannels() int { return len(b.data) }

// Len is the number of frames (samples per channel).
func (b *Buffer) Len() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

func (b *Buffer) Duration() time.Duration {
	return time.Duration(float64(b.Len()) / float64(b.sampleRate) * float64(time.Second))
}

// Channel returns the samples of channel c. The slice must be treated as read-only.
func (b *Buffer) Channel(c int) []float32 {
	return b.data[c]
}

// Slice returns the frames [start, end) as a new Buffer sharing storage with b.
// Bounds are clamped to the buffer.
func (b *Buffer) Slice(start, end int) *Buffer {
	start = max(0, min(start, b.Len()))
	end = max(start, min(end, b.Len()))

	out := make([][]float32, len(b.data))
	for c, ch := range b.data {
		out[c] = ch[start:end:end]
	}
	return &Buffer{sampleRate: b.sampleRate, data: out}
}

// Interleaved returns a newly allocated frame-interleaved copy of the samples.
func (b *Buffer) Interleaved() []float32 {
	channels := len(b.data)
	out := make([]float32, b.Len()*channels)
	for c, ch := range b.data {
		for i, v := range ch {
			out[i*channels+c] = v
		}
	}
	return out
}

// Mono downmixes all channels by averaging.
func (b *Buffer) Mono() []float32 {
	if len(b.data) == 1 {
		out := make([]float32, b.Len())
		copy(out, b.data[0])
		return out
	}

	mixer := NewMonoMixer(b.Source())
	out := make([]float32, 0, b.Len())
	buf := make([]float32, mixer.BufSize())
	for {
		n, err := mixer.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			break
		}
	}
	return out
}

// Resample returns a copy of b converted to sampleRate with the Lanczos kernel.
func (b *Buffer) Resample(sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidFormat
	}
	if sampleRate == b.sampleRate {
		return b, nil
	}

	n := int(float64(b.Len())*float64(sampleRate)/float64(b.sampleRate) + 0.5)
	out := make([][]float32, len(b.data))
	for c, ch := range b.data {
		out[c] = Resample(ch, n)
	}
	return NewBuffer(sampleRate, out)
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%d Hz, %d ch, %d frames)", b.sampleRate, len(b.data), b.Len())
}

// Source streams the buffer as interleaved samples.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *Buffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return len(s.buf.data) }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.buf.data)
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := s.buf.Len() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		for c, ch := range s.buf.data {
			dst[f*channels+c] = ch[s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.buf.Len() {
		return frames * channels, io.EOF
	}
	return frames * channels, nil
}

// maxStalledReads bounds how many empty, error-free reads ReadAll tolerates
// before treating the stream as finished.
const maxStalledReads = 8

// ReadAll drains src and de-interleaves it into a Buffer.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	rate := src.SampleRate()
	if channels <= 0 || rate <= 0 {
		return nil, ErrInvalidFormat
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels
	buf := make([]float32, size)

	data := make([][]float32, channels)
	pending := make([]float32, 0, channels)
	stalls := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			chunk := buf[:n]
			// some decoders return partial frames; carry the remainder over
			if len(pending) > 0 {
				chunk = append(pending, chunk...)
				pending = pending[:0]
			}
			whole := len(chunk) - len(chunk)%channels
			for i := 0; i < whole; i += channels {
				for c := range channels {
					data[c] = append(data[c], chunk[i+c])
				}
			}
			pending = append(pending, chunk[whole:]...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			stalls++
			if stalls >= maxStalledReads {
				break
			}
			continue
		}
		stalls = 0
	}

	for c := range data {
		if data[c] == nil {
			data[c] = []float32{}
		}
	}
	return NewBuffer(rate, data)
}
