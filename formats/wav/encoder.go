// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/utils"
)

// HeaderSize is the length of the canonical header written by WriteWAV16.
const HeaderSize = 44

// WriteWAV16 writes a 16-bit PCM WAV at sampleRate. samples are interleaved
// int16 frames of the given channel count.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 || sampleRate <= 0 {
		return fmt.Errorf("%w: %d Hz, %d channels", audio.ErrInvalidFormat, sampleRate, channels)
	}
	if uint64(len(samples))*2 > math.MaxUint32-36 {
		return ErrTooLarge
	}

	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample/8)
	blockAlign := numChannels * (bitsPerSample / 8)
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	if len(samples) == 0 {
		return nil
	}

	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:len(chunk)*2]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}

	return nil
}

// Encode writes buf as an interleaved 16-bit PCM WAV. Samples are clamped to
// [-1,1] before quantization.
func Encode(w io.Writer, buf *audio.Buffer) error {
	if buf == nil {
		return audio.ErrEmptyBuffer
	}

	channels := buf.NumChannels()
	frames := buf.Len()
	pcm := make([]int16, frames*channels)
	for c := range channels {
		data := buf.Channel(c)
		for i, v := range data {
			pcm[i*channels+c] = utils.FloatToPCM16(v)
		}
	}

	return WriteWAV16(w, buf.SampleRate(), channels, pcm)
}

// EncodeBytes is Encode into a new byte slice.
func EncodeBytes(buf *audio.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if buf != nil {
		out.Grow(HeaderSize + buf.Len()*buf.NumChannels()*2)
	}
	if err := Encode(&out, buf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeBase64 decodes a base64 encoded WAV container. A data URL prefix such
// as "data:audio/wav;base64," is accepted and skipped.
func DecodeBase64(s string) (*audio.Buffer, error) {
	if strings.HasPrefix(s, "data:") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, ErrInvalidBase64
		}
		s = payload
	}
	s = strings.TrimSpace(s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBase64, err)
		}
	}

	return DecodeBuffer(bytes.NewReader(data))
}

// EncodeBase64 returns buf as a base64 encoded WAV container.
func EncodeBase64(buf *audio.Buffer) (string, error) {
	data, err := EncodeBytes(buf)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
