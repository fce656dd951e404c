// SPDX-License-Identifier: EPL-2.0

package looper

import (
	"fmt"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/formats/wav"
)

// ExportRaw encodes the whole loaded buffer as a 16-bit WAV.
func (l *Looper) ExportRaw() ([]byte, error) {
	buf := l.Buffer()
	if buf == nil {
		return nil, ErrNoBuffer
	}
	return wav.EncodeBytes(buf)
}

// ExportLoop encodes only the region between the loop markers.
func (l *Looper) ExportLoop() ([]byte, error) {
	region, err := l.loopRegion()
	if err != nil {
		return nil, err
	}
	return wav.EncodeBytes(region)
}

// ExportLoopAt is ExportLoop resampled to sampleRate first.
func (l *Looper) ExportLoopAt(sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	region, err := l.loopRegion()
	if err != nil {
		return nil, err
	}
	resampled, err := region.Resample(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("resampling loop: %w", err)
	}
	return wav.EncodeBytes(resampled)
}

func (l *Looper) loopRegion() (*audio.Buffer, error) {
	l.mu.Lock()
	buf, bounds := l.buf, l.bounds
	l.mu.Unlock()

	if buf == nil {
		return nil, ErrNoBuffer
	}
	start, end := bounds.Frames(buf.Len())
	if end <= start {
		return nil, ErrDegenerateRange
	}
	return buf.Slice(start, end), nil
}
