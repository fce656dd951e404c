// SPDX-License-Identifier: EPL-2.0

package wavescan

import (
	"log"
	"time"

	"github.com/ik5/wavescan/device"
	"github.com/ik5/wavescan/wavetable"
)

// Config holds everything an Engine is built from. Start with DefaultConfig
// and edit the fields you need.
type Config struct {
	SampleRate int
	Channels   int
	// BlockSize is the number of frames rendered per device callback.
	BlockSize int

	// Crossfade is the looper's retrigger crossfade.
	Crossfade time.Duration
	// ReleaseMargin is added to the envelope release before its completion
	// callback runs.
	ReleaseMargin time.Duration
	// MailboxSize bounds the oscillator's control message queue.
	MailboxSize int

	// OscillatorLevel and LooperLevel scale the two sources before they are
	// summed.
	OscillatorLevel float64
	LooperLevel     float64

	Extract wavetable.Options

	// Backend selects the device.Output when none is injected.
	Backend string

	// Controller numbers bound to the scan position, frequency and
	// transpose. A value above 127 leaves that control unbound.
	ScanCC      uint8
	FrequencyCC uint8
	TransposeCC uint8
	// TransposeRange is the number of semitones the transpose controller
	// sweeps either side of zero.
	TransposeRange float64

	// HotPlugInterval is how often MIDI devices are re-enumerated. Zero
	// disables the watcher.
	HotPlugInterval time.Duration

	// Logger receives lifecycle messages. nil means log.Default().
	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		Channels:        2,
		BlockSize:       128,
		Crossfade:       150 * time.Millisecond,
		ReleaseMargin:   50 * time.Millisecond,
		MailboxSize:     16,
		OscillatorLevel: 0.5,
		LooperLevel:     0.5,
		Extract:         wavetable.DefaultOptions(),
		Backend:         device.BackendOto,
		ScanCC:          74,
		FrequencyCC:     71,
		TransposeCC:     1,
		TransposeRange:  24,
		HotPlugInterval: 2 * time.Second,
	}
}

// normalize replaces unusable values with their defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.Channels <= 0 {
		c.Channels = def.Channels
	}
	if c.BlockSize <= 0 {
		c.BlockSize = def.BlockSize
	}
	if c.Crossfade <= 0 {
		c.Crossfade = def.Crossfade
	}
	if c.ReleaseMargin < 0 {
		c.ReleaseMargin = 0
	}
	if c.MailboxSize <= 0 {
		c.MailboxSize = def.MailboxSize
	}
	if c.TransposeRange < 0 {
		c.TransposeRange = -c.TransposeRange
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

func (c Config) format() device.Format {
	return device.Format{SampleRate: c.SampleRate, Channels: c.Channels, BlockSize: c.BlockSize}
}
