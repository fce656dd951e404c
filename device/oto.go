// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process, so every Oto shares it.
var (
	otoMu     sync.Mutex
	otoCtx    *oto.Context
	otoFormat Format
)

// Oto plays through the ebitengine/oto mixer. The player pulls float32
// blocks from the Renderer on oto's own goroutine.
type Oto struct {
	logger *log.Logger

	mu     sync.Mutex
	player *oto.Player
}

func NewOto(logger *log.Logger) *Oto {
	if logger == nil {
		logger = log.Default()
	}
	return &Oto{logger: logger}
}

func (o *Oto) Open(f Format, r Renderer) error {
	if err := f.validate(); err != nil {
		return err
	}
	if f.Channels > 2 {
		return fmt.Errorf("%w: oto plays mono or stereo, not %d channels", ErrUnavailable, f.Channels)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		return nil
	}

	ctx, err := sharedContext(f, o.logger)
	if err != nil {
		return err
	}

	o.player = ctx.NewPlayer(newBlockReader(r, f))
	// keep the player's queue to a couple of blocks so parameter changes
	// are heard quickly
	o.player.SetBufferSize(2 * f.BlockSize * f.Channels * 4)
	o.player.Play()

	o.logger.Printf("Audio output initialized: %dHz, %d channels", f.SampleRate, f.Channels)
	return nil
}

func sharedContext(f Format, logger *log.Logger) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoFormat.SampleRate != f.SampleRate || otoFormat.Channels != f.Channels {
			return nil, fmt.Errorf("%w: oto is already running at %dHz, %d channels",
				ErrUnavailable, otoFormat.SampleRate, otoFormat.Channels)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("resuming oto context: %w", err)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(4*f.BlockSize) * time.Second / time.Duration(f.SampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating oto context: %w", ErrUnavailable, err)
	}
	<-ready

	otoCtx, otoFormat = ctx, f
	logger.Printf("oto context ready")
	return ctx, nil
}

func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	err := o.player.Close()
	o.player = nil

	otoMu.Lock()
	if otoCtx != nil {
		if serr := otoCtx.Suspend(); serr != nil && err == nil {
			err = serr
		}
	}
	otoMu.Unlock()

	if err != nil {
		return fmt.Errorf("closing oto output: %w", err)
	}
	return nil
}
