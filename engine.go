// SPDX-License-Identifier: EPL-2.0

package wavescan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/automation"
	"github.com/ik5/wavescan/device"
	"github.com/ik5/wavescan/envelope"
	"github.com/ik5/wavescan/looper"
	"github.com/ik5/wavescan/midi"
	"github.com/ik5/wavescan/oscillator"
	"github.com/ik5/wavescan/wavetable"
)

// noNote marks that no MIDI note is held.
const noNote = -1

// Engine ties the oscillator, looper, envelope and MIDI router to one output
// device and one sample clock.
//
// Every method except Render is a control method and may be called from any
// goroutine. Render is driven by the output device once it is open; call it
// directly only for offline rendering with device.Null.
type Engine struct {
	cfg      Config
	logger   *log.Logger
	registry *audio.Registry

	clock    *automation.Clock
	osc      *oscillator.Processor
	looper   *looper.Looper
	envelope *envelope.Envelope
	router   *midi.Router

	held      atomic.Int32
	available atomic.Bool

	mu     sync.Mutex
	out    device.Output
	opened bool
	closed bool
	buf    *audio.Buffer
	frames wavetable.FrameSet
	stop   context.CancelFunc

	// render goroutine only
	oscBlock []float32
}

// New builds an engine. out may be nil, in which case the backend named in
// cfg is created on first playback. host may be nil when the platform has
// no MIDI.
func New(cfg Config, out device.Output, host midi.Host) *Engine {
	cfg = cfg.normalize()
	clock := automation.NewClock(cfg.SampleRate)

	e := &Engine{
		cfg:      cfg,
		logger:   cfg.Logger,
		registry: NewRegistry(),
		clock:    clock,
		osc:      oscillator.New(cfg.SampleRate, cfg.MailboxSize),
		looper:   looper.New(clock, cfg.Channels, cfg.Crossfade),
		envelope: envelope.New(clock, cfg.ReleaseMargin),
		router:   midi.New(host, cfg.Logger),
		out:      out,
		oscBlock: make([]float32, cfg.BlockSize),
	}
	e.held.Store(noNote)
	e.available.Store(true)
	e.bindMIDI()

	if e.router.Supported() && cfg.HotPlugInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		e.stop = cancel
		go e.router.Watch(ctx, cfg.HotPlugInterval)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Clock is the engine's sample clock. It advances as Render runs.
func (e *Engine) Clock() *automation.Clock { return e.clock }

func (e *Engine) Oscillator() *oscillator.Processor { return e.osc }
func (e *Engine) Looper() *looper.Looper            { return e.looper }
func (e *Engine) Envelope() *envelope.Envelope      { return e.envelope }
func (e *Engine) MIDI() *midi.Router                { return e.router }

// Available reports whether the output device could be opened. It stays
// true until an open has actually failed.
func (e *Engine) Available() bool { return e.available.Load() }

// MIDIAvailable reports whether the host has MIDI.
func (e *Engine) MIDIAvailable() bool { return e.router.Supported() }

// SetBuffer makes buf the current recording: the looper plays it and its
// extracted frames are sent to the oscillator.
func (e *Engine) SetBuffer(buf *audio.Buffer) error {
	if buf == nil || buf.Len() == 0 {
		return audio.ErrEmptyBuffer
	}

	frames := wavetable.Extract(buf, e.cfg.Extract)
	if err := e.osc.LoadFrames(frames); err != nil {
		return fmt.Errorf("loading frames: %w", err)
	}
	e.looper.SetBuffer(buf)

	e.mu.Lock()
	e.buf, e.frames = buf, frames
	e.mu.Unlock()

	e.logger.Printf("Loaded %v: %d frames of %d samples", buf, frames.Len(), frames.FrameSize())
	return nil
}

func (e *Engine) Buffer() *audio.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf
}

// Frames returns a copy of the frame set extracted from the current
// buffer.
func (e *Engine) Frames() wavetable.FrameSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames.Clone()
}

func (e *Engine) SetFrequency(hz float64)         { e.osc.SetFrequency(hz) }
func (e *Engine) SetNote(note int)                { e.osc.SetNote(note) }
func (e *Engine) SetScan(pos float64)             { e.osc.SetScan(pos) }
func (e *Engine) SetLoopStart(start float64)      { e.looper.SetLoopStart(start) }
func (e *Engine) SetLoopEnd(end float64)          { e.looper.SetLoopEnd(end) }
func (e *Engine) SetLoop(loop bool)               { e.looper.SetLoop(loop) }
func (e *Engine) SetTranspose(semitones float64)  { e.looper.SetTranspose(semitones) }
func (e *Engine) SetEnvelope(p envelope.Params)   { e.envelope.SetParams(p) }
func (e *Engine) EnvelopeParams() envelope.Params { return e.envelope.Params() }
func (e *Engine) LoopBounds() looper.Bounds       { return e.looper.Bounds() }
func (e *Engine) ExportRaw() ([]byte, error)      { return e.looper.ExportRaw() }
func (e *Engine) ExportLoop() ([]byte, error)     { return e.looper.ExportLoop() }

func (e *Engine) ExportLoopAt(rate int) ([]byte, error) { return e.looper.ExportLoopAt(rate) }

// Play starts untriggered playback: the envelope is bypassed, the
// oscillator restarts and the looper starts a new instance, crossfading
// from the previous one. With nothing loaded only the oscillator runs and
// looper.ErrNoBuffer is returned.
func (e *Engine) Play() error {
	e.openDevice()
	e.held.Store(noNote)
	e.envelope.Bypass()
	if err := e.osc.Start(); err != nil {
		return fmt.Errorf("starting oscillator: %w", err)
	}
	return e.looper.Play()
}

// NoteOn plays note shaped by the envelope. The oscillator is tuned to the
// note and the looper is retriggered.
func (e *Engine) NoteOn(note int, velocity float64) {
	e.openDevice()
	e.held.Store(int32(note))
	e.osc.SetNote(note)
	if err := e.osc.Start(); err != nil {
		e.logger.Printf("note %d: %v", note, err)
	}
	e.envelope.TriggerAttack(velocity)

	if err := e.looper.Play(); err != nil && !errors.Is(err, looper.ErrNoBuffer) {
		e.logger.Printf("note %d: %v", note, err)
	}
}

// NoteOff releases note if it is the one held. When the release has run
// out the looper instances are torn down.
func (e *Engine) NoteOff(note int) {
	if !e.held.CompareAndSwap(int32(note), noNote) {
		return
	}
	e.envelope.TriggerRelease(func() {
		if e.held.Load() == noNote {
			e.looper.Stop()
		}
	})
}

// Stop silences everything at once.
func (e *Engine) Stop() {
	e.held.Store(noNote)
	e.envelope.Stop()
	e.looper.Stop()
	if err := e.osc.Stop(); err != nil {
		e.logger.Printf("stopping oscillator: %v", err)
	}
}

// openDevice opens the output the first time playback is requested.
// Failure is logged and reported through Available, never returned.
func (e *Engine) openDevice() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.opened || e.closed {
		return
	}

	if e.out == nil {
		out, err := device.New(e.cfg.Backend, e.logger)
		if err != nil {
			e.unavailableLocked(err)
			return
		}
		e.out = out
	}

	if err := e.out.Open(e.cfg.format(), e); err != nil {
		e.unavailableLocked(err)
		return
	}
	e.opened = true
	e.available.Store(true)
}

func (e *Engine) unavailableLocked(err error) {
	if e.available.Swap(false) {
		e.logger.Printf("Audio output unavailable: %v", err)
	}
}

// Render fills out with interleaved frames of the configured channel
// count and advances the clock. It does not block or allocate.
func (e *Engine) Render(out []float32) {
	ch := e.cfg.Channels
	oscLevel := float32(e.cfg.OscillatorLevel)
	loopLevel := float32(e.cfg.LooperLevel)

	for len(out) >= ch {
		n := min(len(out)/ch, len(e.oscBlock))
		block := out[:n*ch]
		osc := e.oscBlock[:n]

		e.osc.Process(osc)
		e.looper.Render(block)

		gain := e.envelope.Gain().Snapshot()
		start := e.clock.Now()
		for f := range n {
			g := float32(gain.ValueAt(start + int64(f)))
			s := osc[f] * oscLevel
			for c := range ch {
				i := f*ch + c
				block[i] = (block[i]*loopLevel + s) * g
			}
		}

		e.clock.Advance(n)
		out = out[n*ch:]
	}
	clear(out)
}

// Close stops playback, detaches MIDI and closes the output device. The
// engine cannot be reopened.
func (e *Engine) Close() error {
	e.Stop()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	stop, out, opened := e.stop, e.out, e.opened
	e.opened = false
	e.mu.Unlock()

	// router callbacks take e.mu, so the router is shut down without it
	if stop != nil {
		stop()
	}
	err := e.router.Close()

	if opened {
		if cerr := out.Close(); cerr != nil && !errors.Is(cerr, device.ErrNotOpen) {
			err = errors.Join(err, cerr)
		}
	}
	return err
}
