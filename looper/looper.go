// SPDX-License-Identifier: EPL-2.0

package looper

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/wavescan/audio"
	"github.com/ik5/wavescan/automation"
	"github.com/ik5/wavescan/utils"
)

// MaxVoices is the number of playback instances alive during a crossfade.
const MaxVoices = 2

// loopState is swapped as a whole so the render goroutine never sees a start
// marker from one update and an end marker from another.
type loopState struct {
	loop       bool
	start, end float64 // frames
}

type voice struct {
	buf  *audio.Buffer
	gain *automation.Param
	rate atomic.Uint64 // float64 bits, frames of buf per output frame
	loop atomic.Pointer[loopState]

	// written by the render goroutine when a one-shot runs out
	finished atomic.Bool

	// render goroutine only
	pos float64

	// control side only
	retireAt int64
}

func (v *voice) setRate(r float64) { v.rate.Store(math.Float64bits(r)) }
func (v *voice) getRate() float64  { return math.Float64frombits(v.rate.Load()) }

// Looper plays a buffer, optionally looping a sub-region, and crossfades
// between successive playback instances.
//
// Control methods are safe for concurrent use. Render belongs to the render
// goroutine, which is also responsible for advancing the clock after each
// block.
type Looper struct {
	clock     *automation.Clock
	channels  int
	crossfade time.Duration
	fadeIn    []float32
	fadeOut   []float32

	mu        sync.Mutex
	buf       *audio.Buffer
	bounds    Bounds
	loop      bool
	transpose float64
	reaper    *time.Timer

	voices atomic.Pointer[[]*voice]
}

// New creates an idle looper rendering interleaved audio with the given
// channel count at the clock's sample rate.
func New(clock *automation.Clock, channels int, crossfade time.Duration) *Looper {
	in, out := EqualPowerCurves(CurvePoints)
	l := &Looper{
		clock:     clock,
		channels:  max(channels, 1),
		crossfade: crossfade,
		fadeIn:    in,
		fadeOut:   out,
		bounds:    FullBounds(),
		loop:      true,
	}
	l.voices.Store(&[]*voice{})
	return l
}

// SetBuffer replaces the buffer used by the next Play. Instances already
// playing keep the buffer they started with.
func (l *Looper) SetBuffer(buf *audio.Buffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = buf
}

func (l *Looper) Buffer() *audio.Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf
}

// Play starts a new instance of the current buffer. A previous instance
// fades out along a cosine while the new one fades in along a sine, and is
// removed once the crossfade has been rendered.
func (l *Looper) Play() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf == nil || l.buf.Len() == 0 {
		return ErrNoBuffer
	}

	now := l.clock.Now()
	l.reapLocked(now)

	v := &voice{buf: l.buf, gain: automation.NewParam(0)}
	v.setRate(l.rateLocked(l.buf))
	st := l.loopStateLocked(l.buf)
	v.loop.Store(st)
	if st.loop {
		v.pos = st.start
	}

	cur := *l.voices.Load()
	fade := max(l.clock.Frames(l.crossfade), 1)

	var next []*voice
	if out := loudest(cur, now); out != nil {
		// an instance dropped mid-fade hands its level to the new one
		from := 0.0
		for _, d := range cur {
			if d != out && !d.finished.Load() {
				from = max(from, d.gain.ValueAt(now))
			}
		}

		// only one instance may stay behind; keep the one whose removal
		// would be most audible and let it fade
		if out.retireAt == 0 {
			g := out.gain.CancelAndHold(now)
			curve := make([]float32, len(l.fadeOut))
			for i, x := range l.fadeOut {
				curve[i] = x * float32(g)
			}
			out.gain.SetValueCurve(curve, now, fade)
			out.retireAt = now + fade
		}
		if from > 0 {
			v.gain.SetValueCurve(FadeInFrom(len(l.fadeIn), from), now, fade)
		} else {
			v.gain.SetValueCurve(l.fadeIn, now, fade)
		}
		next = append(next, out)
		l.scheduleReapLocked()
	} else {
		v.gain.Set(1)
	}

	next = append(next, v)
	l.voices.Store(&next)
	return nil
}

// Stop silences every instance immediately, without a crossfade.
func (l *Looper) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.reaper != nil {
		l.reaper.Stop()
		l.reaper = nil
	}
	l.voices.Store(&[]*voice{})
}

// Playing reports whether any instance is alive.
func (l *Looper) Playing() bool { return l.Voices() > 0 }

// Voices returns the number of live instances. A one-shot that has played
// to the end no longer counts.
func (l *Looper) Voices() int {
	n := 0
	for _, v := range *l.voices.Load() {
		if !v.finished.Load() {
			n++
		}
	}
	return n
}

func (l *Looper) Bounds() Bounds {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bounds
}

// SetLoopStart moves the loop start, clamped, on the looper and on every
// live instance.
func (l *Looper) SetLoopStart(start float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bounds = l.bounds.WithStart(start)
	l.updateVoicesLocked()
}

// SetLoopEnd moves the loop end, clamped to stay past the start.
func (l *Looper) SetLoopEnd(end float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bounds = l.bounds.WithEnd(end)
	l.updateVoicesLocked()
}

func (l *Looper) Loop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loop
}

func (l *Looper) SetLoop(loop bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loop = loop
	l.updateVoicesLocked()
}

func (l *Looper) Transpose() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transpose
}

// SetTranspose sets the pitch in semitones. Playback rate is
// 2^(semitones/12).
func (l *Looper) SetTranspose(semitones float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transpose = finite(semitones, 0)
	l.updateVoicesLocked()
}

// PlaybackRate converts semitones to a rate multiplier.
func PlaybackRate(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

func (l *Looper) rateLocked(buf *audio.Buffer) float64 {
	return PlaybackRate(l.transpose) * float64(buf.SampleRate()) / float64(l.clock.SampleRate())
}

func (l *Looper) loopStateLocked(buf *audio.Buffer) *loopState {
	s, e := l.bounds.Frames(buf.Len())
	return &loopState{loop: l.loop, start: float64(s), end: float64(max(e, s+1))}
}

func (l *Looper) updateVoicesLocked() {
	for _, v := range *l.voices.Load() {
		v.setRate(l.rateLocked(v.buf))
		v.loop.Store(l.loopStateLocked(v.buf))
	}
}

// loudest returns the unfinished instance with the highest gain at frame
// now.
func loudest(voices []*voice, now int64) *voice {
	var (
		best     *voice
		bestGain = -1.0
	)
	for _, v := range voices {
		if v.finished.Load() {
			continue
		}
		if g := v.gain.ValueAt(now); g > bestGain {
			best, bestGain = v, g
		}
	}
	return best
}

// reapLocked drops finished one-shots and instances whose fade-out has been
// fully rendered.
func (l *Looper) reapLocked(now int64) bool {
	cur := *l.voices.Load()
	keep := make([]*voice, 0, len(cur))
	pending := false
	for _, v := range cur {
		if v.finished.Load() || (v.retireAt != 0 && now >= v.retireAt) {
			continue
		}
		if v.retireAt != 0 {
			pending = true
		}
		keep = append(keep, v)
	}
	if len(keep) != len(cur) {
		l.voices.Store(&keep)
	}
	return pending
}

// scheduleReapLocked arms a timer that retires faded instances. The timer
// trusts the clock rather than wall time, so a stalled device never cuts a
// fade short.
func (l *Looper) scheduleReapLocked() {
	if l.reaper != nil {
		l.reaper.Stop()
	}
	var tick func()
	tick = func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.reapLocked(l.clock.Now()) {
			l.reaper = time.AfterFunc(l.crossfade/4+time.Millisecond, tick)
			return
		}
		l.reaper = nil
	}
	l.reaper = time.AfterFunc(l.crossfade+time.Millisecond, tick)
}

// Render mixes every live instance into out, which holds interleaved frames
// of the looper's channel count. out is overwritten. Render does not advance
// the clock, allocate or block.
func (l *Looper) Render(out []float32) {
	clear(out)

	voices := *l.voices.Load()
	if len(voices) == 0 {
		return
	}

	frames := len(out) / l.channels
	start := l.clock.Now()

	for _, v := range voices {
		if v.finished.Load() {
			continue
		}
		gain := v.gain.Snapshot()
		st := v.loop.Load()
		rate := v.getRate()
		n := v.buf.Len()
		srcChannels := v.buf.NumChannels()

		for f := range frames {
			// a marker may have moved behind the read position since the
			// last block, so wrap before reading
			if st.loop && v.pos >= st.end {
				v.pos = st.start + math.Mod(v.pos-st.end, st.end-st.start)
			}
			if !st.loop && v.pos >= float64(n) {
				v.finished.Store(true)
				break
			}
			g := float32(gain.ValueAt(start + int64(f)))
			for c := range l.channels {
				data := v.buf.Channel(c % srcChannels)
				out[f*l.channels+c] += g * readCubic(data, v.pos)
			}
			v.pos += rate
		}
	}
}

// readCubic reads data at a fractional index with Catmull-Rom interpolation,
// clamping the neighbours to the buffer.
func readCubic(data []float32, pos float64) float32 {
	n := len(data)
	i := int(pos)
	if i >= n {
		return 0
	}
	x := float32(pos - float64(i))
	return utils.CubicInterpolate(data[max(i-1, 0)], data[i], data[min(i+1, n-1)], data[min(i+2, n-1)], x)
}
