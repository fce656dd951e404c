// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"math"
	"sync"
	"time"

	"github.com/ik5/wavescan/automation"
)

// Stage is a position in the ADSR state machine.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	}
	return "unknown"
}

// Params are the ADSR timings in milliseconds and the sustain level as a
// fraction of the note velocity.
type Params struct {
	AttackMs  float64
	DecayMs   float64
	Sustain   float64
	ReleaseMs float64
}

func DefaultParams() Params {
	return Params{AttackMs: 10, DecayMs: 100, Sustain: 0.7, ReleaseMs: 300}
}

// Clamp returns p with negative durations set to 0 and Sustain limited to
// [0,1].
func (p Params) Clamp() Params {
	p.AttackMs = nonNegative(p.AttackMs)
	p.DecayMs = nonNegative(p.DecayMs)
	p.ReleaseMs = nonNegative(p.ReleaseMs)
	p.Sustain = unit(p.Sustain)
	return p
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

type mode int

const (
	modeIdle mode = iota
	modeHeld
	modeReleased
	modeBypassed
)

// Envelope drives a gain Param with scheduled ramps. Timings are captured
// when a stage is triggered; later SetParams calls never bend a ramp that is
// already running.
type Envelope struct {
	clock  *automation.Clock
	gain   *automation.Param
	margin time.Duration

	mu         sync.Mutex
	params     Params
	mode       mode
	attackEnd  int64
	decayEnd   int64
	releaseEnd int64
	timer      *time.Timer
	// bumped on every trigger so a superseded release callback never fires
	generation uint64
}

// New creates an idle envelope at zero gain. margin is added to the release
// time before the completion callback runs.
func New(clock *automation.Clock, margin time.Duration) *Envelope {
	return &Envelope{
		clock:  clock,
		gain:   automation.NewParam(0),
		margin: margin,
		params: DefaultParams(),
	}
}

// Gain is the scheduled gain curve read by the render goroutine.
func (e *Envelope) Gain() *automation.Param { return e.gain }

func (e *Envelope) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

func (e *Envelope) SetParams(p Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p.Clamp()
}

// Level returns the gain at the current clock position.
func (e *Envelope) Level() float64 {
	return e.gain.ValueAt(e.clock.Now())
}

// TriggerAttack cancels whatever is scheduled and starts a note: a linear
// ramp from 0 to velocity over the attack time, then down to
// Sustain*velocity over the decay time.
func (e *Envelope) TriggerAttack(velocity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimerLocked()

	p := e.params
	velocity = unit(velocity)
	now := e.clock.Now()
	e.attackEnd = now + e.clock.Frames(ms(p.AttackMs))
	e.decayEnd = e.attackEnd + e.clock.Frames(ms(p.DecayMs))
	e.mode = modeHeld

	e.gain.CancelAndHold(now)
	e.gain.SetValueAt(0, now)
	e.gain.LinearRampTo(velocity, e.attackEnd)
	e.gain.LinearRampTo(p.Sustain*velocity, e.decayEnd)
}

// TriggerRelease ramps from the current level to 0 over the release time.
// If onComplete is not nil it runs once, on its own goroutine, after the
// release time plus the safety margin, unless a later trigger cancels it.
func (e *Envelope) TriggerRelease(onComplete func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimerLocked()

	release := ms(e.params.ReleaseMs)
	now := e.clock.Now()
	e.releaseEnd = now + e.clock.Frames(release)
	e.mode = modeReleased

	e.gain.CancelAndHold(now)
	e.gain.LinearRampTo(0, e.releaseEnd)

	if onComplete == nil {
		return
	}
	gen := e.generation
	e.timer = time.AfterFunc(release+e.margin, func() {
		e.mu.Lock()
		current := gen == e.generation
		if current {
			e.timer = nil
		}
		e.mu.Unlock()

		if current {
			onComplete()
		}
	})
}

// Bypass cancels all scheduling, including a pending release callback, and
// holds the gain at full scale.
func (e *Envelope) Bypass() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimerLocked()
	e.mode = modeBypassed
	e.gain.Set(1)
}

// Stop cancels a pending release callback without touching the gain.
func (e *Envelope) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimerLocked()
}

// Stage reports where the envelope is at the current clock position. A
// bypassed envelope reports StageSustain since it holds a constant level.
func (e *Envelope) Stage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	switch e.mode {
	case modeHeld:
		switch {
		case now < e.attackEnd:
			return StageAttack
		case now < e.decayEnd:
			return StageDecay
		}
		return StageSustain
	case modeReleased:
		if now < e.releaseEnd {
			return StageRelease
		}
	case modeBypassed:
		return StageSustain
	}
	return StageIdle
}

func (e *Envelope) cancelTimerLocked() {
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
