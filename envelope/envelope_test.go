// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ik5/wavescan/automation"
)

// at 1 kHz one frame is one millisecond
func newTestEnvelope(margin time.Duration) (*Envelope, *automation.Clock) {
	clock := automation.NewClock(1000)
	env := New(clock, margin)
	env.SetParams(Params{AttackMs: 10, DecayMs: 20, Sustain: 0.5, ReleaseMs: 40})
	return env, clock
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEnvelope_AttackDecaySustain(t *testing.T) {
	t.Parallel()

	env, clock := newTestEnvelope(0)
	if env.Stage() != StageIdle || env.Level() != 0 {
		t.Fatalf("new envelope: stage %v level %v", env.Stage(), env.Level())
	}

	env.TriggerAttack(0.8)

	steps := []struct {
		advance int
		level   float64
		stage   Stage
	}{
		{0, 0, StageAttack},
		{5, 0.4, StageAttack},
		{5, 0.8, StageDecay},
		{10, 0.6, StageDecay},
		{10, 0.4, StageSustain},
		{500, 0.4, StageSustain},
	}
	for i, s := range steps {
		clock.Advance(s.advance)
		if got := env.Level(); !near(got, s.level) {
			t.Errorf("step %d: Level() = %v, want %v", i, got, s.level)
		}
		if got := env.Stage(); got != s.stage {
			t.Errorf("step %d: Stage() = %v, want %v", i, got, s.stage)
		}
	}
}

func TestEnvelope_ReleaseFromCurrentLevel(t *testing.T) {
	t.Parallel()

	env, clock := newTestEnvelope(0)
	env.TriggerAttack(1)
	clock.Advance(5) // halfway up the attack
	env.TriggerRelease(nil)

	if got := env.Level(); !near(got, 0.5) {
		t.Fatalf("release start level = %v, want 0.5", got)
	}
	clock.Advance(20)
	if got := env.Level(); !near(got, 0.25) {
		t.Errorf("mid release level = %v, want 0.25", got)
	}
	if env.Stage() != StageRelease {
		t.Errorf("Stage() = %v, want release", env.Stage())
	}
	clock.Advance(20)
	if got := env.Level(); got != 0 {
		t.Errorf("end of release level = %v, want 0", got)
	}
	if env.Stage() != StageIdle {
		t.Errorf("Stage() = %v, want idle", env.Stage())
	}
}

func TestEnvelope_ParamsCapturedAtTrigger(t *testing.T) {
	t.Parallel()

	env, clock := newTestEnvelope(0)
	env.TriggerAttack(1)
	env.SetParams(Params{AttackMs: 1000, DecayMs: 1000, Sustain: 1, ReleaseMs: 1000})

	clock.Advance(10)
	if got := env.Level(); !near(got, 1) {
		t.Errorf("in-flight ramp changed: Level() = %v, want 1", got)
	}
}

func TestEnvelope_ReleaseCallback(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnvelope(5 * time.Millisecond)
	env.SetParams(Params{ReleaseMs: 1})

	var calls atomic.Int32
	done := make(chan struct{})
	env.TriggerRelease(func() {
		calls.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("release callback never fired")
	}
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("callback fired %d times, want 1", calls.Load())
	}
}

func TestEnvelope_ReleaseCallbackCancelled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cancel func(*Envelope)
	}{
		{"attack", func(e *Envelope) { e.TriggerAttack(1) }},
		{"bypass", (*Envelope).Bypass},
		{"stop", (*Envelope).Stop},
		{"second release", func(e *Envelope) { e.TriggerRelease(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := newTestEnvelope(0)
			env.SetParams(Params{ReleaseMs: 10})

			var fired atomic.Bool
			env.TriggerRelease(func() { fired.Store(true) })
			tt.cancel(env)

			time.Sleep(60 * time.Millisecond)
			if fired.Load() {
				t.Error("release callback fired after being superseded")
			}
		})
	}
}

func TestEnvelope_Bypass(t *testing.T) {
	t.Parallel()

	env, clock := newTestEnvelope(0)
	env.TriggerAttack(0.3)
	env.Bypass()
	clock.Advance(1000)

	if got := env.Level(); got != 1 {
		t.Errorf("Level() = %v, want 1", got)
	}
	if env.Stage() != StageSustain {
		t.Errorf("Stage() = %v, want sustain", env.Stage())
	}
}

func TestParams_Clamp(t *testing.T) {
	t.Parallel()

	got := Params{AttackMs: -1, DecayMs: math.NaN(), Sustain: 3, ReleaseMs: 5}.Clamp()
	want := Params{AttackMs: 0, DecayMs: 0, Sustain: 1, ReleaseMs: 5}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
	if s := (Params{Sustain: -0.5}).Clamp().Sustain; s != 0 {
		t.Errorf("Sustain = %v, want 0", s)
	}
}

func TestEnvelope_ZeroAttack(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnvelope(0)
	env.SetParams(Params{AttackMs: 0, DecayMs: 0, Sustain: 0.25})
	env.TriggerAttack(2) // velocity clamps to 1

	if got := env.Level(); !near(got, 0.25) {
		t.Errorf("Level() = %v, want 0.25", got)
	}
}

func TestStage_String(t *testing.T) {
	t.Parallel()

	for s, want := range map[Stage]string{
		StageIdle: "idle", StageAttack: "attack", StageDecay: "decay",
		StageSustain: "sustain", StageRelease: "release", Stage(42): "unknown",
	} {
		if s.String() != want {
			t.Errorf("Stage(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
