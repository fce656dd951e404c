// SPDX-License-Identifier: EPL-2.0

package automation

import (
	"slices"
	"sync"
	"sync/atomic"
)

type eventKind uint8

const (
	setValue eventKind = iota
	linearRamp
	valueCurve
)

// event times are in frames. For ramps at is the end of the ramp, which
// starts where the previous event left off.
type event struct {
	kind     eventKind
	at       int64
	value    float64
	curve    []float32
	duration int64
}

func (e event) end() int64 {
	if e.kind == valueCurve {
		return e.at + e.duration
	}
	return e.at
}

// Timeline is an immutable snapshot of a Param's schedule.
type Timeline struct {
	base     float64
	baseTime int64
	events   []event
}

// ValueAt evaluates the schedule at frame t.
func (tl *Timeline) ValueAt(t int64) float64 {
	value, prevTime := tl.base, tl.baseTime

	for i := range tl.events {
		e := &tl.events[i]
		switch e.kind {
		case setValue:
			if t < e.at {
				return value
			}
			value = e.value

		case linearRamp:
			if t < e.at {
				if t < prevTime || e.at <= prevTime {
					return value
				}
				frac := float64(t-prevTime) / float64(e.at-prevTime)
				return value + (e.value-value)*frac
			}
			value = e.value

		case valueCurve:
			if t < e.at {
				return value
			}
			n := len(e.curve)
			if t < e.at+e.duration && n > 1 {
				pos := float64(t-e.at) / float64(e.duration) * float64(n-1)
				idx := int(pos)
				frac := pos - float64(idx)
				a, b := float64(e.curve[idx]), float64(e.curve[min(idx+1, n-1)])
				return a + (b-a)*frac
			}
			if n > 0 {
				value = float64(e.curve[n-1])
			}
		}
		prevTime = e.end()
	}

	return value
}

// Fill writes one value per frame into dst starting at frame start.
// It does not allocate.
func (tl *Timeline) Fill(dst []float32, start int64) {
	for i := range dst {
		dst[i] = float32(tl.ValueAt(start + int64(i)))
	}
}

// End returns the frame at which the last scheduled event completes, or
// the base time when nothing is scheduled.
func (tl *Timeline) End() int64 {
	if len(tl.events) == 0 {
		return tl.baseTime
	}
	return tl.events[len(tl.events)-1].end()
}

// Param is a value that can be scheduled ahead of time. Writers replace the
// whole schedule under a lock; readers load the current snapshot without
// locking.
type Param struct {
	mu sync.Mutex
	tl atomic.Pointer[Timeline]
}

func NewParam(value float64) *Param {
	p := &Param{}
	p.tl.Store(&Timeline{base: value})
	return p
}

// Snapshot returns the current schedule.
func (p *Param) Snapshot() *Timeline { return p.tl.Load() }

// ValueAt evaluates the current schedule at frame t.
func (p *Param) ValueAt(t int64) float64 { return p.Snapshot().ValueAt(t) }

// Set drops every scheduled event and holds value from now on.
func (p *Param) Set(value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tl.Store(&Timeline{base: value})
}

// SetValueAt jumps to value at frame at.
func (p *Param) SetValueAt(value float64, at int64) {
	p.insert(event{kind: setValue, at: at, value: value})
}

// LinearRampTo ramps linearly from the previous event to value, arriving
// at frame at.
func (p *Param) LinearRampTo(value float64, at int64) {
	p.insert(event{kind: linearRamp, at: at, value: value})
}

// SetValueCurve plays curve evenly spread over duration frames starting at
// frame at, then holds its last value. curve is copied.
func (p *Param) SetValueCurve(curve []float32, at, duration int64) {
	if len(curve) == 0 {
		return
	}
	p.insert(event{
		kind:     valueCurve,
		at:       at,
		curve:    slices.Clone(curve),
		duration: max(duration, 1),
	})
}

// CancelScheduled removes every event that starts at or after frame from.
func (p *Param) CancelScheduled(from int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.tl.Load()
	kept := make([]event, 0, len(cur.events))
	for _, e := range cur.events {
		if e.at < from {
			kept = append(kept, e)
		}
	}
	p.tl.Store(&Timeline{base: cur.base, baseTime: cur.baseTime, events: kept})
}

// CancelAndHold freezes the value the schedule has at frame at, drops
// everything else and returns that value. Later events start from there.
func (p *Param) CancelAndHold(at int64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := p.tl.Load().ValueAt(at)
	p.tl.Store(&Timeline{base: v, baseTime: at})
	return v
}

func (p *Param) insert(e event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.tl.Load()
	events := make([]event, 0, len(cur.events)+1)
	events = append(events, cur.events...)

	// keep order by time; equal times keep insertion order
	i := len(events)
	for i > 0 && events[i-1].at > e.at {
		i--
	}
	events = slices.Insert(events, i, e)

	p.tl.Store(&Timeline{base: cur.base, baseTime: cur.baseTime, events: events})
}
