// SPDX-License-Identifier: EPL-2.0

package oscillator

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ik5/wavescan/utils"
	"github.com/ik5/wavescan/wavetable"
)

const (
	MinFrequency     = 20
	MaxFrequency     = 20000
	DefaultFrequency = 440
)

// NoteFrequency converts a MIDI note number to Hz, with A4 (69) at 440 Hz.
func NoteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

type atomicFloat struct{ bits atomic.Uint64 }

func (f *atomicFloat) Load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// curve is a per-sample automation being played by the render goroutine.
type curve struct {
	data   []float32
	pos    int
	gen    uint64
	active bool
}

// next returns the automated value, or constant once the curve has been
// superseded by a newer scalar write. A finished curve holds its last value.
func (c *curve) next(constant float64, gen uint64) float64 {
	if !c.active {
		return constant
	}
	if c.gen != gen {
		c.active = false
		c.data = nil
		return constant
	}
	if c.pos < len(c.data) {
		v := c.data[c.pos]
		c.pos++
		return float64(v)
	}
	return float64(c.data[len(c.data)-1])
}

// Processor is the wavetable oscillator. Control methods may be called from
// any goroutine but are meant for a single control goroutine, since the
// mailbox has one producer. Process and Phase belong to the render goroutine.
type Processor struct {
	sampleRate float64

	frequency atomicFloat
	scan      atomicFloat
	freqGen   atomic.Uint64
	scanGen   atomic.Uint64

	sendMu sync.Mutex
	box    *mailbox

	// render goroutine state
	frames    wavetable.FrameSet
	phase     float64
	running   bool
	freqCurve curve
	scanCurve curve
}

// New creates a running oscillator with no frames, which renders silence
// until LoadFrames is processed.
func New(sampleRate, mailboxSize int) *Processor {
	p := &Processor{
		sampleRate: float64(max(sampleRate, 1)),
		box:        newMailbox(mailboxSize),
		running:    true,
	}
	p.frequency.Store(DefaultFrequency)
	p.scan.Store(0)
	return p
}

func (p *Processor) SampleRate() int { return int(p.sampleRate) }

func (p *Processor) send(msg message) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	if !p.box.push(msg) {
		return ErrMailboxFull
	}
	return nil
}

// LoadFrames hands a private copy of fs to the render goroutine, which swaps
// it in at the start of its next block. An empty set silences the output.
func (p *Processor) LoadFrames(fs wavetable.FrameSet) error {
	if len(fs) > 0 && !fs.Valid() {
		return ErrInvalidFrames
	}
	return p.send(message{kind: msgFrames, frames: fs.Clone()})
}

// SetFrequency sets a block-constant frequency, clamped to
// [MinFrequency, MaxFrequency]. It supersedes a running frequency curve.
func (p *Processor) SetFrequency(hz float64) {
	p.frequency.Store(clampFrequency(hz))
	p.freqGen.Add(1)
}

// SetNote sets the frequency from a MIDI note number.
func (p *Processor) SetNote(note int) {
	p.SetFrequency(NoteFrequency(note))
}

func (p *Processor) Frequency() float64 { return p.frequency.Load() }

// SetScan sets the block-constant scan position, clamped to [0,1].
func (p *Processor) SetScan(pos float64) {
	p.scan.Store(utils.Clamp(nanToZero(pos), 0, 1))
	p.scanGen.Add(1)
}

func (p *Processor) Scan() float64 { return p.scan.Load() }

// AutomateFrequency plays one frequency value per output sample, starting at
// the next block. When the curve runs out its last value is held until the
// next SetFrequency.
func (p *Processor) AutomateFrequency(values []float32) error {
	if len(values) == 0 {
		return nil
	}
	c := slices.Clone(values)
	for i, v := range c {
		c[i] = float32(clampFrequency(float64(v)))
	}
	return p.send(message{kind: msgFrequencyCurve, curve: c, gen: p.freqGen.Load()})
}

// AutomateScan is AutomateFrequency for the scan position.
func (p *Processor) AutomateScan(values []float32) error {
	if len(values) == 0 {
		return nil
	}
	c := slices.Clone(values)
	for i, v := range c {
		c[i] = float32(utils.Clamp(nanToZero(float64(v)), 0, 1))
	}
	return p.send(message{kind: msgScanCurve, curve: c, gen: p.scanGen.Load()})
}

// Start resumes output with the phase reset to 0.
func (p *Processor) Start() error { return p.send(message{kind: msgStart}) }

// Stop silences the output and resets the phase.
func (p *Processor) Stop() error { return p.send(message{kind: msgStop}) }

// Pending returns the number of messages not yet consumed.
func (p *Processor) Pending() int { return p.box.len() }

// Phase returns the phase accumulator. Render goroutine only.
func (p *Processor) Phase() float64 { return p.phase }

// Process renders one block of mono samples into out. Messages posted since
// the previous block are applied first. It never blocks or allocates.
func (p *Processor) Process(out []float32) {
	p.drain()

	if !p.running || len(p.frames) == 0 {
		clear(out)
		return
	}

	frames := p.frames
	size := len(frames[0])
	fsize := float64(size)
	last := float64(len(frames) - 1)
	step := fsize / p.sampleRate

	freq, scan := p.frequency.Load(), p.scan.Load()
	freqGen, scanGen := p.freqGen.Load(), p.scanGen.Load()
	phase := p.phase

	for i := range out {
		f := p.freqCurve.next(freq, freqGen)
		s := p.scanCurve.next(scan, scanGen)

		pos := s * last
		k0 := int(pos)
		k1 := min(k0+1, len(frames)-1)
		kf := float32(pos - float64(k0))

		j0 := int(phase)
		if j0 >= size {
			j0 = 0
		}
		j1 := j0 + 1
		if j1 == size {
			j1 = 0
		}
		jf := float32(phase - float64(j0))

		a := utils.Lerp(frames[k0][j0], frames[k0][j1], jf)
		b := utils.Lerp(frames[k1][j0], frames[k1][j1], jf)
		out[i] = utils.Lerp(a, b, kf)

		phase += f * step
		phase -= fsize * math.Floor(phase/fsize)
	}

	p.phase = phase
}

func (p *Processor) drain() {
	for {
		msg, ok := p.box.pop()
		if !ok {
			return
		}
		switch msg.kind {
		case msgFrames:
			p.frames = msg.frames
			if len(p.frames) > 0 && p.phase >= float64(len(p.frames[0])) {
				p.phase = 0
			}
		case msgFrequencyCurve:
			p.freqCurve = curve{data: msg.curve, gen: msg.gen, active: true}
		case msgScanCurve:
			p.scanCurve = curve{data: msg.curve, gen: msg.gen, active: true}
		case msgStart:
			p.running = true
			p.phase = 0
		case msgStop:
			p.running = false
			p.phase = 0
		}
	}
}

func clampFrequency(hz float64) float64 {
	if math.IsNaN(hz) {
		return DefaultFrequency
	}
	return utils.Clamp(hz, MinFrequency, MaxFrequency)
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
