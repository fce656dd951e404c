// SPDX-License-Identifier: EPL-2.0

package oscillator

import (
	"sync/atomic"

	"github.com/ik5/wavescan/wavetable"
)

type messageKind uint8

const (
	msgFrames messageKind = iota
	msgFrequencyCurve
	msgScanCurve
	msgStart
	msgStop
)

type message struct {
	kind   messageKind
	frames wavetable.FrameSet
	curve  []float32
	// parameter generation the curve was posted against
	gen uint64
}

// mailbox is a bounded single-producer single-consumer ring. Push never
// blocks; Pop never blocks or allocates.
type mailbox struct {
	slots []message
	mask  uint64
	head  atomic.Uint64 // next slot to read, owned by the consumer
	tail  atomic.Uint64 // next slot to write, owned by the producer
}

func newMailbox(capacity int) *mailbox {
	size := 2
	for size < capacity {
		size <<= 1
	}
	return &mailbox{slots: make([]message, size), mask: uint64(size - 1)}
}

func (m *mailbox) push(msg message) bool {
	tail := m.tail.Load()
	if tail-m.head.Load() >= uint64(len(m.slots)) {
		return false
	}
	m.slots[tail&m.mask] = msg
	m.tail.Store(tail + 1)
	return true
}

func (m *mailbox) pop() (message, bool) {
	head := m.head.Load()
	if head == m.tail.Load() {
		return message{}, false
	}
	slot := &m.slots[head&m.mask]
	msg := *slot
	*slot = message{}
	m.head.Store(head + 1)
	return msg, true
}

func (m *mailbox) len() int {
	return int(m.tail.Load() - m.head.Load())
}
