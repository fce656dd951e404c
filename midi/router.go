// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ControlFunc receives a control-change value normalised to [0, 1].
type ControlFunc func(value float64)

// NoteFunc receives note events with velocity normalised to [0, 1]. A note-on
// with velocity 0 arrives as on == false.
type NoteFunc func(note uint8, velocity float64, on bool)

// Router decodes channel messages from one selected input device and
// dispatches them to registered callbacks.
type Router struct {
	host   Host
	logger *log.Logger

	// cbMu is never held while calling into the host
	cbMu     sync.RWMutex
	controls map[uint8]ControlFunc
	note     NoteFunc

	mu     sync.Mutex
	wanted *Device // last device chosen with Select
	active *Device // device currently listened to
	stop   func()
}

// New creates a router on host. A nil host gives a router that reports
// itself unsupported; Handle still works so messages can be fed by hand.
func New(host Host, logger *log.Logger) *Router {
	if h, ok := host.(*DriverHost); ok && h == nil {
		host = nil
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		host:     host,
		logger:   logger,
		controls: make(map[uint8]ControlFunc),
	}
}

func (r *Router) Supported() bool { return r.host != nil }

// Devices enumerates the host's input devices.
func (r *Router) Devices() ([]Device, error) {
	if r.host == nil {
		return nil, ErrUnsupported
	}
	return r.host.Devices()
}

// Select starts listening on the device with the given id, replacing any
// previous selection. The choice is remembered by name so Refresh can pick
// the device up again after it is unplugged.
func (r *Router) Select(id int) error {
	devs, err := r.Devices()
	if err != nil {
		return err
	}

	for _, d := range devs {
		if d.ID != id {
			continue
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		r.wanted = &d
		return r.listenLocked(d)
	}
	return fmt.Errorf("%w: id %d", ErrDeviceNotFound, id)
}

// Selected returns the device currently listened to.
func (r *Router) Selected() (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return Device{}, false
	}
	return *r.active, true
}

func (r *Router) listenLocked(d Device) error {
	r.stopLocked()
	stop, err := r.host.Listen(d, r.Handle)
	if err != nil {
		return err
	}
	r.active, r.stop = &d, stop
	r.logger.Printf("MIDI input selected: %s", d.Name)
	return nil
}

func (r *Router) stopLocked() {
	if r.stop != nil {
		r.stop()
	}
	r.active, r.stop = nil, nil
}

// OnControlChange registers fn for controller number cc, replacing any
// previous callback.
func (r *Router) OnControlChange(cc uint8, fn ControlFunc) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	if fn == nil {
		delete(r.controls, cc)
		return
	}
	r.controls[cc] = fn
}

func (r *Router) OffControlChange(cc uint8) { r.OnControlChange(cc, nil) }

// OnNote sets the note callback. nil removes it.
func (r *Router) OnNote(fn NoteFunc) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	r.note = fn
}

// Handle decodes one raw message and runs the matching callback. Anything
// other than control change, note on and note off is ignored.
func (r *Router) Handle(raw []byte) {
	msg := gomidi.Message(raw)
	var ch, key, val uint8

	switch {
	case msg.GetControlChange(&ch, &key, &val):
		r.cbMu.RLock()
		fn := r.controls[key]
		r.cbMu.RUnlock()
		if fn != nil {
			fn(float64(val) / 127)
		}

	case msg.GetNoteOn(&ch, &key, &val):
		if fn := r.noteFunc(); fn != nil {
			fn(key, float64(val)/127, val > 0)
		}

	case msg.GetNoteOff(&ch, &key, &val):
		if fn := r.noteFunc(); fn != nil {
			fn(key, float64(val)/127, false)
		}
	}
}

func (r *Router) noteFunc() NoteFunc {
	r.cbMu.RLock()
	defer r.cbMu.RUnlock()
	return r.note
}

// Refresh re-enumerates devices. A selected device that disappeared is
// dropped, and the remembered device is listened to again once it is back.
func (r *Router) Refresh() error {
	devs, err := r.Devices()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && !containsName(devs, r.active.Name) {
		r.logger.Printf("MIDI input disconnected: %s", r.active.Name)
		r.stopLocked()
	}
	if r.active != nil || r.wanted == nil {
		return nil
	}

	for _, d := range devs {
		if d.Name == r.wanted.Name {
			return r.listenLocked(d)
		}
	}
	return nil
}

func containsName(devs []Device, name string) bool {
	for _, d := range devs {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Watch calls Refresh every interval until ctx is done. Refresh errors are
// logged, not returned.
func (r *Router) Watch(ctx context.Context, interval time.Duration) {
	if r.host == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(); err != nil {
				r.logger.Printf("MIDI refresh failed: %v", err)
			}
		}
	}
}

// Close stops listening and drops every callback. The host is not closed.
func (r *Router) Close() error {
	r.mu.Lock()
	r.stopLocked()
	r.wanted = nil
	r.mu.Unlock()

	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	clear(r.controls)
	r.note = nil
	return nil
}
