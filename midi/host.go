// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Device is an input port as the host reports it.
type Device struct {
	ID   int
	Name string
}

// Host enumerates input devices and delivers their raw messages.
type Host interface {
	Devices() ([]Device, error)

	// Listen calls handle with every complete message received on the
	// device until stop is called. handle may run on a driver goroutine.
	Listen(dev Device, handle func(msg []byte)) (stop func(), err error)

	Close() error
}

// DriverHost is a Host backed by a gomidi driver.
type DriverHost struct {
	drv drivers.Driver
}

func NewDriverHost(drv drivers.Driver) *DriverHost {
	return &DriverHost{drv: drv}
}

// DefaultHost wraps the first registered gomidi driver. Drivers register
// themselves when imported; without one ErrUnsupported is returned.
func DefaultHost() (*DriverHost, error) {
	drv := drivers.Get()
	if drv == nil {
		return nil, ErrUnsupported
	}
	return NewDriverHost(drv), nil
}

func (h *DriverHost) Devices() ([]Device, error) {
	ins, err := h.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing midi inputs: %w", err)
	}

	devs := make([]Device, 0, len(ins))
	for _, in := range ins {
		devs = append(devs, Device{ID: in.Number(), Name: in.String()})
	}
	return devs, nil
}

func (h *DriverHost) Listen(dev Device, handle func(msg []byte)) (func(), error) {
	ins, err := h.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing midi inputs: %w", err)
	}

	var port drivers.In
	for _, in := range ins {
		if in.Number() == dev.ID && in.String() == dev.Name {
			port = in
			break
		}
	}
	if port == nil {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, dev.Name)
	}

	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, _ int32) {
		handle(msg.Bytes())
	})
	if err != nil {
		return nil, fmt.Errorf("listening on %q: %w", dev.Name, err)
	}

	return func() {
		stop()
		_ = port.Close()
	}, nil
}

func (h *DriverHost) Close() error { return h.drv.Close() }
