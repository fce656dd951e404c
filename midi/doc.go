// SPDX-License-Identifier: EPL-2.0

// Package midi routes control-change and note messages from an input device
// to callbacks.
//
// A Router sits on a Host. DriverHost adapts any gomidi driver; build with
// the rtmidi tag to register the RtMidi driver for hardware ports:
//
//	host, err := midi.DefaultHost()
//	if err != nil {
//		// no driver: keep a Router anyway, it just reports Supported() == false
//	}
//	r := midi.New(host, nil)
//	r.OnControlChange(74, func(v float64) { osc.SetScan(v) })
//	go r.Watch(ctx, 2*time.Second) // hot-plug
package midi
