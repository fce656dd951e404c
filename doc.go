// SPDX-License-Identifier: EPL-2.0

// Package wavescan is a real-time wavetable and loop playback engine.
//
// A recording is loaded once. Its frames are extracted for the wavetable
// oscillator and the same buffer is handed to the crossfading looper. Both
// sources are summed, shaped by an ADSR envelope and pulled by the output
// device one block at a time.
//
// # Quick Start
//
//	e := wavescan.New(wavescan.DefaultConfig(), nil, nil)
//	defer e.Close()
//
//	if err := e.LoadFile("voice.wav"); err != nil {
//		log.Fatal(err)
//	}
//	e.NoteOn(60, 0.8)
//	time.Sleep(time.Second)
//	e.NoteOff(60)
//
// The output device is opened on the first Play or NoteOn. If it cannot be
// opened the engine keeps working and Available reports false.
//
// # Packages
//
//   - audio: buffers, decoders and the Lanczos resampler
//   - wavetable: frame extraction and pitch detection
//   - oscillator: the real-time wavetable oscillator
//   - looper: the crossfaded looper and loop export
//   - envelope and automation: ADSR on sample-accurate scheduled gain
//   - midi: control-change and note routing with hot-plug
//   - device: oto and portaudio outputs
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders
//
// # Threading
//
// Control methods may be called from any goroutine. Render runs on the
// device's audio goroutine; it never locks, blocks or allocates. Values
// that cross over are atomics, copied frame sets sent through a fixed-size
// mailbox, or gain curves scheduled ahead of time against the sample clock.
package wavescan
