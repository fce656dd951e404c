// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample containers and low-level primitives the
// rest of wavescan is built on.
//
// # Buffers
//
// A Buffer holds fully decoded, planar float32 audio. It is immutable once
// built and is shared by reference:
//
//	buf, _ := audio.NewBuffer(44100, [][]float32{left, right})
//	mono := buf.Mono()          // averaged channels, newly allocated
//	region := buf.Slice(0, 4410) // shares storage with buf
//
// # Sources and decoders
//
// Decoders produce a streaming Source of interleaved samples. ReadAll drains
// a Source into a Buffer, and Buffer.Source does the opposite:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	buf, err := registry.Decode("wav", file)
//
// Registry keys are case-insensitive and accept a leading dot, so
// filepath.Ext output can be passed directly.
//
// # Resampling
//
// Resample maps a sequence of any length onto a fixed number of samples with
// a Lanczos (windowed-sinc) kernel:
//
//	frame := audio.Resample(period, 2048)
//
// The kernel widens itself when downsampling so it doubles as the
// anti-aliasing filter. ResampleInto writes into a caller-owned slice and does
// not allocate.
//
// # Sample Format
//
// Samples are float32 in the nominal range [-1.0, 1.0]. Values outside the
// range are carried through unchanged and only clamped on export.
package audio
