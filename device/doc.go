// SPDX-License-Identifier: EPL-2.0

// Package device owns the host audio output.
//
// An Output is opened explicitly with a Format and a Renderer and closed
// explicitly; nothing is created behind the caller's back. Two backends are
// provided:
//
//   - Oto (default) feeds the ebitengine/oto mixer from a reader that pulls
//     one block per Render call.
//   - PortAudio calls Render from the stream callback. It needs cgo and is
//     only compiled with the portaudio build tag; otherwise Open reports
//     ErrUnavailable.
//
// Render runs on the host's audio goroutine. It must not block or allocate.
package device
