// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through
// github.com/jfreymuth/oggvorbis.
//
// Samples come out of the codec as float32 already, so the source is a thin
// pass-through that preserves the stream's channel count.
package vorbis
