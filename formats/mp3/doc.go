// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// The decoder always reports two channels, since go-mp3 upmixes mono
// streams, and scales its 16-bit output to float32 by 1/32768:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src)
package mp3
