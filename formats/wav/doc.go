// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE containers.
//
// # Decoding
//
// Decoder accepts integer PCM at 8, 16, 24 or 32 bits with any channel count
// and sample rate. Parsing is done by github.com/go-audio/wav; readers that
// cannot seek are buffered in memory first.
//
//	buf, err := wav.DecodeBuffer(file)
//
// Recordings delivered as text can be decoded with DecodeBase64, which also
// accepts a "data:audio/wav;base64," prefix.
//
// # Encoding
//
// Encode always writes the canonical 44-byte header followed by interleaved
// little-endian 16-bit samples. Each sample is clamped to [-1,1] and quantized
// asymmetrically (negative values by 0x8000, positive by 0x7fff):
//
//	data, err := wav.EncodeBytes(buf)
//
// WriteWAV16 is the lower level form for callers that already hold int16 PCM.
package wav
