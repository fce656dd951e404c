// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToPCM16 quantizes a sample to signed 16-bit PCM. The sample is clamped
// to [-1, 1] first; negative values scale by 0x8000 and positive ones by
// 0x7fff so both ends of the range are reachable without overflow.
func FloatToPCM16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	if x < 0 {
		return int16(x * 0x8000)
	}
	return int16(x * 0x7fff)
}

// PCM16ToFloat is the inverse of FloatToPCM16.
func PCM16ToFloat(v int16) float32 {
	if v < 0 {
		return float32(v) / 0x8000
	}
	return float32(v) / 0x7fff
}
