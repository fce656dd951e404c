// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// LanczosA is the default kernel half-width, in input samples, used by
// Resample and ResampleInto.
const LanczosA = 6

// Resample maps src onto exactly n output samples using windowed-sinc
// (Lanczos) interpolation. A zero-length src yields n zeros.
func Resample(src []float32, n int) []float32 {
	dst := make([]float32, max(n, 0))
	ResampleLanczos(dst, src, LanczosA)
	return dst
}

// ResampleInto fills all of dst from src. It does not allocate.
func ResampleInto(dst, src []float32) {
	ResampleLanczos(dst, src, LanczosA)
}

// ResampleLanczos fills dst with src resampled to len(dst) using a Lanczos
// kernel of half-width a.
//
// When downsampling the kernel is widened by the ratio m/n so that it also
// acts as the low-pass filter. Every output sample is normalised by the sum of
// the weights that actually fell inside src, which keeps the edges unbiased
// where the kernel is truncated.
func ResampleLanczos(dst, src []float32, a int) {
	n, m := len(dst), len(src)
	if n == 0 {
		return
	}
	if m == 0 {
		clear(dst)
		return
	}
	if m == n {
		copy(dst, src)
		return
	}
	if a < 1 {
		a = 1
	}

	ratio := float64(m) / float64(n)
	scale := math.Max(1, ratio)
	support := float64(a) * scale
	fa := float64(a)

	for j := range dst {
		// align sample centres so that both ends map onto each other
		center := (float64(j)+0.5)*ratio - 0.5
		lo := max(int(math.Ceil(center-support)), 0)
		hi := min(int(math.Floor(center+support)), m-1)

		var sum, weights float64
		for i := lo; i <= hi; i++ {
			w := lanczos((float64(i)-center)/scale, fa)
			sum += w * float64(src[i])
			weights += w
		}

		if math.Abs(weights) < 1e-12 {
			dst[j] = 0
			continue
		}
		dst[j] = float32(sum / weights)
	}
}

// lanczos evaluates sinc(x)·sinc(x/a) for |x| < a.
func lanczos(x, a float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1
	}
	if math.Abs(x) >= a {
		return 0
	}
	px := math.Pi * x
	return a * math.Sin(px) * math.Sin(px/a) / (px * px)
}
