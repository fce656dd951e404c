// SPDX-License-Identifier: EPL-2.0

package looper

import "math"

// CurvePoints is the resolution of the crossfade curves.
const CurvePoints = 128

// EqualPowerCurves returns a sine fade-in and a cosine fade-out of n points.
// At every index fadeIn^2 + fadeOut^2 = 1.
func EqualPowerCurves(n int) (fadeIn, fadeOut []float32) {
	n = max(n, 2)
	fadeIn = make([]float32, n)
	fadeOut = make([]float32, n)
	for i := range n {
		x := float64(i) / float64(n-1) * math.Pi / 2
		fadeIn[i] = float32(math.Sin(x))
		fadeOut[i] = float32(math.Cos(x))
	}
	return fadeIn, fadeOut
}

// FadeInFrom returns an n point sine fade-in that starts at level instead of
// silence. It follows the same quarter sine as EqualPowerCurves, entered at
// asin(level).
func FadeInFrom(n int, level float64) []float32 {
	n = max(n, 2)
	x0 := math.Asin(math.Max(0, math.Min(level, 1)))
	curve := make([]float32, n)
	for i := range n {
		x := x0 + float64(i)/float64(n-1)*(math.Pi/2-x0)
		curve[i] = float32(math.Sin(x))
	}
	return curve
}
