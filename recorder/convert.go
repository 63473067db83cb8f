package recorder

import "math"

// scaleSample applies the capture gain to one sample. Results outside
// the 16-bit range saturate instead of wrapping, so an overdriven gain
// clips rather than producing wraparound noise.
func scaleSample(s int16, gain float32) int16 {
	v := float64(s) * float64(gain)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
