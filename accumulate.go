package kconv

import "math"

// weightedSum is the inner product every strategy shares. It walks a kw x kh
// window of src starting at origin, where colStep and rowStep are the index
// distances to the right and lower neighbour. Rows are summed top to bottom
// and columns left to right into a float64, so the result is bit-identical
// no matter which buffer the window is read from.
func weightedSum(src []byte, origin, colStep, rowStep int, weights []float32, kw, kh int) float64 {
	var sum float64
	for ky := 0; ky < kh; ky++ {
		i := origin + ky*rowStep
		for _, w := range weights[ky*kw : ky*kw+kw] {
			sum += float64(src[i]) * float64(w)
			i += colStep
		}
	}
	return sum
}

// saturate rounds v half away from zero and clamps it into [0, 255].
// NaN maps to 0.
func saturate(v float64) uint8 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
