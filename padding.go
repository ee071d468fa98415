package kconv

import (
	"fmt"
	"strconv"
	"strings"
)

// Padding selects how border pixels outside the raster are synthesized.
type Padding uint8

const (
	// PadZero fills the border with 0.
	PadZero Padding = iota

	// PadReplicate repeats the nearest edge pixel.
	PadReplicate

	// PadMirror reflects the raster across its edges.
	PadMirror
)

// String returns the padding name used on the command line.
func (p Padding) String() string {
	switch p {
	case PadZero:
		return "zero"
	case PadReplicate:
		return "replicate"
	case PadMirror:
		return "mirror"
	default:
		return "Padding(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePadding parses a padding name, case-insensitively.
func ParsePadding(name string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zero":
		return PadZero, nil
	case "replicate":
		return PadReplicate, nil
	case "mirror":
		return PadMirror, nil
	default:
		return 0, fmt.Errorf("%w: unknown padding %q", ErrInvalidArgument, name)
	}
}

// Pad returns a new raster of (width+2*padW) x (height+2*padH) with the same
// channels and layout as r. Interior pixels are copied; border pixels follow
// policy. Returns ErrInvalidArgument if padW or padH is negative.
func Pad(r *Raster, padW, padH int, policy Padding) (*Raster, error) {
	if padW < 0 || padH < 0 {
		return nil, fmt.Errorf("%w: padding %dx%d", ErrInvalidArgument, padW, padH)
	}
	if policy > PadMirror {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, policy)
	}

	padded, err := NewRaster(r.width+2*padW, r.height+2*padH, r.channels, r.layout)
	if err != nil {
		return nil, err
	}

	for c := 0; c < r.channels; c++ {
		for y := 0; y < padded.height; y++ {
			row := y - padH
			for x := 0; x < padded.width; x++ {
				col := x - padW

				if col >= 0 && col < r.width && row >= 0 && row < r.height {
					padded.data[padded.offset(x, y, c)] = r.data[r.offset(col, row, c)]
					continue
				}

				switch policy {
				case PadZero:
					// Buffer is already zero.
				case PadReplicate:
					sc := clampInt(col, 0, r.width-1)
					sr := clampInt(row, 0, r.height-1)
					padded.data[padded.offset(x, y, c)] = r.data[r.offset(sc, sr, c)]
				case PadMirror:
					sc := mirrorIndex(col, r.width)
					sr := mirrorIndex(row, r.height)
					padded.data[padded.offset(x, y, c)] = r.data[r.offset(sc, sr, c)]
				}
			}
		}
	}

	return padded, nil
}

// mirrorIndex folds v into [0, n) by reflecting across the edges with period
// 2n, so -1 maps to 0 and n maps to n-1.
func mirrorIndex(v, n int) int {
	period := 2 * n
	m := v % period
	if m < 0 {
		m += period
	}
	return min(m, period-1-m)
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
