package kconv

import (
	"errors"
	"testing"
)

func TestPadDimensions(t *testing.T) {
	r := mustRaster(t, 5, 3, 2, Planar, gradient)
	p, err := Pad(r, 2, 1, PadZero)
	if err != nil {
		t.Fatal(err)
	}
	if p.Width() != 9 || p.Height() != 5 || p.Channels() != 2 || p.Layout() != Planar {
		t.Errorf("padded = %dx%dx%d %v", p.Width(), p.Height(), p.Channels(), p.Layout())
	}
}

func TestPadNegative(t *testing.T) {
	r := mustRaster(t, 2, 2, 1, Interleaved, gradient)
	if _, err := Pad(r, -1, 0, PadZero); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Pad(-1, 0) = %v, want ErrInvalidArgument", err)
	}
	if _, err := Pad(r, 0, -1, PadMirror); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Pad(0, -1) = %v, want ErrInvalidArgument", err)
	}
}

func TestPadZeroRing(t *testing.T) {
	const w, h, p = 4, 3, 2
	for _, layout := range []Layout{Interleaved, Planar} {
		r := mustRaster(t, w, h, 3, layout, constant(200))
		padded, err := Pad(r, p, p, PadZero)
		if err != nil {
			t.Fatal(err)
		}
		if padded.Width() != w+2*p || padded.Height() != h+2*p {
			t.Fatalf("padded = %dx%d", padded.Width(), padded.Height())
		}

		for c := 0; c < 3; c++ {
			for y := 0; y < h+2*p; y++ {
				for x := 0; x < w+2*p; x++ {
					got := mustAt(t, padded, x, y, c)
					inside := x >= p && x < w+p && y >= p && y < h+p
					want := uint8(0)
					if inside {
						want = mustAt(t, r, x-p, y-p, c)
					}
					if got != want {
						t.Fatalf("%v (%d,%d,%d) = %d, want %d", layout, x, y, c, got, want)
					}
				}
			}
		}
	}
}

func TestPadReplicate(t *testing.T) {
	r := mustRaster(t, 3, 3, 1, Interleaved, gradient)
	p, err := Pad(r, 2, 2, PadReplicate)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct{ x, y, sx, sy int }{
		{0, 0, 0, 0},
		{6, 0, 2, 0},
		{0, 6, 0, 2},
		{6, 6, 2, 2},
		{3, 0, 1, 0},
		{0, 3, 0, 1},
		{3, 3, 1, 1},
	}
	for _, tt := range tests {
		if got, want := mustAt(t, p, tt.x, tt.y, 0), mustAt(t, r, tt.sx, tt.sy, 0); got != want {
			t.Errorf("padded (%d,%d) = %d, want source (%d,%d) = %d", tt.x, tt.y, got, tt.sx, tt.sy, want)
		}
	}
}

func TestPadMirrorCorner(t *testing.T) {
	r := mustRaster(t, 4, 4, 1, Interleaved, gradient)
	p, err := Pad(r, 1, 1, PadMirror)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := mustAt(t, p, 0, 0, 0), mustAt(t, r, 0, 0, 0); got != want {
		t.Errorf("padded (0,0) = %d, want original (0,0) = %d", got, want)
	}
	if got, want := mustAt(t, p, 5, 5, 0), mustAt(t, r, 3, 3, 0); got != want {
		t.Errorf("padded (5,5) = %d, want original (3,3) = %d", got, want)
	}
}

func TestMirrorIndex(t *testing.T) {
	tests := []struct{ v, n, want int }{
		{-1, 4, 0},
		{-2, 4, 1},
		{-4, 4, 3},
		{-5, 4, 3},
		{4, 4, 3},
		{5, 4, 2},
		{7, 4, 0},
		{8, 4, 0},
		{-1, 1, 0},
		{3, 1, 0},
	}
	for _, tt := range tests {
		if got := mirrorIndex(tt.v, tt.n); got != tt.want {
			t.Errorf("mirrorIndex(%d, %d) = %d, want %d", tt.v, tt.n, got, tt.want)
		}
	}
}

func TestPadMirrorWide(t *testing.T) {
	// Padding wider than the raster folds more than once.
	r := mustRaster(t, 2, 1, 1, Interleaved, func(x, _, _ int) uint8 { return uint8(10 + x) })
	p, err := Pad(r, 5, 0, PadMirror)
	if err != nil {
		t.Fatal(err)
	}
	// Columns -5..6 fold with period 4 onto 0 0 1 1 0 0 1 1 0 0 1 1.
	want := []uint8{10, 10, 11, 11, 10, 10, 11, 11, 10, 10, 11, 11}
	for x, w := range want {
		if got := mustAt(t, p, x, 0, 0); got != w {
			t.Errorf("padded x=%d = %d, want %d", x, got, w)
		}
	}
}

func TestParsePadding(t *testing.T) {
	for _, p := range []Padding{PadZero, PadReplicate, PadMirror} {
		got, err := ParsePadding(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePadding(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePadding("wrap"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParsePadding(wrap) = %v, want ErrInvalidArgument", err)
	}
}
