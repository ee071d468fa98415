package kconv

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRaster(t *testing.T) {
	r, err := NewRaster(4, 3, 2, Planar)
	if err != nil {
		t.Fatalf("NewRaster() = %v", err)
	}
	if r.Width() != 4 || r.Height() != 3 || r.Channels() != 2 || r.Layout() != Planar {
		t.Errorf("got %dx%dx%d %v", r.Width(), r.Height(), r.Channels(), r.Layout())
	}
	if r.Size() != 24 || len(r.Data()) != 24 {
		t.Errorf("Size() = %d, len(Data()) = %d, want 24", r.Size(), len(r.Data()))
	}
	for i, v := range r.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %d, want 0", i, v)
		}
	}
}

func TestNewRasterInvalid(t *testing.T) {
	tests := []struct{ w, h, c int }{
		{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-2, 3, 1},
	}
	for _, tt := range tests {
		if _, err := NewRaster(tt.w, tt.h, tt.c, Interleaved); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewRaster(%d, %d, %d) = %v, want ErrInvalidDimensions", tt.w, tt.h, tt.c, err)
		}
	}
}

func TestNewRasterFrom(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	r, err := NewRasterFrom(3, 1, 2, data, Interleaved)
	if err != nil {
		t.Fatalf("NewRasterFrom() = %v", err)
	}

	// Bulk copy, not aliasing.
	data[0] = 99
	if got := mustAt(t, r, 0, 0, 0); got != 1 {
		t.Errorf("At(0,0,0) = %d after caller mutation, want 1", got)
	}
	if got := mustAt(t, r, 2, 0, 1); got != 6 {
		t.Errorf("At(2,0,1) = %d, want 6", got)
	}

	if _, err := NewRasterFrom(3, 1, 2, data[:5], Interleaved); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short data: err = %v, want ErrInvalidArgument", err)
	}
}

func TestRasterOffsetFormulas(t *testing.T) {
	const w, h, c = 5, 4, 3

	inter, _ := NewRaster(w, h, c, Interleaved)
	planar, _ := NewRaster(w, h, c, Planar)

	for ch := 0; ch < c; ch++ {
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				got, err := inter.Offset(col, row, ch)
				if err != nil {
					t.Fatal(err)
				}
				if want := (row*w+col)*c + ch; got != want {
					t.Errorf("interleaved Offset(%d,%d,%d) = %d, want %d", col, row, ch, got, want)
				}

				got, err = planar.Offset(col, row, ch)
				if err != nil {
					t.Fatal(err)
				}
				if want := ch*w*h + row*w + col; got != want {
					t.Errorf("planar Offset(%d,%d,%d) = %d, want %d", col, row, ch, got, want)
				}
			}
		}
	}
}

func TestRasterOutOfBounds(t *testing.T) {
	r, _ := NewRaster(3, 2, 1, Interleaved)

	coords := [][3]int{
		{-1, 0, 0}, {3, 0, 0}, {0, -1, 0}, {0, 2, 0}, {0, 0, -1}, {0, 0, 1},
	}
	for _, p := range coords {
		if _, err := r.At(p[0], p[1], p[2]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At%v = %v, want ErrOutOfBounds", p, err)
		}
		if err := r.Set(p[0], p[1], p[2], 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set%v = %v, want ErrOutOfBounds", p, err)
		}
	}
}

func TestRasterSetWritesThroughSlot(t *testing.T) {
	r, _ := NewRaster(2, 2, 3, Planar)
	if err := r.Set(1, 1, 2, 200); err != nil {
		t.Fatal(err)
	}
	i, _ := r.Offset(1, 1, 2)
	if r.Data()[i] != 200 {
		t.Errorf("Data()[%d] = %d, want 200", i, r.Data()[i])
	}

	r.Data()[i] = 17
	if got := mustAt(t, r, 1, 1, 2); got != 17 {
		t.Errorf("At() after Data() write = %d, want 17", got)
	}
}

func TestRasterClone(t *testing.T) {
	r := mustRaster(t, 4, 4, 2, Interleaved, gradient)
	c := r.Clone()

	if !r.Equal(c) {
		t.Fatal("clone differs from original")
	}
	_ = c.Set(0, 0, 0, 255-mustAt(t, r, 0, 0, 0))
	if r.Equal(c) {
		t.Error("mutating clone affected original")
	}
}

func TestConvertLayoutRoundTrip(t *testing.T) {
	for _, layout := range []Layout{Interleaved, Planar} {
		r := mustRaster(t, 7, 5, 3, layout, gradient)
		orig := r.Clone()

		r.ConvertLayout()
		if r.Layout() != layout.Opposite() {
			t.Errorf("layout after convert = %v, want %v", r.Layout(), layout.Opposite())
		}
		// Coordinates still address the same values.
		for c := 0; c < 3; c++ {
			for y := 0; y < 5; y++ {
				for x := 0; x < 7; x++ {
					if mustAt(t, r, x, y, c) != mustAt(t, orig, x, y, c) {
						t.Fatalf("(%d,%d,%d) changed by conversion", x, y, c)
					}
				}
			}
		}

		r.ConvertLayout()
		if r.Layout() != layout || !r.Equal(orig) {
			t.Errorf("%v: double conversion is not byte-identical", layout)
		}
	}
}

func TestConvertLayoutPermutes(t *testing.T) {
	// Two RGB pixels: interleaved r0 g0 b0 r1 g1 b1 -> planar r0 r1 g0 g1 b0 b1.
	r, _ := NewRasterFrom(2, 1, 3, []byte{1, 2, 3, 4, 5, 6}, Interleaved)
	r.ConvertLayout()

	want := []byte{1, 4, 2, 5, 3, 6}
	if string(r.Data()) != string(want) {
		t.Errorf("planar data = %v, want %v", r.Data(), want)
	}

	r.ToLayout(Planar) // no-op
	if string(r.Data()) != string(want) {
		t.Error("ToLayout with the current layout modified data")
	}
}

func TestRasterEqual(t *testing.T) {
	a := mustRaster(t, 3, 3, 1, Interleaved, gradient)
	b := mustRaster(t, 3, 3, 1, Interleaved, gradient)
	if !a.Equal(b) {
		t.Error("identical rasters not equal")
	}

	c := mustRaster(t, 3, 3, 2, Interleaved, gradient)
	if a.Equal(c) {
		t.Error("different channel counts compare equal")
	}

	var nilRaster *Raster
	if a.Equal(nilRaster) || !nilRaster.Equal(nil) {
		t.Error("nil handling wrong")
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in   string
		want Layout
	}{
		{"interleaved", Interleaved}, {"AoS", Interleaved}, {"planar", Planar}, {" SOA ", Planar},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLayout(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLayout("tiled"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseLayout(tiled) = %v, want ErrInvalidArgument", err)
	}
	if Planar.Architecture() != "SoA" || Interleaved.Architecture() != "AoS" {
		t.Error("Architecture() labels wrong")
	}
}

func TestRasterString(t *testing.T) {
	r, _ := NewRasterFrom(2, 1, 2, []byte{1, 200, 30, 4}, Interleaved)
	s := r.String()
	if !strings.Contains(s, "(  1, 200) ( 30,   4)") {
		t.Errorf("String() = %q", s)
	}
}

func TestSubRowsPutRows(t *testing.T) {
	for _, layout := range []Layout{Interleaved, Planar} {
		r := mustRaster(t, 4, 6, 2, layout, gradient)

		band, err := r.subRows(2, 3)
		if err != nil {
			t.Fatalf("subRows() = %v", err)
		}
		for c := 0; c < 2; c++ {
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					if mustAt(t, band, x, y, c) != mustAt(t, r, x, y+2, c) {
						t.Fatalf("%v: band (%d,%d,%d) mismatch", layout, x, y, c)
					}
				}
			}
		}

		dst, _ := NewRaster(4, 6, 2, layout)
		dst.putRows(2, band)
		for c := 0; c < 2; c++ {
			for y := 0; y < 6; y++ {
				for x := 0; x < 4; x++ {
					want := uint8(0)
					if y >= 2 && y < 5 {
						want = mustAt(t, r, x, y, c)
					}
					if got := mustAt(t, dst, x, y, c); got != want {
						t.Fatalf("%v: putRows (%d,%d,%d) = %d, want %d", layout, x, y, c, got, want)
					}
				}
			}
		}

		if _, err := r.subRows(5, 2); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("subRows past end = %v, want ErrOutOfBounds", err)
		}
	}
}
