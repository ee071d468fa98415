package kconv

import (
	"math/rand"
	"testing"
)

// Test helper functions shared across kconv tests.

// fillFunc returns the value of element (x, y, c).
type fillFunc func(x, y, c int) uint8

// gradient is a deterministic pattern that differs per channel.
func gradient(x, y, c int) uint8 {
	return uint8((x*37 + y*11 + c*71) % 256)
}

// constant returns a fill that writes v everywhere.
func constant(v uint8) fillFunc {
	return func(int, int, int) uint8 { return v }
}

// noise returns a seeded pseudo-random fill.
func noise(seed int64) fillFunc {
	rng := rand.New(rand.NewSource(seed))
	return func(int, int, int) uint8 { return uint8(rng.Intn(256)) }
}

// mustRaster creates a raster and fills it through the checked setter.
func mustRaster(t testing.TB, w, h, channels int, layout Layout, fill fillFunc) *Raster {
	t.Helper()
	r, err := NewRaster(w, h, channels, layout)
	if err != nil {
		t.Fatalf("NewRaster(%d, %d, %d) = %v", w, h, channels, err)
	}
	for c := 0; c < channels; c++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if err := r.Set(x, y, c, fill(x, y, c)); err != nil {
					t.Fatalf("Set(%d, %d, %d) = %v", x, y, c, err)
				}
			}
		}
	}
	return r
}

// mustAt reads one element, failing the test on error.
func mustAt(t testing.TB, r *Raster, x, y, c int) uint8 {
	t.Helper()
	v, err := r.At(x, y, c)
	if err != nil {
		t.Fatalf("At(%d, %d, %d) = %v", x, y, c, err)
	}
	return v
}

// mustKernelT builds a custom kernel without normalization.
func mustKernelT(t testing.TB, size int, weights ...float32) *Kernel {
	t.Helper()
	k, err := Custom(size, weights, false)
	if err != nil {
		t.Fatalf("Custom(%d) = %v", size, err)
	}
	return k
}

// absf32 returns the absolute value of a float32.
func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
