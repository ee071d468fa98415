// Package kconv applies 2D kernel convolution to 8-bit rasters.
//
// # Overview
//
// A Raster holds width*height*channels bytes in one of two layouts:
// Interleaved (AoS, channels of a pixel adjacent) or Planar (SoA, one plane
// per channel). A Kernel is a square, odd-sized grid of float32 weights.
// Convolution pads the raster by half the kernel on every side, computes the
// weighted sum for every output element, rounds it and saturates it to
// [0, 255]. The output has the input's dimensions, channels and layout.
//
// # Quick Start
//
//	img, _ := kconv.NewRasterFrom(w, h, 3, pixels, kconv.Interleaved)
//
//	eng, err := kconv.NewEngine(kconv.WithStrategy(kconv.Shared))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	out, err := eng.Convolve(img, kconv.GaussianBlur(), kconv.PadMirror)
//
// # Strategies
//
// The engine schedules the same arithmetic in five ways:
//   - Sequential: nested loops on the calling goroutine
//   - Global: rows spread over a worker pool
//   - Shared: tiles staged with their halo into a buffer shared by a team
//   - Pipelined: independent row partitions with private input and output bands
//   - Constant: weights staged once into a fixed-capacity table
//
// Every strategy accumulates in the same order and rounds the same way, so
// outputs are byte-identical whatever the strategy, layout or configuration.
//
// # Padding
//
// Border pixels are synthesized by PadZero, PadReplicate or PadMirror.
// Mirror reflects including the edge pixel: column -1 reads column 0.
//
// # Architecture
//
// The module is organized into:
//   - Public API: Raster, Kernel, Pad, Engine, Config
//   - internal/parallel: worker pool, tile grid, staging buffers, barrier
//   - internal/codec: image file decode and encode
//   - internal/results: the CSV results log
//   - internal/bench: timing harness
//   - cmd/kconv: the command-line front end
package kconv

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
