package kconv

import "errors"

// Errors returned by kernel, raster, padding and engine operations.
// Callers match them with errors.Is; the returned error usually wraps one of
// these with the offending values.
var (
	// ErrInvalidDimensions is returned when a kernel is not square, odd and
	// positive, when a raster has a non-positive dimension, or when a kernel
	// does not fit the constant table.
	ErrInvalidDimensions = errors.New("kconv: invalid dimensions")

	// ErrOutOfBounds is returned when coordinates fall outside a raster or kernel.
	ErrOutOfBounds = errors.New("kconv: coordinates out of bounds")

	// ErrInvalidArgument is returned for negative padding, malformed weight
	// sets, unknown names and invalid configuration values.
	ErrInvalidArgument = errors.New("kconv: invalid argument")
)
