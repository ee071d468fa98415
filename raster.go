package kconv

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Layout selects how the channels of a raster are arranged in memory.
type Layout uint8

const (
	// Interleaved stores all channels of one pixel next to each other
	// (pixel-major, channel varies fastest). Also known as AoS.
	Interleaved Layout = iota

	// Planar stores each channel as its own contiguous plane
	// (channel-major). Also known as SoA.
	Planar
)

// String returns the layout name used on the command line.
func (l Layout) String() string {
	switch l {
	case Interleaved:
		return "interleaved"
	case Planar:
		return "planar"
	default:
		return "Layout(" + strconv.Itoa(int(l)) + ")"
	}
}

// Architecture returns the memory architecture label written to the results
// log: "AoS" for interleaved and "SoA" for planar rasters.
func (l Layout) Architecture() string {
	if l == Planar {
		return "SoA"
	}
	return "AoS"
}

// Opposite returns the other layout.
func (l Layout) Opposite() Layout {
	if l == Planar {
		return Interleaved
	}
	return Planar
}

// ParseLayout parses a layout name. Both the descriptive names and the
// architecture labels are accepted, case-insensitively.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "interleaved", "aos":
		return Interleaved, nil
	case "planar", "soa":
		return Planar, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout %q", ErrInvalidArgument, name)
	}
}

// Raster is an 8-bit-per-channel image stored in one flat buffer.
//
// The buffer length always equals width*height*channels. A Raster owns its
// buffer exclusively: Clone deep-copies and ConvertLayout reallocates.
//
// Thread safety: a Raster is safe for concurrent reads. Set and
// ConvertLayout require external synchronization.
type Raster struct {
	data     []byte
	width    int
	height   int
	channels int
	layout   Layout
}

// NewRaster creates a zero-filled raster.
// Returns ErrInvalidDimensions if any dimension is non-positive.
func NewRaster(width, height, channels int, layout Layout) (*Raster, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: raster %dx%dx%d", ErrInvalidDimensions, width, height, channels)
	}
	return &Raster{
		data:     make([]byte, width*height*channels),
		width:    width,
		height:   height,
		channels: channels,
		layout:   layout,
	}, nil
}

// NewRasterFrom creates a raster holding a copy of data, which must already be
// arranged in the given layout.
// Returns ErrInvalidArgument if len(data) != width*height*channels.
func NewRasterFrom(width, height, channels int, data []byte, layout Layout) (*Raster, error) {
	r, err := NewRaster(width, height, channels, layout)
	if err != nil {
		return nil, err
	}
	if len(data) != len(r.data) {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%dx%d raster", ErrInvalidArgument, len(data), width, height, channels)
	}
	copy(r.data, data)
	return r, nil
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &Raster{
		data:     data,
		width:    r.width,
		height:   r.height,
		channels: r.channels,
		layout:   r.layout,
	}
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.width }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.height }

// Channels returns the number of channels per pixel.
func (r *Raster) Channels() int { return r.channels }

// Layout returns the channel layout of the buffer.
func (r *Raster) Layout() Layout { return r.layout }

// Size returns the buffer length, width*height*channels.
func (r *Raster) Size() int { return len(r.data) }

// Data returns the raw buffer. Writes through it modify the raster.
func (r *Raster) Data() []byte { return r.data }

// Offset returns the index of element (col, row, channel) in Data.
// Returns ErrOutOfBounds if any coordinate is outside the raster.
func (r *Raster) Offset(col, row, channel int) (int, error) {
	if col < 0 || col >= r.width || row < 0 || row >= r.height || channel < 0 || channel >= r.channels {
		return -1, fmt.Errorf("%w: (%d, %d, %d) in %dx%dx%d raster",
			ErrOutOfBounds, col, row, channel, r.width, r.height, r.channels)
	}
	return r.offset(col, row, channel), nil
}

// At returns element (col, row, channel).
func (r *Raster) At(col, row, channel int) (uint8, error) {
	i, err := r.Offset(col, row, channel)
	if err != nil {
		return 0, err
	}
	return r.data[i], nil
}

// Set writes element (col, row, channel).
func (r *Raster) Set(col, row, channel int, v uint8) error {
	i, err := r.Offset(col, row, channel)
	if err != nil {
		return err
	}
	r.data[i] = v
	return nil
}

// offset is the unchecked index formula.
func (r *Raster) offset(col, row, channel int) int {
	if r.layout == Planar {
		return channel*r.width*r.height + row*r.width + col
	}
	return (row*r.width+col)*r.channels + channel
}

// steps describes how one channel of the raster is walked in Data:
// the index of (0,0), and the distance between horizontal and vertical
// neighbours. Both layouts reduce to base + row*rowStep + col*colStep.
func (r *Raster) steps(channel int) (base, colStep, rowStep int) {
	if r.layout == Planar {
		return channel * r.width * r.height, 1, r.width
	}
	return channel, r.channels, r.width * r.channels
}

// ConvertLayout switches the raster to the opposite layout, reallocating the
// buffer and moving every element to its new index.
func (r *Raster) ConvertLayout() {
	target := r.layout.Opposite()
	converted := make([]byte, len(r.data))
	dst := Raster{data: converted, width: r.width, height: r.height, channels: r.channels, layout: target}

	for c := 0; c < r.channels; c++ {
		for y := 0; y < r.height; y++ {
			for x := 0; x < r.width; x++ {
				converted[dst.offset(x, y, c)] = r.data[r.offset(x, y, c)]
			}
		}
	}

	r.data = converted
	r.layout = target
}

// ToLayout converts the raster to l if it is not already stored that way.
func (r *Raster) ToLayout(l Layout) {
	if r.layout != l {
		r.ConvertLayout()
	}
}

// Equal reports whether both rasters have the same dimensions and identical
// bytes. The layout flag is not compared.
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.width != other.width || r.height != other.height || r.channels != other.channels {
		return false
	}
	return bytes.Equal(r.data, other.data)
}

// String renders the raster as one line per row of (c0, c1, ...) tuples,
// right-aligned to the widest value.
func (r *Raster) String() string {
	width := 1
	for _, v := range r.data {
		width = max(width, len(strconv.Itoa(int(v))))
	}

	var sb strings.Builder
	sb.WriteString("Image data:\n")
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			sb.WriteByte('(')
			for c := 0; c < r.channels; c++ {
				fmt.Fprintf(&sb, "%*d", width, r.data[r.offset(x, y, c)])
				if c < r.channels-1 {
					sb.WriteString(", ")
				}
			}
			sb.WriteString(") ")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// subRows copies rows [row0, row0+n) of every channel into a new raster of
// the same width, channels and layout.
func (r *Raster) subRows(row0, n int) (*Raster, error) {
	if row0 < 0 || n <= 0 || row0+n > r.height {
		return nil, fmt.Errorf("%w: rows [%d, %d) of %d", ErrOutOfBounds, row0, row0+n, r.height)
	}
	band, err := NewRaster(r.width, n, r.channels, r.layout)
	if err != nil {
		return nil, err
	}

	if r.layout == Interleaved {
		rowBytes := r.width * r.channels
		copy(band.data, r.data[row0*rowBytes:(row0+n)*rowBytes])
		return band, nil
	}

	plane := r.width * r.height
	bandPlane := r.width * n
	for c := 0; c < r.channels; c++ {
		src := r.data[c*plane+row0*r.width : c*plane+(row0+n)*r.width]
		copy(band.data[c*bandPlane:(c+1)*bandPlane], src)
	}
	return band, nil
}

// putRows copies all rows of band into r starting at row0. band must have
// r's width, channels and layout and fit below row0.
func (r *Raster) putRows(row0 int, band *Raster) {
	if r.layout == Interleaved {
		rowBytes := r.width * r.channels
		copy(r.data[row0*rowBytes:], band.data)
		return
	}

	plane := r.width * r.height
	bandPlane := band.width * band.height
	for c := 0; c < r.channels; c++ {
		copy(r.data[c*plane+row0*r.width:], band.data[c*bandPlane:(c+1)*bandPlane])
	}
}
