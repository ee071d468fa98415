package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaRLETrueColor = 10
	tgaRLEGray      = 11
)

const (
	tgaHeaderSize = 18
	tgaTopLeft    = 0x20
	tgaMaxPacket  = 128
)

var errTGA = errors.New("tga: unsupported or corrupt file")

// decodeTGA reads an 8, 16 (gray+alpha), 24 or 32 bit TGA, raw or RLE.
func decodeTGA(r io.Reader) (image.Image, int, error) {
	br := bufio.NewReader(r)

	var hdr [tgaHeaderSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, 0, fmt.Errorf("tga: header: %w", err)
	}

	idLen := int(hdr[0])
	cmapType := hdr[1]
	imageType := hdr[2]
	cmapLen := int(binary.LittleEndian.Uint16(hdr[5:7]))
	cmapBits := int(hdr[7])
	width := int(binary.LittleEndian.Uint16(hdr[12:14]))
	height := int(binary.LittleEndian.Uint16(hdr[14:16]))
	bpp := int(hdr[16])
	descriptor := hdr[17]

	gray := imageType == tgaGray || imageType == tgaRLEGray
	rle := imageType == tgaRLETrueColor || imageType == tgaRLEGray
	if !gray && imageType != tgaTrueColor && imageType != tgaRLETrueColor {
		return nil, 0, fmt.Errorf("%w: image type %d", errTGA, imageType)
	}
	if width == 0 || height == 0 {
		return nil, 0, fmt.Errorf("%w: %dx%d", errTGA, width, height)
	}

	var channels int
	switch {
	case gray && bpp == 8:
		channels = 1
	case gray && bpp == 16:
		channels = 2
	case !gray && bpp == 24:
		channels = 3
	case !gray && bpp == 32:
		channels = 4
	default:
		return nil, 0, fmt.Errorf("%w: %d bits per pixel", errTGA, bpp)
	}

	// Skip the image ID and any colour map a truecolor file carries.
	skip := idLen
	if cmapType != 0 {
		skip += cmapLen * ((cmapBits + 7) / 8)
	}
	if _, err := br.Discard(skip); err != nil {
		return nil, 0, fmt.Errorf("tga: %w", err)
	}

	data := make([]byte, width*height*channels)
	var err error
	if rle {
		err = readRLE(br, data, channels)
	} else {
		_, err = io.ReadFull(br, data)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("tga: pixel data: %w", err)
	}

	if !gray {
		swapRB(data, channels)
	}
	if descriptor&tgaTopLeft == 0 {
		flipRows(data, width*channels)
	}
	return toImage(width, height, channels, data), channels, nil
}

func readRLE(r *bufio.Reader, data []byte, channels int) error {
	pixel := make([]byte, channels)
	for i := 0; i < len(data); {
		h, err := r.ReadByte()
		if err != nil {
			return err
		}
		n := int(h&0x7f) + 1
		if i+n*channels > len(data) {
			return fmt.Errorf("%w: packet overruns image", errTGA)
		}

		if h&0x80 != 0 {
			if _, err := io.ReadFull(r, pixel); err != nil {
				return err
			}
			for range n {
				copy(data[i:], pixel)
				i += channels
			}
			continue
		}

		if _, err := io.ReadFull(r, data[i:i+n*channels]); err != nil {
			return err
		}
		i += n * channels
	}
	return nil
}

// encodeTGA writes a run-length encoded, top-left origin TGA.
func encodeTGA(w io.Writer, width, height, channels int, data []byte) error {
	if width > 0xffff || height > 0xffff {
		return fmt.Errorf("tga: %dx%d exceeds format limits", width, height)
	}

	var hdr [tgaHeaderSize]byte
	hdr[2] = tgaRLETrueColor
	if channels <= 2 {
		hdr[2] = tgaRLEGray
	}
	binary.LittleEndian.PutUint16(hdr[12:14], uint16(width))
	binary.LittleEndian.PutUint16(hdr[14:16], uint16(height))
	hdr[16] = byte(channels * 8)
	hdr[17] = tgaTopLeft
	if channels == 2 || channels == 4 {
		hdr[17] |= 8 // alpha bits
	}

	pixels := data
	if channels >= 3 {
		pixels = bytes.Clone(data)
		swapRB(pixels, channels)
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.Write(hdr[:])
	stride := width * channels
	for y := range height {
		writeRLERow(bw, pixels[y*stride:(y+1)*stride], channels)
	}
	return bw.Flush()
}

func writeRLERow(w *bufio.Writer, row []byte, channels int) {
	n := len(row) / channels
	px := func(i int) []byte { return row[i*channels : (i+1)*channels] }

	for i := 0; i < n; {
		run := 1
		for i+run < n && run < tgaMaxPacket && bytes.Equal(px(i), px(i+run)) {
			run++
		}
		if run > 1 {
			_ = w.WriteByte(byte(0x80 | (run - 1)))
			_, _ = w.Write(px(i))
			i += run
			continue
		}

		raw := 1
		for i+raw < n && raw < tgaMaxPacket && (i+raw+1 >= n || !bytes.Equal(px(i+raw), px(i+raw+1))) {
			raw++
		}
		_ = w.WriteByte(byte(raw - 1))
		_, _ = w.Write(row[i*channels : (i+raw)*channels])
		i += raw
	}
}

// swapRB converts between BGR(A) and RGB(A) in place.
func swapRB(data []byte, channels int) {
	for i := 0; i+2 < len(data); i += channels {
		data[i], data[i+2] = data[i+2], data[i]
	}
}

func flipRows(data []byte, stride int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, len(data)-stride; top < bottom; top, bottom = top+stride, bottom-stride {
		copy(tmp, data[top:top+stride])
		copy(data[top:top+stride], data[bottom:bottom+stride])
		copy(data[bottom:bottom+stride], tmp)
	}
}
