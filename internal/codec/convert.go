package codec

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// nativeChannels reports how many channels an image carries: 1 for gray,
// 3 for opaque colour and 4 otherwise. Go decoders never produce gray+alpha.
func nativeChannels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// toNRGBA returns img as non-premultiplied RGBA, converting if needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// luma is the integer Rec. 601 approximation used when collapsing colour to gray.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*77 + uint32(g)*150 + uint32(b)*29) >> 8)
}

// pack converts img into interleaved bytes with the given channel count.
func pack(img image.Image, channels int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*channels)

	// Gray sources keep their exact values for one channel.
	if g, ok := img.(*image.Gray); ok && channels == 1 {
		for y := range h {
			copy(out[y*w:], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):][:w])
		}
		return out
	}

	src := toNRGBA(img)
	i := 0
	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			r, g, bl, a := row[x], row[x+1], row[x+2], row[x+3]
			switch channels {
			case 1:
				out[i] = luma(r, g, bl)
			case 2:
				out[i] = luma(r, g, bl)
				out[i+1] = a
			case 3:
				out[i], out[i+1], out[i+2] = r, g, bl
			default:
				out[i], out[i+1], out[i+2], out[i+3] = r, g, bl, a
			}
			i += channels
		}
	}
	return out
}

// toImage wraps interleaved bytes in a standard image: Gray for one channel,
// NRGBA otherwise. Gray+alpha becomes NRGBA with equal colour components.
func toImage(width, height, channels int, data []byte) image.Image {
	rect := image.Rect(0, 0, width, height)
	if channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, data)
		return g
	}

	n := image.NewNRGBA(rect)
	for p := range width * height {
		s := data[p*channels : p*channels+channels]
		d := n.Pix[p*4 : p*4+4]
		switch channels {
		case 2:
			d[0], d[1], d[2], d[3] = s[0], s[0], s[0], s[1]
		case 3:
			d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
		default:
			copy(d, s)
		}
	}
	return n
}
