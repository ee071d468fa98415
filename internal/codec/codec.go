// Package codec reads and writes 8-bit rasters as image files.
//
// Pixel data crosses the package boundary as interleaved bytes
// (width*height*channels, channel varies fastest). Supported formats:
//
//   - PNG and JPEG (standard library)
//   - BMP, TIFF and WebP (golang.org/x/image; WebP is decode-only)
//   - TGA, uncompressed and run-length encoded
//   - zstd-compressed raster snapshots (.zst), bit-exact for any channel count
//
// Decoding picks the decoder from the file extension and falls back to
// content sniffing for unknown extensions. Encoding always picks the format
// from the extension.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // registers the WebP decoder
)

// Codec errors.
var (
	// ErrDecode is returned when a file cannot be read or parsed.
	ErrDecode = errors.New("codec: decode failed")

	// ErrEncode is returned when a file cannot be written.
	ErrEncode = errors.New("codec: encode failed")

	// ErrUnsupportedFormat is returned when the file extension names no
	// format the codec can write.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)

// JPEGQuality is the quality used for every JPEG written.
const JPEGQuality = 100

// Decode reads the image at path and returns its pixels as interleaved bytes.
//
// channelForce selects the channel count of the result: 0 keeps the file's
// native count, 1 to 4 convert to gray, gray+alpha, RGB or RGBA.
func Decode(path string, channelForce int) (data []byte, width, height, channels int, err error) {
	if channelForce < 0 || channelForce > 4 {
		return nil, 0, 0, 0, fmt.Errorf("%w: channel count %d", ErrDecode, channelForce)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	img, native, err := decodeImage(f, extension(path))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	channels = native
	if channelForce != 0 {
		channels = channelForce
	}
	bounds := img.Bounds()
	return pack(img, channels), bounds.Dx(), bounds.Dy(), channels, nil
}

// decodeImage decodes r and reports the native channel count.
func decodeImage(r io.Reader, ext string) (image.Image, int, error) {
	switch ext {
	case ".tga":
		return decodeTGA(r)
	case ".zst":
		s, err := ReadSnapshot(r)
		if err != nil {
			return nil, 0, err
		}
		return toImage(s.Width, s.Height, s.Channels, s.Data), s.Channels, nil
	default:
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, 0, err
		}
		return img, nativeChannels(img), nil
	}
}

// Encode writes interleaved pixel data to path in the format named by the
// file extension: png, jpg/jpeg, bmp, tif/tiff, tga or zst.
// Returns ErrUnsupportedFormat for any other extension.
func Encode(path string, width, height, channels int, data []byte) error {
	if width <= 0 || height <= 0 || channels < 1 || channels > 4 {
		return fmt.Errorf("%w: %dx%dx%d", ErrEncode, width, height, channels)
	}
	if len(data) != width*height*channels {
		return fmt.Errorf("%w: got %d bytes for %dx%dx%d", ErrEncode, len(data), width, height, channels)
	}

	encode, err := encoderFor(extension(path))
	if err != nil {
		return fmt.Errorf("%w: %q", err, path)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := encode(f, width, height, channels, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

type encodeFunc func(w io.Writer, width, height, channels int, data []byte) error

func encoderFor(ext string) (encodeFunc, error) {
	switch ext {
	case ".png":
		return func(w io.Writer, width, height, channels int, data []byte) error {
			return png.Encode(w, toImage(width, height, channels, data))
		}, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, width, height, channels int, data []byte) error {
			return jpeg.Encode(w, toImage(width, height, channels, data), &jpeg.Options{Quality: JPEGQuality})
		}, nil
	case ".bmp":
		return func(w io.Writer, width, height, channels int, data []byte) error {
			return bmp.Encode(w, toImage(width, height, channels, data))
		}, nil
	case ".tif", ".tiff":
		return func(w io.Writer, width, height, channels int, data []byte) error {
			return tiff.Encode(w, toImage(width, height, channels, data), &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".tga":
		return encodeTGA, nil
	case ".zst":
		return func(w io.Writer, width, height, channels int, data []byte) error {
			return WriteSnapshot(w, Snapshot{Width: width, Height: height, Channels: channels, Data: data})
		}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Formats returns the extensions Encode accepts.
func Formats() []string {
	return []string{".bmp", ".jpeg", ".jpg", ".png", ".tga", ".tif", ".tiff", ".zst"}
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
