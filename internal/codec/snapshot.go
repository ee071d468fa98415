package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// snapshotMagic opens every raster snapshot.
var snapshotMagic = [4]byte{'K', 'C', 'R', 'S'}

const snapshotHeaderSize = 16

// Snapshot is an interleaved raster stored bit-exactly, used for golden files.
//
// On disk a snapshot is one zstd frame holding the magic "KCRS", width,
// height and channels as little-endian uint32, then the pixel bytes.
type Snapshot struct {
	Width    int
	Height   int
	Channels int
	Data     []byte
}

// WriteSnapshot compresses s to w.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	if len(s.Data) != s.Width*s.Height*s.Channels {
		return fmt.Errorf("snapshot: %d bytes for %dx%dx%d", len(s.Data), s.Width, s.Height, s.Channels)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("snapshot: create encoder: %w", err)
	}

	hdr := make([]byte, 0, snapshotHeaderSize)
	hdr = append(hdr, snapshotMagic[:]...)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.Width))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.Height))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(s.Channels))

	if _, err := enc.Write(hdr); err != nil {
		_ = enc.Close()
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := enc.Write(s.Data); err != nil {
		_ = enc.Close()
		return fmt.Errorf("snapshot: write data: %w", err)
	}
	return enc.Close()
}

// ReadSnapshot decompresses a snapshot from r.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: create decoder: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decompress: %w", err)
	}
	if len(raw) < snapshotHeaderSize || !bytes.Equal(raw[:4], snapshotMagic[:]) {
		return Snapshot{}, fmt.Errorf("snapshot: bad magic %q", raw[:min(4, len(raw))])
	}

	s := Snapshot{
		Width:    int(binary.LittleEndian.Uint32(raw[4:8])),
		Height:   int(binary.LittleEndian.Uint32(raw[8:12])),
		Channels: int(binary.LittleEndian.Uint32(raw[12:16])),
		Data:     raw[snapshotHeaderSize:],
	}
	if s.Width <= 0 || s.Height <= 0 || s.Channels < 1 || s.Channels > 4 {
		return Snapshot{}, fmt.Errorf("snapshot: invalid shape %dx%dx%d", s.Width, s.Height, s.Channels)
	}
	if len(s.Data) != s.Width*s.Height*s.Channels {
		return Snapshot{}, fmt.Errorf("snapshot: %d bytes for %dx%dx%d", len(s.Data), s.Width, s.Height, s.Channels)
	}
	return s, nil
}
