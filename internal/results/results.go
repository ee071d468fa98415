// Package results maintains the comma-separated log of benchmark runs.
//
// The log starts with a header row and gains one row per run. It is created
// on first use and appended to afterwards, so runs from separate invocations
// accumulate in one table.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Header is the first row of every results log.
var Header = []string{
	"execution_type",
	"image_width",
	"image_height",
	"image_channels",
	"image_architecture",
	"kernel_width",
	"kernel_height",
	"execution_time",
	"iterations",
}

// ErrMalformed is returned by Read for rows that do not match Header.
var ErrMalformed = errors.New("results: malformed log")

// Record is one row of the log.
type Record struct {
	// ExecutionType names the strategy, e.g. "Parallel_Shared".
	// It is lowercased when written.
	ExecutionType string

	ImageWidth    int
	ImageHeight   int
	ImageChannels int

	// Architecture is the memory layout label, "AoS" or "SoA".
	Architecture string

	KernelWidth  int
	KernelHeight int

	// ExecutionTime is the mean time per iteration in milliseconds.
	ExecutionTime float64

	Iterations int
}

func (r Record) row() []string {
	return []string{
		cases.Lower(language.Und).String(r.ExecutionType),
		strconv.Itoa(r.ImageWidth),
		strconv.Itoa(r.ImageHeight),
		strconv.Itoa(r.ImageChannels),
		r.Architecture,
		strconv.Itoa(r.KernelWidth),
		strconv.Itoa(r.KernelHeight),
		strconv.FormatFloat(r.ExecutionTime, 'f', -1, 64),
		strconv.Itoa(r.Iterations),
	}
}

// Append adds rec to the log at path, writing the header first if the file
// does not exist yet or is empty.
func Append(path string, rec Record) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("results: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("results: stat: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		_ = w.Write(Header)
	}
	_ = w.Write(rec.row())
	w.Flush()

	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("results: write: %w", err)
	}
	return f.Close()
}

// Read parses every record of the log at path.
func Read(path string) ([]Record, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("results: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for i := range Header {
		if head[i] != Header[i] {
			return nil, fmt.Errorf("%w: header column %d is %q", ErrMalformed, i, head[i])
		}
	}

	var recs []Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		recs = append(recs, rec)
	}
}

func parseRow(row []string) (Record, error) {
	ints := make([]int, 0, 6)
	for _, i := range []int{1, 2, 3, 5, 6, 8} {
		v, err := strconv.Atoi(row[i])
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", Header[i], err)
		}
		ints = append(ints, v)
	}
	ms, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", Header[7], err)
	}
	return Record{
		ExecutionType: row[0],
		ImageWidth:    ints[0],
		ImageHeight:   ints[1],
		ImageChannels: ints[2],
		Architecture:  row[4],
		KernelWidth:   ints[3],
		KernelHeight:  ints[4],
		ExecutionTime: ms,
		Iterations:    ints[5],
	}, nil
}
