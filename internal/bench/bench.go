// Package bench times repeated runs of a function and summarizes them.
package bench

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sys/cpu"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidIterations is returned by Run for a non-positive iteration count.
var ErrInvalidIterations = errors.New("bench: iterations must be positive")

// Result summarizes the iterations of one Run.
type Result struct {
	// Durations holds the wall time of each completed iteration.
	Durations []time.Duration

	Total  time.Duration
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// Run calls fn iterations times and records how long each call took.
// It stops at the first error and returns the result so far with it.
func Run(iterations int, fn func() error) (Result, error) {
	if iterations <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}

	durations := make([]time.Duration, 0, iterations)
	for i := range iterations {
		start := time.Now()
		err := fn()
		durations = append(durations, time.Since(start))
		if err != nil {
			return summarize(durations), fmt.Errorf("bench: iteration %d: %w", i, err)
		}
	}
	return summarize(durations), nil
}

func summarize(durations []time.Duration) Result {
	r := Result{Durations: durations}
	if len(durations) == 0 {
		return r
	}

	ns := make([]float64, len(durations))
	for i, d := range durations {
		ns[i] = float64(d)
		r.Total += d
	}

	mean, std := stat.MeanStdDev(ns, nil)
	if len(ns) == 1 {
		std = 0
	}
	r.Mean = time.Duration(mean)
	r.StdDev = time.Duration(std)
	r.Min = time.Duration(floats.Min(ns))
	r.Max = time.Duration(floats.Max(ns))
	return r
}

// MeanMillis returns the mean iteration time in milliseconds.
func (r Result) MeanMillis() float64 {
	return float64(r.Mean) / float64(time.Millisecond)
}

// Iterations returns the number of completed iterations.
func (r Result) Iterations() int {
	return len(r.Durations)
}

// String formats the result for the terminal.
func (r Result) String() string {
	return fmt.Sprintf("%d iterations, mean %v ± %v (min %v, max %v)",
		len(r.Durations), r.Mean, r.StdDev, r.Min, r.Max)
}

type feature struct {
	name string
	has  bool
}

// CPUFeatures lists the SIMD extensions the host CPU reports, prefixed with
// the architecture name.
func CPUFeatures() []string {
	var table []feature
	switch runtime.GOARCH {
	case "amd64", "386":
		table = []feature{
			{"sse2", cpu.X86.HasSSE2},
			{"sse4.1", cpu.X86.HasSSE41},
			{"sse4.2", cpu.X86.HasSSE42},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
		}
	case "arm64":
		table = []feature{
			{"fp", cpu.ARM64.HasFP},
			{"asimd", cpu.ARM64.HasASIMD},
			{"sve", cpu.ARM64.HasSVE},
		}
	}

	names := lo.FilterMap(table, func(f feature, _ int) (string, bool) {
		return f.name, f.has
	})
	return append([]string{runtime.GOARCH}, names...)
}
