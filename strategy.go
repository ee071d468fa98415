package kconv

import (
	"fmt"
	"strconv"
	"strings"
)

// Strategy selects how the engine schedules the per-pixel computation.
// Every strategy produces byte-identical output for the same input.
type Strategy uint8

const (
	// Sequential evaluates every output element with plain nested loops on
	// the calling goroutine.
	Sequential Strategy = iota

	// Global is the baseline parallel strategy: output rows are mapped over
	// the worker pool and every element reads the padded input directly.
	Global

	// Shared cuts the output into tiles. A team of goroutines stages each
	// tile's input region, halo included, into a shared buffer and computes
	// the tile from that buffer only.
	Shared

	// Pipelined splits the rows into partitions that independently copy
	// their input band in, compute it with the Shared math, and copy the
	// result out.
	Pipelined

	// Constant stages the kernel weights once per invocation into the
	// engine's fixed-capacity constant table and then runs like Global.
	Constant
)

var strategyNames = [...]string{
	Sequential: "sequential",
	Global:     "global",
	Shared:     "shared",
	Pipelined:  "pipelined",
	Constant:   "constant",
}

// String returns the strategy name used on the command line.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "Strategy(" + strconv.Itoa(int(s)) + ")"
}

// Parallel reports whether the strategy uses the worker pool.
func (s Strategy) Parallel() bool {
	return s != Sequential
}

// ExecutionType returns the label recorded in the results log, e.g.
// "Sequential" or "Parallel_Shared".
func (s Strategy) ExecutionType() string {
	if s == Sequential {
		return "Sequential"
	}
	name := s.String()
	return "Parallel_" + strings.ToUpper(name[:1]) + name[1:]
}

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range strategyNames {
		if s == n {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, name)
}
