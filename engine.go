package kconv

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/kconv/internal/parallel"
)

// Stats describes the work an invocation performed.
type Stats struct {
	// Strategy is the strategy that ran.
	Strategy Strategy

	// Tiles is the number of tiles processed, summed over partitions.
	Tiles int

	// StagedElements is the number of elements written into tile staging
	// buffers, summed over channels, tiles and partitions.
	StagedElements int64

	// Partitions is the number of pipeline partitions that ran.
	Partitions int

	// ConstantWeights is the number of weights staged into the constant table.
	ConstantWeights int
}

// Engine convolves rasters with kernels under a fixed Config.
//
// An Engine owns a worker pool; call Close when done with it.
// Thread safety: Convolve may be called concurrently. Invocations of the
// Constant strategy are serialized on the engine's constant table.
type Engine struct {
	cfg    Config
	log    *slog.Logger
	pool   *parallel.WorkerPool
	stages *parallel.StagePool

	// constMu guards constTable for the whole of a Constant invocation.
	constMu    sync.Mutex
	constTable []float32
}

// NewEngine creates an engine from the default configuration with opts applied.
// Returns ErrInvalidArgument if the resulting configuration is invalid.
func NewEngine(opts ...Option) (*Engine, error) {
	return NewEngineWithConfig(NewConfig(opts...))
}

// NewEngineWithConfig creates an engine from an explicit configuration record.
func NewEngineWithConfig(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	e := &Engine{
		cfg:        cfg,
		log:        log,
		stages:     parallel.NewStagePool(),
		constTable: make([]float32, cfg.MaxKernelWidth*cfg.MaxKernelWidth),
	}
	if cfg.Strategy.Parallel() {
		e.pool = parallel.NewWorkerPool(cfg.Workers)
		log.Info("kconv: worker pool started", "workers", e.pool.Workers(), "strategy", cfg.Strategy)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Close stops the worker pool. Convolve still works after Close but runs
// every work item on the calling goroutine.
func (e *Engine) Close() {
	if e.pool != nil && e.pool.IsRunning() {
		e.pool.Close()
		e.log.Info("kconv: worker pool stopped")
	}
}

// Convolve filters input with kernel, synthesizing borders with policy, and
// returns a new raster with the input's dimensions, channels and layout.
func (e *Engine) Convolve(input *Raster, kernel *Kernel, policy Padding) (*Raster, error) {
	out, _, err := e.ConvolveStats(input, kernel, policy)
	return out, err
}

// ConvolveStats is like Convolve and also reports the work performed.
func (e *Engine) ConvolveStats(input *Raster, kernel *Kernel, policy Padding) (*Raster, Stats, error) {
	stats := Stats{Strategy: e.cfg.Strategy}
	if input == nil || kernel == nil {
		return nil, stats, fmt.Errorf("%w: nil raster or kernel", ErrInvalidArgument)
	}

	halfW := kernel.width / 2
	halfH := kernel.height / 2

	padded, err := Pad(input, halfW, halfH, policy)
	if err != nil {
		return nil, stats, err
	}

	out, err := NewRaster(input.width, input.height, input.channels, input.layout)
	if err != nil {
		return nil, stats, err
	}

	j := &convJob{
		padded:  padded,
		out:     out,
		weights: kernel.weights,
		kw:      kernel.width,
		kh:      kernel.height,
	}

	e.log.Debug("kconv: convolve",
		"strategy", e.cfg.Strategy,
		"width", input.width, "height", input.height, "channels", input.channels,
		"layout", input.layout, "kernel", kernel.width, "padding", policy)

	switch e.cfg.Strategy {
	case Sequential:
		j.rows(0, out.height)
	case Global:
		e.runGlobal(j)
	case Shared:
		e.runShared(j, &stats)
	case Pipelined:
		err = e.runPipelined(j, &stats)
	case Constant:
		err = e.runConstant(j, kernel, &stats)
	default:
		err = fmt.Errorf("%w: %v", ErrInvalidArgument, e.cfg.Strategy)
	}
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

// Convolve is a one-shot helper that runs a single convolution with the given
// strategy on a temporary engine.
func Convolve(input *Raster, kernel *Kernel, policy Padding, strategy Strategy) (*Raster, error) {
	e, err := NewEngine(WithStrategy(strategy))
	if err != nil {
		return nil, err
	}
	defer e.Close()
	return e.Convolve(input, kernel, policy)
}

// convJob is one invocation's operands. padded is out inflated by half the
// kernel on each side, so the window of output (x, y) starts at padded (x, y).
type convJob struct {
	padded  *Raster
	out     *Raster
	weights []float32
	kw, kh  int
}

// rows computes output rows [y0, y1) for every channel directly from the
// padded input.
func (j *convJob) rows(y0, y1 int) {
	for c := 0; c < j.out.channels; c++ {
		base, colStep, rowStep := j.padded.steps(c)
		for y := y0; y < y1; y++ {
			for x := 0; x < j.out.width; x++ {
				v := weightedSum(j.padded.data, base+y*rowStep+x*colStep, colStep, rowStep, j.weights, j.kw, j.kh)
				j.out.data[j.out.offset(x, y, c)] = saturate(v)
			}
		}
	}
}

// runGlobal maps disjoint row ranges over the worker pool.
func (e *Engine) runGlobal(j *convJob) {
	e.pool.ParallelFor(j.out.height, j.rows)
}

// runConstant stages the weights into the constant table and runs the
// baseline strategy against the table. The table stays locked until the
// invocation completes.
func (e *Engine) runConstant(j *convJob, kernel *Kernel, stats *Stats) error {
	if kernel.width > e.cfg.MaxKernelWidth || kernel.height > e.cfg.MaxKernelWidth {
		return fmt.Errorf("%w: kernel %dx%d exceeds constant table of %dx%d",
			ErrInvalidDimensions, kernel.width, kernel.height, e.cfg.MaxKernelWidth, e.cfg.MaxKernelWidth)
	}

	e.constMu.Lock()
	defer e.constMu.Unlock()

	n := copy(e.constTable, kernel.weights)
	j.weights = e.constTable[:n]
	stats.ConstantWeights = n

	e.runGlobal(j)
	return nil
}
