package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/gogpu/kconv"
)

// customKernel is the --kernel value that selects --kernel-size and --kernel-data.
const customKernel = "custom"

// errUsage marks invalid flag combinations.
var errUsage = errors.New("invalid arguments")

// options holds the raw flag values.
type options struct {
	image      string
	layout     string
	padding    string
	kernel     string
	kernelSize int
	kernelData []float32
	normalize  bool
	execution  string
	memory     string
	output     string
	results    string
	iterations int
	tile       int
	team       int
	partitions int
	workers    int
	channels   int
	verbosity  int
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVar(&o.image, "image", "", "input image path (required)")
	fs.StringVar(&o.layout, "layout", kconv.Interleaved.String(), "memory layout: interleaved (AoS) or planar (SoA)")
	fs.StringVar(&o.padding, "padding", kconv.PadMirror.String(), "border policy: zero, replicate or mirror")
	fs.StringVar(&o.kernel, "kernel", "box-blur", "kernel preset ("+strings.Join(kconv.PresetNames(), ", ")+") or custom")
	fs.IntVar(&o.kernelSize, "kernel-size", 0, "custom kernel size (odd)")
	fs.Float32SliceVar(&o.kernelData, "kernel-data", nil, "custom kernel weights, row-major, comma separated")
	fs.BoolVar(&o.normalize, "normalize", false, "divide custom weights by their sum")
	fs.StringVar(&o.execution, "execution", "sequential", "execution type: sequential or parallel")
	fs.StringVar(&o.memory, "memory", "", "parallel memory strategy: global, constant, shared or pipelined (default global)")
	fs.StringVar(&o.output, "output", "", "write the filtered image to this path")
	fs.StringVar(&o.results, "results", "", "append timing to this results log")
	fs.IntVar(&o.iterations, "iterations", 15, "number of timed runs")
	fs.IntVar(&o.tile, "tile", kconv.DefaultTileSize, "tile edge for shared and pipelined")
	fs.IntVar(&o.team, "team", kconv.DefaultTeamSize, "goroutines per tile")
	fs.IntVar(&o.partitions, "partitions", kconv.DefaultPartitions, "pipeline partitions")
	fs.IntVar(&o.workers, "workers", 0, "worker pool size (0 = GOMAXPROCS)")
	fs.IntVar(&o.channels, "channels", 0, "force channel count 1-4 (0 = native)")
	fs.CountVarP(&o.verbosity, "verbose", "v", "verbosity; repeat for more detail")
}

// plan is the validated form of options.
type plan struct {
	layout   kconv.Layout
	padding  kconv.Padding
	kernel   *kconv.Kernel
	strategy kconv.Strategy
}

// validate checks every flag before any file is touched.
func (o *options) validate() (plan, error) {
	var p plan

	if o.image == "" {
		return p, fmt.Errorf("%w: --image is required", errUsage)
	}
	if o.iterations < 1 {
		return p, fmt.Errorf("%w: --iterations must be at least 1", errUsage)
	}
	if o.channels < 0 || o.channels > 4 {
		return p, fmt.Errorf("%w: --channels must be between 0 and 4", errUsage)
	}

	var err error
	if p.layout, err = kconv.ParseLayout(o.layout); err != nil {
		return p, fmt.Errorf("%w: --layout: %w", errUsage, err)
	}
	if p.padding, err = kconv.ParsePadding(o.padding); err != nil {
		return p, fmt.Errorf("%w: --padding: %w", errUsage, err)
	}
	if p.kernel, err = o.buildKernel(); err != nil {
		return p, err
	}
	if p.strategy, err = o.strategy(); err != nil {
		return p, err
	}
	return p, nil
}

func (o *options) buildKernel() (*kconv.Kernel, error) {
	name := strings.ToLower(o.kernel)
	if name != customKernel {
		if o.kernelSize != 0 || len(o.kernelData) != 0 {
			return nil, fmt.Errorf("%w: --kernel-size and --kernel-data need --kernel %s", errUsage, customKernel)
		}
		if !lo.Contains(kconv.PresetNames(), name) {
			return nil, fmt.Errorf("%w: unknown kernel %q", errUsage, o.kernel)
		}
		return kconv.Preset(name)
	}

	if o.kernelSize <= 0 || len(o.kernelData) == 0 {
		return nil, fmt.Errorf("%w: --kernel custom needs --kernel-size and --kernel-data", errUsage)
	}
	if len(o.kernelData) != o.kernelSize*o.kernelSize {
		return nil, fmt.Errorf("%w: --kernel-data has %d weights, size %d needs %d",
			errUsage, len(o.kernelData), o.kernelSize, o.kernelSize*o.kernelSize)
	}
	k, err := kconv.Custom(o.kernelSize, o.kernelData, o.normalize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	return k, nil
}

func (o *options) strategy() (kconv.Strategy, error) {
	switch strings.ToLower(o.execution) {
	case "sequential":
		if o.memory != "" {
			return 0, fmt.Errorf("%w: --memory applies to parallel execution only", errUsage)
		}
		return kconv.Sequential, nil
	case "parallel":
		if o.memory == "" {
			return kconv.Global, nil
		}
		s, err := kconv.ParseStrategy(o.memory)
		if err != nil || s == kconv.Sequential {
			return 0, fmt.Errorf("%w: unknown memory strategy %q", errUsage, o.memory)
		}
		return s, nil
	default:
		return 0, fmt.Errorf("%w: unknown execution type %q", errUsage, o.execution)
	}
}
