package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/kconv"
	"github.com/gogpu/kconv/internal/bench"
	"github.com/gogpu/kconv/internal/codec"
	"github.com/gogpu/kconv/internal/results"
)

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "kconv",
		Short:        "Convolve an 8-bit image with a kernel and time it",
		Version:      kconv.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), &o)
		},
	}
	bindFlags(cmd.Flags(), &o)
	return cmd
}

// logLevel maps -v counts to slog levels.
func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func run(stdout, stderr io.Writer, o *options) error {
	p, err := o.validate()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(o.verbosity)}))
	kconv.SetLogger(log)
	defer kconv.SetLogger(nil)

	img, err := codec.LoadRaster(o.image, o.channels, p.layout)
	if err != nil {
		return err
	}
	log.Info("image loaded", "path", o.image,
		"width", img.Width(), "height", img.Height(), "channels", img.Channels(), "layout", img.Layout())

	if o.verbosity >= 2 {
		fmt.Fprint(stdout, p.kernel)
		fmt.Fprintf(stdout, "CPU: %s\n", strings.Join(bench.CPUFeatures(), " "))
	}

	opts := []kconv.Option{
		kconv.WithStrategy(p.strategy),
		kconv.WithTileSize(o.tile),
		kconv.WithTeamSize(o.team),
		kconv.WithPartitions(o.partitions),
		kconv.WithLogger(log),
	}
	if o.workers > 0 {
		opts = append(opts, kconv.WithWorkers(o.workers))
	}
	eng, err := kconv.NewEngine(opts...)
	if err != nil {
		return err
	}
	defer eng.Close()

	var out *kconv.Raster
	res, err := bench.Run(o.iterations, func() error {
		var err error
		out, err = eng.Convolve(img, p.kernel, p.padding)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s %s %dx%dx%d kernel %dx%d: %s\n",
		p.strategy.ExecutionType(), p.layout.Architecture(),
		img.Width(), img.Height(), img.Channels(),
		p.kernel.Width(), p.kernel.Height(), res)

	if o.output != "" {
		if err := codec.SaveRaster(o.output, out); err != nil {
			return err
		}
		log.Info("image saved", "path", o.output)
	}

	if o.results != "" {
		rec := results.Record{
			ExecutionType: p.strategy.ExecutionType(),
			ImageWidth:    img.Width(),
			ImageHeight:   img.Height(),
			ImageChannels: img.Channels(),
			Architecture:  p.layout.Architecture(),
			KernelWidth:   p.kernel.Width(),
			KernelHeight:  p.kernel.Height(),
			ExecutionTime: res.MeanMillis(),
			Iterations:    res.Iterations(),
		}
		if err := results.Append(o.results, rec); err != nil {
			return err
		}
		log.Info("results appended", "path", o.results)
	}
	return nil
}
