package kconv

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gogpu/kconv/internal/parallel"
)

// Defaults for Config.
const (
	// DefaultTileSize is the default output tile edge for the shared and
	// pipelined strategies.
	DefaultTileSize = parallel.DefaultTileSize

	// DefaultTeamSize is the default number of goroutines cooperating on a tile.
	DefaultTeamSize = 4

	// DefaultPartitions is the default number of pipeline partitions.
	DefaultPartitions = 4

	// DefaultMaxKernelWidth bounds the kernels accepted by the constant strategy.
	DefaultMaxKernelWidth = 10
)

// Config is the explicit configuration record of an Engine.
// Build one with NewConfig and Option values; the zero value is not valid.
type Config struct {
	// Strategy selects the execution strategy.
	Strategy Strategy

	// TileSize is the output tile edge in pixels.
	TileSize int

	// TeamSize is the number of goroutines sharing one tile's staging buffer.
	TeamSize int

	// Partitions is the number of independent pipeline partitions.
	Partitions int

	// Workers is the worker pool size.
	Workers int

	// MaxKernelWidth is the widest kernel the constant table holds.
	MaxKernelWidth int

	// Logger receives engine diagnostics. Nil means the package logger.
	Logger *slog.Logger
}

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := kconv.NewEngine(
//	    kconv.WithStrategy(kconv.Shared),
//	    kconv.WithTileSize(32),
//	)
type Option func(*Config)

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...Option) Config {
	c := Config{
		Strategy:       Global,
		TileSize:       DefaultTileSize,
		TeamSize:       DefaultTeamSize,
		Partitions:     DefaultPartitions,
		Workers:        runtime.GOMAXPROCS(0),
		MaxKernelWidth: DefaultMaxKernelWidth,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Strategy > Constant:
		return fmt.Errorf("%w: %v", ErrInvalidArgument, c.Strategy)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalidArgument, c.TileSize)
	case c.TeamSize <= 0:
		return fmt.Errorf("%w: team size %d", ErrInvalidArgument, c.TeamSize)
	case c.Partitions <= 0:
		return fmt.Errorf("%w: partitions %d", ErrInvalidArgument, c.Partitions)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidArgument, c.Workers)
	case c.MaxKernelWidth <= 0:
		return fmt.Errorf("%w: max kernel width %d", ErrInvalidArgument, c.MaxKernelWidth)
	}
	return nil
}

// WithStrategy sets the execution strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithTileSize sets the output tile edge used by the shared and pipelined strategies.
func WithTileSize(n int) Option {
	return func(c *Config) {
		c.TileSize = n
	}
}

// WithTeamSize sets how many goroutines cooperate on one tile.
func WithTeamSize(n int) Option {
	return func(c *Config) {
		c.TeamSize = n
	}
}

// WithPartitions sets the number of pipeline partitions.
func WithPartitions(n int) Option {
	return func(c *Config) {
		c.Partitions = n
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithMaxKernelWidth sets the constant table capacity, expressed as the widest
// accepted kernel. The table holds n*n weights.
func WithMaxKernelWidth(n int) Option {
	return func(c *Config) {
		c.MaxKernelWidth = n
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
