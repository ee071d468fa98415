package kconv

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel is a square, odd-sized convolution filter.
//
// Weights are stored row-major and addressed as (col, row). A Kernel is
// immutable once constructed; share it freely between goroutines.
type Kernel struct {
	width   int
	height  int
	weights []float32
}

// NewKernel creates a zero-valued kernel.
// Returns ErrInvalidDimensions unless width == height and both are odd and positive.
func NewKernel(width, height int) (*Kernel, error) {
	if err := checkKernelDims(width, height); err != nil {
		return nil, err
	}
	return &Kernel{
		width:   width,
		height:  height,
		weights: make([]float32, width*height),
	}, nil
}

// NewKernelFrom creates a kernel holding a copy of weights.
// Returns ErrInvalidArgument if len(weights) != width*height.
func NewKernelFrom(width, height int, weights []float32) (*Kernel, error) {
	k, err := NewKernel(width, height)
	if err != nil {
		return nil, err
	}
	if len(weights) != len(k.weights) {
		return nil, fmt.Errorf("%w: got %d weights for %dx%d kernel", ErrInvalidArgument, len(weights), width, height)
	}
	copy(k.weights, weights)
	return k, nil
}

func checkKernelDims(width, height int) error {
	switch {
	case width <= 0 || height <= 0:
		return fmt.Errorf("%w: kernel %dx%d must be positive", ErrInvalidDimensions, width, height)
	case width%2 == 0 || height%2 == 0:
		return fmt.Errorf("%w: kernel %dx%d must be odd", ErrInvalidDimensions, width, height)
	case width != height:
		return fmt.Errorf("%w: kernel %dx%d must be square", ErrInvalidDimensions, width, height)
	}
	return nil
}

// mustKernel builds a preset. Presets are compile-time constants, so a
// failure here is a programming error.
func mustKernel(size int, weights []float32) *Kernel {
	k, err := NewKernelFrom(size, size, weights)
	if err != nil {
		panic(err)
	}
	return k
}

// BoxBlur returns the 3x3 mean filter.
func BoxBlur() *Kernel {
	const w = 1.0 / 9
	return mustKernel(3, []float32{
		w, w, w,
		w, w, w,
		w, w, w,
	})
}

// GaussianBlur returns the 3x3 binomial blur. Weights sum to 1.
func GaussianBlur() *Kernel {
	return mustKernel(3, []float32{
		1.0 / 16, 2.0 / 16, 1.0 / 16,
		2.0 / 16, 4.0 / 16, 2.0 / 16,
		1.0 / 16, 2.0 / 16, 1.0 / 16,
	})
}

// EdgeDetection returns the 3x3 Laplacian-like edge filter. Weights sum to 0.
func EdgeDetection() *Kernel {
	return mustKernel(3, []float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	})
}

// Sharpen returns the 3x3 sharpening filter.
func Sharpen() *Kernel {
	return mustKernel(3, []float32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	})
}

// UnsharpMask returns the 5x5 unsharp masking filter.
func UnsharpMask() *Kernel {
	return mustKernel(5, []float32{
		-1.0 / 256, -4.0 / 256, -6.0 / 256, -4.0 / 256, -1.0 / 256,
		-4.0 / 256, -16.0 / 256, -24.0 / 256, -16.0 / 256, -4.0 / 256,
		-6.0 / 256, -24.0 / 256, 476.0 / 256, -24.0 / 256, -6.0 / 256,
		-4.0 / 256, -16.0 / 256, -24.0 / 256, -16.0 / 256, -4.0 / 256,
		-1.0 / 256, -4.0 / 256, -6.0 / 256, -4.0 / 256, -1.0 / 256,
	})
}

// Emboss returns the 3x3 emboss filter.
func Emboss() *Kernel {
	return mustKernel(3, []float32{
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	})
}

// Identity returns a size x size kernel whose only non-zero weight is a 1 in
// the centre. Convolving with it returns the input unchanged.
func Identity(size int) (*Kernel, error) {
	k, err := NewKernel(size, size)
	if err != nil {
		return nil, err
	}
	k.weights[(size/2)*size+size/2] = 1
	return k, nil
}

// Custom builds a size x size kernel from weights. When normalize is set every
// weight is divided by the sum of all weights.
//
// Returns ErrInvalidArgument if len(weights) != size*size, or if normalize is
// requested and the weights sum to zero.
func Custom(size int, weights []float32, normalize bool) (*Kernel, error) {
	if err := checkKernelDims(size, size); err != nil {
		return nil, err
	}
	if len(weights) != size*size {
		return nil, fmt.Errorf("%w: custom kernel of size %d needs %d weights, got %d",
			ErrInvalidArgument, size, size*size, len(weights))
	}

	scaled := slices.Clone(weights)
	if normalize {
		sum := weightSum(weights)
		if sum == 0 {
			return nil, fmt.Errorf("%w: cannot normalize kernel whose weights sum to zero", ErrInvalidArgument)
		}
		for i, w := range weights {
			scaled[i] = float32(float64(w) / sum)
		}
	}
	return NewKernelFrom(size, size, scaled)
}

func weightSum(weights []float32) float64 {
	wide := make([]float64, len(weights))
	for i, w := range weights {
		wide[i] = float64(w)
	}
	return floats.Sum(wide)
}

// presets maps the command-line names to kernel constructors.
var presets = map[string]func() *Kernel{
	"box-blur":       BoxBlur,
	"gaussian-blur":  GaussianBlur,
	"edge-detection": EdgeDetection,
	"sharpen":        Sharpen,
	"unsharp-mask":   UnsharpMask,
	"emboss":         Emboss,
	"identity": func() *Kernel {
		k, _ := Identity(3)
		return k
	},
}

// Preset returns the named preset kernel.
func Preset(name string) (*Kernel, error) {
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kernel %q", ErrInvalidArgument, name)
	}
	return fn(), nil
}

// PresetNames returns the names accepted by Preset in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Width returns the kernel width.
func (k *Kernel) Width() int { return k.width }

// Height returns the kernel height.
func (k *Kernel) Height() int { return k.height }

// Size returns the number of weights.
func (k *Kernel) Size() int { return len(k.weights) }

// Weights returns a copy of the row-major weights.
func (k *Kernel) Weights() []float32 { return slices.Clone(k.weights) }

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 { return weightSum(k.weights) }

// At returns the weight at (col, row).
// Returns ErrOutOfBounds outside [0,width) x [0,height).
func (k *Kernel) At(col, row int) (float32, error) {
	if col < 0 || col >= k.width || row < 0 || row >= k.height {
		return 0, fmt.Errorf("%w: kernel coordinates (%d, %d) in %dx%d kernel",
			ErrOutOfBounds, col, row, k.width, k.height)
	}
	return k.weights[row*k.width+col], nil
}

// Clone returns a deep copy of the kernel.
func (k *Kernel) Clone() *Kernel {
	return &Kernel{width: k.width, height: k.height, weights: slices.Clone(k.weights)}
}

// Equal reports whether both kernels have the same shape and weights.
func (k *Kernel) Equal(other *Kernel) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.width == other.width && k.height == other.height && slices.Equal(k.weights, other.weights)
}

// String renders the kernel dimensions followed by its weight grid.
func (k *Kernel) String() string {
	wide := make([]float64, len(k.weights))
	for i, w := range k.weights {
		wide[i] = float64(w)
	}
	m := mat.NewDense(k.height, k.width, wide)
	return fmt.Sprintf("Kernel dimensions: %dx%d\nKernel data:\n%v\n",
		k.width, k.height, mat.Formatted(m, mat.Squeeze()))
}
