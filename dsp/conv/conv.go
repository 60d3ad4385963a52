package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-decon/dsp/boundary"
	"github.com/cwbudde/algo-decon/dsp/core"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput        = errors.New("conv: empty input")
	ErrEmptyKernel       = errors.New("conv: empty kernel")
	ErrDimensionMismatch = errors.New("conv: image and kernel dimensionality differ")
	ErrShapeMismatch     = errors.New("conv: buffer shape mismatch")
)

// DirectThreshold is the largest kernel sample count [MethodAuto] still
// handles with direct summation.
const DirectThreshold = 125

// Method selects the convolution strategy.
type Method int

const (
	// MethodAuto picks direct summation for small kernels and FFT otherwise.
	MethodAuto Method = iota

	// MethodDirect sums over kernel taps in the spatial domain.
	MethodDirect

	// MethodFFT multiplies spectra on a boundary-padded grid.
	MethodFFT
)

func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod resolves a method from its configuration name.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "auto":
		return MethodAuto, nil
	case "direct":
		return MethodDirect, nil
	case "fft":
		return MethodFFT, nil
	default:
		return MethodAuto, fmt.Errorf("conv: unknown method %q", name)
	}
}

// Engine convolves and correlates images of a fixed shape with a fixed
// kernel. dst and src must both have the engine's shape and must not alias.
type Engine interface {
	ConvolveTo(dst, src *ndimage.Image) error
	CorrelateTo(dst, src *ndimage.Image) error
}

// Option configures engine construction.
type Option func(*config)

type config struct {
	method   Method
	boundary boundary.Extender
	workers  int
}

func defaultConfig() config {
	return config{
		method:   MethodAuto,
		boundary: boundary.Default(),
	}
}

// WithMethod forces a convolution strategy.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		if m >= MethodAuto && m <= MethodFFT {
			cfg.method = m
		}
	}
}

// WithBoundary sets the boundary extension policy. nil is ignored.
func WithBoundary(ext boundary.Extender) Option {
	return func(cfg *config) {
		if ext != nil {
			cfg.boundary = ext
		}
	}
}

// WithWorkers bounds the number of goroutines used by direct summation.
// Values <= 0 are ignored and GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg.workers = core.ResolveWorkers(cfg.workers)

	return cfg
}

// NewEngine returns an engine for images of the given shape.
// The kernel is copied; later changes to it do not affect the engine.
func NewEngine(shape ndimage.Shape, kernel *ndimage.Image, opts ...Option) (Engine, error) {
	if err := validate(shape, kernel); err != nil {
		return nil, err
	}

	cfg := applyOptions(opts)

	method := cfg.method
	if method == MethodAuto {
		method = selectMethod(kernel)
	}

	if method == MethodFFT {
		return newFFT(shape, kernel, cfg)
	}

	return newDirect(shape, kernel, cfg), nil
}

// Convolve returns img convolved with kernel, with the shape of img.
func Convolve(img, kernel *ndimage.Image, opts ...Option) (*ndimage.Image, error) {
	if img == nil {
		return nil, ErrEmptyInput
	}

	e, err := NewEngine(img.Shape(), kernel, opts...)
	if err != nil {
		return nil, err
	}

	out, _ := ndimage.New(img.Shape())
	if err := e.ConvolveTo(out, img); err != nil {
		return nil, err
	}

	return out, nil
}

// Correlate returns img correlated with kernel, with the shape of img.
func Correlate(img, kernel *ndimage.Image, opts ...Option) (*ndimage.Image, error) {
	if img == nil {
		return nil, ErrEmptyInput
	}

	e, err := NewEngine(img.Shape(), kernel, opts...)
	if err != nil {
		return nil, err
	}

	out, _ := ndimage.New(img.Shape())
	if err := e.CorrelateTo(out, img); err != nil {
		return nil, err
	}

	return out, nil
}

// selectMethod picks direct summation for kernels with few samples.
func selectMethod(kernel *ndimage.Image) Method {
	if kernel.Len() <= DirectThreshold {
		return MethodDirect
	}

	return MethodFFT
}

func validate(shape ndimage.Shape, kernel *ndimage.Image) error {
	if shape.Validate() != nil {
		return ErrEmptyInput
	}

	if kernel == nil || kernel.Len() == 0 {
		return ErrEmptyKernel
	}

	if kernel.Dims() != len(shape) {
		return fmt.Errorf("%w: image has %d axes, kernel has %d", ErrDimensionMismatch, len(shape), kernel.Dims())
	}

	return nil
}

func checkBuffers(shape ndimage.Shape, dst, src *ndimage.Image) error {
	if dst == nil || src == nil {
		return ErrEmptyInput
	}

	if !dst.Shape().Equal(shape) || !src.Shape().Equal(shape) {
		return fmt.Errorf("%w: engine %v, dst %v, src %v", ErrShapeMismatch, shape, dst.Shape(), src.Shape())
	}

	return nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
