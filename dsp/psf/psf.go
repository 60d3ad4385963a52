// Package psf generates synthetic separable point-spread functions.
//
// A kernel is the outer product of one 1-D profile per axis, normalized to
// unit sum. Profiles are sampled at the kernel's center (k-1)/2, the same
// center the convolution engines use.
package psf

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// ErrInvalidParameter is returned for unusable shapes or profile parameters.
var ErrInvalidParameter = errors.New("psf: invalid parameter")

// Type identifies a profile.
type Type int

const (
	// TypeGaussian is exp(-x²/2σ²).
	TypeGaussian Type = iota

	// TypeBox has equal weights across the kernel.
	TypeBox

	// TypeHann is a raised cosine reaching zero one sample past each edge.
	TypeHann
)

func (t Type) String() string {
	switch t {
	case TypeGaussian:
		return "gaussian"
	case TypeBox:
		return "box"
	case TypeHann:
		return "hann"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Option configures generation.
type Option func(*config)

type config struct {
	sigma []float64
}

// WithSigma sets the Gaussian standard deviation in samples. A single value
// applies to every axis; otherwise one value per axis is expected.
// Non-positive values are ignored.
func WithSigma(sigma ...float64) Option {
	s := append([]float64(nil), sigma...)

	return func(c *config) {
		for _, v := range s {
			if !(v > 0) {
				return
			}
		}
		c.sigma = s
	}
}

// SizeFor returns the odd kernel length covering ±3σ.
func SizeFor(sigma float64) int {
	if !(sigma > 0) {
		return 1
	}

	return 2*int(math.Ceil(3*sigma)) + 1
}

// Generate returns a normalized kernel of the given shape.
func Generate(t Type, shape ndimage.Shape, opts ...Option) (*ndimage.Image, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	cfg := config{sigma: []float64{1}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if t == TypeGaussian && len(cfg.sigma) != 1 && len(cfg.sigma) != len(shape) {
		return nil, fmt.Errorf("%w: %d sigma values for %d axes", ErrInvalidParameter, len(cfg.sigma), len(shape))
	}

	profiles := make([][]float64, len(shape))
	for axis, n := range shape {
		p, err := profile(t, n, cfg.sigmaFor(axis))
		if err != nil {
			return nil, err
		}
		profiles[axis] = p
	}

	k, err := ndimage.New(shape)
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(shape))
	data := k.Data()

	var sum float64
	for off := range data {
		k.Unravel(off, idx)

		w := 1.0
		for axis, i := range idx {
			w *= profiles[axis][i]
		}

		data[off] = w
		sum += w
	}

	for i := range data {
		data[i] /= sum
	}

	return k, nil
}

// Gaussian returns a normalized Gaussian kernel spanning ±3σ on every axis.
func Gaussian(dims int, sigma float64) (*ndimage.Image, error) {
	if dims < 1 || !(sigma > 0) {
		return nil, fmt.Errorf("%w: dims %d, sigma %v", ErrInvalidParameter, dims, sigma)
	}

	shape := make(ndimage.Shape, dims)
	for i := range shape {
		shape[i] = SizeFor(sigma)
	}

	return Generate(TypeGaussian, shape, WithSigma(sigma))
}

func (c config) sigmaFor(axis int) float64 {
	if len(c.sigma) == 1 {
		return c.sigma[0]
	}

	return c.sigma[axis]
}

func profile(t Type, n int, sigma float64) ([]float64, error) {
	out := make([]float64, n)
	center := float64((n - 1) / 2)

	switch t {
	case TypeGaussian:
		for i := range out {
			x := float64(i) - center
			out[i] = math.Exp(-x * x / (2 * sigma * sigma))
		}
	case TypeBox:
		for i := range out {
			out[i] = 1
		}
	case TypeHann:
		for i := range out {
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i+1)/float64(n+1))
		}
	default:
		return nil, fmt.Errorf("%w: unknown profile %v", ErrInvalidParameter, t)
	}

	return out, nil
}
