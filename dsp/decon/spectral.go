package decon

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-decon/dsp/boundary"
	"github.com/cwbudde/algo-decon/dsp/conv"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// DeconvMethod specifies a single-shot spectral deconvolution method.
type DeconvMethod int

const (
	// DeconvNaive performs simple spectral division.
	// Fast but sensitive to noise and zeros in the kernel spectrum.
	DeconvNaive DeconvMethod = iota

	// DeconvRegularized adds epsilon to the denominator:
	// X = Y * conj(H) / (|H|^2 + epsilon).
	DeconvRegularized

	// DeconvWiener applies Wiener deconvolution with noise estimation.
	DeconvWiener
)

func (m DeconvMethod) String() string {
	switch m {
	case DeconvNaive:
		return "naive"
	case DeconvRegularized:
		return "regularized"
	case DeconvWiener:
		return "wiener"
	default:
		return "unknown"
	}
}

// DeconvOptions configures Deconvolve.
type DeconvOptions struct {
	// Method specifies the deconvolution algorithm.
	Method DeconvMethod

	// Epsilon is the regularization parameter for DeconvRegularized.
	// Typical values: 1e-6 to 1e-3 depending on SNR.
	Epsilon float64

	// NoiseVariance is the estimated noise variance for Wiener deconvolution.
	// If zero, 1% of the signal variance is assumed.
	NoiseVariance float64

	// SignalVariance is the estimated signal variance for Wiener deconvolution.
	// If zero, it is measured from the image.
	SignalVariance float64

	// Boundary supplies samples outside the image. nil selects zero-flux
	// Neumann extension.
	Boundary boundary.Extender
}

// DefaultDeconvOptions returns default deconvolution options.
func DefaultDeconvOptions() DeconvOptions {
	return DeconvOptions{
		Method:  DeconvRegularized,
		Epsilon: 1e-6,
	}
}

// Deconvolve recovers an estimate of the sharp image from img and kernel
// by inverse filtering on the boundary-padded FFT grid. The kernel is
// normalized to unit sum and the result has the shape of img.
func Deconvolve(img, kernel *ndimage.Image, opts DeconvOptions) (*ndimage.Image, error) {
	if img == nil || img.Len() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}

	if kernel == nil || img.Dims() != kernel.Dims() {
		return nil, fmt.Errorf("%w: kernel dimensionality does not match image", ErrInvalidInput)
	}

	psf, err := NormalizeKernel(kernel)
	if err != nil {
		return nil, err
	}

	engine, err := conv.NewFFT(img.Shape(), psf, conv.WithBoundary(opts.Boundary))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var filter func(x, h complex128) complex128

	switch opts.Method {
	case DeconvNaive:
		for i, h := range engine.Spectrum() {
			if cmplx.Abs(h) < 1e-15 {
				return nil, fmt.Errorf("%w: at frequency bin %d", ErrDivisionByZero, i)
			}
		}

		filter = func(x, h complex128) complex128 {
			return x / h
		}
	case DeconvWiener:
		filter = regularizedFilter(noiseToSignal(img, opts))
	default:
		eps := opts.Epsilon
		if eps <= 0 {
			eps = 1e-6
		}

		filter = regularizedFilter(eps)
	}

	out, err := ndimage.New(img.Shape())
	if err != nil {
		return nil, err
	}

	if err := engine.Filter(out, img, filter); err != nil {
		return nil, err
	}

	return out, nil
}

// regularizedFilter returns x * conj(h) / (|h|^2 + lambda).
func regularizedFilter(lambda float64) func(x, h complex128) complex128 {
	return func(x, h complex128) complex128 {
		magSq := real(h)*real(h) + imag(h)*imag(h)
		return x * cmplx.Conj(h) / complex(magSq+lambda, 0)
	}
}

// noiseToSignal returns the Wiener noise-to-signal ratio.
func noiseToSignal(img *ndimage.Image, opts DeconvOptions) float64 {
	signalVar := opts.SignalVariance
	if signalVar <= 0 {
		signalVar = variance(img.Data())
	}

	noiseVar := opts.NoiseVariance
	if noiseVar <= 0 {
		// Rough heuristic: assume 1% noise.
		noiseVar = signalVar * 0.01
	}

	if signalVar <= 0 {
		return 1e-6
	}

	nsr := noiseVar / signalVar
	if !(nsr > 0) || math.IsInf(nsr, 0) {
		return 1e-6
	}

	return nsr
}

func variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var mean float64
	for _, v := range x {
		mean += v
	}

	mean /= float64(len(x))

	var sum float64
	for _, v := range x {
		d := v - mean
		sum += d * d
	}

	return sum / float64(len(x))
}

// SNR computes the signal-to-noise ratio in dB between an original image
// and its recovered estimate, with noise = original - recovered.
// It returns -Inf on a shape mismatch and +Inf on perfect recovery.
func SNR(original, recovered *ndimage.Image) float64 {
	if original == nil || recovered == nil || original.Len() == 0 ||
		!original.Shape().Equal(recovered.Shape()) {
		return math.Inf(-1)
	}

	a := original.Data()
	b := recovered.Data()

	var signalPower, noisePower float64
	for i := range a {
		signalPower += a[i] * a[i]
		noise := a[i] - b[i]
		noisePower += noise * noise
	}

	if noisePower == 0 {
		return math.Inf(1)
	}

	return 10 * math.Log10(signalPower/noisePower)
}
