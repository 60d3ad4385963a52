package conv

import (
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-decon/dsp/boundary"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// FFT performs convolution as a product of spectra.
//
// The source image is embedded in a power-of-two grid with at least k-1
// samples of boundary extension on each side of every axis. The extension
// is laid out circularly (trailing samples after the image, leading samples
// wrapped to the end of the grid), so the circular convolution computed by
// the FFT equals the boundary-aware linear convolution on the image extent.
//
// An FFT engine keeps its scratch buffers between calls and is not safe for
// concurrent use.
type FFT struct {
	shape    ndimage.Shape
	padded   ndimage.Shape
	pstrides []int
	margin   []int
	boundary boundary.Extender

	plans map[int]*algofft.Plan[complex128]

	// Kernel spectrum on the padded grid
	spectrum []complex128

	// Scratch buffers
	work    []complex128
	line    []complex128
	lineOut []complex128
}

// NewFFT returns an FFT engine for images of the given shape.
func NewFFT(shape ndimage.Shape, kernel *ndimage.Image, opts ...Option) (*FFT, error) {
	if err := validate(shape, kernel); err != nil {
		return nil, err
	}

	return newFFT(shape, kernel, applyOptions(opts))
}

func newFFT(shape ndimage.Shape, kernel *ndimage.Image, cfg config) (*FFT, error) {
	dims := len(shape)
	kshape := kernel.Shape()

	f := &FFT{
		shape:    shape.Clone(),
		padded:   make(ndimage.Shape, dims),
		margin:   make([]int, dims),
		boundary: cfg.boundary,
		plans:    make(map[int]*algofft.Plan[complex128]),
	}

	longest := 1
	for axis := range dims {
		f.margin[axis] = kshape[axis] - 1
		f.padded[axis] = nextPowerOf2(shape[axis] + 2*f.margin[axis])
		longest = max(longest, f.padded[axis])

		n := f.padded[axis]
		if n == 1 {
			continue
		}

		if _, ok := f.plans[n]; ok {
			continue
		}

		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
		}

		f.plans[n] = plan
	}

	f.pstrides = f.padded.Strides()
	f.work = make([]complex128, f.padded.Len())
	f.line = make([]complex128, longest)
	f.lineOut = make([]complex128, longest)
	f.spectrum = make([]complex128, f.padded.Len())

	// Wrap the kernel so that its center lands on the grid origin.
	center := Center(kshape)
	kidx := make([]int, dims)
	for off, w := range kernel.Data() {
		kernel.Unravel(off, kidx)

		poff := 0
		for axis := range dims {
			p := kidx[axis] - center[axis]
			if p < 0 {
				p += f.padded[axis]
			}
			poff += p * f.pstrides[axis]
		}

		f.spectrum[poff] += complex(w, 0)
	}

	if err := f.transform(f.spectrum, false); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return f, nil
}

// Padded returns the shape of the internal FFT grid.
func (f *FFT) Padded() ndimage.Shape {
	return f.padded
}

// Spectrum returns the kernel spectrum on the padded grid.
// The returned slice must not be modified.
func (f *FFT) Spectrum() []complex128 {
	return f.spectrum
}

// ConvolveTo writes src convolved with the kernel into dst.
func (f *FFT) ConvolveTo(dst, src *ndimage.Image) error {
	return f.Filter(dst, src, func(x, h complex128) complex128 {
		return x * h
	})
}

// CorrelateTo writes src correlated with the kernel into dst.
func (f *FFT) CorrelateTo(dst, src *ndimage.Image) error {
	return f.Filter(dst, src, func(x, h complex128) complex128 {
		return x * cmplx.Conj(h)
	})
}

// Filter transforms the boundary-padded src, replaces every frequency bin x
// by fn(x, h) where h is the kernel spectrum at that bin, and writes the real
// part of the inverse transform, cropped to the image extent, into dst.
func (f *FFT) Filter(dst, src *ndimage.Image, fn func(x, h complex128) complex128) error {
	if err := checkBuffers(f.shape, dst, src); err != nil {
		return err
	}

	f.load(src)

	if err := f.transform(f.work, false); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i, h := range f.spectrum {
		f.work[i] = fn(f.work[i], h)
	}

	if err := f.transform(f.work, true); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	f.store(dst)

	return nil
}

// load fills the padded grid from src. Grid index p maps to image index p
// when p < n+margin and to p-P (a negative index) otherwise; the boundary
// policy supplies every sample outside the image.
func (f *FFT) load(src *ndimage.Image) {
	dims := len(f.padded)
	pidx := make([]int, dims)
	orig := make([]int, dims)

	for off := range f.work {
		for axis, p := range pidx {
			if p < f.shape[axis]+f.margin[axis] {
				orig[axis] = p
			} else {
				orig[axis] = p - f.padded[axis]
			}
		}

		f.work[off] = complex(boundary.Sample(f.boundary, src, orig), 0)
		advance(pidx, f.padded)
	}
}

// store copies the image-extent part of the grid into dst.
func (f *FFT) store(dst *ndimage.Image) {
	idx := make([]int, len(f.shape))
	out := dst.Data()

	for off := range out {
		poff := 0
		for axis, i := range idx {
			poff += i * f.pstrides[axis]
		}

		out[off] = real(f.work[poff])
		advance(idx, f.shape)
	}
}

// transform applies a separable N-D FFT to data, one axis at a time.
func (f *FFT) transform(data []complex128, inverse bool) error {
	total := len(data)

	for axis, n := range f.padded {
		if n == 1 {
			continue
		}

		plan := f.plans[n]
		stride := f.pstrides[axis]
		line := f.line[:n]
		out := f.lineOut[:n]

		for base := 0; base < total; base++ {
			// Visit each line once, starting at its zero coordinate on this axis.
			if (base/stride)%n != 0 {
				continue
			}

			for i := range line {
				line[i] = data[base+i*stride]
			}

			var err error
			if inverse {
				err = plan.Inverse(out, line)
			} else {
				err = plan.Forward(out, line)
			}
			if err != nil {
				return err
			}

			for i, v := range out {
				data[base+i*stride] = v
			}
		}
	}

	return nil
}
