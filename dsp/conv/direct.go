package conv

import (
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-decon/dsp/boundary"
	"github.com/cwbudde/algo-decon/dsp/core"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// Direct performs spatial-domain convolution by summing over the non-zero
// kernel taps. Work is O(N*M) for N image samples and M non-zero taps.
//
// Output samples are split into contiguous ranges that are computed
// concurrently. Each goroutine writes only its own range and reads only the
// source image and kernel, so no locking is needed. A Direct engine is safe
// for concurrent use as long as callers pass distinct dst images.
type Direct struct {
	shape    ndimage.Shape
	conv     tapSet
	corr     tapSet
	boundary boundary.Extender
	workers  int
}

// NewDirect returns a direct-summation engine for images of the given shape.
func NewDirect(shape ndimage.Shape, kernel *ndimage.Image, opts ...Option) (*Direct, error) {
	if err := validate(shape, kernel); err != nil {
		return nil, err
	}

	return newDirect(shape, kernel, applyOptions(opts)), nil
}

func newDirect(shape ndimage.Shape, kernel *ndimage.Image, cfg config) *Direct {
	strides := shape.Strides()

	return &Direct{
		shape:    shape.Clone(),
		conv:     newTapSet(kernel, strides, false),
		corr:     newTapSet(kernel, strides, true),
		boundary: cfg.boundary,
		workers:  cfg.workers,
	}
}

// Taps returns the number of non-zero kernel samples.
func (d *Direct) Taps() int {
	return len(d.conv.taps)
}

// ConvolveTo writes src convolved with the kernel into dst.
func (d *Direct) ConvolveTo(dst, src *ndimage.Image) error {
	if err := checkBuffers(d.shape, dst, src); err != nil {
		return err
	}

	d.apply(dst, src, &d.conv)

	return nil
}

// CorrelateTo writes src correlated with the kernel into dst.
func (d *Direct) CorrelateTo(dst, src *ndimage.Image) error {
	if err := checkBuffers(d.shape, dst, src); err != nil {
		return err
	}

	d.apply(dst, src, &d.corr)

	return nil
}

func (d *Direct) apply(dst, src *ndimage.Image, ts *tapSet) {
	out := dst.Data()

	ranges := core.Chunks(len(out), d.workers)
	if len(ranges) == 1 {
		d.applyRange(out, src, ts, ranges[0])
		return
	}

	var g errgroup.Group
	for _, r := range ranges {
		g.Go(func() error {
			d.applyRange(out, src, ts, r)
			return nil
		})
	}

	_ = g.Wait()
}

func (d *Direct) applyRange(out []float64, src *ndimage.Image, ts *tapSet, r core.Range) {
	data := src.Data()
	idx := make([]int, len(d.shape))
	sample := make([]int, len(d.shape))

	src.Unravel(r.Start, idx)

	for off := r.Start; off < r.End; off++ {
		var sum float64

		if ts.interior(idx, d.shape) {
			for _, t := range ts.taps {
				sum += t.weight * data[off+t.linear]
			}
		} else {
			for _, t := range ts.taps {
				for axis, i := range idx {
					sample[axis] = i + t.delta[axis]
				}
				sum += t.weight * boundary.Sample(d.boundary, src, sample)
			}
		}

		out[off] = sum
		advance(idx, d.shape)
	}
}
