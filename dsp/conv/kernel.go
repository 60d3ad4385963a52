package conv

import "github.com/cwbudde/algo-decon/dsp/ndimage"

// tap is one non-zero kernel sample together with the displacement of the
// source sample it weights.
type tap struct {
	weight float64
	delta  []int
	linear int
}

// tapSet holds the taps of one orientation (convolution or correlation)
// and the per-axis displacement bounds used for the interior test.
type tapSet struct {
	taps []tap
	lo   []int
	hi   []int
}

// Center returns the per-axis kernel center (k-1)/2.
func Center(shape ndimage.Shape) []int {
	c := make([]int, len(shape))
	for axis, k := range shape {
		c[axis] = (k - 1) / 2
	}

	return c
}

// Flip returns a copy of kernel reversed along every axis.
func Flip(kernel *ndimage.Image) *ndimage.Image {
	out := kernel.Clone()
	data := kernel.Data()
	flipped := out.Data()

	for i, v := range data {
		flipped[len(data)-1-i] = v
	}

	return out
}

// newTapSet collects the non-zero taps of kernel. For convolution the source
// displacement of kernel index o is c-o; for correlation it is o-c.
func newTapSet(kernel *ndimage.Image, imageStrides []int, correlate bool) tapSet {
	dims := kernel.Dims()
	center := Center(kernel.Shape())

	ts := tapSet{
		lo: make([]int, dims),
		hi: make([]int, dims),
	}

	idx := make([]int, dims)
	for off, w := range kernel.Data() {
		if w == 0 {
			continue
		}

		kernel.Unravel(off, idx)

		t := tap{weight: w, delta: make([]int, dims)}
		for axis := range dims {
			d := center[axis] - idx[axis]
			if correlate {
				d = -d
			}

			t.delta[axis] = d
			t.linear += d * imageStrides[axis]

			if len(ts.taps) == 0 || d < ts.lo[axis] {
				ts.lo[axis] = d
			}
			if len(ts.taps) == 0 || d > ts.hi[axis] {
				ts.hi[axis] = d
			}
		}

		ts.taps = append(ts.taps, t)
	}

	return ts
}

// interior reports whether every tap of ts reads inside shape when centered
// at idx.
func (ts *tapSet) interior(idx []int, shape ndimage.Shape) bool {
	for axis, i := range idx {
		if i+ts.lo[axis] < 0 || i+ts.hi[axis] >= shape[axis] {
			return false
		}
	}

	return true
}

// advance increments idx in row-major order within shape.
func advance(idx []int, shape ndimage.Shape) {
	for axis := len(idx) - 1; axis >= 0; axis-- {
		idx[axis]++
		if idx[axis] < shape[axis] {
			return
		}

		idx[axis] = 0
	}
}
