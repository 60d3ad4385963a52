package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// RandomImage returns an image of uniform samples in [0, amplitude) drawn
// from a fixed seed.
func RandomImage(seed int64, shape ndimage.Shape, amplitude float64) *ndimage.Image {
	img := mustNew(shape)
	rng := rand.New(rand.NewSource(seed))

	data := img.Data()
	for i := range data {
		data[i] = rng.Float64() * amplitude
	}

	return img
}

// ConstantImage returns an image with every sample set to v.
func ConstantImage(shape ndimage.Shape, v float64) *ndimage.Image {
	img := mustNew(shape)
	img.Fill(v)

	return img
}

// DeltaKernel returns a kernel with 1 at its center, (k-1)/2 on each axis,
// and 0 elsewhere. It is the identity under convolution.
func DeltaKernel(shape ndimage.Shape) *ndimage.Image {
	k := mustNew(shape)

	center := make([]int, len(shape))
	for axis, n := range shape {
		center[axis] = (n - 1) / 2
	}

	k.Set(1, center...)

	return k
}

// BoxKernel returns a normalized kernel with equal weights.
func BoxKernel(shape ndimage.Shape) *ndimage.Image {
	return ConstantImage(shape, 1/float64(shape.Len()))
}

// GaussianKernel returns a normalized isotropic Gaussian kernel centered at
// (k-1)/2 on each axis.
func GaussianKernel(shape ndimage.Shape, sigma float64) *ndimage.Image {
	k := mustNew(shape)
	idx := make([]int, len(shape))
	data := k.Data()

	var sum float64
	for off := range data {
		k.Unravel(off, idx)

		var r2 float64
		for axis, i := range idx {
			d := float64(i - (shape[axis]-1)/2)
			r2 += d * d
		}

		data[off] = math.Exp(-r2 / (2 * sigma * sigma))
		sum += data[off]
	}

	for i := range data {
		data[i] /= sum
	}

	return k
}

func mustNew(shape ndimage.Shape) *ndimage.Image {
	img, err := ndimage.New(shape)
	if err != nil {
		panic(err)
	}

	return img
}
