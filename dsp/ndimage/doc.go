// Package ndimage provides a dense N-dimensional float64 image with an
// explicit shape.
//
// Samples are stored row-major: the last axis varies fastest. A 2-D image
// of shape {height, width} therefore stores pixel (y, x) at y*width + x.
//
//	img, err := ndimage.New(ndimage.Shape{64, 64})
//	img.Set(1.0, 32, 32)
//	v := img.At(32, 32)
//
// For scratch buffers that are allocated and released repeatedly, use a
// [Pool]:
//
//	pool := ndimage.NewPool()
//	tmp := pool.Get(img.Shape())
//	defer pool.Put(tmp)
package ndimage
