// Package boundary defines how images are extended beyond their edges.
//
// Convolution needs samples outside the image extent whenever the kernel
// overlaps an edge. An [Extender] supplies those samples. The only policy
// implemented is [ZeroFluxNeumann], which replicates the nearest edge
// sample so that no intensity flows across the border.
package boundary

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-decon/dsp/core"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// Extender supplies image samples for indices outside the image extent.
//
// Extend must be a pure function of (img, idx): repeated queries return the
// same value, and img is never modified. Implementations must be safe for
// concurrent use.
type Extender interface {
	Extend(img *ndimage.Image, idx []int) float64
	Name() string
}

// ZeroFluxNeumann clamps every coordinate independently into
// [0, size-1] and returns the sample found there.
type ZeroFluxNeumann struct{}

// Extend implements [Extender].
func (ZeroFluxNeumann) Extend(img *ndimage.Image, idx []int) float64 {
	shape := img.Shape()
	strides := img.Strides()

	off := 0
	for axis, i := range idx {
		off += core.ClampIndex(i, shape[axis]) * strides[axis]
	}

	return img.Data()[off]
}

// Name implements [Extender].
func (ZeroFluxNeumann) Name() string {
	return "zero-flux-neumann"
}

// Default returns the policy used when none is configured.
func Default() Extender {
	return ZeroFluxNeumann{}
}

// OrDefault returns ext, or [Default] when ext is nil.
func OrDefault(ext Extender) Extender {
	if ext == nil {
		return Default()
	}

	return ext
}

// Sample returns the stored sample for an in-range idx and ext's extension
// otherwise. A nil ext behaves like [ZeroFluxNeumann].
func Sample(ext Extender, img *ndimage.Image, idx []int) float64 {
	if img.Contains(idx) {
		return img.Data()[img.Offset(idx)]
	}

	return OrDefault(ext).Extend(img, idx)
}

// Lookup resolves a policy by its configuration name.
func Lookup(name string) (Extender, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zero-flux-neumann", "zerofluxneumann", "neumann", "replicate":
		return ZeroFluxNeumann{}, nil
	default:
		return nil, fmt.Errorf("boundary: unknown policy %q", name)
	}
}
