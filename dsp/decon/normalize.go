package decon

import (
	"fmt"

	"github.com/cwbudde/algo-decon/dsp/core"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// NormalizeKernel returns a copy of kernel scaled to unit sum.
// It fails with ErrInvalidInput when the kernel is empty, holds non-finite
// samples, or does not sum to a positive finite value.
func NormalizeKernel(kernel *ndimage.Image) (*ndimage.Image, error) {
	if kernel == nil || kernel.Len() == 0 {
		return nil, fmt.Errorf("%w: empty kernel", ErrInvalidInput)
	}

	if i := core.FirstNonFinite(kernel.Data()); i >= 0 {
		return nil, fmt.Errorf("%w: kernel sample %d is not finite", ErrInvalidInput, i)
	}

	sum := kernel.Sum()
	if !core.IsFinite(sum) || sum <= 0 {
		return nil, fmt.Errorf("%w: kernel sum %v cannot be normalized", ErrInvalidInput, sum)
	}

	out := kernel.Clone()
	if sum == 1 {
		return out, nil
	}

	data := out.Data()
	for i := range data {
		data[i] /= sum
	}

	return out, nil
}
