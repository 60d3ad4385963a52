// Package conv provides N-dimensional convolution and correlation of images
// with small kernels.
//
// Both operations produce output in "same" mode: the result has the shape of
// the input image, whatever the kernel shape. Samples the kernel needs from
// outside the image are supplied by a [boundary.Extender]; the default is
// zero-flux Neumann (edge replication).
//
// With kernel center c = (k-1)/2 on every axis:
//
//	convolve:  out[i] = Σ_o k[o] · in[i + c - o]
//	correlate: out[i] = Σ_o k[o] · in[i - c + o]
//
// Correlation is convolution with the spatially flipped kernel, and the
// two are adjoint to each other, which is what iterative deconvolution
// relies on.
//
// # Usage
//
// For one-shot filtering, use the simple functions:
//
//	out, err := conv.Convolve(img, kernel)
//	out, err := conv.Correlate(img, kernel, conv.WithMethod(conv.MethodFFT))
//
// For repeated filtering of images of one shape with the same kernel,
// create an engine once:
//
//	e, err := conv.NewEngine(img.Shape(), kernel)
//	err = e.ConvolveTo(dst, img)
//
// # Algorithm Selection
//
// [MethodAuto] selects the strategy based on kernel size:
//   - Kernel with at most [DirectThreshold] samples: direct summation,
//     parallelized over output samples
//   - Larger kernels: FFT-based circular convolution on a boundary-padded
//     power-of-two grid
//
// Direct summation skips zero-valued kernel taps, so sparse kernels stay
// cheap regardless of their extent.
package conv
