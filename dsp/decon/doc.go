// Package decon recovers sharp images from blurred observations and a known
// point-spread function (PSF).
//
// # Richardson-Lucy
//
// [RichardsonLucy] runs the iterative multiplicative update
//
//	est ← est · correlate(obs / convolve(est, psf), psf)
//
// starting from a copy of the observed image, for exactly the requested
// number of iterations. The PSF is normalized to unit sum first, and
// samples outside the image are taken from a boundary policy (zero-flux
// Neumann by default). Non-negative inputs yield non-negative output.
//
//	out, err := decon.RichardsonLucy(ctx, decon.Request{
//		Image:      observed,
//		Kernel:     psf,
//		Iterations: 20,
//	})
//
// A call fails with one of three inspectable errors:
//   - [ErrInvalidInput]: rejected before any iteration runs
//   - [ErrNumericInstability]: a pass produced NaN or Inf
//   - [ErrCancelled]: the context ended between two iterations
//
// A failed call never returns a partial image.
//
// # Spectral Methods
//
// [Deconvolve] provides single-shot inverse filtering in the frequency
// domain (naive division, Tikhonov regularization, Wiener filtering). It is
// fast but amplifies noise more than Richardson-Lucy does.
package decon
