package decon

import (
	"context"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-decon/dsp/boundary"
	"github.com/cwbudde/algo-decon/dsp/conv"
	"github.com/cwbudde/algo-decon/dsp/core"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// Request describes one Richardson-Lucy run. The image and kernel are read
// but never modified.
type Request struct {
	// Image is the observed (blurred) image.
	Image *ndimage.Image

	// Kernel is the point-spread function. It must have the same number of
	// dimensions as Image and a positive sum; it is normalized internally.
	Kernel *ndimage.Image

	// Iterations is the exact number of update passes to run (>= 1).
	Iterations int

	// Boundary supplies samples outside the image. nil selects zero-flux
	// Neumann extension.
	Boundary boundary.Extender
}

// RichardsonLucy deconvolves req.Image with req.Kernel and returns the
// estimate after req.Iterations passes. The result has the shape of the
// input image.
//
// The context is checked before every pass; once it is done the run stops
// with ErrCancelled. No partial result is returned on error.
func RichardsonLucy(ctx context.Context, req Request, opts ...Option) (*ndimage.Image, error) {
	cfg := applyOptions(opts)

	kernel, err := req.validate()
	if err != nil {
		return nil, err
	}

	engine, err := conv.NewEngine(req.Image.Shape(), kernel,
		conv.WithMethod(cfg.method),
		conv.WithBoundary(req.Boundary),
		conv.WithWorkers(cfg.workers),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	r := newRun(req.Image, req.Iterations, engine, cfg)
	r.nonNegative = allNonNegative(req.Image.Data()) && allNonNegative(kernel.Data())
	defer r.release()

	return r.execute(ctx)
}

// validate checks the request and returns the normalized kernel.
func (req Request) validate() (*ndimage.Image, error) {
	if req.Image == nil || req.Image.Len() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}

	if req.Kernel == nil || req.Kernel.Len() == 0 {
		return nil, fmt.Errorf("%w: empty kernel", ErrInvalidInput)
	}

	if req.Image.Dims() != req.Kernel.Dims() {
		return nil, fmt.Errorf("%w: image has %d dimensions, kernel has %d",
			ErrInvalidInput, req.Image.Dims(), req.Kernel.Dims())
	}

	if req.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidInput, req.Iterations)
	}

	if i := core.FirstNonFinite(req.Image.Data()); i >= 0 {
		return nil, fmt.Errorf("%w: image sample %d is not finite", ErrInvalidInput, i)
	}

	return NormalizeKernel(req.Kernel)
}

// run holds the working state of one deconvolution.
type run struct {
	observed *ndimage.Image
	engine   conv.Engine
	cfg      config

	estimate   *ndimage.Image
	blurred    *ndimage.Image
	ratio      *ndimage.Image
	correction *ndimage.Image

	state     State
	completed int
	total     int

	// nonNegative is set when image and kernel hold no negative samples;
	// FFT round-off in the correction is then clamped at zero.
	nonNegative bool
}

func newRun(observed *ndimage.Image, iterations int, engine conv.Engine, cfg config) *run {
	shape := observed.Shape()
	pool := cfg.pool

	r := &run{
		observed:   observed,
		engine:     engine,
		cfg:        cfg,
		estimate:   pool.Get(shape),
		blurred:    pool.Get(shape),
		ratio:      pool.Get(shape),
		correction: pool.Get(shape),
		total:      iterations,
		state:      StateInitialized,
	}

	// Shapes match by construction.
	_ = r.estimate.CopyFrom(observed)

	return r
}

func (r *run) execute(ctx context.Context) (*ndimage.Image, error) {
	r.state = StateIterating

	for r.completed < r.total {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: after %d of %d iterations: %w",
				ErrCancelled, r.completed, r.total, err)
		}

		if err := r.step(); err != nil {
			return nil, err
		}

		r.completed++
		if r.completed == r.total {
			r.state = StateDone
		}

		r.report()
	}

	out := r.estimate
	r.estimate = nil

	return out, nil
}

// step performs one multiplicative update of the estimate.
func (r *run) step() error {
	if err := r.engine.ConvolveTo(r.blurred, r.estimate); err != nil {
		return fmt.Errorf("%w: %w", ErrNumericInstability, err)
	}

	obs := r.observed.Data()
	blurred := r.blurred.Data()
	ratio := r.ratio.Data()
	eps := r.cfg.epsilon

	for i, b := range blurred {
		if math.Abs(b) < eps {
			ratio[i] = 0
			continue
		}
		ratio[i] = obs[i] / b
	}

	if err := r.engine.CorrelateTo(r.correction, r.ratio); err != nil {
		return fmt.Errorf("%w: %w", ErrNumericInstability, err)
	}

	if r.nonNegative {
		correction := r.correction.Data()
		for i, c := range correction {
			if c < 0 {
				correction[i] = 0
			}
		}
	}

	est := r.estimate.Data()
	vecmath.MulBlockInPlace(est, r.correction.Data())

	if i := core.FirstNonFinite(est); i >= 0 {
		return fmt.Errorf("%w: sample %d is %v after iteration %d",
			ErrNumericInstability, i, est[i], r.completed+1)
	}

	return nil
}

func (r *run) report() {
	if r.cfg.progress == nil {
		return
	}

	r.cfg.progress(Progress{
		State:     r.state,
		Completed: r.completed,
		Total:     r.total,
	})
}

// release returns working buffers to the pool. A successfully returned
// estimate is owned by the caller and is not released.
func (r *run) release() {
	pool := r.cfg.pool
	if r.estimate != nil {
		pool.Put(r.estimate)
	}
	pool.Put(r.blurred)
	pool.Put(r.ratio)
	pool.Put(r.correction)
}

func allNonNegative(data []float64) bool {
	for _, v := range data {
		if v < 0 {
			return false
		}
	}
	return true
}
