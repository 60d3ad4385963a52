package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cwbudde/algo-decon/dsp/boundary"
	"github.com/cwbudde/algo-decon/dsp/conv"
	"github.com/cwbudde/algo-decon/dsp/decon"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// Deconvolution methods accepted in DeconConfig.Method.
const (
	MethodRichardsonLucy = "richardson-lucy"
	MethodWiener         = "wiener"
	MethodRegularized    = "regularized"
	MethodNaive          = "naive"
)

// Deconvolver applies one configured deconvolution method.
type Deconvolver struct {
	method     string
	iterations int
	epsilon    float64
	engine     conv.Method
	boundary   boundary.Extender
	workers    int
}

// NewDeconvolver resolves cfg into a Deconvolver.
func NewDeconvolver(cfg DeconConfig) (*Deconvolver, error) {
	return newDeconvolver(cfg)
}

func newDeconvolver(cfg DeconConfig) (*Deconvolver, error) {
	method := strings.ToLower(strings.TrimSpace(cfg.Method))
	switch method {
	case "", "rl", MethodRichardsonLucy:
		method = MethodRichardsonLucy
		if cfg.Iterations < 1 {
			return nil, fmt.Errorf("iterations must be >= 1, got %d", cfg.Iterations)
		}
	case MethodWiener, MethodRegularized, MethodNaive:
	default:
		return nil, fmt.Errorf("unknown method %q", cfg.Method)
	}

	engine, err := conv.ParseMethod(cfg.Engine)
	if err != nil {
		return nil, err
	}

	ext, err := boundary.Lookup(cfg.Boundary)
	if err != nil {
		return nil, err
	}

	return &Deconvolver{
		method:     method,
		iterations: cfg.Iterations,
		epsilon:    cfg.Epsilon,
		engine:     engine,
		boundary:   ext,
		workers:    cfg.Workers,
	}, nil
}

// Method returns the resolved method name.
func (d *Deconvolver) Method() string {
	return d.method
}

// Run deconvolves img with psf. Richardson-Lucy progress is logged at
// debug level.
func (d *Deconvolver) Run(ctx context.Context, img, psf *ndimage.Image, logger *slog.Logger) (*ndimage.Image, error) {
	switch d.method {
	case MethodRichardsonLucy:
		opts := []decon.Option{
			decon.WithMethod(d.engine),
			decon.WithWorkers(d.workers),
			decon.WithEpsilon(d.epsilon),
		}
		if logger != nil {
			opts = append(opts, decon.WithProgress(func(p decon.Progress) {
				logger.Debug("iteration done", "completed", p.Completed, "total", p.Total, "state", p.State.String())
			}))
		}

		return decon.RichardsonLucy(ctx, decon.Request{
			Image:      img,
			Kernel:     psf,
			Iterations: d.iterations,
			Boundary:   d.boundary,
		}, opts...)
	default:
		opts := decon.DeconvOptions{
			Method:   d.spectralMethod(),
			Epsilon:  d.epsilon,
			Boundary: d.boundary,
		}

		return decon.Deconvolve(img, psf, opts)
	}
}

func (d *Deconvolver) spectralMethod() decon.DeconvMethod {
	switch d.method {
	case MethodNaive:
		return decon.DeconvNaive
	case MethodWiener:
		return decon.DeconvWiener
	default:
		return decon.DeconvRegularized
	}
}
