package decon

import (
	"github.com/cwbudde/algo-decon/dsp/conv"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// DefaultEpsilon is the magnitude below which a predicted sample counts as
// zero in the Richardson-Lucy ratio.
const DefaultEpsilon = 1e-12

var defaultPool = ndimage.NewPool()

// State is the lifecycle state of a Richardson-Lucy run.
type State int

const (
	// StateInitialized means inputs are validated and the estimate holds a
	// copy of the observed image.
	StateInitialized State = iota

	// StateIterating means at least one pass remains.
	StateIterating

	// StateDone means every requested pass has completed.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateIterating:
		return "iterating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is reported after every completed pass.
type Progress struct {
	State     State
	Completed int
	Total     int
}

// Option configures a Richardson-Lucy run.
type Option func(*config)

type config struct {
	epsilon  float64
	method   conv.Method
	workers  int
	pool     *ndimage.Pool
	progress func(Progress)
}

func defaultConfig() config {
	return config{
		epsilon: DefaultEpsilon,
		method:  conv.MethodAuto,
		pool:    defaultPool,
	}
}

// WithEpsilon sets the zero guard of the ratio step. Values <= 0 are ignored.
func WithEpsilon(eps float64) Option {
	return func(cfg *config) {
		if eps > 0 {
			cfg.epsilon = eps
		}
	}
}

// WithMethod selects the convolution strategy.
func WithMethod(m conv.Method) Option {
	return func(cfg *config) {
		cfg.method = m
	}
}

// WithWorkers bounds the goroutines used per convolution.
// Values <= 0 are ignored and GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithPool sets the pool working buffers are drawn from. nil is ignored.
func WithPool(p *ndimage.Pool) Option {
	return func(cfg *config) {
		if p != nil {
			cfg.pool = p
		}
	}
}

// WithProgress registers a callback invoked after every pass.
func WithProgress(fn func(Progress)) Option {
	return func(cfg *config) {
		cfg.progress = fn
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
