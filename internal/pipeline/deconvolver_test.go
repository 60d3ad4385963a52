package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
	"github.com/cwbudde/algo-decon/internal/testutil"
)

func TestNewDeconvolver(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DeconConfig)
		want    string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*DeconConfig) {}, want: MethodRichardsonLucy},
		{name: "short name", mutate: func(c *DeconConfig) { c.Method = "RL" }, want: MethodRichardsonLucy},
		{name: "wiener", mutate: func(c *DeconConfig) { c.Method = "wiener"; c.Iterations = 0 }, want: MethodWiener},
		{name: "zero iterations", mutate: func(c *DeconConfig) { c.Iterations = 0 }, wantErr: true},
		{name: "unknown method", mutate: func(c *DeconConfig) { c.Method = "blind" }, wantErr: true},
		{name: "unknown engine", mutate: func(c *DeconConfig) { c.Engine = "gpu" }, wantErr: true},
		{name: "unknown boundary", mutate: func(c *DeconConfig) { c.Boundary = "periodic" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDeconConfig()
			tt.mutate(&cfg)

			d, err := NewDeconvolver(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Method())
		})
	}
}

func TestDeconvolverRun(t *testing.T) {
	img := testutil.ConstantImage(ndimage.Shape{6, 6}, 100)
	psf := testutil.BoxKernel(ndimage.Shape{3, 3})

	for _, method := range []string{MethodRichardsonLucy, MethodWiener, MethodRegularized} {
		t.Run(method, func(t *testing.T) {
			cfg := DefaultDeconConfig()
			cfg.Method = method
			cfg.Iterations = 3

			d, err := NewDeconvolver(cfg)
			require.NoError(t, err)

			out, err := d.Run(context.Background(), img, psf, nil)
			require.NoError(t, err)
			assert.Equal(t, img.Shape(), out.Shape())
			testutil.RequireImageNearlyEqual(t, out, img, 1e-2)
		})
	}
}
