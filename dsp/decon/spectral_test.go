package decon

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
	"github.com/cwbudde/algo-decon/internal/testutil"
)

func TestDeconvolveIdentityKernel(t *testing.T) {
	img := testutil.RandomImage(21, ndimage.Shape{6, 5}, 10)
	delta := testutil.DeltaKernel(ndimage.Shape{3, 3})

	tests := []struct {
		name  string
		opts  DeconvOptions
		scale float64
	}{
		{name: "naive", opts: DeconvOptions{Method: DeconvNaive}, scale: 1},
		{name: "regularized", opts: DeconvOptions{Method: DeconvRegularized, Epsilon: 1e-3}, scale: 1 / 1.001},
		{name: "wiener", opts: DeconvOptions{Method: DeconvWiener}, scale: 1 / 1.01},
		{name: "wiener explicit", opts: DeconvOptions{Method: DeconvWiener, NoiseVariance: 1, SignalVariance: 4}, scale: 1 / 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Deconvolve(img, delta, tt.opts)
			if err != nil {
				t.Fatalf("Deconvolve failed: %v", err)
			}

			want := img.Clone()
			data := want.Data()
			for i := range data {
				data[i] *= tt.scale
			}

			testutil.RequireImageNearlyEqual(t, out, want, 1e-9)
		})
	}
}

func TestDeconvolveNaiveZeroSpectrum(t *testing.T) {
	// The two-tap average has a spectral zero at the Nyquist bin.
	_, err := Deconvolve(vector(t, 1, 2, 3, 4), vector(t, 1, 1), DeconvOptions{Method: DeconvNaive})
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("err = %v, want ErrDivisionByZero", err)
	}
}

func TestDeconvolveConstantImageWiener(t *testing.T) {
	img := testutil.ConstantImage(ndimage.Shape{8}, 3)

	out, err := Deconvolve(img, vector(t, 1, 2, 1), DeconvOptions{Method: DeconvWiener})
	if err != nil {
		t.Fatalf("Deconvolve failed: %v", err)
	}

	testutil.RequireFinite(t, out.Data())
	testutil.RequireImageNearlyEqual(t, out, img, 1e-4)
}

func TestDeconvolveErrors(t *testing.T) {
	img := testutil.ConstantImage(ndimage.Shape{4, 4}, 1)

	if _, err := Deconvolve(nil, img, DefaultDeconvOptions()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil image: err = %v", err)
	}
	if _, err := Deconvolve(img, vector(t, 1, 1), DefaultDeconvOptions()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("dimension mismatch: err = %v", err)
	}
	if _, err := Deconvolve(img, testutil.ConstantImage(ndimage.Shape{3, 3}, 0), DefaultDeconvOptions()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero kernel: err = %v", err)
	}
}

func TestSNR(t *testing.T) {
	a := vector(t, 1, 1)

	if got := SNR(a, a.Clone()); !math.IsInf(got, 1) {
		t.Errorf("SNR of identical images = %v, want +Inf", got)
	}

	if got := SNR(a, vector(t, 1, 1, 1)); !math.IsInf(got, -1) {
		t.Errorf("SNR of mismatched images = %v, want -Inf", got)
	}

	got := SNR(a, vector(t, 1, 0))
	if want := 10 * math.Log10(2); math.Abs(got-want) > 1e-12 {
		t.Errorf("SNR = %v, want %v", got, want)
	}
}

func TestDeconvMethodString(t *testing.T) {
	if DeconvNaive.String() != "naive" || DeconvRegularized.String() != "regularized" ||
		DeconvWiener.String() != "wiener" || DeconvMethod(9).String() != "unknown" {
		t.Error("unexpected DeconvMethod names")
	}
}
