package psf

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

func TestGenerateNormalized(t *testing.T) {
	for _, typ := range []Type{TypeGaussian, TypeBox, TypeHann} {
		t.Run(typ.String(), func(t *testing.T) {
			k, err := Generate(typ, ndimage.Shape{5, 7, 3})
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			if sum := k.Sum(); math.Abs(sum-1) > 1e-12 {
				t.Fatalf("sum = %v, want 1", sum)
			}

			for i, v := range k.Data() {
				if v <= 0 {
					t.Fatalf("sample %d = %v, want > 0", i, v)
				}
			}
		})
	}
}

func TestGaussianPeaksAtCenter(t *testing.T) {
	k, err := Gaussian(2, 1.2)
	if err != nil {
		t.Fatalf("Gaussian failed: %v", err)
	}

	if got := k.Shape(); !got.Equal(ndimage.Shape{9, 9}) {
		t.Fatalf("shape = %v, want 9x9", got)
	}

	peak := k.At(4, 4)
	for i, v := range k.Data() {
		if v > peak {
			t.Fatalf("sample %d = %v exceeds center %v", i, v, peak)
		}
	}

	// Symmetric about the center.
	if math.Abs(k.At(2, 4)-k.At(6, 4)) > 1e-15 || math.Abs(k.At(4, 1)-k.At(4, 7)) > 1e-15 {
		t.Fatal("kernel is not symmetric")
	}
}

func TestAnisotropicSigma(t *testing.T) {
	k, err := Generate(TypeGaussian, ndimage.Shape{7, 7}, WithSigma(0.5, 2))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Wider along axis 1 than along axis 0.
	if k.At(3, 5) <= k.At(5, 3) {
		t.Fatalf("expected wider spread on axis 1: %v vs %v", k.At(3, 5), k.At(5, 3))
	}
}

func TestBoxIsUniform(t *testing.T) {
	k, err := Generate(TypeBox, ndimage.Shape{2, 3})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, v := range k.Data() {
		if math.Abs(v-1.0/6) > 1e-15 {
			t.Fatalf("value = %v, want 1/6", v)
		}
	}
}

func TestSizeFor(t *testing.T) {
	tests := []struct {
		sigma float64
		want  int
	}{
		{sigma: 0, want: 1},
		{sigma: 0.3, want: 3},
		{sigma: 1, want: 7},
		{sigma: 1.5, want: 11},
	}

	for _, tt := range tests {
		if got := SizeFor(tt.sigma); got != tt.want {
			t.Errorf("SizeFor(%v) = %d, want %d", tt.sigma, got, tt.want)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(TypeGaussian, ndimage.Shape{3, 0}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty axis: err = %v", err)
	}
	if _, err := Generate(TypeGaussian, ndimage.Shape{3, 3}, WithSigma(1, 2, 3)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("sigma count: err = %v", err)
	}
	if _, err := Generate(Type(99), ndimage.Shape{3}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown type: err = %v", err)
	}
	if _, err := Gaussian(0, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero dims: err = %v", err)
	}
	if _, err := Gaussian(2, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative sigma: err = %v", err)
	}
}
