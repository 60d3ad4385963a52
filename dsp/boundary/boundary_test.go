package boundary

import (
	"testing"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

func grid(t *testing.T) *ndimage.Image {
	t.Helper()

	// 3x4 image whose sample value encodes its position as 10*y + x.
	img, err := ndimage.New(ndimage.Shape{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for y := range 3 {
		for x := range 4 {
			img.Set(float64(10*y+x), y, x)
		}
	}

	return img
}

func TestZeroFluxNeumannInRangeIsExact(t *testing.T) {
	img := grid(t)
	ext := ZeroFluxNeumann{}

	for y := range 3 {
		for x := range 4 {
			idx := []int{y, x}
			if got, want := ext.Extend(img, idx), img.At(y, x); got != want {
				t.Errorf("Extend(%v) = %v, want %v", idx, got, want)
			}
			if got, want := Sample(ext, img, idx), img.At(y, x); got != want {
				t.Errorf("Sample(%v) = %v, want %v", idx, got, want)
			}
		}
	}
}

func TestZeroFluxNeumannClampsIndependentOfDistance(t *testing.T) {
	img := grid(t)
	ext := ZeroFluxNeumann{}

	tests := []struct {
		name string
		idx  []int
		want float64
	}{
		{name: "left by one", idx: []int{1, -1}, want: 10},
		{name: "left far", idx: []int{1, -1000}, want: 10},
		{name: "right by one", idx: []int{1, 4}, want: 13},
		{name: "right far", idx: []int{1, 1 << 20}, want: 13},
		{name: "above", idx: []int{-5, 2}, want: 2},
		{name: "below", idx: []int{3, 2}, want: 22},
		{name: "corner top-left", idx: []int{-3, -7}, want: 0},
		{name: "corner bottom-right", idx: []int{99, 99}, want: 23},
		{name: "mixed corner", idx: []int{-1, 9}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ext.Extend(img, tt.idx); got != tt.want {
				t.Fatalf("Extend(%v) = %v, want %v", tt.idx, got, tt.want)
			}
			if got := Sample(nil, img, tt.idx); got != tt.want {
				t.Fatalf("Sample(nil, %v) = %v, want %v", tt.idx, got, tt.want)
			}
		})
	}
}

func TestZeroFluxNeumannDeterministic(t *testing.T) {
	img := grid(t)
	ext := ZeroFluxNeumann{}
	idx := []int{-2, 7}

	first := ext.Extend(img, idx)
	for range 100 {
		if got := ext.Extend(img, idx); got != first {
			t.Fatalf("Extend changed value: %v then %v", first, got)
		}
	}

	if idx[0] != -2 || idx[1] != 7 {
		t.Fatalf("Extend modified the index: %v", idx)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"", "neumann", "Zero-Flux-Neumann", "replicate"} {
		ext, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", name, err)
		}
		if ext.Name() != "zero-flux-neumann" {
			t.Fatalf("Lookup(%q).Name() = %q", name, ext.Name())
		}
	}

	if _, err := Lookup("periodic"); err == nil {
		t.Fatal("expected error for unsupported policy")
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) == nil {
		t.Fatal("OrDefault(nil) returned nil")
	}
}
