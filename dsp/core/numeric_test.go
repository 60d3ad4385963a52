package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{i: 0, n: 4, want: 0},
		{i: 3, n: 4, want: 3},
		{i: -1, n: 4, want: 0},
		{i: -1000, n: 4, want: 0},
		{i: 4, n: 4, want: 3},
		{i: 1 << 20, n: 4, want: 3},
		{i: 5, n: 1, want: 0},
	}

	for _, tt := range tests {
		if got := ClampIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("ClampIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(0, 0, 0) {
		t.Fatal("expected zeros to be equal with default epsilon")
	}
}

func TestFirstNonFinite(t *testing.T) {
	if got := FirstNonFinite([]float64{0, 1, 2}); got != -1 {
		t.Fatalf("FirstNonFinite(finite) = %d, want -1", got)
	}
	if got := FirstNonFinite([]float64{0, math.NaN(), math.Inf(1)}); got != 1 {
		t.Fatalf("FirstNonFinite(NaN at 1) = %d, want 1", got)
	}
	if got := FirstNonFinite([]float64{0, 1, math.Inf(-1)}); got != 2 {
		t.Fatalf("FirstNonFinite(-Inf at 2) = %d, want 2", got)
	}
	if IsFinite(math.NaN()) {
		t.Fatal("NaN reported as finite")
	}
}
