package intensity

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func image(t *testing.T, shape ndimage.Shape, values ...float64) *ndimage.Image {
	t.Helper()
	img, err := ndimage.FromData(shape, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return img
}

func TestCalculate(t *testing.T) {
	img := image(t, ndimage.Shape{2, 3}, 4, 1, 9, 2, 3, 5)
	s := Calculate(img)

	if s.Length != 6 {
		t.Errorf("Length: got %d, want 6", s.Length)
	}
	if !almostEqual(s.Mean, 4, tolerance) {
		t.Errorf("Mean: got %g, want 4", s.Mean)
	}
	if s.Min != 1 || s.MinPos != 1 {
		t.Errorf("Min: got %g at %d, want 1 at 1", s.Min, s.MinPos)
	}
	if s.Max != 9 || s.MaxPos != 2 {
		t.Errorf("Max: got %g at %d, want 9 at 2", s.Max, s.MaxPos)
	}
	if s.Sum != 24 {
		t.Errorf("Sum: got %g, want 24", s.Sum)
	}
	if s.Energy != 136 {
		t.Errorf("Energy: got %g, want 136", s.Energy)
	}
	// Deviations 0,-3,5,-2,-1,1 give 40/6.
	if !almostEqual(s.Variance, 40.0/6, tolerance) {
		t.Errorf("Variance: got %g, want %g", s.Variance, 40.0/6)
	}
	if !almostEqual(s.StdDev(), math.Sqrt(40.0/6), tolerance) {
		t.Errorf("StdDev: got %g", s.StdDev())
	}

	idx := make([]int, 2)
	img.Unravel(s.MaxPos, idx)
	if idx[0] != 0 || idx[1] != 2 {
		t.Errorf("max coordinates: got %v, want [0 2]", idx)
	}
}

func TestCalculateConstant(t *testing.T) {
	img, _ := ndimage.New(ndimage.Shape{10, 10})
	img.Fill(7)

	s := Calculate(img)
	if s.Variance != 0 || s.Mean != 7 || s.Min != 7 || s.Max != 7 {
		t.Errorf("unexpected stats for constant image: %+v", s)
	}
	if s.MinPos != 0 || s.MaxPos != 0 {
		t.Errorf("positions: got %d/%d, want first sample", s.MinPos, s.MaxPos)
	}
}

func TestCalculateNonFinite(t *testing.T) {
	img := image(t, ndimage.Shape{5}, 1, math.NaN(), 3, math.Inf(1), 5)
	s := Calculate(img)

	if s.NonFinite != 2 {
		t.Errorf("NonFinite: got %d, want 2", s.NonFinite)
	}
	if s.Length != 5 {
		t.Errorf("Length: got %d, want 5", s.Length)
	}
	if !almostEqual(s.Mean, 3, tolerance) || s.Max != 5 || s.MaxPos != 4 {
		t.Errorf("finite samples summarized wrongly: %+v", s)
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || s.MinPos != -1 || s.MaxPos != -1 {
		t.Errorf("unexpected empty stats: %+v", s)
	}

	all := Calculate(image(t, ndimage.Shape{2}, math.NaN(), math.NaN()))
	if all.Length != 2 || all.NonFinite != 2 || all.MinPos != -1 {
		t.Errorf("unexpected all-NaN stats: %+v", all)
	}
}

func TestStreamingMatchesCalculate(t *testing.T) {
	values := []float64{0.5, 3, -2, 8, 8, 1.25, 4, 0}
	img := image(t, ndimage.Shape{8}, values...)
	want := Calculate(img)

	s := NewStreamingStats()
	s.Update(values[:3])
	s.Update(values[3:5])
	s.Update(values[5:])

	got := s.Result()
	if got.Length != want.Length || got.MinPos != want.MinPos || got.MaxPos != want.MaxPos {
		t.Errorf("positions differ: got %+v, want %+v", got, want)
	}
	if !almostEqual(got.Mean, want.Mean, tolerance) || !almostEqual(got.Variance, want.Variance, tolerance) {
		t.Errorf("moments differ: got %+v, want %+v", got, want)
	}

	s.Reset()
	if r := s.Result(); r.Length != 0 || r.MinPos != -1 {
		t.Errorf("Reset did not clear state: %+v", r)
	}
}
