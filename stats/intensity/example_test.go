package intensity_test

import (
	"fmt"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
	"github.com/cwbudde/algo-decon/stats/intensity"
)

func ExampleCalculate() {
	img, _ := ndimage.FromData(ndimage.Shape{2, 2}, []float64{1, 4, 2, 3})
	s := intensity.Calculate(img)
	fmt.Printf("mean=%.1f max=%.0f@%d\n", s.Mean, s.Max, s.MaxPos)

	// Output:
	// mean=2.5 max=4@1
}

func ExampleStreamingStats() {
	s := intensity.NewStreamingStats()
	s.Update([]float64{1, 2})
	s.Update([]float64{3, 4})
	m := s.Result()
	fmt.Printf("len=%d sum=%.0f\n", m.Length, m.Sum)

	// Output:
	// len=4 sum=10
}
