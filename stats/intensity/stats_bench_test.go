package intensity

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

func BenchmarkCalculate(b *testing.B) {
	for _, n := range []int{64, 256, 1024} {
		img, _ := ndimage.New(ndimage.Shape{n, n})
		data := img.Data()
		for i := range data {
			data[i] = float64(i % 251)
		}

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data) * 8))

			for range b.N {
				Calculate(img)
			}
		})
	}
}
