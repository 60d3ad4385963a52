// Package intensity computes summary statistics of image intensities.
package intensity

import (
	"math"

	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// Stats holds intensity statistics of an image. Positions are linear
// offsets into the image data; use [ndimage.Image.Unravel] for coordinates.
//
// Non-finite samples are counted in NonFinite and excluded from every other
// field.
type Stats struct {
	Length    int
	Mean      float64
	Min       float64
	MinPos    int
	Max       float64
	MaxPos    int
	Sum       float64
	Energy    float64 // sum of squares
	Variance  float64
	NonFinite int
}

// StdDev returns the population standard deviation.
func (s Stats) StdDev() float64 {
	return math.Sqrt(s.Variance)
}

// Calculate computes all statistics of img in a single pass using Welford's
// online algorithm for the variance.
func Calculate(img *ndimage.Image) Stats {
	if img == nil {
		return emptyStats()
	}

	s := NewStreamingStats()
	s.Update(img.Data())

	return s.Result()
}

func emptyStats() Stats {
	return Stats{MinPos: -1, MaxPos: -1}
}

// StreamingStats accumulates intensity statistics across multiple blocks of
// samples. Positions continue across blocks.
type StreamingStats struct {
	pos       int
	n         int
	nonFinite int
	mean      float64
	m2        float64
	sum       float64
	sumSq     float64
	maxVal    float64
	maxPos    int
	minVal    float64
	minPos    int
}

// NewStreamingStats creates a new StreamingStats accumulator.
func NewStreamingStats() *StreamingStats {
	s := &StreamingStats{}
	s.Reset()

	return s
}

// Update adds a block of samples to the running statistics.
func (s *StreamingStats) Update(samples []float64) {
	for _, x := range samples {
		pos := s.pos
		s.pos++

		if math.IsNaN(x) || math.IsInf(x, 0) {
			s.nonFinite++
			continue
		}

		s.n++
		delta := x - s.mean
		s.mean += delta / float64(s.n)
		s.m2 += delta * (x - s.mean)

		s.sum += x
		s.sumSq += x * x

		if s.n == 1 || x > s.maxVal {
			s.maxVal = x
			s.maxPos = pos
		}

		if s.n == 1 || x < s.minVal {
			s.minVal = x
			s.minPos = pos
		}
	}
}

// Result computes the final statistics from accumulated data.
func (s *StreamingStats) Result() Stats {
	if s.n == 0 {
		out := emptyStats()
		out.Length = s.pos
		out.NonFinite = s.nonFinite

		return out
	}

	return Stats{
		Length:    s.pos,
		Mean:      s.mean,
		Min:       s.minVal,
		MinPos:    s.minPos,
		Max:       s.maxVal,
		MaxPos:    s.maxPos,
		Sum:       s.sum,
		Energy:    s.sumSq,
		Variance:  s.m2 / float64(s.n),
		NonFinite: s.nonFinite,
	}
}

// Reset clears all accumulated data, allowing the StreamingStats to be reused.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{minPos: -1, maxPos: -1}
}
