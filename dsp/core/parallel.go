package core

import "runtime"

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// ResolveWorkers returns n if positive, otherwise GOMAXPROCS.
func ResolveWorkers(n int) int {
	if n > 0 {
		return n
	}

	return runtime.GOMAXPROCS(0)
}

// Chunks splits [0, n) into at most workers contiguous ranges of
// near-equal size. It returns nil for n <= 0.
func Chunks(n, workers int) []Range {
	if n <= 0 {
		return nil
	}

	workers = min(ResolveWorkers(workers), n)
	chunkSize := (n + workers - 1) / workers

	ranges := make([]Range, 0, workers)
	for start := 0; start < n; start += chunkSize {
		ranges = append(ranges, Range{Start: start, End: min(start+chunkSize, n)})
	}

	return ranges
}
