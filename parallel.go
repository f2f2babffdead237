package yuv

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ParallelThreshold is the number of samples below which a loop runs on the calling goroutine.
	ParallelThreshold = 64 * 1024
)

// parallelRows calls fn with disjoint [start, end) row ranges covering [0, rows).
// Every call must write only to outputs owned by its rows.
func parallelRows(rows, rowLength int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 || rows < 2 || rows*rowLength < ParallelThreshold {
		fn(0, rows)

		return
	}

	chunk := (rows + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)

	for start := 0; start < rows; start += chunk {
		start, end := start, min(start+chunk, rows)
		g.Go(func() error {
			fn(start, end)

			return nil
		})
	}

	_ = g.Wait()
}
