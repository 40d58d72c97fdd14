// Package sampler drives the evaluator over a rectangular coordinate grid
// to fill a heightmap buffer. Cells are independent and evaluation is pure,
// so rows are fanned out across a worker pool; the output is identical for
// any worker count and any scheduling order.
package sampler

import (
	"context"
	"runtime"
	"sync"

	"github.com/vk/noisebench/internal/ctxlog"
	"github.com/vk/noisebench/internal/noise"
)

// Request describes one region sample: the coordinate rectangle to cover
// and the output resolution.
type Request struct {
	X0, Y0 float64
	X1, Y1 float64
	Width  int
	Height int
}

// axis maps an output index in [0, cells) onto [lo, hi] by linear
// interpolation. A single-cell axis pins to lo, matching how the original
// playground normalized by (diameter - 1).
func axis(lo, hi float64, i, cells int) float64 {
	if cells <= 1 {
		return lo
	}
	return lo + (hi-lo)*(float64(i)/float64(cells-1))
}

// Sample evaluates the graph's root densely over the requested grid and
// returns a Width*Height buffer in row-major order. workers <= 0 means one
// worker per CPU. The graph is read-only, so no synchronization beyond the
// row hand-off is needed; a sample racing a hot-swap simply finishes
// against the generation it captured.
func Sample(ctx context.Context, g *noise.Graph, req Request, workers int) []float32 {
	logger := ctxlog.FromContext(ctx)
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	buf := make([]float32, req.Width*req.Height)
	if len(buf) == 0 {
		return buf
	}

	rows := make(chan int, req.Height)
	for j := 0; j < req.Height; j++ {
		rows <- j
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range rows {
				y := axis(req.Y0, req.Y1, j, req.Height)
				row := buf[j*req.Width : (j+1)*req.Width]
				for i := range row {
					x := axis(req.X0, req.X1, i, req.Width)
					row[i] = g.EvalRoot(x, y)
				}
			}
		}()
	}
	wg.Wait()

	logger.Debug("Region sample complete.",
		"width", req.Width, "height", req.Height, "workers", workers)
	return buf
}
