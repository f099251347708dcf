package render

import (
	"sync"

	"github.com/alws34/DigitalPhotoFrame/internal/workers"
)

// maxRenderWorkers caps row-parallel pixel work; beyond this the chunks are
// too small to amortize the goroutine overhead at typical frame sizes.
const maxRenderWorkers = 8

// ParallelRows splits the row range [0, height) into contiguous chunks and
// runs fn on each chunk concurrently. fn must only touch rows in its chunk.
func ParallelRows(height int, fn func(y0, y1 int)) {
	n := workers.ForCPU(maxRenderWorkers)
	if n > height {
		n = height
	}
	if n <= 1 {
		fn(0, height)
		return
	}

	chunk := (height + n - 1) / n

	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += chunk {
		y1 := y0 + chunk
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
