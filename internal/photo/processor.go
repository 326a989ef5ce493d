package photo

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Result is the outcome of an asynchronous resize.
type Result struct {
	Data []byte
	Err  error
}

// Processor runs resizes off the caller's goroutine with bounded
// concurrency. Each Submit returns a single-assignment result channel; the
// caller reads exactly one Result from it.
type Processor struct {
	sem     *semaphore.Weighted
	maxDim  int
	quality int
}

// NewProcessor creates a processor running at most workers resizes at once.
func NewProcessor(workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		sem:     semaphore.NewWeighted(int64(workers)),
		maxDim:  MaxDimension,
		quality: JPEGQuality,
	}
}

// Submit schedules a resize of data and returns the channel its Result will
// be delivered on. A cancelled ctx surfaces as Result.Err.
func (p *Processor) Submit(ctx context.Context, data []byte) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			out <- Result{Err: err}
			return
		}
		defer p.sem.Release(1)

		resized, err := Resize(data, p.maxDim, p.quality)
		out <- Result{Data: resized, Err: err}
	}()
	return out
}

// Process is the synchronous form of Submit.
func (p *Processor) Process(ctx context.Context, data []byte) ([]byte, error) {
	r := <-p.Submit(ctx, data)
	return r.Data, r.Err
}
