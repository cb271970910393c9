// Package scan fans frame recognition out over a worker pool while keeping
// results in capture order, so reconciliation stays deterministic no matter
// how the workers interleave.
package scan

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/rosterscan/internal/adapters/capture"
	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/pkg/logger"
	"github.com/okian/rosterscan/pkg/metrics"
)

// Processor turns one frame into observations. Implementations must be
// safe for concurrent use; the recognition engine serializes internally.
type Processor interface {
	Process(ctx context.Context, frame capture.Frame) ([]model.Observation, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, frame capture.Frame) ([]model.Observation, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, frame capture.Frame) ([]model.Observation, error) {
	return f(ctx, frame)
}

// Pool runs a Processor over frames with bounded concurrency.
type Pool struct {
	workers int
	logger  logger.Logger
}

// NewPool creates a Pool. Worker count defaults to the CPU count.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU(),
		logger:  logger.Get().Named("scan"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// Run processes every frame and returns one observation batch per frame,
// indexed identically to the input. The first processing error cancels the
// remaining work and is returned.
func (p *Pool) Run(ctx context.Context, frames []capture.Frame, proc Processor) ([][]model.Observation, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]model.Observation, len(frames))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	workers := p.workers
	if workers > len(frames) {
		workers = len(frames)
	}
	metrics.UpdateWorkerCount(workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				obs, err := proc.Process(ctx, frames[i])
				metrics.RecordFrameLatency(float64(time.Since(start).Milliseconds()))
				if err != nil {
					metrics.RecordErrorByComponent("scan", "frame_error")
					p.logger.Error(ctx, "frame processing failed",
						logger.Int("frame", frames[i].Index),
						logger.String("path", frames[i].Path),
						logger.Error(err),
					)
					once.Do(func() {
						firstErr = fmt.Errorf("frame %d: %w", frames[i].Index, err)
						cancel()
					})
					return
				}
				results[i] = obs
				metrics.RecordFrameScanned()
			}
		}()
	}

feed:
	for i := range frames {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
