package filter

import (
	"context"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/tvdb-fetch/tvdb"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator evaluates a filter over chunks of shows in parallel
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates a single filter against all shows
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, shows []tvdb.Show) ([]tvdb.Show, error) {
	if len(shows) == 0 {
		return []tvdb.Show{}, nil
	}

	// For small lists, don't bother with concurrency
	if len(shows) < e.batchSize {
		return Apply(filter, shows)
	}

	return e.evaluateConcurrent(ctx, filter, shows)
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, shows []tvdb.Show) ([]tvdb.Show, error) {
	chunks := lo.Chunk(shows, max(len(shows)/e.workerCount, e.batchSize))
	results := make([][]tvdb.Show, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches, err := Apply(filter, chunk)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lo.Flatten(results), nil
}
