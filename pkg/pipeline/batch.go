package pipeline

import (
	"context"
	"sync"
)

// BatchItem is one unit of work in a batch run, typically one sample's
// exchange table.
type BatchItem struct {
	Name    string
	Options Options
}

// BatchResult is the outcome of one batch item. Err is set when the item
// failed; the rest of the batch is unaffected.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// RunBatch executes the pipeline for every item with bounded
// concurrency. Items are independent: a failure in one is reported in
// its BatchResult and never blocks the others. Results are returned in
// item order.
//
// A concurrency of zero or less runs one item at a time.
func (r *Runner) RunBatch(ctx context.Context, items []BatchItem, concurrency int) []BatchResult {
	return r.RunBatchWithProgress(ctx, items, concurrency, nil)
}

// RunBatchWithProgress is RunBatch with a per-item completion callback.
// onDone is called from worker goroutines as items finish, with the
// item index and its result; pass nil to disable.
func (r *Runner) RunBatchWithProgress(ctx context.Context, items []BatchItem, concurrency int, onDone func(int, BatchResult)) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(items))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Name: item.Name, Err: err}
			} else {
				res, err := r.Execute(ctx, item.Options)
				results[i] = BatchResult{Name: item.Name, Result: res, Err: err}
			}
			if onDone != nil {
				onDone(i, results[i])
			}
		}(i, item)
	}
	wg.Wait()

	return results
}
