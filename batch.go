package pixelveil

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// BatchItem is one image in a batch. Either a preloaded Buffer or a
// Src path to decode; a set Buffer wins.
type BatchItem struct {
	// Src is an input file path, decoded when Buffer is nil.
	Src string
	// Buffer is the preloaded image data.
	Buffer *Buffer
}

// ItemResult is the outcome for a single batch item. Err wraps
// ErrBatchItem on failure; Record is set on success.
type ItemResult struct {
	// Index is the position in the original input slice.
	Index int
	// Record is the completed operation (nil if Err is non-nil).
	Record *OperationRecord
	// Err is the isolated per-item failure.
	Err error
}

// BatchOptions configures a batch run.
type BatchOptions struct {
	// Workers is the number of concurrent workers. 0 = runtime.NumCPU().
	Workers int
	// OnItem is called after each item completes, with the completed
	// count and the total. Calls are serialized.
	OnItem func(completed, total int)
}

// RunBatch applies one transform configuration across a collection of
// images. It returns a channel that yields exactly one result per
// input, in input order, as items finish — consuming it incrementally
// observes progress. Items run concurrently on a worker pool; each
// item's failure is isolated and never aborts the rest. Cancelling ctx
// stops starting new items; results already produced stay valid, and
// skipped items report the context error.
func RunBatch(ctx context.Context, items []BatchItem, kind Kind, key Key, params Params, opts BatchOptions) <-chan ItemResult {
	out := make(chan ItemResult)
	if len(items) == 0 {
		close(out)
		return out
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	// One buffered slot per item so workers never block on delivery;
	// the emitter drains them in input order.
	slots := make([]chan ItemResult, len(items))
	for i := range slots {
		slots[i] = make(chan ItemResult, 1)
	}

	workCh := make(chan int, len(items))
	for i := range items {
		workCh <- i
	}
	close(workCh)

	var completed int
	var completedMu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				// Check cancellation before starting new work.
				select {
				case <-ctx.Done():
					slots[idx] <- ItemResult{Index: idx, Err: fmt.Errorf("pixelveil: %w: item %d: %w", ErrBatchItem, idx, ctx.Err())}
					continue
				default:
				}

				rec, err := processItem(items[idx], kind, key, params)
				if err != nil {
					err = fmt.Errorf("pixelveil: %w: item %d: %w", ErrBatchItem, idx, err)
				}
				slots[idx] <- ItemResult{Index: idx, Record: rec, Err: err}

				if opts.OnItem != nil {
					completedMu.Lock()
					completed++
					c := completed
					completedMu.Unlock()
					opts.OnItem(c, len(items))
				}
			}
		}()
	}

	go func() {
		for i := range slots {
			out <- <-slots[i]
		}
		wg.Wait()
		close(out)
	}()

	return out
}

// processItem loads the item if needed and runs the pipeline on it.
func processItem(item BatchItem, kind Kind, key Key, params Params) (*OperationRecord, error) {
	buf := item.Buffer
	if buf == nil {
		loaded, err := Open(item.Src)
		if err != nil {
			return nil, err
		}
		buf = loaded
	}
	return Process(buf, kind, key, params)
}

// Collect drains a batch result channel into an ordered slice.
func Collect(results <-chan ItemResult) []ItemResult {
	var out []ItemResult
	for r := range results {
		out = append(out, r)
	}
	return out
}

// BatchSummary aggregates a finished batch run.
type BatchSummary struct {
	Total           int
	Succeeded       int
	Failed          int
	TotalTime       time.Duration
	AvgMSE          float64
	AvgEntropyDelta float64
}

// Summarize computes aggregate statistics from collected results.
func Summarize(results []ItemResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	var mseSum, deltaSum float64
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalTime += r.Record.Metrics.ProcessingTime
		mseSum += r.Record.Metrics.MSE
		deltaSum += r.Record.Metrics.EntropyDelta
	}
	if s.Succeeded > 0 {
		s.AvgMSE = mseSum / float64(s.Succeeded)
		s.AvgEntropyDelta = deltaSum / float64(s.Succeeded)
	}
	return s
}

// String returns a human-readable batch summary.
func (s BatchSummary) String() string {
	return fmt.Sprintf("Batch: %d/%d succeeded | avg mse %.2f | avg Δentropy %+.3f | %s",
		s.Succeeded, s.Total, s.AvgMSE, s.AvgEntropyDelta, s.TotalTime.Round(time.Millisecond))
}
