package pixelveil

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRunBatchOrderedResults(t *testing.T) {
	items := make([]BatchItem, 8)
	for i := range items {
		items[i] = BatchItem{Buffer: makeGradientBuffer(16+i, 16, 3)}
	}
	key := mustScalarKey(t, 42)

	results := Collect(RunBatch(context.Background(), items, XOR, key, DefaultParams(), BatchOptions{Workers: 4}))

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d: order not preserved", i, r.Index)
		}
		if r.Err != nil {
			t.Fatalf("item %d failed: %v", i, r.Err)
		}
		if r.Record.Buffer.Width != 16+i {
			t.Fatalf("item %d carries the wrong buffer", i)
		}
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	// Five images; #3 is malformed (missing file). The other four must
	// complete.
	items := []BatchItem{
		{Buffer: makeGradientBuffer(16, 16, 3)},
		{Buffer: makeGradientBuffer(16, 16, 3)},
		{Buffer: makeGradientBuffer(16, 16, 3)},
		{Src: "testdata/does-not-exist.png"},
		{Buffer: makeGradientBuffer(16, 16, 3)},
	}
	key := mustScalarKey(t, 7)

	results := Collect(RunBatch(context.Background(), items, Shift, key, DefaultParams(), BatchOptions{Workers: 2}))

	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for _, i := range []int{0, 1, 2, 4} {
		if results[i].Err != nil {
			t.Fatalf("item %d should succeed: %v", i, results[i].Err)
		}
		if results[i].Record == nil {
			t.Fatalf("item %d is missing its record", i)
		}
	}
	if !errors.Is(results[3].Err, ErrBatchItem) {
		t.Fatalf("item 3 error = %v, want ErrBatchItem", results[3].Err)
	}
	if results[3].Record != nil {
		t.Fatal("failed item should not carry a record")
	}

	s := Summarize(results)
	if s.Succeeded != 4 || s.Failed != 1 || s.Total != 5 {
		t.Fatalf("summary %+v, want 4 succeeded / 1 failed / 5 total", s)
	}
}

func TestRunBatchProgressCallback(t *testing.T) {
	items := make([]BatchItem, 6)
	for i := range items {
		items[i] = BatchItem{Buffer: makeGradientBuffer(12, 12, 3)}
	}
	key := mustScalarKey(t, 3)

	var mu sync.Mutex
	var calls []int
	opts := BatchOptions{
		Workers: 3,
		OnItem: func(completed, total int) {
			mu.Lock()
			calls = append(calls, completed)
			mu.Unlock()
			if total != 6 {
				t.Errorf("total = %d, want 6", total)
			}
		},
	}

	Collect(RunBatch(context.Background(), items, XOR, key, DefaultParams(), opts))

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 6 {
		t.Fatalf("OnItem called %d times, want 6", len(calls))
	}
	// Completed counts are serialized, so the last must be the total.
	if calls[len(calls)-1] != 6 {
		t.Fatalf("final completed count = %d, want 6", calls[len(calls)-1])
	}
}

func TestRunBatchCancelled(t *testing.T) {
	items := make([]BatchItem, 4)
	for i := range items {
		items[i] = BatchItem{Buffer: makeGradientBuffer(16, 16, 3)}
	}
	key := mustScalarKey(t, 9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Collect(RunBatch(ctx, items, XOR, key, DefaultParams(), BatchOptions{Workers: 2}))

	if len(results) != 4 {
		t.Fatalf("cancelled batch must still report every item, got %d", len(results))
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("item %d error = %v, want context.Canceled", r.Index, r.Err)
		}
		if !errors.Is(r.Err, ErrBatchItem) {
			t.Fatalf("item %d error should wrap ErrBatchItem", r.Index)
		}
	}
}

func TestRunBatchEmpty(t *testing.T) {
	key := mustScalarKey(t, 1)
	results := Collect(RunBatch(context.Background(), nil, XOR, key, DefaultParams(), BatchOptions{}))
	if len(results) != 0 {
		t.Fatalf("empty batch produced %d results", len(results))
	}
}
