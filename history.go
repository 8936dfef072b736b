package pixelveil

import (
	"fmt"
	"sync"
)

// History is an append-only log of operation records with a position
// pointer, giving linear undo/redo. It is the one piece of shared
// mutable state in a session and is safe for concurrent use: a single
// mutex serializes all pointer movement.
type History struct {
	mu      sync.Mutex
	base    *Buffer
	records []*OperationRecord
	// pos is the number of applied records; 0 means the pre-history
	// base buffer is current.
	pos int
}

// NewHistory starts a history at the given pre-history base buffer.
func NewHistory(base *Buffer) *History {
	return &History{base: base}
}

// Push appends a record and discards any redo entries beyond the
// current position. A new operation after an undo abandons the undone
// branch — linear undo, not a tree.
func (h *History) Push(rec *OperationRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records[:h.pos], rec)
	h.pos = len(h.records)
}

// Undo steps the pointer back one and returns the buffer state at the
// new position; at position zero that is the pre-history base.
func (h *History) Undo() (*Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == 0 {
		return nil, fmt.Errorf("pixelveil: %w", ErrNothingToUndo)
	}
	h.pos--
	return h.bufferAt(h.pos), nil
}

// Redo steps the pointer forward one if a redo entry exists.
func (h *History) Redo() (*Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos >= len(h.records) {
		return nil, fmt.Errorf("pixelveil: %w", ErrNothingToRedo)
	}
	h.pos++
	return h.bufferAt(h.pos), nil
}

// JumpTo restores the buffer state recorded at index.
func (h *History) JumpTo(index int) (*Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.records) {
		return nil, fmt.Errorf("pixelveil: %w: %d not in [0,%d)",
			ErrHistoryIndexOutOfRange, index, len(h.records))
	}
	h.pos = index + 1
	return h.bufferAt(h.pos), nil
}

// Current returns the buffer state at the pointer.
func (h *History) Current() *Buffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bufferAt(h.pos)
}

// Len returns the number of recorded operations.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos > 0
}

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos < len(h.records)
}

// Records returns a snapshot of the record log in order.
func (h *History) Records() []*OperationRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*OperationRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Clear drops all records and resets the pointer to the base buffer.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	h.pos = 0
}

// bufferAt maps a position to its buffer: 0 is the base, n is the
// output of record n-1. Callers hold h.mu.
func (h *History) bufferAt(pos int) *Buffer {
	if pos == 0 {
		return h.base
	}
	return h.records[pos-1].Buffer
}
