package pixelveil

import (
	"errors"
	"testing"
)

// applyRecorded runs one transform against the history's current
// buffer and pushes the record, mirroring what a session does.
func applyRecorded(t *testing.T, h *History, kind Kind, scalar int) *OperationRecord {
	t.Helper()
	key := mustScalarKey(t, scalar)
	rec, err := process(h.Current(), kind, key, DefaultParams(), false)
	if err != nil {
		t.Fatalf("transform for history test failed: %v", err)
	}
	h.Push(rec)
	return rec
}

func TestHistoryUndoRedo(t *testing.T) {
	base := makeGradientBuffer(16, 16, 3)
	h := NewHistory(base)

	a := applyRecorded(t, h, XOR, 10)
	b := applyRecorded(t, h, Shift, 20)

	buf, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !buf.Equal(a.Buffer) {
		t.Fatal("undo should return the state after the first operation")
	}

	buf, err = h.Redo()
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if !buf.Equal(b.Buffer) {
		t.Fatal("redo should return the state after the second operation")
	}
}

func TestHistoryUndoToBase(t *testing.T) {
	base := makeGradientBuffer(8, 8, 3)
	h := NewHistory(base)
	applyRecorded(t, h, XOR, 5)

	buf, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !buf.Equal(base) {
		t.Fatal("undoing the only operation should return the pre-history base")
	}

	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("undo past the base = %v, want ErrNothingToUndo", err)
	}
}

func TestHistoryPushTruncatesRedo(t *testing.T) {
	base := makeGradientBuffer(8, 8, 3)
	h := NewHistory(base)

	applyRecorded(t, h, XOR, 10)
	b := applyRecorded(t, h, Shift, 20)

	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	c := applyRecorded(t, h, Swap, 30)

	// b's branch is gone: redo must fail and the log must end with c.
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("redo after push = %v, want ErrNothingToRedo", err)
	}
	records := h.Records()
	if len(records) != 2 {
		t.Fatalf("history length = %d, want 2", len(records))
	}
	if records[1].ID != c.ID {
		t.Fatal("last record should be the new operation")
	}
	for _, rec := range records {
		if rec.ID == b.ID {
			t.Fatal("abandoned redo branch still present")
		}
	}
}

func TestHistoryJumpTo(t *testing.T) {
	base := makeGradientBuffer(8, 8, 3)
	h := NewHistory(base)

	recs := []*OperationRecord{
		applyRecorded(t, h, XOR, 10),
		applyRecorded(t, h, Shift, 20),
		applyRecorded(t, h, Swap, 30),
	}

	buf, err := h.JumpTo(1)
	if err != nil {
		t.Fatalf("JumpTo failed: %v", err)
	}
	if !buf.Equal(recs[1].Buffer) {
		t.Fatal("JumpTo(1) should restore the second recorded state")
	}

	for _, idx := range []int{-1, 3, 100} {
		if _, err := h.JumpTo(idx); !errors.Is(err, ErrHistoryIndexOutOfRange) {
			t.Fatalf("JumpTo(%d) = %v, want ErrHistoryIndexOutOfRange", idx, err)
		}
	}
}

func TestHistoryClear(t *testing.T) {
	base := makeGradientBuffer(8, 8, 3)
	h := NewHistory(base)
	applyRecorded(t, h, XOR, 10)

	h.Clear()
	if h.Len() != 0 || h.CanUndo() || h.CanRedo() {
		t.Fatal("clear should reset the history completely")
	}
	if !h.Current().Equal(base) {
		t.Fatal("cleared history should point at the base buffer")
	}
}

// ── Session Tests ───────────────────────────────────────────────────────────

func TestSessionApplyUndoRedo(t *testing.T) {
	base := makeGradientBuffer(16, 16, 3)
	s, err := NewSession(base)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	key := mustScalarKey(t, 42)

	recA, err := s.Apply(XOR, key, DefaultParams())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := s.Apply(Shift, key, DefaultParams()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	buf, err := s.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !buf.Equal(recA.Buffer) || !s.Buffer().Equal(recA.Buffer) {
		t.Fatal("session buffer should track undo")
	}

	if _, err := s.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if s.History().Len() != 2 {
		t.Fatalf("history length = %d, want 2", s.History().Len())
	}
}

func TestSessionInverseRestoresOriginal(t *testing.T) {
	base := makeGradientBuffer(16, 16, 4)
	s, _ := NewSession(base)
	key := mustScalarKey(t, 100)

	if _, err := s.Apply(BlockSub, key, DefaultParams()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := s.ApplyInverse(BlockSub, key, DefaultParams()); err != nil {
		t.Fatalf("ApplyInverse failed: %v", err)
	}

	if !s.Buffer().Equal(base) {
		t.Fatal("inverse transform in a session should restore the original pixels")
	}
	// Both directions are recorded.
	if s.History().Len() != 2 {
		t.Fatalf("history length = %d, want 2", s.History().Len())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a, _ := NewSession(makeGradientBuffer(8, 8, 3))
	b, _ := NewSession(makeGradientBuffer(8, 8, 3))
	key := mustScalarKey(t, 5)

	if _, err := a.Apply(XOR, key, DefaultParams()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if b.History().Len() != 0 {
		t.Fatal("sessions must not share history")
	}
}

func TestSessionReset(t *testing.T) {
	base := makeGradientBuffer(8, 8, 3)
	s, _ := NewSession(base)
	key := mustScalarKey(t, 5)

	if _, err := s.Apply(XOR, key, DefaultParams()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	s.Reset()
	if !s.Buffer().Equal(base) || s.History().Len() != 0 {
		t.Fatal("reset should restore the base buffer and drop history")
	}
}
