package pixelveil

import "errors"

// Sentinel errors returned by the engine. Callers match them with
// errors.Is; wrapped messages carry the context.
var (
	// ErrInvalidKey is returned for integer keys outside [1,255] and
	// empty byte-sequence keys.
	ErrInvalidKey = errors.New("invalid key")

	// ErrDimensionMismatch is returned when two buffers being compared
	// or combined have incompatible shapes.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrCapacityExceeded is returned when a steganographic payload does
	// not fit in the carrier. The carrier is never modified in that case.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrUnsupportedChannels is returned for buffers with a channel
	// count other than 3 or 4.
	ErrUnsupportedChannels = errors.New("unsupported channel count")

	// ErrHistoryIndexOutOfRange is returned by History.JumpTo for an
	// index outside [0, Len).
	ErrHistoryIndexOutOfRange = errors.New("history index out of range")

	// ErrNothingToUndo is returned by Undo at the start of history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo at the end of history.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrBatchItem wraps a per-item failure inside a batch run. A failed
	// item never aborts the remaining items.
	ErrBatchItem = errors.New("batch item failed")
)
