package pixelveil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationRecord is one entry in a session's history: the transform
// that ran, everything needed to rerun or report it, and the buffer it
// produced. Records are created on successful transforms and never
// mutated afterwards.
//
// A record marshals to JSON without re-deriving anything, so an
// external reporter can render logs straight from serialized records.
// The output pixels themselves are referenced by digest rather than
// inlined.
type OperationRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Inverse   bool      `json:"inverse"`
	Params    Params    `json:"params"`
	Key       Key       `json:"key"`
	Metrics   Metrics   `json:"metrics"`

	// BufferRef is a short content digest identifying Buffer.
	BufferRef string `json:"buffer_ref"`

	// Buffer is the transform output. Kept in memory for undo/redo,
	// excluded from serialization.
	Buffer *Buffer `json:"-"`
}

func newRecord(kind Kind, inverse bool, key Key, params Params, out *Buffer, m Metrics) *OperationRecord {
	return &OperationRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Inverse:   inverse,
		Params:    params,
		Key:       key,
		Metrics:   m,
		BufferRef: bufferRef(out),
		Buffer:    out,
	}
}

// bufferRef returns a short hex digest of the buffer contents.
func bufferRef(buf *Buffer) string {
	sum := sha256.Sum256(buf.Pix)
	return hex.EncodeToString(sum[:6])
}

// String returns a one-line summary suitable for history listings.
func (r *OperationRecord) String() string {
	dir := "transform"
	if r.Inverse {
		dir = "inverse"
	}
	return fmt.Sprintf("%s %s | %s | %s",
		r.Kind, dir, r.Metrics, r.Timestamp.Format(time.TimeOnly))
}
