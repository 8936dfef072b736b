// Package pixelveil is a deterministic image transform and analysis
// engine. It applies reversible (or embedding-based) pixel transforms
// to raster buffers, scores image complexity to recommend a transform,
// measures the distortion each operation introduces, and keeps a linear
// undo/redo history of everything it did.
//
// Five transforms are provided:
//
//   - Swap: key-seeded permutation of pixel positions
//   - XOR: key-stream combination, self-inverse
//   - Shift: per-channel wrap-around offset
//   - BlockSub: AES-inspired substitution/permutation rounds
//   - Stego: LSB payload embedding with keyed traversal
//
// The core is pure and side-effect free: transforms never mutate their
// input, analysis is stateless, and every operation returns explicit
// errors. None of this is hardened cryptography — the block transform
// is a didactic construction and the steganography offers no integrity
// check; extraction with a wrong key yields garbage, not an error.
package pixelveil

import (
	"fmt"
	"time"
)

// Process runs the full single-image pipeline: transform, measure,
// record. It is the unit of work the batch coordinator and sessions
// share.
func Process(buf *Buffer, kind Kind, key Key, params Params) (*OperationRecord, error) {
	return process(buf, kind, key, params, false)
}

// ProcessInverse is Process for the inverse direction.
func ProcessInverse(buf *Buffer, kind Kind, key Key, params Params) (*OperationRecord, error) {
	return process(buf, kind, key, params, true)
}

func process(buf *Buffer, kind Kind, key Key, params Params, inverse bool) (*OperationRecord, error) {
	start := time.Now()

	var out *Buffer
	var err error
	if inverse {
		out, err = InverseTransform(buf, kind, key, params)
	} else {
		out, err = Transform(buf, kind, key, params)
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	metrics, err := Measure(buf, out, elapsed)
	if err != nil {
		return nil, fmt.Errorf("pixelveil: measure %s: %w", kind, err)
	}

	return newRecord(kind, inverse, key, params, out, metrics), nil
}
