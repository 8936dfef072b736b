package pixelveil

import (
	"fmt"
)

// Transform applies a pixel transform and returns a new buffer; the
// input is never modified. For Stego the embedded payload is derived
// from the key itself — use Embed to hide an explicit payload.
func Transform(buf *Buffer, kind Kind, key Key, params Params) (*Buffer, error) {
	if err := prepare(buf, kind, key, params); err != nil {
		return nil, err
	}

	switch kind {
	case Swap:
		return permutePixels(buf, key, false), nil
	case XOR:
		return xorBytes(buf, key), nil
	case Shift:
		return shiftBytes(buf, key, false), nil
	case BlockSub:
		return blockTransform(buf, key, params, false), nil
	case Stego:
		return Embed(buf, keyPayload(key), key, params)
	default:
		return nil, fmt.Errorf("pixelveil: unknown transform kind %d", kind)
	}
}

// InverseTransform reverses a transform applied with the same kind, key
// and params. XOR is self-inverse; Swap, Shift and BlockSub apply their
// exact inverses. Stego is embedding-based and has no exact inverse:
// the inverse clears the embedding plane, which removes the payload but
// does not restore the carrier's original low bits.
func InverseTransform(buf *Buffer, kind Kind, key Key, params Params) (*Buffer, error) {
	if err := prepare(buf, kind, key, params); err != nil {
		return nil, err
	}

	switch kind {
	case Swap:
		return permutePixels(buf, key, true), nil
	case XOR:
		return xorBytes(buf, key), nil
	case Shift:
		return shiftBytes(buf, key, true), nil
	case BlockSub:
		return blockTransform(buf, key, params, true), nil
	case Stego:
		return clearEmbedding(buf, params), nil
	default:
		return nil, fmt.Errorf("pixelveil: unknown transform kind %d", kind)
	}
}

// prepare runs the shared validation for both transform directions.
func prepare(buf *Buffer, kind Kind, key Key, params Params) error {
	if err := buf.validate(); err != nil {
		return err
	}
	if err := params.validate(); err != nil {
		return err
	}
	return key.validFor(kind)
}
