package pixelveil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Key is the secret driving a transform. Swap, XOR and Shift use the
// integer Scalar in [1,255]; BlockSub and Stego prefer the derived
// Stream and fall back to the scalar when no stream is set.
type Key struct {
	Scalar int    `json:"scalar,omitempty"`
	Stream []byte `json:"stream,omitempty"`
}

// NewScalarKey builds a key from an integer in [1,255].
func NewScalarKey(n int) (Key, error) {
	if n < 1 || n > 255 {
		return Key{}, fmt.Errorf("pixelveil: %w: scalar %d out of range [1,255]", ErrInvalidKey, n)
	}
	return Key{Scalar: n}, nil
}

// NewStreamKey builds a key from a non-empty byte sequence. The scalar
// component is derived from the stream so every kind can use the key.
func NewStreamKey(stream []byte) (Key, error) {
	if len(stream) == 0 {
		return Key{}, fmt.Errorf("pixelveil: %w: empty key stream", ErrInvalidKey)
	}
	s := make([]byte, len(stream))
	copy(s, stream)
	scalar := 1 + int(s[0])%255
	return Key{Scalar: scalar, Stream: s}, nil
}

// validFor checks the key against the requirements of a transform kind.
func (k Key) validFor(kind Kind) error {
	switch kind {
	case Swap, XOR, Shift:
		if k.Scalar < 1 || k.Scalar > 255 {
			return fmt.Errorf("pixelveil: %w: scalar %d out of range [1,255]", ErrInvalidKey, k.Scalar)
		}
	case BlockSub, Stego:
		if len(k.Stream) == 0 && (k.Scalar < 1 || k.Scalar > 255) {
			return fmt.Errorf("pixelveil: %w: need a stream or a scalar in [1,255]", ErrInvalidKey)
		}
	}
	return nil
}

// material returns the key bytes used for derivation: the stream when
// present, otherwise the scalar.
func (k Key) material() []byte {
	if len(k.Stream) > 0 {
		return k.Stream
	}
	return []byte{byte(k.Scalar)}
}

// seed collapses the key material into a deterministic PRNG seed.
func (k Key) seed() int64 {
	sum := sha256.Sum256(k.material())
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// keystream returns n bytes of repeating key material.
func (k Key) keystream(n int) []byte {
	material := k.material()
	ks := make([]byte, n)
	for i := range ks {
		ks[i] = material[i%len(material)]
	}
	return ks
}

// Rating scores a scalar key from 1 (weak) to 10 for display in key
// strength meters.
func (k Key) Rating() int {
	r := k.Scalar/25 + 1
	if r > 10 {
		r = 10
	}
	if r < 1 {
		r = 1
	}
	return r
}

// DeriveKey produces a key from image statistics and the requested
// strength. The derivation is deterministic: identical pixels and
// strength always yield the identical key, which keeps transforms
// reproducible. Use RandomKey for a fresh unpredictable key.
func DeriveKey(buf *Buffer, analysis Analysis, strength int) (Key, error) {
	if err := buf.validate(); err != nil {
		return Key{}, err
	}
	if strength < 1 || strength > 10 {
		return Key{}, fmt.Errorf("pixelveil: strength %d out of range [1,10]", strength)
	}

	// Strength mixed with entropy and contrast, wrapped to a byte,
	// floored at 1.
	scalar := int(float64(strength)*analysis.Entropy*analysis.Contrast) % 256
	if scalar < 1 {
		scalar = 1
	}

	digest := sha256.Sum256(buf.Pix)
	h := sha256.New()
	h.Write(digest[:])
	h.Write([]byte{byte(strength)})
	return Key{Scalar: scalar, Stream: h.Sum(nil)}, nil
}

// RandomKey produces a fresh key from the system entropy source. The
// stream length grows with strength. Unlike DeriveKey the result is
// not reproducible.
func RandomKey(strength int) (Key, error) {
	if strength < 1 || strength > 10 {
		return Key{}, fmt.Errorf("pixelveil: strength %d out of range [1,10]", strength)
	}
	stream := make([]byte, 16+2*strength)
	if _, err := rand.Read(stream); err != nil {
		return Key{}, fmt.Errorf("pixelveil: random key: %w", err)
	}
	return NewStreamKey(stream)
}
