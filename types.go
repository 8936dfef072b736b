package pixelveil

import (
	"fmt"
)

// Version is the library version.
const Version = "1.0.0"

// Kind identifies one of the five pixel transforms. The set is closed:
// dispatch is an explicit switch, so a missing case is a compile-time
// smell rather than a runtime surprise.
type Kind int

const (
	// Swap reorders pixel positions with a key-seeded permutation.
	Swap Kind = iota
	// XOR combines every byte with a key stream (self-inverse).
	XOR
	// Shift adds a key-derived per-channel offset modulo 256.
	Shift
	// BlockSub is a didactic substitution/permutation block transform.
	// It is AES-inspired, not a certified cipher.
	BlockSub
	// Stego embeds a payload into the low bits of the carrier.
	Stego
)

var kindNames = map[Kind]string{
	Swap:     "swap",
	XOR:      "xor",
	Shift:    "shift",
	BlockSub: "blocksub",
	Stego:    "stego",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler so records serialize
// with readable kind names.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("pixelveil: unknown transform kind %q", text)
}

// ParseKind converts a kind name ("swap", "xor", ...) to a Kind.
func ParseKind(name string) (Kind, error) {
	var k Kind
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, err
	}
	return k, nil
}

// Complexity classifies how much structure an image carries, derived
// from its entropy and contrast.
type Complexity int

const (
	Low Complexity = iota
	Medium
	High
)

func (c Complexity) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Complexity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Params carries the per-transform tuning knobs.
// The zero value is not valid; start from DefaultParams.
type Params struct {
	// Strength scales the block transform's round count and key
	// derivation. Valid range 1-10.
	Strength int `json:"strength"`

	// Quality is the output encoding quality in percent, used when a
	// buffer is saved as JPEG. Valid range 50-100.
	Quality int `json:"quality"`

	// AddNoise fills the unused embedding capacity with key-seeded
	// pseudorandom bits after a steganographic payload. Deterministic
	// for a given key, so transforms stay pure.
	AddNoise bool `json:"add_noise"`

	// Compress runs the steganographic payload through zstd before
	// embedding; extraction decompresses transparently.
	Compress bool `json:"compress"`

	// BitsPerChannel is the number of low bits used per channel for
	// embedding. Valid values 1 and 2.
	BitsPerChannel int `json:"bits_per_channel"`
}

// DefaultParams returns the engine defaults: mid strength, 90% quality,
// single-bit embedding.
func DefaultParams() Params {
	return Params{
		Strength:       5,
		Quality:        90,
		BitsPerChannel: 1,
	}
}

func (p Params) validate() error {
	if p.Strength < 1 || p.Strength > 10 {
		return fmt.Errorf("pixelveil: strength %d out of range [1,10]", p.Strength)
	}
	if p.Quality < 50 || p.Quality > 100 {
		return fmt.Errorf("pixelveil: quality %d out of range [50,100]", p.Quality)
	}
	if p.BitsPerChannel < 1 || p.BitsPerChannel > 2 {
		return fmt.Errorf("pixelveil: bits per channel %d out of range [1,2]", p.BitsPerChannel)
	}
	return nil
}
