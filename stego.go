package pixelveil

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/klauspost/compress/zstd"
)

// The embedding writes a 32-bit big-endian length header followed by
// the payload bytes, MSB first, into the low bit(s) of the carrier's
// channel bytes. The traversal order over pixels is a key-seeded
// permutation, so extraction with a different key walks the carrier in
// a different order and yields garbage. That is a documented property
// of the scheme, not tamper detection: no integrity check exists here.

const stegoHeaderBytes = 4

// noiseSalt decorrelates the noise-fill PRNG from the traversal PRNG.
const noiseSalt = 0x6e6f6973 // "nois"

// Capacity returns the number of payload bytes a carrier can hold at
// the given bit depth, after the length header.
func Capacity(buf *Buffer, bitsPerChannel int) int {
	slots := len(buf.Pix) * bitsPerChannel
	return slots/8 - stegoHeaderBytes
}

// Embed hides payload inside a copy of the carrier. The carrier itself
// is never touched; a payload over capacity fails with
// ErrCapacityExceeded before any bit is written. Dimensions never
// change. With params.Compress the payload is zstd-compressed first;
// with params.AddNoise the unused capacity is filled with key-seeded
// pseudorandom bits so the embedding plane looks uniformly busy.
func Embed(carrier *Buffer, payload []byte, key Key, params Params) (*Buffer, error) {
	if err := prepare(carrier, Stego, key, params); err != nil {
		return nil, err
	}

	data := payload
	if params.Compress {
		packed, err := zstdCompress(payload)
		if err != nil {
			return nil, err
		}
		data = packed
	}

	frame := make([]byte, stegoHeaderBytes+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[stegoHeaderBytes:], data)

	totalSlots := len(carrier.Pix) * params.BitsPerChannel
	if len(frame)*8 > totalSlots {
		return nil, fmt.Errorf("pixelveil: %w: payload %d bytes, carrier holds %d",
			ErrCapacityExceeded, len(payload), Capacity(carrier, params.BitsPerChannel))
	}

	out := carrier.Clone()
	it := newSlotIter(carrier, key, params.BitsPerChannel)
	for _, b := range frame {
		for bit := 7; bit >= 0; bit-- {
			idx, level := it.next()
			setBit(out.Pix, idx, level, (b>>bit)&1)
		}
	}

	if params.AddNoise {
		rng := rand.New(rand.NewSource(key.seed() ^ noiseSalt))
		for written := len(frame) * 8; written < totalSlots; written++ {
			idx, level := it.next()
			setBit(out.Pix, idx, level, byte(rng.Intn(2)))
		}
	}

	return out, nil
}

// Extract recovers a payload embedded with the same key and params.
// A wrong key produces garbage or an implausible length header; the
// latter is reported as an error, the former cannot be detected.
func Extract(buf *Buffer, key Key, params Params) ([]byte, error) {
	if err := prepare(buf, Stego, key, params); err != nil {
		return nil, err
	}

	totalSlots := len(buf.Pix) * params.BitsPerChannel
	if stegoHeaderBytes*8 > totalSlots {
		return nil, fmt.Errorf("pixelveil: %w: carrier too small for a length header", ErrCapacityExceeded)
	}

	it := newSlotIter(buf, key, params.BitsPerChannel)
	header := readBytes(buf.Pix, it, stegoHeaderBytes)
	length := int(binary.BigEndian.Uint32(header))
	if (stegoHeaderBytes+length)*8 > totalSlots {
		return nil, fmt.Errorf("pixelveil: %w: header claims %d bytes; wrong key or no payload",
			ErrCapacityExceeded, length)
	}

	data := readBytes(buf.Pix, it, length)
	if params.Compress {
		return zstdDecompress(data)
	}
	return data, nil
}

// clearEmbedding zeroes the embedding plane. It removes any payload but
// does not restore the carrier's original low bits; Stego has no exact
// inverse.
func clearEmbedding(buf *Buffer, params Params) *Buffer {
	out := buf.Clone()
	mask := byte(0xFF << params.BitsPerChannel)
	for i := range out.Pix {
		out.Pix[i] &= mask
	}
	return out
}

// keyPayload is what Transform embeds when no explicit payload is
// given: a digest of the key material.
func keyPayload(key Key) []byte {
	sum := sha256.Sum256(key.material())
	return sum[:]
}

// slotIter walks the embedding slots: pixels in key-permuted order,
// channels within a pixel, bit levels within a channel.
type slotIter struct {
	perm     []int
	channels int
	bits     int
	pixel    int
	channel  int
	level    int
}

func newSlotIter(buf *Buffer, key Key, bitsPerChannel int) *slotIter {
	return &slotIter{
		perm:     permutation(buf.PixelCount(), key),
		channels: buf.Channels,
		bits:     bitsPerChannel,
	}
}

// next returns the byte index and bit level of the next slot. The
// caller is responsible for staying within capacity.
func (it *slotIter) next() (idx, level int) {
	idx = it.perm[it.pixel]*it.channels + it.channel
	level = it.level

	it.level++
	if it.level >= it.bits {
		it.level = 0
		it.channel++
		if it.channel >= it.channels {
			it.channel = 0
			it.pixel++
		}
	}
	return idx, level
}

func setBit(pix []byte, idx, level int, bit byte) {
	pix[idx] = pix[idx]&^(1<<level) | bit<<level
}

func readBytes(pix []byte, it *slotIter, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		var b byte
		for bit := 7; bit >= 0; bit-- {
			idx, level := it.next()
			b |= (pix[idx] >> level & 1) << bit
		}
		out[i] = b
	}
	return out
}

func zstdCompress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("pixelveil: zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("pixelveil: zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("pixelveil: zstd decode: %w", err)
	}
	return out, nil
}
