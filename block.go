package pixelveil

import (
	"crypto/sha256"
	"math/rand"
)

// Block transform parameters. The construction is a didactic
// substitution/permutation network: per round the block is XORed with a
// round key, passed through a fixed invertible byte substitution, then
// rotated. Round keys are SHA-256 digests of the master key material
// and the round index, so both directions derive identical schedules.
const (
	blockSize = 16

	// sboxSeed fixes the substitution table. Changing it breaks
	// decodability of previously transformed buffers.
	sboxSeed = 0x70786c76 // "pxlv"
)

var sbox, invSbox [256]byte

func init() {
	r := rand.New(rand.NewSource(sboxSeed))
	perm := r.Perm(256)
	for i, p := range perm {
		sbox[i] = byte(p)
		invSbox[p] = byte(i)
	}
}

// blockRounds maps strength 1-10 to 2-5 rounds.
func blockRounds(strength int) int {
	return 2 + strength/3
}

// roundKey derives the 16-byte key for one round.
func roundKey(key Key, round int) []byte {
	h := sha256.New()
	h.Write(key.material())
	h.Write([]byte{byte(round)})
	return h.Sum(nil)[:blockSize]
}

func blockTransform(buf *Buffer, key Key, params Params, inverse bool) *Buffer {
	out := buf.Clone()
	rounds := blockRounds(params.Strength)

	keys := make([][]byte, rounds)
	for r := 0; r < rounds; r++ {
		keys[r] = roundKey(key, r)
	}

	full := len(out.Pix) / blockSize * blockSize
	for off := 0; off < full; off += blockSize {
		block := out.Pix[off : off+blockSize]
		if inverse {
			decryptBlock(block, keys)
		} else {
			encryptBlock(block, keys)
		}
	}

	// The tail shorter than a block is keystream-XORed only, which is
	// self-inverse, so round-trips stay exact for any buffer length.
	tailKey := roundKey(key, rounds)
	for i := full; i < len(out.Pix); i++ {
		out.Pix[i] ^= tailKey[i%blockSize]
	}

	return out
}

func encryptBlock(block []byte, keys [][]byte) {
	for _, rk := range keys {
		for i := range block {
			block[i] = sbox[block[i]^rk[i]]
		}
		rotateLeft(block, int(rk[0])%blockSize)
	}
}

func decryptBlock(block []byte, keys [][]byte) {
	for r := len(keys) - 1; r >= 0; r-- {
		rk := keys[r]
		rotateLeft(block, blockSize-int(rk[0])%blockSize)
		for i := range block {
			block[i] = invSbox[block[i]] ^ rk[i]
		}
	}
}

// rotateLeft rotates the block bytes left by n positions in place.
func rotateLeft(block []byte, n int) {
	n %= len(block)
	if n == 0 {
		return
	}
	tmp := make([]byte, n)
	copy(tmp, block[:n])
	copy(block, block[n:])
	copy(block[len(block)-n:], tmp)
}
