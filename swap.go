package pixelveil

import (
	"math/rand"
)

// permutation derives the deterministic pseudorandom pixel permutation
// for a key. An identity permutation is a valid, if weak, outcome — the
// engine does not reject degenerate seeds.
func permutation(n int, key Key) []int {
	r := rand.New(rand.NewSource(key.seed()))
	return r.Perm(n)
}

// permutePixels reorders whole pixels according to the key-seeded
// permutation. The forward direction places source pixel perm[i] at
// position i; the inverse scatters position i back to perm[i], undoing
// it exactly.
func permutePixels(buf *Buffer, key Key, inverse bool) *Buffer {
	out := buf.Clone()
	perm := permutation(buf.PixelCount(), key)
	c := buf.Channels

	for i, p := range perm {
		src, dst := p*c, i*c
		if inverse {
			src, dst = dst, src
		}
		copy(out.Pix[dst:dst+c], buf.Pix[src:src+c])
	}
	return out
}
