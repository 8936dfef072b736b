package pixelveil

// xorBytes combines every buffer byte with the repeating key stream.
// Applying it twice with the same key restores the original exactly.
func xorBytes(buf *Buffer, key Key) *Buffer {
	out := buf.Clone()
	material := key.material()
	for i := range out.Pix {
		out.Pix[i] ^= material[i%len(material)]
	}
	return out
}

// shiftAmount derives the wrap-around offset for a channel. Deriving it
// per channel diversifies the transform across the color planes.
func shiftAmount(key Key, channel int) byte {
	return byte(key.Scalar * (channel + 1) % 256)
}

// shiftBytes adds the per-channel key offset modulo 256; the inverse
// subtracts the same amount.
func shiftBytes(buf *Buffer, key Key, inverse bool) *Buffer {
	out := buf.Clone()
	c := buf.Channels

	amounts := make([]byte, c)
	for ch := 0; ch < c; ch++ {
		amounts[ch] = shiftAmount(key, ch)
	}

	for i := range out.Pix {
		amt := amounts[i%c]
		if inverse {
			out.Pix[i] -= amt
		} else {
			out.Pix[i] += amt
		}
	}
	return out
}
