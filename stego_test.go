package pixelveil

import (
	"bytes"
	"errors"
	"testing"
)

func TestEmbedExtractRoundTrip(t *testing.T) {
	carrier := makeGradientBuffer(32, 32, 3)
	payload := []byte("the quiet postbox holds a lantern")
	key := mustScalarKey(t, 42)

	out, err := Embed(carrier, payload, key, DefaultParams())
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if out.Width != carrier.Width || out.Height != carrier.Height || out.Channels != carrier.Channels {
		t.Fatal("embedding must not change dimensions")
	}

	got, err := Extract(out, key, DefaultParams())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("extracted %q, want %q", got, payload)
	}
}

func TestEmbedExtractTwoBits(t *testing.T) {
	carrier := makeGradientBuffer(16, 16, 4)
	payload := bytes.Repeat([]byte("ab"), 40)
	key, _ := NewStreamKey([]byte("deep water"))

	params := DefaultParams()
	params.BitsPerChannel = 2

	out, err := Embed(carrier, payload, key, params)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	got, err := Extract(out, key, params)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("2-bit round trip corrupted the payload")
	}
}

func TestEmbedDoesNotMutateCarrier(t *testing.T) {
	carrier := makeGradientBuffer(24, 24, 3)
	snapshot := carrier.Clone()
	key := mustScalarKey(t, 9)

	if _, err := Embed(carrier, []byte("x"), key, DefaultParams()); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !carrier.Equal(snapshot) {
		t.Fatal("Embed mutated the carrier")
	}
}

func TestEmbedVisuallyIntact(t *testing.T) {
	carrier := makeGradientBuffer(32, 32, 3)
	key := mustScalarKey(t, 42)

	out, err := Embed(carrier, []byte("hidden"), key, DefaultParams())
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	for i := range out.Pix {
		if out.Pix[i]>>1 != carrier.Pix[i]>>1 {
			t.Fatalf("byte %d: high bits changed by 1-bit embedding", i)
		}
	}
}

func TestEmbedCapacityExceeded(t *testing.T) {
	carrier := makeGradientBuffer(8, 8, 3)
	key := mustScalarKey(t, 5)

	payload := make([]byte, Capacity(carrier, 1)+1)
	snapshot := carrier.Clone()

	_, err := Embed(carrier, payload, key, DefaultParams())
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}
	if !carrier.Equal(snapshot) {
		t.Fatal("carrier was modified by a failed embed")
	}
}

func TestEmbedAtExactCapacity(t *testing.T) {
	carrier := makeGradientBuffer(8, 8, 3)
	key := mustScalarKey(t, 5)

	payload := make([]byte, Capacity(carrier, 1))
	for i := range payload {
		payload[i] = byte(i)
	}

	out, err := Embed(carrier, payload, key, DefaultParams())
	if err != nil {
		t.Fatalf("embed at exact capacity failed: %v", err)
	}
	got, err := Extract(out, key, DefaultParams())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("full-capacity round trip corrupted the payload")
	}
}

func TestExtractWrongKeyGarbage(t *testing.T) {
	carrier := makeGradientBuffer(32, 32, 3)
	payload := []byte("only the right key reads this")
	right := mustScalarKey(t, 42)
	wrong := mustScalarKey(t, 41)

	out, err := Embed(carrier, payload, right, DefaultParams())
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	// Wrong-key extraction walks the carrier in the wrong order: either
	// the garbage length header is caught, or garbage bytes come back.
	// There is no integrity check to rely on.
	got, err := Extract(out, wrong, DefaultParams())
	if err == nil && bytes.Equal(got, payload) {
		t.Fatal("wrong key recovered the payload")
	}
}

func TestEmbedCompressedPayload(t *testing.T) {
	carrier := makeGradientBuffer(48, 48, 3)
	payload := bytes.Repeat([]byte("repetition compresses well. "), 20)
	key := mustScalarKey(t, 120)

	params := DefaultParams()
	params.Compress = true

	out, err := Embed(carrier, payload, key, params)
	if err != nil {
		t.Fatalf("Embed with compression failed: %v", err)
	}
	got, err := Extract(out, key, params)
	if err != nil {
		t.Fatalf("Extract with compression failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("compressed round trip corrupted the payload")
	}
}

func TestEmbedWithNoiseStillExtracts(t *testing.T) {
	carrier := makeGradientBuffer(32, 32, 3)
	payload := []byte("noise elsewhere, payload intact")
	key := mustScalarKey(t, 77)

	params := DefaultParams()
	params.AddNoise = true

	out, err := Embed(carrier, payload, key, params)
	if err != nil {
		t.Fatalf("Embed with noise failed: %v", err)
	}

	got, err := Extract(out, key, params)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("noise fill corrupted the payload")
	}

	// The noise fill should touch slots beyond the payload.
	plain, _ := Embed(carrier, payload, key, DefaultParams())
	if out.Equal(plain) {
		t.Fatal("noise fill produced the same buffer as a plain embed")
	}
}

func TestEmbedNoiseDeterministic(t *testing.T) {
	carrier := makeGradientBuffer(24, 24, 3)
	key := mustScalarKey(t, 13)
	params := DefaultParams()
	params.AddNoise = true

	a, _ := Embed(carrier, []byte("same"), key, params)
	b, _ := Embed(carrier, []byte("same"), key, params)
	if !a.Equal(b) {
		t.Fatal("noisy embedding should still be deterministic for a fixed key")
	}
}

func TestCapacity(t *testing.T) {
	buf := makeGradientBuffer(10, 10, 3)
	// 300 slots at 1 bit = 37 bytes minus the 4-byte header.
	if got := Capacity(buf, 1); got != 33 {
		t.Fatalf("Capacity = %d, want 33", got)
	}
	if got := Capacity(buf, 2); got != 71 {
		t.Fatalf("Capacity(2 bits) = %d, want 71", got)
	}
}
