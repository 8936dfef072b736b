package pixelveil

import (
	"bytes"
	"fmt"
	"image"
)

// Buffer is an in-memory raster image: Width*Height pixels of Channels
// unsigned 8-bit samples each, stored row-major in a single contiguous
// slice. Channels is 3 (RGB) or 4 (RGBA).
//
// Buffers are treated as immutable by the transform engine — every
// transform allocates a fresh output buffer so that before/after pairs
// can always be diffed.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewBuffer allocates a zeroed buffer with the given shape.
func NewBuffer(w, h, channels int) (*Buffer, error) {
	b := &Buffer{
		Width:    w,
		Height:   h,
		Channels: channels,
		Pix:      make([]byte, w*h*channels),
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromImage converts a decoded image into a 4-channel buffer.
func FromImage(img image.Image) *Buffer {
	src := toNRGBA(img)
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	buf := &Buffer{Width: w, Height: h, Channels: 4, Pix: make([]byte, w*h*4)}
	for y := 0; y < h; y++ {
		copy(buf.Pix[y*w*4:(y+1)*w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
	}
	return buf
}

// ToImage converts the buffer back to an NRGBA image. For 3-channel
// buffers the alpha channel is set to opaque.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	if b.Channels == 4 {
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width*4], b.Pix[y*b.Width*4:(y+1)*b.Width*4])
		}
		return img
	}
	for i, o := 0, 0; i < len(b.Pix); i, o = i+3, o+4 {
		img.Pix[o] = b.Pix[i]
		img.Pix[o+1] = b.Pix[i+1]
		img.Pix[o+2] = b.Pix[i+2]
		img.Pix[o+3] = 0xff
	}
	return img
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// Equal reports whether two buffers have identical shape and bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || !b.SameShape(other) {
		return false
	}
	return bytes.Equal(b.Pix, other.Pix)
}

// SameShape reports whether two buffers have identical dimensions and
// channel count.
func (b *Buffer) SameShape(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height && b.Channels == other.Channels
}

// PixelCount returns the number of pixels in the buffer.
func (b *Buffer) PixelCount() int { return b.Width * b.Height }

// Dimensions returns the buffer size as an image point.
func (b *Buffer) Dimensions() image.Point { return image.Pt(b.Width, b.Height) }

func (b *Buffer) validate() error {
	if b == nil {
		return fmt.Errorf("pixelveil: nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("pixelveil: empty buffer (%dx%d)", b.Width, b.Height)
	}
	if b.Channels != 3 && b.Channels != 4 {
		return fmt.Errorf("pixelveil: %w: %d channels (want 3 or 4)", ErrUnsupportedChannels, b.Channels)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("pixelveil: pixel data length %d does not match %dx%dx%d",
			len(b.Pix), b.Width, b.Height, b.Channels)
	}
	return nil
}

// luminance returns the BT.601 luminance of the pixel starting at byte
// offset i.
func (b *Buffer) luminance(i int) float64 {
	return 0.299*float64(b.Pix[i]) + 0.587*float64(b.Pix[i+1]) + 0.114*float64(b.Pix[i+2])
}

// toNRGBA converts any image to NRGBA, reusing the backing array when
// the input already is one.
func toNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok {
		return src
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return dst
}
