package pixelveil

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Open decodes an image file into a buffer. Format support (PNG, JPEG,
// GIF, TIFF, BMP) comes from the imaging package; decoding is the only
// file I/O the engine does on the input side.
func Open(path string) (*Buffer, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pixelveil: open %q: %w", path, err)
	}
	return FromImage(img), nil
}

// Decode reads an image from r into a buffer.
func Decode(r io.Reader) (*Buffer, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pixelveil: decode: %w", err)
	}
	return FromImage(img), nil
}

// Save encodes the buffer to a file, picking the format from the
// extension. Params.Quality drives JPEG encoding; transformed buffers
// are usually saved as PNG since lossy encoding would destroy the
// exact bytes needed for inversion or extraction.
func Save(buf *Buffer, path string, params Params) error {
	if err := buf.validate(); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return fmt.Errorf("pixelveil: save %q: missing extension", path)
	}
	err := imaging.Save(buf.ToImage(), path, imaging.JPEGQuality(params.Quality))
	if err != nil {
		return fmt.Errorf("pixelveil: save %q: %w", path, err)
	}
	return nil
}

// Encode writes the buffer to w in the given format.
func Encode(w io.Writer, buf *Buffer, format imaging.Format, params Params) error {
	if err := buf.validate(); err != nil {
		return err
	}
	err := imaging.Encode(w, buf.ToImage(), format, imaging.JPEGQuality(params.Quality))
	if err != nil {
		return fmt.Errorf("pixelveil: encode: %w", err)
	}
	return nil
}

// FitWithin downscales a buffer to fit within maxW x maxH, preserving
// aspect ratio. Buffers already inside the bounds are returned as-is.
func FitWithin(buf *Buffer, maxW, maxH int) *Buffer {
	if maxW <= 0 && maxH <= 0 {
		return buf
	}
	if (maxW <= 0 || buf.Width <= maxW) && (maxH <= 0 || buf.Height <= maxH) {
		return buf
	}
	fitted := imaging.Fit(buf.ToImage(), pick(maxW, buf.Width), pick(maxH, buf.Height), imaging.Lanczos)
	return FromImage(fitted)
}

func pick(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}
