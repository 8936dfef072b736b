package pixelveil

import (
	"fmt"
	"image"
	"math"
	"time"
)

// psnrCap is the PSNR reported for bit-identical buffers. JSON has no
// representation for +Inf, and records must serialize as-is.
const psnrCap = 100.0

// Metrics quantifies the distortion a transform introduced.
type Metrics struct {
	// ProcessingTime is the elapsed wall time of the transform.
	ProcessingTime time.Duration `json:"processing_time_ns"`

	// MSE is the mean squared per-byte difference between the input and
	// output buffers. Zero only for bit-identical buffers.
	MSE float64 `json:"mse"`

	// PSNR is the peak signal-to-noise ratio in dB, capped at 100 for
	// identical buffers.
	PSNR float64 `json:"psnr"`

	// SSIM is the structural similarity of the luminance channels,
	// 1.0 for identical buffers.
	SSIM float64 `json:"ssim"`

	// EntropyDelta is output entropy minus input entropy, in bits.
	EntropyDelta float64 `json:"entropy_delta"`

	// In and Out are the buffer dimensions. They always match: no
	// transform in this engine changes dimensions.
	In  image.Point `json:"in"`
	Out image.Point `json:"out"`
}

// Measure compares an original buffer with its transformed counterpart.
// Buffers of different shapes fail with ErrDimensionMismatch.
func Measure(original, transformed *Buffer, elapsed time.Duration) (Metrics, error) {
	if err := original.validate(); err != nil {
		return Metrics{}, err
	}
	if err := transformed.validate(); err != nil {
		return Metrics{}, err
	}
	if !original.SameShape(transformed) {
		return Metrics{}, fmt.Errorf("pixelveil: %w: %dx%dx%d vs %dx%dx%d",
			ErrDimensionMismatch,
			original.Width, original.Height, original.Channels,
			transformed.Width, transformed.Height, transformed.Channels)
	}

	var sum float64
	for i := range original.Pix {
		d := float64(original.Pix[i]) - float64(transformed.Pix[i])
		sum += d * d
	}
	mse := sum / float64(len(original.Pix))

	psnr := psnrCap
	if mse > 0 {
		psnr = 10 * math.Log10(255*255/mse)
		if psnr > psnrCap {
			psnr = psnrCap
		}
	}

	return Metrics{
		ProcessingTime: elapsed,
		MSE:            mse,
		PSNR:           psnr,
		SSIM:           SSIM(original, transformed),
		EntropyDelta:   Analyze(transformed).Entropy - Analyze(original).Entropy,
		In:             original.Dimensions(),
		Out:            transformed.Dimensions(),
	}, nil
}

// String returns a human-readable metrics summary.
func (m Metrics) String() string {
	return fmt.Sprintf("%dx%d | mse=%.2f psnr=%.1fdB ssim=%.4f Δentropy=%+.3f | %s",
		m.Out.X, m.Out.Y, m.MSE, m.PSNR, m.SSIM, m.EntropyDelta, m.ProcessingTime.Round(time.Microsecond))
}
