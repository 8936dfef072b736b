package pixelveil

import (
	"math"
)

// Classification thresholds, exposed for tuning.
const (
	// EntropyLow and EntropyHigh bound the complexity classes in bits.
	EntropyLow  = 4.0
	EntropyHigh = 6.0

	// ContrastLow and ContrastHigh bound the luminance standard
	// deviation for the complexity classes.
	ContrastLow  = 30.0
	ContrastHigh = 50.0

	// edgeThreshold is the Sobel gradient magnitude above which a pixel
	// counts as an edge.
	edgeThreshold = 30.0
)

// Analysis contains the statistical descriptors of a buffer.
type Analysis struct {
	// Entropy is the Shannon entropy of the luminance histogram in
	// bits, in [0, 8] for 8-bit channels.
	Entropy float64 `json:"entropy"`

	// Contrast is the standard deviation of luminance across all
	// pixels.
	Contrast float64 `json:"contrast"`

	// EdgeDensity is the fraction of pixels whose Sobel gradient
	// magnitude exceeds the edge threshold, in [0, 1].
	EdgeDensity float64 `json:"edge_density"`

	// Brightness is the mean luminance, in [0, 255].
	Brightness float64 `json:"brightness"`

	// Complexity classifies the image from entropy and contrast.
	Complexity Complexity `json:"complexity"`

	// Recommended is the transform kind suggested for this image.
	// Stego is never recommended from complexity alone; hiding a
	// payload is an explicit use case.
	Recommended Kind `json:"recommended"`
}

// Analyze computes the statistical descriptors of a buffer and derives
// the complexity class and recommended transform. It is pure and
// deterministic: the same bytes always produce the same result, and the
// buffer is never mutated.
func Analyze(buf *Buffer) Analysis {
	var a Analysis
	if buf == nil || buf.validate() != nil {
		return a
	}

	n := float64(buf.PixelCount())
	stride := buf.Channels

	// Single pass: luminance histogram and mean.
	var histogram [256]float64
	var brightSum float64
	for i := 0; i < len(buf.Pix); i += stride {
		lum := buf.luminance(i)
		histogram[int(lum+0.5)]++
		brightSum += lum
	}
	a.Brightness = brightSum / n

	// Second pass: luminance variance.
	var varianceSum float64
	for i := 0; i < len(buf.Pix); i += stride {
		d := buf.luminance(i) - a.Brightness
		varianceSum += d * d
	}
	a.Contrast = math.Sqrt(varianceSum / n)

	a.Entropy = shannonEntropy(histogram[:], n)
	a.EdgeDensity = edgeDensity(buf)
	a.Complexity = classify(a.Entropy, a.Contrast)
	a.Recommended = recommend(a.Complexity, a.Contrast)

	return a
}

// shannonEntropy calculates Shannon entropy in bits from a histogram.
func shannonEntropy(histogram []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	var entropy float64
	for _, count := range histogram {
		if count > 0 {
			p := count / total
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// edgeDensity measures the fraction of edge pixels using a Sobel
// operator over the luminance plane.
func edgeDensity(buf *Buffer) float64 {
	w, h := buf.Width, buf.Height
	if w < 3 || h < 3 {
		return 0
	}

	lum := func(x, y int) float64 {
		return buf.luminance((y*w + x) * buf.Channels)
	}

	edgeCount := 0
	totalCount := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			// Sobel X kernel: [-1 0 1; -2 0 2; -1 0 1]
			// Sobel Y kernel: [-1 -2 -1; 0 0 0; 1 2 1]
			gx := lum(x+1, y-1) - lum(x-1, y-1) +
				2*lum(x+1, y) - 2*lum(x-1, y) +
				lum(x+1, y+1) - lum(x-1, y+1)

			gy := lum(x-1, y+1) - lum(x-1, y-1) +
				2*lum(x, y+1) - 2*lum(x, y-1) +
				lum(x+1, y+1) - lum(x+1, y-1)

			if math.Sqrt(gx*gx+gy*gy) > edgeThreshold {
				edgeCount++
			}
			totalCount++
		}
	}

	if totalCount == 0 {
		return 0
	}
	return float64(edgeCount) / float64(totalCount)
}

// classify maps entropy and contrast to a complexity class: both under
// the low thresholds means Low, both over the high thresholds means
// High, anything else is Medium.
func classify(entropy, contrast float64) Complexity {
	if entropy < EntropyLow && contrast < ContrastLow {
		return Low
	}
	if entropy > EntropyHigh && contrast > ContrastHigh {
		return High
	}
	return Medium
}

// recommend maps the complexity class to a transform: simple images get
// the cheap position scramble, complex ones the block transform, the
// high-contrast middle ground the XOR stream.
func recommend(c Complexity, contrast float64) Kind {
	switch c {
	case High:
		return BlockSub
	case Medium:
		if contrast > ContrastHigh {
			return XOR
		}
		return Shift
	default:
		return Swap
	}
}
