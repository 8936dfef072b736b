package pixelveil

import (
	"math"
	"runtime"
	"sync"
)

// SSIM constants based on the original Wang et al. paper.
const (
	ssimK1 = 0.01
	ssimK2 = 0.03
	ssimL  = 255.0
	ssimC1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	ssimC2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)
)

// SSIM computes the Structural Similarity Index between two buffers of
// identical shape. Returns a value between 0.0 (completely different)
// and 1.0 (identical).
//
// Uses a sliding window with a Gaussian-weighted kernel on the
// luminance channel (BT.601). Small images fall back to a single
// global window.
func SSIM(a, b *Buffer) float64 {
	if a.Width < 8 || a.Height < 8 {
		return pixelSSIM(a, b)
	}
	return windowedSSIM(luminancePlane(a), luminancePlane(b), a.Width, a.Height)
}

// windowedSSIM computes SSIM using an 8x8 sliding window with Gaussian
// weighting, split across GOMAXPROCS workers by row band.
func windowedSSIM(lumA, lumB []float64, w, h int) float64 {
	const windowSize = 8
	half := windowSize / 2

	kernel := gaussianKernel(windowSize, 1.5)

	type ssimResult struct {
		sum   float64
		count int
	}

	procs := runtime.GOMAXPROCS(0)
	rows := h - windowSize + 1
	if procs > rows {
		procs = rows
	}
	if procs < 1 {
		procs = 1
	}

	results := make([]ssimResult, procs)
	rowsPerProc := (rows + procs - 1) / procs

	var wg sync.WaitGroup
	for p := 0; p < procs; p++ {
		wg.Add(1)
		go func(proc int) {
			defer wg.Done()
			startY := half + proc*rowsPerProc
			endY := startY + rowsPerProc
			if endY > h-half {
				endY = h - half
			}

			var localSum float64
			var localCount int

			for y := startY; y < endY; y++ {
				for x := half; x < w-half; x++ {
					var muA, muB float64

					ki := 0
					for wy := -half; wy < half; wy++ {
						for wx := -half; wx < half; wx++ {
							idx := (y+wy)*w + (x + wx)
							weight := kernel[ki]
							muA += lumA[idx] * weight
							muB += lumB[idx] * weight
							ki++
						}
					}

					var sigAA, sigBB, sigAB float64
					ki = 0
					for wy := -half; wy < half; wy++ {
						for wx := -half; wx < half; wx++ {
							idx := (y+wy)*w + (x + wx)
							weight := kernel[ki]
							da := lumA[idx] - muA
							db := lumB[idx] - muB
							sigAA += da * da * weight
							sigBB += db * db * weight
							sigAB += da * db * weight
							ki++
						}
					}

					num := (2*muA*muB + ssimC1) * (2*sigAB + ssimC2)
					den := (muA*muA + muB*muB + ssimC1) * (sigAA + sigBB + ssimC2)

					localSum += num / den
					localCount++
				}
			}

			results[proc] = ssimResult{localSum, localCount}
		}(p)
	}
	wg.Wait()

	var totalSum float64
	var totalCount int
	for _, r := range results {
		totalSum += r.sum
		totalCount += r.count
	}

	if totalCount == 0 {
		return 1.0
	}
	return totalSum / float64(totalCount)
}

// pixelSSIM computes a single-window SSIM for images too small for the
// sliding window.
func pixelSSIM(a, b *Buffer) float64 {
	n := float64(a.PixelCount())
	if n == 0 {
		return 1.0
	}

	var muA, muB float64
	for i := 0; i < len(a.Pix); i += a.Channels {
		muA += a.luminance(i)
		muB += b.luminance(i)
	}
	muA /= n
	muB /= n

	var sigAA, sigBB, sigAB float64
	for i := 0; i < len(a.Pix); i += a.Channels {
		da := a.luminance(i) - muA
		db := b.luminance(i) - muB
		sigAA += da * da
		sigBB += db * db
		sigAB += da * db
	}
	sigAA /= n
	sigBB /= n
	sigAB /= n

	num := (2*muA*muB + ssimC1) * (2*sigAB + ssimC2)
	den := (muA*muA + muB*muB + ssimC1) * (sigAA + sigBB + ssimC2)
	return num / den
}

// luminancePlane extracts the BT.601 luminance of every pixel.
func luminancePlane(b *Buffer) []float64 {
	lum := make([]float64, b.PixelCount())
	for p, i := 0, 0; i < len(b.Pix); p, i = p+1, i+b.Channels {
		lum[p] = b.luminance(i)
	}
	return lum
}

// gaussianKernel creates a normalized 2D Gaussian kernel.
func gaussianKernel(size int, sigma float64) []float64 {
	kernel := make([]float64, size*size)
	half := size / 2
	var sum float64

	idx := 0
	for y := -half; y < half; y++ {
		for x := -half; x < half; x++ {
			val := math.Exp(-float64(x*x+y*y) / (2 * sigma * sigma))
			kernel[idx] = val
			sum += val
			idx++
		}
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
