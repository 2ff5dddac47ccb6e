package photo

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// HistogramBuckets is the number of luminance buckets.
const HistogramBuckets = 256

// ComputeHistogram computes a normalized luminance distribution for
// preview display. Images larger than the tuning's thumb cap on the long
// edge are downscaled first; that is purely a performance approximation
// the caller accepts for preview purposes. Buckets are normalized by the
// maximum bucket count, so values fall in [0, 1].
func ComputeHistogram(ctx context.Context, src image.Image, tuning TuningConfig) ([HistogramBuckets]float64, error) {
	var hist [HistogramBuckets]float64
	if src == nil {
		return hist, fmt.Errorf("%w: nil source", ErrDecode)
	}
	if err := checkContext(ctx); err != nil {
		return hist, err
	}

	counts := lumaCounts(src, tuning)

	var maxCount uint32
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return hist, nil
	}
	for i, c := range counts {
		hist[i] = float64(c) / float64(maxCount)
	}
	return hist, nil
}

// lumaCounts tallies per-bucket pixel counts after the optional downscale.
// Luma is the BT.601 weighted sum 0.299R + 0.587G + 0.114B, rounded to the
// nearest integer.
func lumaCounts(src image.Image, tuning TuningConfig) [HistogramBuckets]uint32 {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if thumb := tuning.HistogramThumbSize; thumb > 0 && longer > thumb {
		src = imaging.Fit(src, thumb, thumb, tuning.Resampler)
	}

	img := imaging.Clone(src)
	var counts [HistogramBuckets]uint32
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		luma := 0.299*float64(pix[i]) + 0.587*float64(pix[i+1]) + 0.114*float64(pix[i+2])
		counts[clampU8(math.Round(luma))]++
	}
	return counts
}
