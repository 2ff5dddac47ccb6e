package photo

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Rasterizer produces new raster images from resolved crop geometry. It has
// two modes: a plain axis-aligned rectangle crop, and a transform replay
// that reproduces the interactive preview (pan/rotate/zoom) on a fixed-size
// output canvas.
type Rasterizer struct {
	tuning TuningConfig
}

// NewRasterizer creates a Rasterizer with the given tuning.
func NewRasterizer(tuning TuningConfig) *Rasterizer {
	return &Rasterizer{tuning: tuning}
}

// CropRectangle extracts the resolved sub-rectangle and scales it so the
// longer output dimension does not exceed the configured cap. Both axes
// share one scale factor, preserving aspect. Lanczos (or the configured
// resampler) is used when scaling down to avoid aliasing.
func (r *Rasterizer) CropRectangle(ctx context.Context, src image.Image, rc ResolvedCrop) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrDecode)
	}
	if rc.Rotated {
		return nil, fmt.Errorf("%w: rotated crop requires transform mode", ErrInvalidGeometry)
	}
	if rc.Width <= 0 || rc.Height <= 0 {
		return nil, fmt.Errorf("%w: crop rectangle %.2fx%.2f", ErrInvalidGeometry, rc.Width, rc.Height)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	rect := image.Rect(
		int(math.Round(rc.X)),
		int(math.Round(rc.Y)),
		int(math.Round(rc.X+rc.Width)),
		int(math.Round(rc.Y+rc.Height)),
	)
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("%w: crop rectangle outside image bounds", ErrInvalidGeometry)
	}

	out := imaging.Crop(src, rect)

	// Cap the longer edge; both dimensions scale by the same factor.
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if maxDim := r.tuning.MaxCropDimension; maxDim > 0 && longer > maxDim {
		scale := float64(maxDim) / float64(longer)
		out = imaging.Resize(out, int(math.Round(float64(w)*scale)), int(math.Round(float64(h)*scale)), r.tuning.Resampler)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderTransformed renders the whole source image through the view
// transform into an output canvas of outputW x outputH pixels, reproducing
// what the user saw inside the on-screen crop window.
//
// The composition order is load-bearing and must not be reordered:
// translate to canvas center, scale from window to output pixels, translate
// by pan, rotate, scale by zoom, then draw the source centered at the
// origin. This matches the preview's translate-rotate-scale stack exactly.
func (r *Rasterizer) RenderTransformed(ctx context.Context, src image.Image, vt ViewTransform, window Size, outputW, outputH int) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrDecode)
	}
	if vt.Zoom <= 0 {
		return nil, fmt.Errorf("%w: zoom %.4f", ErrInvalidGeometry, vt.Zoom)
	}
	if window.Width <= 0 || window.Height <= 0 {
		return nil, fmt.Errorf("%w: crop window %.2fx%.2f", ErrInvalidGeometry, window.Width, window.Height)
	}
	if outputW <= 0 || outputH <= 0 {
		return nil, fmt.Errorf("%w: output canvas %dx%d", ErrInvalidGeometry, outputW, outputH)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	dc := gg.NewContext(outputW, outputH)
	if dc.Image() == nil {
		return nil, fmt.Errorf("%w: could not allocate %dx%d canvas", ErrRasterUnavailable, outputW, outputH)
	}

	// White base so rotated corners stay printable instead of transparent.
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	natural := src.Bounds()

	dc.Translate(float64(outputW)/2, float64(outputH)/2)
	dc.Scale(float64(outputW)/window.Width, float64(outputH)/window.Height)
	dc.Translate(vt.Pan.X, vt.Pan.Y)
	dc.Rotate(gg.Radians(vt.RotationDegrees))
	dc.Scale(vt.Zoom, vt.Zoom)
	dc.Translate(-float64(natural.Dx())/2, -float64(natural.Dy())/2)
	dc.DrawImage(src, 0, 0)

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Render dispatches on the resolved crop's mode: plain rectangle read for
// unrotated crops, full transform replay otherwise. Transform output size
// comes from the tuning's crop output target.
func (r *Rasterizer) Render(ctx context.Context, src image.Image, rc ResolvedCrop) (image.Image, error) {
	if rc.Rotated {
		return r.RenderTransformed(ctx, src, rc.View, rc.Window, r.tuning.CropOutputWidth, r.tuning.CropOutputHeight)
	}
	return r.CropRectangle(ctx, src, rc)
}
