package photo

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
	"github.com/muesli/smartcrop"

	"github.com/dixieflatline76/Visum/util/log"
)

// faceVerticalBias shifts the detected face center this fraction of the
// window height above the window center, approximating passport framing
// (eyes sit above the vertical midpoint).
const faceVerticalBias = 0.04

// Suggester proposes an initial view transform that frames the subject's
// face inside the crop window. Suggestions are advisory only: the user
// adjusts the view freely afterwards, and any failure falls back to the
// neutral cover transform.
type Suggester struct {
	tuning     TuningConfig
	classifier *pigo.Pigo
}

// NewSuggester creates a Suggester. cascade is the serialized pigo
// facefinder model; pass nil to disable face detection and rely on the
// content-aware fallback only.
func NewSuggester(tuning TuningConfig, cascade []byte) (*Suggester, error) {
	s := &Suggester{tuning: tuning}
	if len(cascade) > 0 {
		classifier, err := pigo.NewPigo().Unpack(cascade)
		if err != nil {
			return nil, fmt.Errorf("unpacking face detection model: %w", err)
		}
		s.classifier = classifier
	}
	return s, nil
}

// SuggestCrop returns a view transform centering the best detected face in
// the crop window, sized so the face fills the configured fraction of the
// window height. When no face is found, a content-aware crop is tried; when
// that fails too, the neutral cover transform is returned. Never errors on
// detection failure.
func (s *Suggester) SuggestCrop(img image.Image, window Size) (ViewTransform, error) {
	if img == nil {
		return ViewTransform{}, fmt.Errorf("%w: nil source", ErrDecode)
	}
	if window.Width <= 0 || window.Height <= 0 {
		return ViewTransform{}, fmt.Errorf("%w: crop window %.2fx%.2f", ErrInvalidGeometry, window.Width, window.Height)
	}

	natural := Size{Width: float64(img.Bounds().Dx()), Height: float64(img.Bounds().Dy())}
	cover := coverZoom(natural, window)

	if det, ok := s.detectFace(img); ok {
		zoom := window.Height * s.tuning.FaceWindowFill / float64(det.Scale)
		if zoom < cover {
			zoom = cover
		}
		faceX := float64(det.Col)
		faceY := float64(det.Row)
		return ViewTransform{
			Zoom: zoom,
			Pan: Point{
				X: -zoom * (faceX - natural.Width/2),
				Y: -zoom*(faceY-natural.Height/2) - window.Height*faceVerticalBias,
			},
		}, nil
	}

	if region, ok := s.contentRegion(img, window); ok {
		zoom := window.Width / float64(region.Dx())
		if zoom < cover {
			zoom = cover
		}
		cx := float64(region.Min.X) + float64(region.Dx())/2
		cy := float64(region.Min.Y) + float64(region.Dy())/2
		return ViewTransform{
			Zoom: zoom,
			Pan: Point{
				X: -zoom * (cx - natural.Width/2),
				Y: -zoom * (cy - natural.Height/2),
			},
		}, nil
	}

	return IdentityView(cover), nil
}

// coverZoom is the smallest zoom at which the rendered image fully covers
// the crop window.
func coverZoom(natural, window Size) float64 {
	zx := window.Width / natural.Width
	zy := window.Height / natural.Height
	if zx > zy {
		return zx
	}
	return zy
}

// detectFace runs the pigo cascade and returns the highest-quality
// clustered detection above the confidence threshold.
func (s *Suggester) detectFace(img image.Image) (pigo.Detection, bool) {
	if s.classifier == nil {
		return pigo.Detection{}, false
	}

	src := imaging.Clone(img)
	cols := src.Bounds().Dx()
	rows := src.Bounds().Dy()

	minDim := cols
	if rows < minDim {
		minDim = rows
	}
	minSize := minDim * s.tuning.FaceDetectMinSizePct / 100
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     minDim,
		ShiftFactor: s.tuning.FaceDetectShift,
		ScaleFactor: s.tuning.FaceScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := s.classifier.RunCascade(params, 0.0)
	dets = s.classifier.ClusterDetections(dets, s.tuning.FaceIoUThreshold)

	best := pigo.Detection{}
	found := false
	for _, det := range dets {
		if float64(det.Q) < s.tuning.FaceDetectConfidence {
			continue
		}
		if !found || det.Q > best.Q {
			best = det
			found = true
		}
	}
	return best, found
}

// contentRegion asks smartcrop for the most interesting window-shaped
// region as a fallback when no face is detected.
func (s *Suggester) contentRegion(img image.Image, window Size) (image.Rectangle, bool) {
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: s.tuning.Resampler})
	region, err := analyzer.FindBestCrop(img, int(window.Width), int(window.Height))
	if err != nil || region.Empty() {
		if err != nil {
			log.Debugf("smartcrop fallback failed: %v", err)
		}
		return image.Rectangle{}, false
	}
	return region, true
}

// resizer adapts imaging to smartcrop's resize hook.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
