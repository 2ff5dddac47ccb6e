// Package pipeline chains the core photo stages into the full passport
// sheet flow: resolve crop, rasterize, normalize background via the
// external service, and compose the print sheet.
package pipeline

import (
	"context"
	"fmt"

	"github.com/dixieflatline76/Visum/pkg/normalize"
	"github.com/dixieflatline76/Visum/pkg/photo"
	"github.com/dixieflatline76/Visum/util/log"
)

// Job carries the inputs for one full pipeline run.
type Job struct {
	// Photo is the encoded source image payload.
	Photo []byte

	// ContentType hints the payload's format ("image/jpeg", "image/png"
	// or empty to sniff).
	ContentType string

	// View is the user's crop gesture; Window and Container are the
	// on-screen crop window and container sizes it was made against.
	View      photo.ViewTransform
	Window    photo.Size
	Container photo.Size

	// Curves, when non-nil, applies tone correction to the cropped photo
	// before normalization.
	Curves *photo.CurveSettings

	// Normalize, when non-nil, runs background/attire replacement on the
	// cropped photo.
	Normalize *normalize.Request
}

// Result holds the pipeline outputs.
type Result struct {
	// Crop is the encoded cropped photo (lossy, bounded payload).
	Crop []byte

	// Sheet is the losslessly encoded 1800x1200 print sheet.
	Sheet []byte
}

// Pipeline wires the core stages together. All state is configuration;
// runs are independent and share nothing mutable.
type Pipeline struct {
	tuning     photo.TuningConfig
	rasterizer *photo.Rasterizer
	compositor *photo.Compositor
	normalizer normalize.Normalizer
}

// New creates a Pipeline. normalizer may be nil to skip background
// replacement (e.g. offline runs or tests).
func New(tuning photo.TuningConfig, normalizer normalize.Normalizer) *Pipeline {
	return &Pipeline{
		tuning:     tuning,
		rasterizer: photo.NewRasterizer(tuning),
		compositor: photo.NewCompositor(tuning),
		normalizer: normalizer,
	}
}

// Run executes the full flow for one job. Each stage is all-or-nothing;
// the first failure aborts the run with no partial outputs.
func (p *Pipeline) Run(ctx context.Context, job Job) (Result, error) {
	var res Result

	src, _, err := photo.DecodeImage(ctx, job.Photo, job.ContentType)
	if err != nil {
		return res, err
	}

	natural := photo.Size{
		Width:  float64(src.Bounds().Dx()),
		Height: float64(src.Bounds().Dy()),
	}

	rc, err := photo.ResolveCrop(natural, job.View, job.Window, job.Container)
	if err != nil {
		return res, err
	}

	cropped, err := p.rasterizer.Render(ctx, src, rc)
	if err != nil {
		return res, err
	}

	if job.Curves != nil {
		cropped, err = photo.ApplyCurves(ctx, cropped, *job.Curves)
		if err != nil {
			return res, err
		}
	}

	// Lossy intermediate encode bounds the upload payload.
	cropPayload, err := photo.EncodeImage(ctx, cropped, "image/jpeg", p.tuning.CropQuality)
	if err != nil {
		return res, err
	}
	res.Crop = cropPayload

	sheetSource := cropped
	if p.normalizer != nil && job.Normalize != nil {
		req := *job.Normalize
		req.ContentType = "image/jpeg"
		normalized, err := p.normalizer.ReplaceBackground(ctx, cropPayload, req)
		if err != nil {
			return res, fmt.Errorf("background normalization: %w", err)
		}
		sheetSource, _, err = photo.DecodeImage(ctx, normalized, "")
		if err != nil {
			return res, err
		}
	} else {
		log.Debugf("pipeline: normalization skipped")
	}

	sheet, err := p.compositor.ComposeSheet(ctx, sheetSource)
	if err != nil {
		return res, err
	}

	// The sheet is the final print artifact; encode losslessly.
	sheetPayload, err := photo.EncodeImage(ctx, sheet, "image/png", 1.0)
	if err != nil {
		return res, err
	}
	res.Sheet = sheetPayload

	return res, nil
}
