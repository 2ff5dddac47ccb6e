package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Visum/config"
	"github.com/dixieflatline76/Visum/pkg/normalize"
	"github.com/dixieflatline76/Visum/pkg/photo"
	"github.com/dixieflatline76/Visum/pkg/pipeline"
	"github.com/dixieflatline76/Visum/util/log"
)

func main() {
	var (
		inPath      = flag.String("in", "", "source portrait image (jpeg or png)")
		outPath     = flag.String("out", "", "output sheet path (default: <in>_sheet.png)")
		cropPath    = flag.String("crop-out", "", "optionally write the intermediate crop payload here")
		zoom        = flag.Float64("zoom", 0, "zoom factor; 0 suggests one from face detection")
		rotation    = flag.Float64("rotation", 0, "rotation in degrees")
		panX        = flag.Float64("pan-x", 0, "horizontal pan offset in screen pixels")
		panY        = flag.Float64("pan-y", 0, "vertical pan offset in screen pixels")
		windowW     = flag.Float64("window-width", 350, "on-screen crop window width (35:45 aspect)")
		containerW  = flag.Float64("container-width", 800, "on-screen container width")
		containerH  = flag.Float64("container-height", 800, "on-screen container height")
		curvesPath  = flag.String("curves", "", "optional tone curve settings JSON file")
		doNormalize = flag.Bool("normalize", false, "replace background via the normalization service")
		attire      = flag.String("attire", "", "optional attire descriptor (suit, blazer, shirt, blouse)")
		histogram   = flag.Bool("histogram", false, "print the source image's luminance histogram and exit")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	payload, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("Reading input image: %v", err)
	}

	tuning := photo.DefaultTuning()
	cfg := config.GetConfig()
	ctx := context.Background()

	// The window is the fixed 35:45 viewport; height follows from width.
	window := photo.Size{
		Width:  *windowW,
		Height: *windowW * photo.CropAspectY / photo.CropAspectX,
	}
	container := photo.Size{Width: *containerW, Height: *containerH}

	view := photo.ViewTransform{
		Zoom:            *zoom,
		RotationDegrees: *rotation,
		Pan:             photo.Point{X: *panX, Y: *panY},
	}
	if view.Zoom <= 0 {
		view = suggestView(ctx, payload, window, tuning)
	}

	job := pipeline.Job{
		Photo:     payload,
		View:      view,
		Window:    window,
		Container: container,
	}

	if *curvesPath != "" {
		cs, err := loadCurves(*curvesPath)
		if err != nil {
			log.Fatalf("Loading curves: %v", err)
		}
		job.Curves = &cs
	}

	if *histogram {
		printHistogram(ctx, payload, tuning)
		return
	}

	var normalizer normalize.Normalizer
	if *doNormalize {
		if cfg.APIKey == "" {
			log.Fatalf("Normalization requested but no API key configured; run with -normalize only after saving one in %s", config.GetFilename())
		}
		normalizer = normalize.NewClient(cfg.Endpoint, cfg.APIKey)
		job.Normalize = &normalize.Request{
			BackgroundColor: cfg.BackgroundColor,
			Attire:          normalize.Attire(*attire),
		}
	}

	result, err := pipeline.New(tuning, normalizer).Run(ctx, job)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	if *cropPath != "" {
		if err := os.WriteFile(*cropPath, result.Crop, 0644); err != nil {
			log.Fatalf("Writing crop payload: %v", err)
		}
	}

	dest := *outPath
	if dest == "" {
		base := strings.TrimSuffix(*inPath, filepath.Ext(*inPath))
		dest = base + "_sheet.png"
	}
	if err := os.WriteFile(dest, result.Sheet, 0644); err != nil {
		log.Fatalf("Writing sheet: %v", err)
	}
	fmt.Printf("Sheet written to %s\n", dest)
}

// suggestView proposes an initial crop from face detection, falling back to
// the neutral cover view.
func suggestView(ctx context.Context, payload []byte, window photo.Size, tuning photo.TuningConfig) photo.ViewTransform {
	img, _, err := photo.DecodeImage(ctx, payload, "")
	if err != nil {
		log.Fatalf("Decoding input image: %v", err)
	}

	suggester, err := photo.NewSuggester(tuning, loadCascade())
	if err != nil {
		log.Fatalf("Initializing crop suggester: %v", err)
	}
	view, err := suggester.SuggestCrop(img, window)
	if err != nil {
		log.Fatalf("Suggesting crop: %v", err)
	}
	log.Printf("Suggested view: zoom=%.3f pan=(%.1f, %.1f)", view.Zoom, view.Pan.X, view.Pan.Y)
	return view
}

// loadCascade reads the optional facefinder model next to the config file.
// A missing model just disables face detection.
func loadCascade() []byte {
	data, err := os.ReadFile(filepath.Join(config.GetPath(), "facefinder"))
	if err != nil {
		log.Debugf("No face detection model available: %v", err)
		return nil
	}
	return data
}

func loadCurves(path string) (photo.CurveSettings, error) {
	var cs photo.CurveSettings
	data, err := os.ReadFile(path)
	if err != nil {
		return cs, err
	}
	if err := json.Unmarshal(data, &cs); err != nil {
		return cs, err
	}
	return cs, nil
}

func printHistogram(ctx context.Context, payload []byte, tuning photo.TuningConfig) {
	img, _, err := photo.DecodeImage(ctx, payload, "")
	if err != nil {
		log.Fatalf("Decoding input image: %v", err)
	}
	hist, err := photo.ComputeHistogram(ctx, img, tuning)
	if err != nil {
		log.Fatalf("Computing histogram: %v", err)
	}
	for i, v := range hist {
		fmt.Printf("%3d %.4f\n", i, v)
	}
}
