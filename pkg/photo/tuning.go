package photo

import "github.com/disintegration/imaging"

// TuningConfig holds the internal magic numbers and policies for the image
// pipeline. These are currently static but centralized here to allow for
// future remote configuration.
type TuningConfig struct {
	// Crop output sizing
	MaxCropDimension int `json:"max_crop_dimension"` // Default: 2048 (longer edge cap for rectangle crops)
	CropOutputWidth  int `json:"crop_output_width"`  // Default: 1050 (35mm at print upscale)
	CropOutputHeight int `json:"crop_output_height"` // Default: 1350 (45mm at print upscale)

	// Encoding
	CropQuality float64 `json:"crop_quality"` // Default: 0.9 (lossy intermediate payloads)

	// Histogram
	HistogramThumbSize int `json:"histogram_thumb_size"` // Default: 256 (long edge cap before sampling)

	// Sheet rendering
	GuideLineWidth float64 `json:"guide_line_width"` // Default: 1.0 (cut guide stroke, device px)
	OuterGuide     bool    `json:"outer_guide"`      // Default: true (border around the full sheet)

	// Face suggestion (advisory only)
	FaceScaleFactor      float64 `json:"face_scale_factor"`        // Default: 1.1 (pigo pyramid step)
	FaceDetectShift      float64 `json:"face_detect_shift"`        // Default: 0.1 (stride)
	FaceDetectConfidence float64 `json:"face_detect_confidence"`   // Default: 10.0
	FaceDetectMinSizePct int     `json:"face_detect_min_size_pct"` // Default: 5 (% of min dim)
	FaceIoUThreshold     float64 `json:"face_iou_threshold"`       // Default: 0.2 (clustering)
	FaceWindowFill       float64 `json:"face_window_fill"`         // Default: 0.55 (face height / window height)

	// Resampling filter for all scaling operations.
	Resampler imaging.ResampleFilter `json:"-"`
}

// DefaultTuning returns the standard pipeline values.
func DefaultTuning() TuningConfig {
	return TuningConfig{
		MaxCropDimension:     2048,
		CropOutputWidth:      1050,
		CropOutputHeight:     1350,
		CropQuality:          0.9,
		HistogramThumbSize:   256,
		GuideLineWidth:       1.0,
		OuterGuide:           true,
		FaceScaleFactor:      1.1,
		FaceDetectShift:      0.1,
		FaceDetectConfidence: 10.0,
		FaceDetectMinSizePct: 5,
		FaceIoUThreshold:     0.2,
		FaceWindowFill:       0.55,
		Resampler:            imaging.Lanczos,
	}
}
