package photo

import "errors"

// Error taxonomy for the core pipeline. All are terminal for the single
// operation invoked; nothing here is retried internally.
var (
	// ErrDecode indicates the source image payload could not be read.
	ErrDecode = errors.New("photo: source image cannot be decoded")

	// ErrRasterUnavailable indicates a drawing surface or output buffer
	// could not be acquired.
	ErrRasterUnavailable = errors.New("photo: raster surface unavailable")

	// ErrInvalidGeometry indicates degenerate zoom or viewport dimensions.
	ErrInvalidGeometry = errors.New("photo: invalid crop geometry")

	// ErrEmptyCurve indicates a LUT was requested from an empty control
	// point set.
	ErrEmptyCurve = errors.New("photo: curve has no control points")
)
