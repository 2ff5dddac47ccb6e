package photo

import "fmt"

// Point is a 2D offset in on-screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair. Depending on context it is measured in
// on-screen pixels or natural image pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewTransform describes how the source image is displayed relative to the
// stationary crop window's center: the user zooms, rotates and pans the
// image beneath the window, never the window itself.
type ViewTransform struct {
	Zoom            float64 `json:"zoom"`             // must be > 0
	RotationDegrees float64 `json:"rotation_degrees"` // clockwise, 0 for none
	Pan             Point   `json:"pan"`              // on-screen pixels
}

// IdentityView returns the neutral transform at the given zoom.
func IdentityView(zoom float64) ViewTransform {
	return ViewTransform{Zoom: zoom}
}

// ResolvedCrop is the exact region of the original image that maps onto the
// crop window. When Rotated is false the region is the axis-aligned
// rectangle (X, Y, Width, Height) in natural image pixels. When Rotated is
// true no axis-aligned rectangle exists; View carries the full transform
// and the rasterizer must replay it in transform mode.
type ResolvedCrop struct {
	X      float64
	Y      float64
	Width  float64
	Height float64

	Rotated bool
	View    ViewTransform
	Window  Size // on-screen crop window size, needed to replay the transform
}

// ResolveCrop converts a viewport-relative crop specification into absolute
// source-image pixel coordinates.
//
// The math mirrors the interactive preview exactly: the rendered image size
// is natural x zoom, the image's top-left sits at container center minus
// half the rendered size plus the pan offset, and the stationary window's
// top-left sits at container center minus half the window size. The window
// offset relative to the image, scaled back into natural pixels, is the
// crop origin.
func ResolveCrop(natural Size, vt ViewTransform, window Size, container Size) (ResolvedCrop, error) {
	renderedW := natural.Width * vt.Zoom
	renderedH := natural.Height * vt.Zoom

	if renderedW <= 0 || renderedH <= 0 {
		return ResolvedCrop{}, fmt.Errorf("%w: rendered size %.2fx%.2f (zoom %.4f)", ErrInvalidGeometry, renderedW, renderedH, vt.Zoom)
	}
	if window.Width <= 0 || window.Height <= 0 {
		return ResolvedCrop{}, fmt.Errorf("%w: crop window %.2fx%.2f", ErrInvalidGeometry, window.Width, window.Height)
	}

	// Screen-space positions of the image and the window.
	imageX := container.Width/2 - renderedW/2 + vt.Pan.X
	imageY := container.Height/2 - renderedH/2 + vt.Pan.Y
	windowX := container.Width/2 - window.Width/2
	windowY := container.Height/2 - window.Height/2

	// Window offset relative to the image, in screen pixels.
	offsetX := windowX - imageX
	offsetY := windowY - imageY

	// Screen pixels back to natural image pixels.
	scale := natural.Width / renderedW

	x := offsetX * scale
	y := offsetY * scale
	w := window.Width * scale
	h := window.Height * scale

	// Clamp the origin into the image, then the size to what remains.
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if w > natural.Width-x {
		w = natural.Width - x
	}
	if h > natural.Height-y {
		h = natural.Height - y
	}

	rc := ResolvedCrop{X: x, Y: y, Width: w, Height: h}
	if vt.RotationDegrees != 0 {
		// A rotated viewport has no axis-aligned source rectangle; the
		// rasterizer must render through the full transform instead.
		rc.Rotated = true
		rc.View = vt
		rc.Window = window
	}
	return rc, nil
}
