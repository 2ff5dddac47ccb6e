package photo

import (
	"context"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
)

// CurvePoint is a single tone curve control point. X is the input
// intensity, Y the output intensity.
type CurvePoint struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

// CurveSettings holds the four independent control point sets for tone
// correction. Each set should contain at least the two endpoints x=0 and
// x=255 for the derived LUT to be total.
type CurveSettings struct {
	Master []CurvePoint `json:"master"`
	Red    []CurvePoint `json:"red"`
	Green  []CurvePoint `json:"green"`
	Blue   []CurvePoint `json:"blue"`
}

// IdentityCurve returns the two-point control set that maps every intensity
// to itself.
func IdentityCurve() []CurvePoint {
	return []CurvePoint{{X: 0, Y: 0}, {X: 255, Y: 255}}
}

// IdentitySettings returns curve settings that leave an image unchanged.
func IdentitySettings() CurveSettings {
	return CurveSettings{
		Master: IdentityCurve(),
		Red:    IdentityCurve(),
		Green:  IdentityCurve(),
		Blue:   IdentityCurve(),
	}
}

// LUT is a 256-entry intensity remapping table: index is the input
// intensity, value the output. Derived from control points on every tone
// mapping run, never persisted.
type LUT [256]uint8

// BuildLUT builds a LUT from a sparse control point set by piecewise-linear
// interpolation. Caller-supplied order is irrelevant; points are stably
// sorted by X first. Inputs before the first point or after the last clamp
// to that point's Y. Duplicate X pairs yield the earlier point's Y.
func BuildLUT(points []CurvePoint) (LUT, error) {
	var lut LUT
	if len(points) == 0 {
		return lut, ErrEmptyCurve
	}

	pts := make([]CurvePoint, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	for i := 0; i < 256; i++ {
		lut[i] = curveValue(pts, uint8(i))
	}
	return lut, nil
}

// curveValue evaluates the sorted control point set at input intensity x,
// using the first bracketing pair found scanning left to right.
func curveValue(pts []CurvePoint, x uint8) uint8 {
	if x <= pts[0].X {
		return pts[0].Y
	}
	last := pts[len(pts)-1]
	if x >= last.X {
		return last.Y
	}
	for j := 0; j < len(pts)-1; j++ {
		p1, p2 := pts[j], pts[j+1]
		if p1.X <= x && x <= p2.X {
			if p1.X == p2.X {
				return p1.Y
			}
			t := float64(x-p1.X) / float64(p2.X-p1.X)
			y := float64(p1.Y) + t*(float64(p2.Y)-float64(p1.Y))
			return clampU8(math.Round(y))
		}
	}
	return last.Y
}

// ApplyCurves applies per-channel tone correction to every pixel: each
// channel passes through its own LUT first, then through the master LUT.
// Alpha is untouched. The input image is never mutated.
func ApplyCurves(ctx context.Context, src image.Image, cs CurveSettings) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrDecode)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	master, err := BuildLUT(cs.Master)
	if err != nil {
		return nil, fmt.Errorf("master curve: %w", err)
	}
	red, err := BuildLUT(cs.Red)
	if err != nil {
		return nil, fmt.Errorf("red curve: %w", err)
	}
	green, err := BuildLUT(cs.Green)
	if err != nil {
		return nil, fmt.Errorf("green curve: %w", err)
	}
	blue, err := BuildLUT(cs.Blue)
	if err != nil {
		return nil, fmt.Errorf("blue curve: %w", err)
	}

	// Compose channel and master tables once so the pixel loop is a
	// single lookup per channel.
	var rTab, gTab, bTab LUT
	for i := 0; i < 256; i++ {
		rTab[i] = master[red[i]]
		gTab[i] = master[green[i]]
		bTab[i] = master[blue[i]]
	}

	out := imaging.Clone(src)
	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = rTab[pix[i]]
		pix[i+1] = gTab[pix[i+1]]
		pix[i+2] = bTab[pix[i+2]]
		// pix[i+3] (alpha) untouched
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
