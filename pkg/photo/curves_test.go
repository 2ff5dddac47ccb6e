package photo

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestImage(width, height int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestBuildLUT_Identity(t *testing.T) {
	lut, err := BuildLUT(IdentityCurve())
	require.NoError(t, err)

	for i := 0; i < 256; i++ {
		assert.Equal(t, uint8(i), lut[i], "identity LUT at %d", i)
	}
}

func TestBuildLUT_Inversion(t *testing.T) {
	lut, err := BuildLUT([]CurvePoint{{X: 0, Y: 255}, {X: 255, Y: 0}})
	require.NoError(t, err)

	for i := 0; i < 256; i++ {
		assert.Equal(t, uint8(255-i), lut[i], "inversion LUT at %d", i)
	}
}

func TestBuildLUT_Empty(t *testing.T) {
	_, err := BuildLUT(nil)
	assert.ErrorIs(t, err, ErrEmptyCurve)
}

func TestBuildLUT_ClampsOutsideEndpoints(t *testing.T) {
	// No point at x=0 or x=255; inputs outside the set clamp to the
	// nearest endpoint's y.
	lut, err := BuildLUT([]CurvePoint{{X: 100, Y: 40}, {X: 200, Y: 220}})
	require.NoError(t, err)

	assert.Equal(t, uint8(40), lut[0])
	assert.Equal(t, uint8(40), lut[100])
	assert.Equal(t, uint8(220), lut[200])
	assert.Equal(t, uint8(220), lut[255])
	// Midpoint interpolates.
	assert.Equal(t, uint8(130), lut[150])
}

func TestBuildLUT_UnsortedInput(t *testing.T) {
	sorted, err := BuildLUT([]CurvePoint{{X: 0, Y: 0}, {X: 128, Y: 64}, {X: 255, Y: 255}})
	require.NoError(t, err)
	shuffled, err := BuildLUT([]CurvePoint{{X: 255, Y: 255}, {X: 0, Y: 0}, {X: 128, Y: 64}})
	require.NoError(t, err)

	assert.Equal(t, sorted, shuffled)
}

func TestBuildLUT_DuplicateX(t *testing.T) {
	// Degenerate pair at the same x; the earlier point wins at that input.
	lut, err := BuildLUT([]CurvePoint{{X: 0, Y: 0}, {X: 128, Y: 10}, {X: 128, Y: 200}, {X: 255, Y: 255}})
	require.NoError(t, err)

	assert.Equal(t, uint8(10), lut[128])
	// Values in [0, 255] everywhere.
	for i := 0; i < 256; i++ {
		assert.LessOrEqual(t, int(lut[i]), 255)
	}
}

func TestApplyCurves_IdentityRoundTrip(t *testing.T) {
	src := createTestImage(16, 16, color.RGBA{R: 120, G: 80, B: 200, A: 255})

	out, err := ApplyCurves(context.Background(), src, IdentitySettings())
	require.NoError(t, err)

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	for i := 0; i < len(nrgba.Pix); i += 4 {
		assert.Equal(t, uint8(120), nrgba.Pix[i])
		assert.Equal(t, uint8(80), nrgba.Pix[i+1])
		assert.Equal(t, uint8(200), nrgba.Pix[i+2])
		assert.Equal(t, uint8(255), nrgba.Pix[i+3])
	}
}

func TestApplyCurves_AlphaUntouched(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 100
		img.Pix[i+1] = 100
		img.Pix[i+2] = 100
		img.Pix[i+3] = 77 // partially transparent
	}

	cs := IdentitySettings()
	cs.Master = []CurvePoint{{X: 0, Y: 255}, {X: 255, Y: 0}} // invert everything

	out, err := ApplyCurves(context.Background(), img, cs)
	require.NoError(t, err)

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	for i := 0; i < len(nrgba.Pix); i += 4 {
		assert.Equal(t, uint8(155), nrgba.Pix[i], "inverted channel")
		assert.Equal(t, uint8(77), nrgba.Pix[i+3], "alpha must survive inversion")
	}
}

func TestApplyCurves_ChannelThenMaster(t *testing.T) {
	// Red channel curve lifts 100 to 200; the master curve then drags 200
	// down to 50. The composition order is channel first, master second.
	src := createTestImage(2, 2, color.RGBA{R: 100, G: 0, B: 0, A: 255})

	cs := CurveSettings{
		Master: []CurvePoint{{X: 0, Y: 0}, {X: 200, Y: 50}, {X: 255, Y: 255}},
		Red:    []CurvePoint{{X: 0, Y: 0}, {X: 100, Y: 200}, {X: 255, Y: 255}},
		Green:  IdentityCurve(),
		Blue:   IdentityCurve(),
	}

	out, err := ApplyCurves(context.Background(), src, cs)
	require.NoError(t, err)

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, uint8(50), nrgba.Pix[0])
}

func TestApplyCurves_EmptyChannelFails(t *testing.T) {
	src := createTestImage(2, 2, color.RGBA{A: 255})
	cs := IdentitySettings()
	cs.Blue = nil

	_, err := ApplyCurves(context.Background(), src, cs)
	assert.ErrorIs(t, err, ErrEmptyCurve)
}
