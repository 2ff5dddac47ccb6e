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

var (
	testRed  = color.RGBA{R: 255, A: 255}
	testBlue = color.RGBA{B: 255, A: 255}
)

// createSplitImage paints the left half red and the right half blue.
func createSplitImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, image.Rect(0, 0, width/2, height), &image.Uniform{testRed}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(width/2, 0, width, height), &image.Uniform{testBlue}, image.Point{}, draw.Src)
	return img
}

func assertRedAt(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	assert.Greater(t, int(c.R), 200, "expected red at (%d,%d), got %v", x, y, c)
	assert.Less(t, int(c.B), 50, "expected red at (%d,%d), got %v", x, y, c)
}

func assertWhiteAt(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	assert.Greater(t, int(c.R), 200, "expected white at (%d,%d), got %v", x, y, c)
	assert.Greater(t, int(c.G), 200, "expected white at (%d,%d), got %v", x, y, c)
	assert.Greater(t, int(c.B), 200, "expected white at (%d,%d), got %v", x, y, c)
}

func TestCropRectangle_Basic(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	src := createSplitImage(200, 100)

	out, err := r.CropRectangle(context.Background(), src, ResolvedCrop{X: 0, Y: 0, Width: 100, Height: 100})
	require.NoError(t, err)

	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())
	assertRedAt(t, out, 50, 50)
}

func TestCropRectangle_CapsLongerEdge(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxCropDimension = 50
	r := NewRasterizer(tuning)

	src := createSplitImage(200, 100)
	out, err := r.CropRectangle(context.Background(), src, ResolvedCrop{X: 0, Y: 0, Width: 200, Height: 100})
	require.NoError(t, err)

	// Both axes share one scale factor.
	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 25, out.Bounds().Dy())
}

func TestCropRectangle_RejectsRotated(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	src := createSplitImage(100, 100)

	_, err := r.CropRectangle(context.Background(), src, ResolvedCrop{Width: 50, Height: 50, Rotated: true})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestCropRectangle_OutsideBounds(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	src := createSplitImage(100, 100)

	_, err := r.CropRectangle(context.Background(), src, ResolvedCrop{X: 500, Y: 500, Width: 50, Height: 50})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestCropRectangle_NilSource(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	_, err := r.CropRectangle(context.Background(), nil, ResolvedCrop{Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrDecode)
}

// markerImage is white with a red block in the top-left corner, making
// orientation visible after transforms.
func markerImage(size, marker int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, marker, marker), &image.Uniform{testRed}, image.Point{}, draw.Src)
	return img
}

func TestRenderTransformed_IdentityView(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	src := markerImage(100, 20)
	window := Size{Width: 100, Height: 100}

	out, err := r.RenderTransformed(context.Background(), src, IdentityView(1), window, 100, 100)
	require.NoError(t, err)

	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())
	assertRedAt(t, out, 10, 10)
	assertWhiteAt(t, out, 90, 90)
}

func TestRenderTransformed_Rotate180(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	src := markerImage(100, 20)
	window := Size{Width: 100, Height: 100}

	vt := ViewTransform{Zoom: 1, RotationDegrees: 180}
	out, err := r.RenderTransformed(context.Background(), src, vt, window, 100, 100)
	require.NoError(t, err)

	// The marker lands in the bottom-right corner.
	assertRedAt(t, out, 90, 90)
	assertWhiteAt(t, out, 10, 10)
}

func TestRenderTransformed_PanBeforeRotate(t *testing.T) {
	// Pan is applied before rotation in the composition, so it shifts in
	// screen space and is NOT rotated with the image. With a 180 degree
	// rotation and pan (-20, 0), the bottom-right marker moves 20px left;
	// the reversed order would move it right instead.
	r := NewRasterizer(DefaultTuning())
	src := markerImage(100, 20)
	window := Size{Width: 100, Height: 100}

	vt := ViewTransform{Zoom: 1, RotationDegrees: 180, Pan: Point{X: -20}}
	out, err := r.RenderTransformed(context.Background(), src, vt, window, 100, 100)
	require.NoError(t, err)

	assertRedAt(t, out, 70, 90)
	assertWhiteAt(t, out, 95, 70)
}

func TestRenderTransformed_OutputScale(t *testing.T) {
	// Window 100px, output 200px: everything doubles.
	r := NewRasterizer(DefaultTuning())
	src := markerImage(100, 20)
	window := Size{Width: 100, Height: 100}

	out, err := r.RenderTransformed(context.Background(), src, IdentityView(1), window, 200, 200)
	require.NoError(t, err)

	assert.Equal(t, 200, out.Bounds().Dx())
	assertRedAt(t, out, 20, 20)
	assertWhiteAt(t, out, 180, 180)
}

func TestRenderTransformed_InvalidInputs(t *testing.T) {
	r := NewRasterizer(DefaultTuning())
	src := markerImage(10, 2)
	window := Size{Width: 100, Height: 100}

	t.Run("ZeroZoom", func(t *testing.T) {
		_, err := r.RenderTransformed(context.Background(), src, IdentityView(0), window, 100, 100)
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("ZeroOutput", func(t *testing.T) {
		_, err := r.RenderTransformed(context.Background(), src, IdentityView(1), window, 0, 100)
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("NilSource", func(t *testing.T) {
		_, err := r.RenderTransformed(context.Background(), nil, IdentityView(1), window, 100, 100)
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestRender_DispatchesOnMode(t *testing.T) {
	tuning := DefaultTuning()
	tuning.CropOutputWidth = 70
	tuning.CropOutputHeight = 90
	r := NewRasterizer(tuning)
	src := markerImage(100, 20)

	t.Run("Rectangle", func(t *testing.T) {
		out, err := r.Render(context.Background(), src, ResolvedCrop{X: 0, Y: 0, Width: 50, Height: 50})
		require.NoError(t, err)
		assert.Equal(t, 50, out.Bounds().Dx())
	})

	t.Run("Transform", func(t *testing.T) {
		rc := ResolvedCrop{
			Rotated: true,
			View:    ViewTransform{Zoom: 1, RotationDegrees: 15},
			Window:  Size{Width: 70, Height: 90},
		}
		out, err := r.Render(context.Background(), src, rc)
		require.NoError(t, err)
		assert.Equal(t, 70, out.Bounds().Dx())
		assert.Equal(t, 90, out.Bounds().Dy())
	})
}
