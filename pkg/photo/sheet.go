package photo

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// SheetLayout is the derived device-pixel geometry of a print sheet: cell
// grid, inter-cell gap and centered margins. Construction guarantees the
// cells never overlap and never exceed sheet bounds, since block size plus
// margins always equals sheet size.
type SheetLayout struct {
	SheetWidth  int
	SheetHeight int
	CellWidth   int
	CellHeight  int
	Gap         int
	Columns     int
	Rows        int
	MarginX     int
	MarginY     int
}

// NewSheetLayout derives the standard 6x4 inch, 300 DPI, 4x2 grid layout
// from the physical print constants.
func NewSheetLayout() SheetLayout {
	sheetW := int(SheetWidthInches * PrintDPI)
	sheetH := int(SheetHeightInches * PrintDPI)
	cellW := MMToPixels(PhotoWidthMM, PrintDPI)
	cellH := MMToPixels(PhotoHeightMM, PrintDPI)
	gap := MMToPixels(PhotoGapMM, PrintDPI)

	blockW := SheetColumns*cellW + (SheetColumns-1)*gap
	blockH := SheetRows*cellH + (SheetRows-1)*gap

	return SheetLayout{
		SheetWidth:  sheetW,
		SheetHeight: sheetH,
		CellWidth:   cellW,
		CellHeight:  cellH,
		Gap:         gap,
		Columns:     SheetColumns,
		Rows:        SheetRows,
		MarginX:     (sheetW - blockW) / 2,
		MarginY:     (sheetH - blockH) / 2,
	}
}

// CellRect returns the device-pixel rectangle of the cell at (col, row).
func (l SheetLayout) CellRect(col, row int) image.Rectangle {
	x := l.MarginX + col*(l.CellWidth+l.Gap)
	y := l.MarginY + row*(l.CellHeight+l.Gap)
	return image.Rect(x, y, x+l.CellWidth, y+l.CellHeight)
}

// Compositor lays out copies of a processed photo on a print sheet.
type Compositor struct {
	layout SheetLayout
	tuning TuningConfig
}

// NewCompositor creates a Compositor with the standard layout.
func NewCompositor(tuning TuningConfig) *Compositor {
	return &Compositor{layout: NewSheetLayout(), tuning: tuning}
}

// Layout returns the compositor's derived sheet geometry.
func (c *Compositor) Layout() SheetLayout {
	return c.layout
}

// ComposeSheet places the same photo into every cell of the sheet over a
// white background, scaled to exactly fill the cell. The photo is expected
// to already carry the correct 35:45 aspect from the crop stage, so no
// aspect preservation happens here. A thin guide border is drawn around
// each cell, and optionally around the full sheet, as cutting aids.
// Composition is all-or-nothing; the final artifact should be encoded
// losslessly.
func (c *Compositor) ComposeSheet(ctx context.Context, photo image.Image) (image.Image, error) {
	if photo == nil {
		return nil, fmt.Errorf("%w: nil photo", ErrDecode)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	l := c.layout
	dc := gg.NewContext(l.SheetWidth, l.SheetHeight)
	if dc.Image() == nil {
		return nil, fmt.Errorf("%w: could not allocate %dx%d sheet", ErrRasterUnavailable, l.SheetWidth, l.SheetHeight)
	}

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// One resize for all eight cells.
	cell := imaging.Resize(photo, l.CellWidth, l.CellHeight, c.tuning.Resampler)

	dc.SetLineWidth(c.tuning.GuideLineWidth)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Columns; col++ {
			r := l.CellRect(col, row)
			dc.DrawImage(cell, r.Min.X, r.Min.Y)
			dc.SetRGB(0.7, 0.7, 0.7)
			dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
			dc.Stroke()
		}
	}

	if c.tuning.OuterGuide {
		dc.SetRGB(0.7, 0.7, 0.7)
		dc.DrawRectangle(0.5, 0.5, float64(l.SheetWidth)-1, float64(l.SheetHeight)-1)
		dc.Stroke()
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}
