package photo

// Physical print constants. These must match exactly for output
// compatibility with standard 6x4 inch passport sheet stock.
const (
	// MMPerInch is the metric conversion base for all DPI math.
	MMPerInch = 25.4

	// PrintDPI is the print resolution for the final sheet.
	PrintDPI = 300

	// PhotoWidthMM and PhotoHeightMM are the passport photo cell size.
	PhotoWidthMM  = 35.0
	PhotoHeightMM = 45.0

	// PhotoGapMM is the gap between adjacent photo cells. There is no gap
	// at the outer sheet edges, only centered margins.
	PhotoGapMM = 3.0

	// SheetWidthInches and SheetHeightInches define the 6x4 inch sheet.
	SheetWidthInches  = 6.0
	SheetHeightInches = 4.0

	// SheetColumns x SheetRows photo copies per sheet.
	SheetColumns = 4
	SheetRows    = 2
)

// CropAspectX and CropAspectY define the fixed 35:45 crop window ratio.
const (
	CropAspectX = 35
	CropAspectY = 45
)

// MMToPixels converts a physical length in millimeters to device pixels
// at the given DPI.
func MMToPixels(mm float64, dpi int) int {
	return int(mm / MMPerInch * float64(dpi))
}
