// Package units converts between the measurement systems a spreadsheet
// mixes freely: character units for column widths, points for row heights
// and font sizes, EMUs for drawing-anchor offsets, and device pixels for
// the raster output.
package units

// PointsPerInch is the typographic point density.
const PointsPerInch = 72.0

// EMUPerPoint is the number of English Metric Units per point.
// 914400 EMU = 1 inch, so 914400 / 72 = 12700 EMU per point.
const EMUPerPoint = 12700.0

// ExtentDPI is the pixel density picture extents are declared at.
const ExtentDPI = 96.0

// Scale bundles the two factors every conversion needs: the width of one
// character unit in points, and the pixel density of the raster.
type Scale struct {
	// CharacterUnit is the column character-unit width in points.
	CharacterUnit float64

	// PixelPerPoint is the raster density, DPI / 72.
	PixelPerPoint float64
}

// NewScale builds a Scale from a character-unit width and a raster DPI.
func NewScale(characterUnit, dpi float64) Scale {
	return Scale{CharacterUnit: characterUnit, PixelPerPoint: dpi / PointsPerInch}
}

// CharUnitsToPixels converts a column width in character units to pixels.
func (s Scale) CharUnitsToPixels(charUnits float64) float64 {
	return charUnits * s.CharacterUnit * s.PixelPerPoint
}

// PointsToPixels converts a point-valued quantity to pixels.
func (s Scale) PointsToPixels(points float64) float64 {
	return points * s.PixelPerPoint
}

// EMUToPixels converts an EMU offset to pixels.
func (s Scale) EMUToPixels(emu int64) float64 {
	return float64(emu) / EMUPerPoint * s.PixelPerPoint
}

// ExtentToPixels converts a picture extent dimension to pixels. Extents are
// declared as pixels at 96 DPI; they go through points to reach the raster
// density.
func (s Scale) ExtentToPixels(ext float64) float64 {
	return ext * (PointsPerInch / ExtentDPI) * s.PixelPerPoint
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromEdges builds a Rect from its four edges.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Union returns the bounding rectangle of r and other.
func (r Rect) Union(other Rect) Rect {
	return RectFromEdges(
		min(r.X, other.X),
		min(r.Y, other.Y),
		max(r.Right(), other.Right()),
		max(r.Bottom(), other.Bottom()),
	)
}

// Inset shrinks the rectangle by pad on all four sides.
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X + pad, Y: r.Y + pad, Width: r.Width - 2*pad, Height: r.Height - 2*pad}
}
