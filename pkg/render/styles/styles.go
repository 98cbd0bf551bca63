// Package styles lowers workbook cell styling into the concrete values the
// canvas paints with: resolved colors, pixel-sized fonts, per-edge border
// strokes, and validated alignment. All fallbacks are supplied by the
// caller; resolution happens once per draw when options are turned into
// parameters.
package styles

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/sheetshot/pkg/sheet"
)

// Border style names as declared by the workbook model.
const (
	BorderNone             = "none"
	BorderHair             = "hair"
	BorderThin             = "thin"
	BorderDouble           = "double"
	BorderDotted           = "dotted"
	BorderDashed           = "dashed"
	BorderDashDot          = "dashDot"
	BorderDashDotDot       = "dashDotDot"
	BorderMedium           = "medium"
	BorderMediumDashDot    = "mediumDashDot"
	BorderMediumDashDotDot = "mediumDashDotDot"
	BorderMediumDashed     = "mediumDashed"
	BorderSlantDashDot     = "slantDashDot"
	BorderThick            = "thick"
)

// DefaultBorderPointWidths maps each border style to its stroke width in
// points.
func DefaultBorderPointWidths() map[string]float64 {
	return map[string]float64{
		BorderHair:             0.5,
		BorderThin:             1,
		BorderDouble:           1,
		BorderDotted:           1,
		BorderDashed:           1,
		BorderDashDot:          1,
		BorderDashDotDot:       1,
		BorderMedium:           2,
		BorderMediumDashDot:    2,
		BorderMediumDashDotDot: 2,
		BorderMediumDashed:     2,
		BorderSlantDashDot:     2,
		BorderThick:            3,
	}
}

// DefaultBorderPointSegments maps each dashed border style to its dash
// pattern in points. Styles absent from the map stroke solid.
func DefaultBorderPointSegments() map[string][]float64 {
	return map[string][]float64{
		BorderDashDot:          {4, 2, 2, 2},
		BorderMediumDashDot:    {4, 2, 2, 2},
		BorderSlantDashDot:     {4, 2, 2, 2},
		BorderDashDotDot:       {4, 2, 2, 2, 2, 2},
		BorderMediumDashDotDot: {4, 2, 2, 2, 2, 2},
		BorderDashed:           {4},
		BorderMediumDashed:     {4},
		BorderDotted:           {2},
	}
}

// validHorizontal and validVertical are the alignment values the canvas
// understands; anything else resolves to the fallback.
var validHorizontal = map[string]bool{
	"left": true, "right": true, "center": true, "start": true, "end": true,
}

var validVertical = map[string]bool{
	"top": true, "hanging": true, "middle": true, "alphabetic": true,
	"ideographic": true, "bottom": true,
}

// Font is a concrete, pixel-sized font selection.
type Font struct {
	Name      string
	Generic   string // "serif", "sans-serif", "monospace", or ""
	PixelSize float64
	Bold      bool
	Italic    bool
}

// String renders the font in its canonical single-line form, e.g.
// "italic bold 20px Arial sans-serif". It doubles as the face-cache key.
func (f Font) String() string {
	var parts []string
	if f.Italic {
		parts = append(parts, "italic")
	}
	if f.Bold {
		parts = append(parts, "bold")
	}
	parts = append(parts, fmt.Sprintf("%gpx", f.PixelSize), f.Name)
	if f.Generic != "" {
		parts = append(parts, f.Generic)
	}
	return strings.Join(parts, " ")
}

// GenericFamily maps the workbook's numeric font family to a generic
// family name. Unknown families map to the empty string.
func GenericFamily(family int) string {
	switch family {
	case 1:
		return "serif"
	case 2:
		return "sans-serif"
	case 3:
		return "monospace"
	}
	return ""
}

// BorderEdge is one lowered border stroke. A zero Width means the edge is
// not painted.
type BorderEdge struct {
	Color    color.RGBA
	Style    string
	Width    float64   // pixels
	Segments []float64 // dash pattern in pixels; empty = solid
}

// CellBorders groups the four lowered edges of a cell.
type CellBorders struct {
	Left   BorderEdge
	Top    BorderEdge
	Right  BorderEdge
	Bottom BorderEdge
}

// Alignment is a fully resolved cell alignment: every field is valid.
type Alignment struct {
	Horizontal    string
	Vertical      string
	WrapText      bool
	ShrinkToFit   bool
	Indent        int
	TextDirection string
	TextRotation  int
}

// CellText is the lowered text styling of a cell.
type CellText struct {
	Color      color.RGBA
	Font       Font
	Alignment  Alignment
	LineHeight float64 // pixels
}

// BorderParams carries pre-scaled border fallbacks and per-style pixel
// values, resolved once per draw.
type BorderParams struct {
	FallbackColor color.RGBA
	FallbackStyle string
	PixelWidths   map[string]float64
	PixelSegments map[string][]float64
}

// TextParams carries text fallbacks and scale, resolved once per draw.
type TextParams struct {
	FallbackColor     color.RGBA
	FallbackFontName  string
	FallbackFontSize  float64 // points
	FallbackAlignment Alignment
	LineHeightFactor  float64
	PixelPerPoint     float64
}

// LowerBackground resolves a cell fill to the color the cell rect is
// painted with. Non-pattern fills use the canvas background.
func LowerBackground(fill *sheet.Fill, background color.RGBA) color.RGBA {
	if fill == nil || fill.Type != "pattern" {
		return background
	}
	if c, ok := ARGBToRGBA(fill.BgColorARGB); ok {
		return c
	}
	return background
}

// LowerBorders resolves the four border sides of a cell.
func LowerBorders(b sheet.Border, p BorderParams) CellBorders {
	return CellBorders{
		Left:   lowerBorderSide(b.Left, p),
		Top:    lowerBorderSide(b.Top, p),
		Right:  lowerBorderSide(b.Right, p),
		Bottom: lowerBorderSide(b.Bottom, p),
	}
}

func lowerBorderSide(side *sheet.BorderSide, p BorderParams) BorderEdge {
	edge := BorderEdge{Color: p.FallbackColor, Style: p.FallbackStyle}
	if side != nil {
		if c, ok := ARGBToRGBA(side.ColorARGB); ok {
			edge.Color = c
		}
		if side.Style != "" {
			edge.Style = side.Style
		}
	}
	if edge.Style == BorderNone || edge.Style == "" {
		edge.Style = BorderNone
		return edge
	}
	edge.Width = p.PixelWidths[edge.Style]
	edge.Segments = p.PixelSegments[edge.Style]
	return edge
}

// LowerText resolves a cell's font and alignment to pixel-sized canvas
// values.
func LowerText(fontSpec *sheet.FontSpec, align *sheet.Alignment, p TextParams) CellText {
	name := p.FallbackFontName
	size := p.FallbackFontSize
	var bold, italic bool
	generic := ""
	textColor := p.FallbackColor

	if fontSpec != nil {
		if fontSpec.Name != "" {
			name = fontSpec.Name
		}
		if fontSpec.Size > 0 {
			size = fontSpec.Size
		}
		bold = fontSpec.Bold
		italic = fontSpec.Italic
		generic = GenericFamily(fontSpec.Family)
		if c, ok := ARGBToRGBA(fontSpec.ColorARGB); ok {
			textColor = c
		}
	}

	pixelSize := size * p.PixelPerPoint
	return CellText{
		Color: textColor,
		Font: Font{
			Name:      name,
			Generic:   generic,
			PixelSize: pixelSize,
			Bold:      bold,
			Italic:    italic,
		},
		Alignment:  lowerAlignment(align, p.FallbackAlignment),
		LineHeight: pixelSize * p.LineHeightFactor,
	}
}

func lowerAlignment(a *sheet.Alignment, fallback Alignment) Alignment {
	out := fallback
	if a == nil {
		return out
	}
	if validHorizontal[a.Horizontal] {
		out.Horizontal = a.Horizontal
	}
	if validVertical[a.Vertical] {
		out.Vertical = a.Vertical
	}
	out.WrapText = a.WrapText
	out.ShrinkToFit = a.ShrinkToFit
	if a.Indent != 0 {
		out.Indent = a.Indent
	}
	if a.TextDirection != "" {
		out.TextDirection = a.TextDirection
	}
	if a.TextRotation != 0 {
		out.TextRotation = a.TextRotation
	}
	return out
}
