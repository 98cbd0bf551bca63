package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/sheetshot/pkg/render/styles"
	"github.com/matzehuels/sheetshot/pkg/render/text"
	"github.com/matzehuels/sheetshot/pkg/render/units"
)

// TextLine is one line of cell text positioned by the orchestrator. X and Y
// follow the alignment semantics of a 2D canvas: X is the anchor point for
// the horizontal alignment, Y the line's position under the vertical
// alignment (top edge, middle, or baseline).
type TextLine struct {
	Value    string
	X, Y     float64
	Font     styles.Font
	Color    color.RGBA
	HAlign   string  // left, right, center, start, end
	VAlign   string  // top, hanging, middle, alphabetic, ideographic, bottom
	MaxWidth float64 // >0 compresses glyphs horizontally to fit (shrink-to-fit)
}

// Canvas is the raster surface a draw paints onto. The renderer sizes it
// once per draw and then issues fills, strokes, text and image draws in
// paint order. Implementations are not required to be safe for concurrent
// use; the renderer draws from a single goroutine.
type Canvas interface {
	// SetSize resizes the surface and clears it to transparent.
	SetSize(width, height float64)

	// FillRect fills r with c.
	FillRect(r units.Rect, c color.RGBA)

	// StrokeLine strokes a straight line with square caps. dash is the
	// dash pattern in pixels; empty strokes solid.
	StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA, dash []float64)

	// DrawText draws one positioned line of text.
	DrawText(line TextLine)

	// DrawImage draws img stretched to r.
	DrawImage(img image.Image, r units.Rect)
}

// ggCanvas renders onto a fogleman/gg context backed by an RGBA image.
type ggCanvas struct {
	ctx      *gg.Context
	measurer *text.Measurer
}

// NewCanvas creates the production canvas. The measurer supplies font
// faces and metrics for text drawing.
func NewCanvas(m *text.Measurer) Canvas {
	return &ggCanvas{measurer: m}
}

func (g *ggCanvas) SetSize(width, height float64) {
	g.ctx = gg.NewContext(int(width+0.5), int(height+0.5))
}

func (g *ggCanvas) FillRect(r units.Rect, c color.RGBA) {
	g.ctx.SetColor(c)
	g.ctx.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	g.ctx.Fill()
}

func (g *ggCanvas) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA, dash []float64) {
	g.ctx.SetColor(c)
	g.ctx.SetLineWidth(width)
	g.ctx.SetLineCapSquare()
	if len(dash) > 0 {
		g.ctx.SetDash(dash...)
	} else {
		g.ctx.SetDash()
	}
	g.ctx.MoveTo(x1, y1)
	g.ctx.LineTo(x2, y2)
	g.ctx.Stroke()
}

func (g *ggCanvas) DrawText(line TextLine) {
	g.ctx.SetFontFace(g.measurer.Face(line.Font))
	g.ctx.SetColor(line.Color)

	width := g.measurer.TextWidth(line.Font, line.Value)
	x := line.X
	switch line.HAlign {
	case "center":
		x -= width / 2
	case "right", "end":
		x -= width
	}

	// Convert the alignment-relative y to the text baseline.
	ascent := g.measurer.Ascent(line.Font)
	descent := g.measurer.Descent(line.Font)
	y := line.Y
	switch line.VAlign {
	case "top", "hanging":
		y += ascent
	case "middle":
		y += (ascent - descent) / 2
	case "ideographic":
		y -= descent
	}

	if line.MaxWidth > 0 && width > line.MaxWidth {
		// Shrink-to-fit: compress glyph advances about the anchor edge.
		g.ctx.Push()
		g.ctx.ScaleAbout(line.MaxWidth/width, 1, line.X, y)
		g.ctx.DrawString(line.Value, x, y)
		g.ctx.Pop()
		return
	}
	g.ctx.DrawString(line.Value, x, y)
}

func (g *ggCanvas) DrawImage(img image.Image, r units.Rect) {
	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w == 0 || h == 0 {
		return
	}
	g.ctx.Push()
	g.ctx.Translate(r.X, r.Y)
	g.ctx.Scale(r.Width/w, r.Height/h)
	g.ctx.DrawImage(img, 0, 0)
	g.ctx.Pop()
}

// Image returns the rendered raster. Nil before the first SetSize.
func (g *ggCanvas) Image() image.Image {
	if g.ctx == nil {
		return nil
	}
	return g.ctx.Image()
}
