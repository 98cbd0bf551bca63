package render

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/matzehuels/sheetshot/pkg/observability"
	"github.com/matzehuels/sheetshot/pkg/render/layout"
	"github.com/matzehuels/sheetshot/pkg/render/styles"
	"github.com/matzehuels/sheetshot/pkg/render/text"
	"github.com/matzehuels/sheetshot/pkg/render/units"
	"github.com/matzehuels/sheetshot/pkg/sheet"
)

// SheetSelector picks the worksheet to draw. The zero value selects the
// workbook's first sheet; otherwise Name wins over Index.
type SheetSelector struct {
	Name  string
	Index int // 1-based
}

// SelectByName selects a worksheet by name.
func SelectByName(name string) SheetSelector { return SheetSelector{Name: name} }

// SelectByIndex selects a worksheet by 1-based index.
func SelectByIndex(i int) SheetSelector { return SheetSelector{Index: i} }

// Renderer paints worksheets onto raster surfaces. It owns the shared
// measurement surface and can be reused across draws; a Renderer is safe
// for sequential use, one draw at a time.
type Renderer struct {
	measurer *text.Measurer
}

// New creates a Renderer. It fails when the measurement surface cannot be
// initialised; such a renderer is unusable and the error is fatal.
func New() (*Renderer, error) {
	m, err := text.NewMeasurer()
	if err != nil {
		return nil, err
	}
	return &Renderer{measurer: m}, nil
}

// Measurer exposes the shared measurement surface.
func (r *Renderer) Measurer() *text.Measurer { return r.measurer }

// Render draws the selected worksheet onto a fresh canvas and returns the
// raster. It returns (nil, nil) when there is nothing to draw: missing
// worksheet or a sheet without rows.
func (r *Renderer) Render(ctx context.Context, wb sheet.Workbook, sel SheetSelector, opts Options) (image.Image, error) {
	canvas := NewCanvas(r.measurer)
	drew, err := r.RenderTo(ctx, canvas, wb, sel, opts)
	if err != nil || !drew {
		return nil, err
	}
	return canvas.(*ggCanvas).Image(), nil
}

// RenderTo draws the selected worksheet onto canvas. The returned bool
// reports whether anything was drawn; per-item problems (malformed
// references, unresolved anchors, undecodable images) are skipped without
// error, so the draw always produces a best-effort raster.
func (r *Renderer) RenderTo(ctx context.Context, canvas Canvas, wb sheet.Workbook, sel SheetSelector, opts Options) (bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return false, err
	}
	logger := opts.Logger
	params := resolveParams(&opts)

	ws, ok := selectWorksheet(wb, sel)
	if !ok {
		logger.Warn("worksheet not found, skipping draw", "selector", sel)
		return false, nil
	}

	layoutStart := time.Now()
	observability.Render().OnLayoutStart(ctx, ws.Name())
	l := layout.Build(ws, params.scale, opts.FallbackColWidth)
	observability.Render().OnLayoutComplete(ctx, ws.Name(), len(l.Columns), len(l.Rows), time.Since(layoutStart))

	if l.Empty() {
		logger.Warn("worksheet has no rows, skipping draw", "sheet", ws.Name())
		return false, nil
	}

	canvas.SetSize(l.Width, l.Height)
	canvas.FillRect(units.Rect{Width: l.Width, Height: l.Height}, params.background)

	cells := r.collectCells(l, params)
	drawStart := time.Now()
	observability.Render().OnDrawStart(ctx, ws.Name(), len(cells))
	for _, cc := range cells {
		r.drawCell(canvas, cc, params)
	}
	logger.Debug("cells painted", "sheet", ws.Name(), "cells", len(cells))

	err := r.drawPictures(ctx, canvas, wb, ws, l, logger)
	observability.Render().OnDrawComplete(ctx, ws.Name(), len(cells), time.Since(drawStart), err)
	return err == nil, err
}

// selectWorksheet resolves the selector against the workbook.
func selectWorksheet(wb sheet.Workbook, sel SheetSelector) (sheet.Worksheet, bool) {
	switch {
	case sel.Name != "":
		return wb.WorksheetByName(sel.Name)
	case sel.Index != 0:
		return wb.Worksheet(sel.Index)
	default:
		return wb.Worksheet(1)
	}
}

// =============================================================================
// Cell Collection and Ordering
// =============================================================================

// canvasCell is one cell lowered and positioned, ready to paint. It lives
// only for the duration of the draw.
type canvasCell struct {
	rect    units.Rect
	value   string
	bg      color.RGBA
	borders styles.CellBorders
	text    styles.CellText
}

// collectCells gathers every drawable cell in paint order: merged ranges
// first (in declaration order), then the remaining cells row by row. Each
// phase is reordered so empty cells paint first, fitting cells next, and
// overflowing cells last, letting long values spill over blank neighbours.
func (r *Renderer) collectCells(l *layout.Layout, params drawParams) []canvasCell {
	var merged, plain []canvasCell

	for _, mr := range l.MergedRanges() {
		band, ok := l.Row(mr.Start.Row)
		if !ok {
			continue
		}
		rect, ok := l.RangeRect(mr)
		if !ok {
			continue
		}
		merged = append(merged, r.lowerCell(band.Row.Cell(mr.Start.Col), rect, params))
	}

	for _, band := range l.Rows {
		for _, col := range l.Columns {
			pos := sheet.CellPos{Col: col.Number, Row: band.Number}
			if _, isMerged := l.MergedRange(pos); isMerged {
				continue
			}
			rect := units.Rect{X: col.X, Y: band.Y, Width: col.Width, Height: band.Height}
			plain = append(plain, r.lowerCell(band.Row.Cell(col.Number), rect, params))
		}
	}

	out := make([]canvasCell, 0, len(merged)+len(plain))
	out = append(out, r.overflowOrder(merged)...)
	out = append(out, r.overflowOrder(plain)...)
	return out
}

// lowerCell resolves one cell's styling against the draw parameters.
func (r *Renderer) lowerCell(c sheet.Cell, rect units.Rect, params drawParams) canvasCell {
	return canvasCell{
		rect:    rect,
		value:   c.Text(),
		bg:      styles.LowerBackground(c.Fill(), params.background),
		borders: styles.LowerBorders(c.Border(), params.border),
		text:    styles.LowerText(c.Font(), c.Alignment(), params.text),
	}
}

// overflowOrder buckets cells into empty, fitting, and overflowing, and
// emits them in that sequence. This approximates spreadsheet overflow:
// values wider than their cell paint after their neighbours and may spill
// over blank ones. Overflow is never clipped against non-empty neighbours,
// so a long value can visibly overlap a following cell's content.
func (r *Renderer) overflowOrder(cells []canvasCell) []canvasCell {
	var empty, fit, overflow []canvasCell
	for _, cc := range cells {
		switch {
		case cc.value == "":
			empty = append(empty, cc)
		case !cc.text.Alignment.ShrinkToFit && r.measurer.TextWidth(cc.text.Font, cc.value) < cc.rect.Width:
			fit = append(fit, cc)
		default:
			overflow = append(overflow, cc)
		}
	}
	out := make([]canvasCell, 0, len(cells))
	out = append(out, empty...)
	out = append(out, fit...)
	return append(out, overflow...)
}

// =============================================================================
// Cell Painting
// =============================================================================

// drawCell paints one cell: background, then borders, then value.
func (r *Renderer) drawCell(canvas Canvas, cc canvasCell, params drawParams) {
	canvas.FillRect(cc.rect, cc.bg)
	r.drawBorders(canvas, cc)
	if cc.value != "" {
		r.drawValue(canvas, cc, params)
	}
}

func (r *Renderer) drawBorders(canvas Canvas, cc canvasCell) {
	rect := cc.rect
	edges := []struct {
		edge           styles.BorderEdge
		x1, y1, x2, y2 float64
	}{
		{cc.borders.Left, rect.X, rect.Y, rect.X, rect.Bottom()},
		{cc.borders.Top, rect.X, rect.Y, rect.Right(), rect.Y},
		{cc.borders.Right, rect.Right(), rect.Y, rect.Right(), rect.Bottom()},
		{cc.borders.Bottom, rect.X, rect.Bottom(), rect.Right(), rect.Bottom()},
	}
	for _, e := range edges {
		if e.edge.Style == styles.BorderNone || e.edge.Width == 0 {
			continue
		}
		canvas.StrokeLine(e.x1, e.y1, e.x2, e.y2, e.edge.Width, e.edge.Color, e.edge.Segments)
	}
}

func (r *Renderer) drawValue(canvas Canvas, cc canvasCell, params drawParams) {
	inner := cc.rect.Inset(params.cellPadding)
	align := cc.text.Alignment

	lines := r.measurer.Lines(cc.text.Font, cc.value, inner.Width, align.WrapText)

	var x float64
	switch align.Horizontal {
	case "center":
		x = inner.X + inner.Width/2
	case "right", "end":
		x = inner.X + inner.Width
	default: // left, start
		x = inner.X
	}

	lineHeight := cc.text.LineHeight
	span := float64(len(lines)-1) * lineHeight
	var y float64
	switch align.Vertical {
	case "top", "hanging":
		y = inner.Y
	case "middle":
		y = inner.Y + (inner.Height-span)/2
	default: // bottom, alphabetic, ideographic
		y = inner.Y + inner.Height - span
	}

	maxWidth := 0.0
	if align.ShrinkToFit {
		maxWidth = inner.Width
	}

	for _, line := range lines {
		canvas.DrawText(TextLine{
			Value:    line,
			X:        x,
			Y:        y,
			Font:     cc.text.Font,
			Color:    cc.text.Color,
			HAlign:   align.Horizontal,
			VAlign:   align.Vertical,
			MaxWidth: maxWidth,
		})
		y += lineHeight
	}
}
