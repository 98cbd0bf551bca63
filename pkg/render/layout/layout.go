// Package layout assigns pixel positions to a worksheet's visible columns
// and rows and resolves cells, merged ranges and picture anchors to
// rectangles on the raster.
//
// Hidden or collapsed bands contribute nothing: they are absent from the
// band slices and from the canvas size, and cells inside them resolve to
// no rectangle.
package layout

import (
	"github.com/matzehuels/sheetshot/pkg/render/units"
	"github.com/matzehuels/sheetshot/pkg/sheet"
)

// Column is one visible column band in pixels.
type Column struct {
	Number int
	X      float64
	Width  float64
}

// RowBand is one visible row band in pixels, with access to its cells.
type RowBand struct {
	Number int
	Y      float64
	Height float64
	Row    sheet.Row
}

// Layout is the positioned form of one worksheet.
type Layout struct {
	Columns []Column
	Rows    []RowBand

	// Width and Height are the raster size: the sums of the visible band
	// sizes.
	Width  float64
	Height float64

	colIndex map[int]int
	rowIndex map[int]int
	merges   *mergeIndex
	scale    units.Scale
}

// Build lays out ws at the given scale. fallbackColWidth (character units)
// applies when neither the column nor the sheet declares a width.
func Build(ws sheet.Worksheet, scale units.Scale, fallbackColWidth float64) *Layout {
	l := &Layout{
		colIndex: make(map[int]int),
		rowIndex: make(map[int]int),
		scale:    scale,
	}

	defaultWidth := fallbackColWidth
	if w, ok := ws.DefaultColWidth(); ok {
		defaultWidth = w
	}

	x := 0.0
	for n := 1; n <= ws.ColumnCount(); n++ {
		info := ws.Column(n)
		if info.Hidden || info.Collapsed {
			continue
		}
		w := defaultWidth
		if info.Width != nil {
			w = *info.Width
		}
		width := scale.CharUnitsToPixels(w)
		l.colIndex[n] = len(l.Columns)
		l.Columns = append(l.Columns, Column{Number: n, X: x, Width: width})
		x += width
	}
	l.Width = x

	y := 0.0
	for _, row := range ws.Rows() {
		if row.Hidden() || row.Collapsed() {
			continue
		}
		h := ws.DefaultRowHeight()
		if declared, ok := row.Height(); ok {
			h = declared
		}
		height := scale.PointsToPixels(h)
		l.rowIndex[row.Number()] = len(l.Rows)
		l.Rows = append(l.Rows, RowBand{Number: row.Number(), Y: y, Height: height, Row: row})
		y += height
	}
	l.Height = y

	l.merges = buildMergeIndex(ws.Merges())
	return l
}

// Empty reports whether the sheet produced no drawable rows. An empty
// layout makes the draw a no-op.
func (l *Layout) Empty() bool {
	return len(l.Rows) == 0
}

// Column returns the visible band for the 1-based column number.
func (l *Layout) Column(n int) (Column, bool) {
	i, ok := l.colIndex[n]
	if !ok {
		return Column{}, false
	}
	return l.Columns[i], true
}

// Row returns the visible band for the 1-based row number.
func (l *Layout) Row(n int) (RowBand, bool) {
	i, ok := l.rowIndex[n]
	if !ok {
		return RowBand{}, false
	}
	return l.Rows[i], true
}

// CellRect returns the rectangle of a single cell, ignoring merges. ok is
// false when the cell's column or row is hidden or out of range.
func (l *Layout) CellRect(pos sheet.CellPos) (units.Rect, bool) {
	col, ok := l.Column(pos.Col)
	if !ok {
		return units.Rect{}, false
	}
	row, ok := l.Row(pos.Row)
	if !ok {
		return units.Rect{}, false
	}
	return units.Rect{X: col.X, Y: row.Y, Width: col.Width, Height: row.Height}, true
}

// RangeRect returns the bounding rectangle of a range: the rect of its
// start cell combined with the rect of its end cell.
func (l *Layout) RangeRect(r sheet.Range) (units.Rect, bool) {
	start, ok := l.CellRect(r.Start)
	if !ok {
		return units.Rect{}, false
	}
	end, ok := l.CellRect(r.End)
	if !ok {
		return units.Rect{}, false
	}
	return units.RectFromEdges(start.X, start.Y, end.Right(), end.Bottom()), true
}

// Rect returns the drawing rectangle for pos: the merged range's bounding
// rect when the cell belongs to one, the single-cell rect otherwise.
func (l *Layout) Rect(pos sheet.CellPos) (units.Rect, bool) {
	if r, ok := l.merges.rangeAt(pos); ok {
		return l.RangeRect(r)
	}
	return l.CellRect(pos)
}

// MergedRange returns the merged range containing pos, if any.
func (l *Layout) MergedRange(pos sheet.CellPos) (sheet.Range, bool) {
	return l.merges.rangeAt(pos)
}

// MergedRanges returns all merged ranges in declaration order.
func (l *Layout) MergedRanges() []sheet.Range {
	return l.merges.ranges
}

// Scale returns the unit scale the layout was built with.
func (l *Layout) Scale() units.Scale {
	return l.scale
}
