package layout

import (
	"github.com/matzehuels/sheetshot/pkg/render/units"
	"github.com/matzehuels/sheetshot/pkg/sheet"
)

// canvasAnchor is an anchor translated to layout coordinates: a 1-based
// cell position plus a pixel offset inside that cell.
type canvasAnchor struct {
	col     int
	row     int
	offsetX float64
	offsetY float64
}

// topLeftAnchor converts a 0-based top-left drawing anchor. Both axes are
// incremented so the anchor names the cell whose leading edge is the
// anchored point.
func topLeftAnchor(a *sheet.Anchor, scale units.Scale) canvasAnchor {
	return canvasAnchor{
		col:     a.Col + 1,
		row:     a.Row + 1,
		offsetX: scale.EMUToPixels(a.ColOffEMU),
		offsetY: scale.EMUToPixels(a.RowOffEMU),
	}
}

// bottomRightAnchor converts a 0-based bottom-right drawing anchor. The
// cell position is used as-is, so the anchor names the cell whose trailing
// edge is the anchored point.
func bottomRightAnchor(a *sheet.Anchor, scale units.Scale) canvasAnchor {
	return canvasAnchor{
		col:     a.Col,
		row:     a.Row,
		offsetX: scale.EMUToPixels(a.ColOffEMU),
		offsetY: scale.EMUToPixels(a.RowOffEMU),
	}
}

// anchorRect resolves an anchor to its cell rectangle shifted by the
// anchor's pixel offsets.
func (l *Layout) anchorRect(a canvasAnchor) (units.Rect, bool) {
	rect, ok := l.CellRect(sheet.CellPos{Col: a.col, Row: a.row})
	if !ok {
		return units.Rect{}, false
	}
	rect.X += a.offsetX
	rect.Y += a.offsetY
	return rect, true
}

// PictureRect resolves a picture placement to its rectangle on the raster.
// ok is false when the placement is malformed or refers to hidden cells;
// such pictures are skipped.
func (l *Layout) PictureRect(p sheet.Picture) (units.Rect, bool) {
	if p.Anchors != nil {
		return l.anchorsRect(p.Anchors)
	}
	if p.Ref != "" {
		r, ok := sheet.ParseRangeRef(p.Ref)
		if !ok {
			return units.Rect{}, false
		}
		return l.RangeRect(r)
	}
	return units.Rect{}, false
}

func (l *Layout) anchorsRect(a *sheet.PictureAnchors) (units.Rect, bool) {
	switch {
	case a.TL != nil && a.BR != nil:
		tl, ok := l.anchorRect(topLeftAnchor(a.TL, l.scale))
		if !ok {
			return units.Rect{}, false
		}
		br, ok := l.anchorRect(bottomRightAnchor(a.BR, l.scale))
		if !ok {
			return units.Rect{}, false
		}
		return units.RectFromEdges(tl.X, tl.Y, br.Right(), br.Bottom()), true

	case a.TL != nil && a.Ext != nil:
		tl, ok := l.anchorRect(topLeftAnchor(a.TL, l.scale))
		if !ok {
			return units.Rect{}, false
		}
		return units.Rect{
			X:      tl.X,
			Y:      tl.Y,
			Width:  l.scale.ExtentToPixels(a.Ext.Width),
			Height: l.scale.ExtentToPixels(a.Ext.Height),
		}, true

	case a.TL != nil:
		return l.anchorRect(topLeftAnchor(a.TL, l.scale))

	case a.BR != nil && a.Ext != nil:
		br, ok := l.anchorRect(bottomRightAnchor(a.BR, l.scale))
		if !ok {
			return units.Rect{}, false
		}
		w := l.scale.ExtentToPixels(a.Ext.Width)
		h := l.scale.ExtentToPixels(a.Ext.Height)
		return units.Rect{X: br.X - w, Y: br.Y - h, Width: w, Height: h}, true

	case a.BR != nil:
		return l.anchorRect(bottomRightAnchor(a.BR, l.scale))
	}
	return units.Rect{}, false
}
