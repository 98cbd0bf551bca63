// Package xlsx adapts excelize workbooks to the sheet model the renderer
// reads.
//
// The adapter is read-only glue: it opens .xlsx bytes, exposes worksheets,
// bands, merges, cell styling and embedded pictures through the sheet
// capability set, and normalises excelize's representations (prefixed hex
// colors, numeric border styles, spreadsheet alignment names) into the
// forms the style lowering expects.
package xlsx

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/sheet"
)

// emuPerPixel converts 96-DPI pixel offsets to EMUs (914400 EMU per inch).
const emuPerPixel = 9525

// defaultRowHeightPoints is the spreadsheet default when the sheet
// declares none.
const defaultRowHeightPoints = 15.0

// Workbook is an excelize-backed sheet.Workbook.
type Workbook struct {
	f      *excelize.File
	sheets []*worksheet
	images []sheet.ImageData
}

var _ sheet.Workbook = (*Workbook)(nil)

// Open reads a workbook from disk.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "open %s", path)
	}
	return build(f)
}

// OpenReader reads a workbook from a stream.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "open workbook")
	}
	return build(f)
}

// OpenBytes reads a workbook from memory.
func OpenBytes(data []byte) (*Workbook, error) {
	return OpenReader(bytes.NewReader(data))
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Worksheets returns all worksheets in workbook order.
func (w *Workbook) Worksheets() []sheet.Worksheet {
	out := make([]sheet.Worksheet, len(w.sheets))
	for i, s := range w.sheets {
		out[i] = s
	}
	return out
}

// Worksheet returns the worksheet at the 1-based index.
func (w *Workbook) Worksheet(index int) (sheet.Worksheet, bool) {
	if index < 1 || index > len(w.sheets) {
		return nil, false
	}
	return w.sheets[index-1], true
}

// WorksheetByName returns the worksheet with the given name.
func (w *Workbook) WorksheetByName(name string) (sheet.Worksheet, bool) {
	for _, s := range w.sheets {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Image returns the payload registered under id.
func (w *Workbook) Image(id int) (sheet.ImageData, bool) {
	if id < 1 || id > len(w.images) {
		return sheet.ImageData{}, false
	}
	return w.images[id-1], true
}

// build walks the workbook once, collecting per-sheet dimensions, merges
// and pictures. Cell content and styling stay lazy.
func build(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{f: f}
	for _, name := range f.GetSheetList() {
		ws := &worksheet{
			f:         f,
			wb:        wb,
			name:      name,
			rowHeight: defaultRowHeightPoints,
			styles:    make(map[int]*excelize.Style),
		}

		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidWorkbook, err, "read rows of %s", name)
		}
		ws.rowCount = len(rows)
		for _, row := range rows {
			if len(row) > ws.colCount {
				ws.colCount = len(row)
			}
		}
		// The declared dimension can exceed the populated area (styled but
		// empty trailing bands).
		if dim, err := f.GetSheetDimension(name); err == nil {
			if r, ok := sheet.ParseRangeRef(strings.ReplaceAll(dim, "$", "")); ok {
				ws.colCount = max(ws.colCount, r.End.Col)
				ws.rowCount = max(ws.rowCount, r.End.Row)
			}
		}

		if props, err := f.GetSheetProps(name); err == nil {
			ws.colWidth = props.DefaultColWidth
			if props.DefaultRowHeight != nil {
				ws.rowHeight = *props.DefaultRowHeight
			}
		}

		merges, err := f.GetMergeCells(name)
		if err == nil {
			for _, m := range merges {
				ref := m.GetStartAxis() + ":" + m.GetEndAxis()
				ws.merges = append(ws.merges, ref)
				if r, ok := sheet.ParseRangeRef(ref); ok {
					ws.mergeRanges = append(ws.mergeRanges, r)
					// A merge can extend past the populated area.
					ws.colCount = max(ws.colCount, r.End.Col)
					ws.rowCount = max(ws.rowCount, r.End.Row)
				}
			}
		}

		if err := wb.collectPictures(ws); err != nil {
			return nil, err
		}

		wb.sheets = append(wb.sheets, ws)
	}
	return wb, nil
}

// collectPictures registers each embedded picture and synthesises a
// top-left anchor for it from its cell and pixel offsets.
func (wb *Workbook) collectPictures(ws *worksheet) error {
	cells, err := wb.f.GetPictureCells(ws.name)
	if err != nil {
		// Sheets without a drawing part simply have no pictures.
		return nil
	}
	for _, cellRef := range cells {
		pics, err := wb.f.GetPictures(ws.name, cellRef)
		if err != nil {
			continue
		}
		pos, ok := sheet.ParseCellRef(cellRef)
		if !ok {
			continue
		}
		for _, pic := range pics {
			wb.images = append(wb.images, sheet.ImageData{Buffer: pic.File})
			anchors := &sheet.PictureAnchors{
				TL: &sheet.Anchor{Col: pos.Col - 1, Row: pos.Row - 1},
			}
			if pic.Format != nil {
				anchors.TL.ColOffEMU = int64(pic.Format.OffsetX) * emuPerPixel
				anchors.TL.RowOffEMU = int64(pic.Format.OffsetY) * emuPerPixel
				anchors.Ext = pictureExtent(pic)
			} else {
				anchors.Ext = pictureExtent(pic)
			}
			ws.pictures = append(ws.pictures, sheet.Picture{
				ImageID: len(wb.images),
				Anchors: anchors,
			})
		}
	}
	return nil
}

// pictureExtent derives the picture's display size from its intrinsic
// pixel dimensions and the declared scaling.
func pictureExtent(pic excelize.Picture) *sheet.Extent {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(pic.File))
	if err != nil {
		return nil
	}
	sx, sy := 1.0, 1.0
	if pic.Format != nil {
		if pic.Format.ScaleX > 0 {
			sx = pic.Format.ScaleX
		}
		if pic.Format.ScaleY > 0 {
			sy = pic.Format.ScaleY
		}
	}
	return &sheet.Extent{
		Width:  float64(cfg.Width) * sx,
		Height: float64(cfg.Height) * sy,
	}
}

// =============================================================================
// Worksheet
// =============================================================================

type worksheet struct {
	f  *excelize.File
	wb *Workbook

	name        string
	colCount    int
	rowCount    int
	colWidth    *float64
	rowHeight   float64
	merges      []string
	mergeRanges []sheet.Range
	pictures    []sheet.Picture

	styles map[int]*excelize.Style
}

var _ sheet.Worksheet = (*worksheet)(nil)

func (ws *worksheet) Name() string     { return ws.name }
func (ws *worksheet) ColumnCount() int { return ws.colCount }
func (ws *worksheet) RowCount() int    { return ws.rowCount }

func (ws *worksheet) DefaultColWidth() (float64, bool) {
	if ws.colWidth == nil {
		return 0, false
	}
	return *ws.colWidth, true
}

func (ws *worksheet) DefaultRowHeight() float64 { return ws.rowHeight }

func (ws *worksheet) Column(n int) sheet.ColumnInfo {
	info := sheet.ColumnInfo{Number: n}
	letters := sheet.ColumnLetters(n)
	if w, err := ws.f.GetColWidth(ws.name, letters); err == nil {
		info.Width = &w
	}
	if visible, err := ws.f.GetColVisible(ws.name, letters); err == nil {
		info.Hidden = !visible
	}
	return info
}

func (ws *worksheet) Rows() []sheet.Row {
	out := make([]sheet.Row, ws.rowCount)
	for i := range out {
		out[i] = &row{ws: ws, num: i + 1}
	}
	return out
}

func (ws *worksheet) Merges() []string          { return ws.merges }
func (ws *worksheet) Pictures() []sheet.Picture { return ws.pictures }

// style fetches a style definition, caching per worksheet since many cells
// share one style index.
func (ws *worksheet) style(styleID int) *excelize.Style {
	if s, ok := ws.styles[styleID]; ok {
		return s
	}
	s, err := ws.f.GetStyle(styleID)
	if err != nil {
		s = nil
	}
	ws.styles[styleID] = s
	return s
}

func (ws *worksheet) merged(pos sheet.CellPos) bool {
	for _, r := range ws.mergeRanges {
		if r.Contains(pos) {
			return true
		}
	}
	return false
}

// =============================================================================
// Row and Cell
// =============================================================================

type row struct {
	ws  *worksheet
	num int
}

var _ sheet.Row = (*row)(nil)

func (r *row) Number() int { return r.num }

func (r *row) Height() (float64, bool) {
	h, err := r.ws.f.GetRowHeight(r.ws.name, r.num)
	if err != nil {
		return 0, false
	}
	return h, true
}

func (r *row) Hidden() bool {
	visible, err := r.ws.f.GetRowVisible(r.ws.name, r.num)
	return err == nil && !visible
}

// Collapsed outline state folds into visibility: excelize reports cells in
// collapsed groups as not visible.
func (r *row) Collapsed() bool { return false }

func (r *row) Cell(col int) sheet.Cell {
	return &cell{ws: r.ws, pos: sheet.CellPos{Col: col, Row: r.num}}
}

type cell struct {
	ws  *worksheet
	pos sheet.CellPos
}

var _ sheet.Cell = (*cell)(nil)

func (c *cell) ref() string {
	return sheet.ColumnLetters(c.pos.Col) + strconv.Itoa(c.pos.Row)
}

func (c *cell) Text() string {
	v, err := c.ws.f.GetCellValue(c.ws.name, c.ref())
	if err != nil {
		return ""
	}
	return v
}

func (c *cell) IsMerged() bool {
	return c.ws.merged(c.pos)
}

func (c *cell) cellStyle() *excelize.Style {
	id, err := c.ws.f.GetCellStyle(c.ws.name, c.ref())
	if err != nil {
		return nil
	}
	return c.ws.style(id)
}

func (c *cell) Fill() *sheet.Fill {
	s := c.cellStyle()
	if s == nil || s.Fill.Type == "" {
		return nil
	}
	fill := &sheet.Fill{Type: s.Fill.Type}
	if len(s.Fill.Color) > 0 {
		fill.BgColorARGB = normalizeColor(s.Fill.Color[0])
	}
	return fill
}

func (c *cell) Border() sheet.Border {
	s := c.cellStyle()
	if s == nil {
		return sheet.Border{}
	}
	var b sheet.Border
	for _, side := range s.Border {
		style := borderStyleName(side.Style)
		if style == "" && side.Color == "" {
			continue
		}
		bs := &sheet.BorderSide{ColorARGB: normalizeColor(side.Color), Style: style}
		switch side.Type {
		case "left":
			b.Left = bs
		case "top":
			b.Top = bs
		case "right":
			b.Right = bs
		case "bottom":
			b.Bottom = bs
		}
	}
	return b
}

func (c *cell) Font() *sheet.FontSpec {
	s := c.cellStyle()
	if s == nil || s.Font == nil {
		return nil
	}
	return &sheet.FontSpec{
		Name:      s.Font.Family,
		Size:      s.Font.Size,
		Bold:      s.Font.Bold,
		Italic:    s.Font.Italic,
		ColorARGB: normalizeColor(s.Font.Color),
	}
}

func (c *cell) Alignment() *sheet.Alignment {
	s := c.cellStyle()
	if s == nil || s.Alignment == nil {
		return nil
	}
	return &sheet.Alignment{
		Horizontal:   horizontalName(s.Alignment.Horizontal),
		Vertical:     verticalName(s.Alignment.Vertical),
		WrapText:     s.Alignment.WrapText,
		ShrinkToFit:  s.Alignment.ShrinkToFit,
		Indent:       s.Alignment.Indent,
		TextRotation: s.Alignment.TextRotation,
	}
}

// =============================================================================
// Normalisation
// =============================================================================

// normalizeColor turns excelize color strings into ARGB hex without '#'.
// Six-digit colors gain an opaque alpha prefix.
func normalizeColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 6 {
		return "FF" + strings.ToUpper(c)
	}
	if len(c) == 8 {
		return strings.ToUpper(c)
	}
	return ""
}

// borderStyleNames maps excelize's numeric border styles to their names.
var borderStyleNames = map[int]string{
	1:  "thin",
	2:  "medium",
	3:  "dashed",
	4:  "dotted",
	5:  "thick",
	6:  "double",
	7:  "hair",
	8:  "mediumDashed",
	9:  "dashDot",
	10: "mediumDashDot",
	11: "dashDotDot",
	12: "mediumDashDotDot",
	13: "slantDashDot",
}

func borderStyleName(style int) string {
	return borderStyleNames[style]
}

// horizontalName maps spreadsheet horizontal alignment onto the canvas
// set; unmapped values pass through and fall back during lowering.
func horizontalName(h string) string {
	switch h {
	case "centerContinuous":
		return "center"
	default:
		return h
	}
}

// verticalName maps spreadsheet vertical alignment onto the canvas set.
func verticalName(v string) string {
	switch v {
	case "center":
		return "middle"
	case "justify", "distributed":
		return "top"
	default:
		return v
	}
}
