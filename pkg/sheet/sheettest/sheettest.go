// Package sheettest provides in-memory sheet model implementations for
// tests. Fields mirror the model interfaces one-to-one so fixtures read
// like literals.
package sheettest

import "github.com/matzehuels/sheetshot/pkg/sheet"

// Workbook is a literal-friendly sheet.Workbook.
type Workbook struct {
	Sheets []*Worksheet
	Images map[int]sheet.ImageData
}

var _ sheet.Workbook = (*Workbook)(nil)

func (w *Workbook) Worksheets() []sheet.Worksheet {
	out := make([]sheet.Worksheet, len(w.Sheets))
	for i, s := range w.Sheets {
		out[i] = s
	}
	return out
}

func (w *Workbook) Worksheet(index int) (sheet.Worksheet, bool) {
	if index < 1 || index > len(w.Sheets) {
		return nil, false
	}
	return w.Sheets[index-1], true
}

func (w *Workbook) WorksheetByName(name string) (sheet.Worksheet, bool) {
	for _, s := range w.Sheets {
		if s.SheetName == name {
			return s, true
		}
	}
	return nil, false
}

func (w *Workbook) Image(id int) (sheet.ImageData, bool) {
	data, ok := w.Images[id]
	return data, ok
}

// Worksheet is a literal-friendly sheet.Worksheet.
type Worksheet struct {
	SheetName    string
	Cols         int
	RowsData     []*Row
	ColInfo      map[int]sheet.ColumnInfo
	DefColWidth  *float64
	DefRowHeight float64
	MergeRefs    []string
	PicturesData []sheet.Picture
}

var _ sheet.Worksheet = (*Worksheet)(nil)

func (s *Worksheet) Name() string     { return s.SheetName }
func (s *Worksheet) ColumnCount() int { return s.Cols }
func (s *Worksheet) RowCount() int    { return len(s.RowsData) }

func (s *Worksheet) DefaultColWidth() (float64, bool) {
	if s.DefColWidth == nil {
		return 0, false
	}
	return *s.DefColWidth, true
}

func (s *Worksheet) DefaultRowHeight() float64 { return s.DefRowHeight }

func (s *Worksheet) Column(n int) sheet.ColumnInfo {
	if info, ok := s.ColInfo[n]; ok {
		return info
	}
	return sheet.ColumnInfo{Number: n}
}

func (s *Worksheet) Rows() []sheet.Row {
	out := make([]sheet.Row, len(s.RowsData))
	for i, r := range s.RowsData {
		out[i] = r
	}
	return out
}

func (s *Worksheet) Merges() []string          { return s.MergeRefs }
func (s *Worksheet) Pictures() []sheet.Picture { return s.PicturesData }

// Row is a literal-friendly sheet.Row.
type Row struct {
	Num       int
	RowHeight *float64
	IsHidden  bool
	Collapse  bool
	Cells     map[int]*Cell
}

var _ sheet.Row = (*Row)(nil)

func (r *Row) Number() int { return r.Num }

func (r *Row) Height() (float64, bool) {
	if r.RowHeight == nil {
		return 0, false
	}
	return *r.RowHeight, true
}

func (r *Row) Hidden() bool    { return r.IsHidden }
func (r *Row) Collapsed() bool { return r.Collapse }

func (r *Row) Cell(col int) sheet.Cell {
	if c, ok := r.Cells[col]; ok {
		return c
	}
	return &Cell{}
}

// Cell is a literal-friendly sheet.Cell.
type Cell struct {
	Value    string
	Merged   bool
	CellFill *sheet.Fill
	Borders  sheet.Border
	FontSpec *sheet.FontSpec
	Align    *sheet.Alignment
}

var _ sheet.Cell = (*Cell)(nil)

func (c *Cell) Text() string                { return c.Value }
func (c *Cell) IsMerged() bool              { return c.Merged }
func (c *Cell) Fill() *sheet.Fill           { return c.CellFill }
func (c *Cell) Border() sheet.Border        { return c.Borders }
func (c *Cell) Font() *sheet.FontSpec       { return c.FontSpec }
func (c *Cell) Alignment() *sheet.Alignment { return c.Align }

// Float returns a pointer to v, for optional width/height fields.
func Float(v float64) *float64 { return &v }

// Grid builds a uniform rows-by-cols worksheet with the given column width
// (character units) and row height (points).
func Grid(rows, cols int, colWidth, rowHeight float64) *Worksheet {
	ws := &Worksheet{
		SheetName:    "Sheet1",
		Cols:         cols,
		ColInfo:      map[int]sheet.ColumnInfo{},
		DefRowHeight: rowHeight,
	}
	for c := 1; c <= cols; c++ {
		ws.ColInfo[c] = sheet.ColumnInfo{Number: c, Width: Float(colWidth)}
	}
	for r := 1; r <= rows; r++ {
		ws.RowsData = append(ws.RowsData, &Row{Num: r, Cells: map[int]*Cell{}})
	}
	return ws
}
