package sheet

// Workbook is the read-only capability set the renderer needs from a parsed
// spreadsheet. Implementations must be safe for sequential reads during a
// draw; the renderer never writes.
type Workbook interface {
	// Worksheets returns all worksheets in workbook order.
	Worksheets() []Worksheet

	// Worksheet returns the worksheet at the 1-based index.
	Worksheet(index int) (Worksheet, bool)

	// WorksheetByName returns the worksheet with the given name.
	WorksheetByName(name string) (Worksheet, bool)

	// Image returns the image payload registered under the numeric id.
	Image(id int) (ImageData, bool)
}

// Worksheet exposes one sheet's dimensions, bands, merges and pictures.
type Worksheet interface {
	Name() string
	ColumnCount() int
	RowCount() int

	// DefaultColWidth returns the sheet default column width in character
	// units. ok is false when the sheet declares none.
	DefaultColWidth() (width float64, ok bool)

	// DefaultRowHeight returns the sheet default row height in points.
	DefaultRowHeight() float64

	// Column returns declared properties for the 1-based column number.
	Column(n int) ColumnInfo

	// Rows returns rows 1..RowCount in order. An empty result means the
	// sheet has no data and the draw is a no-op.
	Rows() []Row

	// Merges returns the sheet's merged ranges as textual range references
	// ("A1:B2"), in declaration order.
	Merges() []string

	// Pictures returns the sheet's embedded images with their placements.
	Pictures() []Picture
}

// Row is one row band plus access to its cells.
type Row interface {
	Number() int

	// Height returns the declared row height in points; ok is false when
	// the row inherits the sheet default.
	Height() (height float64, ok bool)

	Hidden() bool
	Collapsed() bool

	// Cell returns the cell at the 1-based column number.
	Cell(col int) Cell
}

// Cell is a single cell's displayable content and styling.
type Cell interface {
	// Text returns the cell's display text. Implementations swallow value
	// errors and return the empty string.
	Text() string

	IsMerged() bool

	// Fill returns the cell fill, or nil when unstyled.
	Fill() *Fill

	Border() Border

	// Font returns the cell font, or nil when unstyled.
	Font() *FontSpec

	// Alignment returns the cell alignment, or nil when unstyled.
	Alignment() *Alignment
}

// ColumnInfo carries a column's declared band properties.
type ColumnInfo struct {
	Number    int
	Width     *float64 // character units; nil = sheet default
	Hidden    bool
	Collapsed bool
}

// Fill is a cell background fill. Only pattern fills carry a color the
// renderer uses; other types fall back to the canvas background.
type Fill struct {
	Type        string // "pattern" or other
	BgColorARGB string // ARGB hex without '#', empty if undeclared
}

// BorderSide is one directional border edge.
type BorderSide struct {
	ColorARGB string // ARGB hex without '#', empty if undeclared
	Style     string // border style name, empty if undeclared
}

// Border groups the four directional edges. Nil sides are unstyled.
type Border struct {
	Left   *BorderSide
	Top    *BorderSide
	Right  *BorderSide
	Bottom *BorderSide
}

// FontSpec is a cell's declared font.
type FontSpec struct {
	Name      string
	Family    int // 1=serif, 2=sans-serif, 3=monospace, 0=unspecified
	Size      float64
	Bold      bool
	Italic    bool
	ColorARGB string
}

// Alignment is a cell's declared text alignment.
type Alignment struct {
	Horizontal    string
	Vertical      string
	WrapText      bool
	ShrinkToFit   bool
	Indent        int
	TextDirection string
	TextRotation  int
}

// Picture places an embedded image on a worksheet. Exactly one of Ref and
// Anchors is meaningful: a textual range reference, or explicit anchors.
type Picture struct {
	ImageID int
	Ref     string
	Anchors *PictureAnchors
}

// PictureAnchors positions a picture by cell anchors and/or an extent.
type PictureAnchors struct {
	TL  *Anchor // top-left anchor, nil if absent
	BR  *Anchor // bottom-right anchor, nil if absent
	Ext *Extent // declared size, nil if absent
}

// Anchor references a cell corner plus an EMU offset inside that cell.
// Col and Row are 0-based, as stored in the drawing source.
type Anchor struct {
	Col       int
	Row       int
	ColOffEMU int64
	RowOffEMU int64
}

// Extent is a picture's declared size, in pixels at 96 DPI.
type Extent struct {
	Width  float64
	Height float64
}

// ImageData is a tagged image payload: raw bytes or a base64 string.
// Buffer wins when both are set.
type ImageData struct {
	Buffer []byte
	Base64 string
}
