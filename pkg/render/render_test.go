package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/matzehuels/sheetshot/pkg/render/units"
	"github.com/matzehuels/sheetshot/pkg/sheet"
	"github.com/matzehuels/sheetshot/pkg/sheet/sheettest"
)

// recordingCanvas captures draw operations for assertions.
type recordingCanvas struct {
	width, height float64
	fills         []fillOp
	strokes       []strokeOp
	texts         []TextLine
	images        []imageOp
}

type fillOp struct {
	rect  units.Rect
	color color.RGBA
}

type strokeOp struct {
	x1, y1, x2, y2 float64
	width          float64
	color          color.RGBA
	dash           []float64
}

type imageOp struct {
	img  image.Image
	rect units.Rect
}

func (c *recordingCanvas) SetSize(w, h float64) { c.width, c.height = w, h }

func (c *recordingCanvas) FillRect(r units.Rect, col color.RGBA) {
	c.fills = append(c.fills, fillOp{rect: r, color: col})
}

func (c *recordingCanvas) StrokeLine(x1, y1, x2, y2, width float64, col color.RGBA, dash []float64) {
	c.strokes = append(c.strokes, strokeOp{x1, y1, x2, y2, width, col, dash})
}

func (c *recordingCanvas) DrawText(line TextLine) { c.texts = append(c.texts, line) }

func (c *recordingCanvas) DrawImage(img image.Image, r units.Rect) {
	c.images = append(c.images, imageOp{img: img, rect: r})
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func renderOnto(t *testing.T, ws *sheettest.Worksheet, opts Options) (*Renderer, *recordingCanvas) {
	t.Helper()
	r := newTestRenderer(t)
	canvas := &recordingCanvas{}
	wb := &sheettest.Workbook{Sheets: []*sheettest.Worksheet{ws}}
	drew, err := r.RenderTo(context.Background(), canvas, wb, SheetSelector{}, opts)
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if !drew {
		t.Fatal("RenderTo drew nothing")
	}
	return r, canvas
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRenderBlankSheet(t *testing.T) {
	// One 10-char-unit column, one 15-point row, defaults: 156x40 raster,
	// white background, no borders, no text.
	_, canvas := renderOnto(t, sheettest.Grid(1, 1, 10, 15), Options{})

	if !almostEqual(canvas.width, 156) || !almostEqual(canvas.height, 40) {
		t.Errorf("canvas size = (%v, %v), want (156, 40)", canvas.width, canvas.height)
	}

	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	if len(canvas.fills) < 2 {
		t.Fatalf("fills = %d, want background + cell", len(canvas.fills))
	}
	bg := canvas.fills[0]
	if bg.color != white || !almostEqual(bg.rect.Width, 156) || !almostEqual(bg.rect.Height, 40) {
		t.Errorf("background fill = %+v", bg)
	}
	if len(canvas.strokes) != 0 {
		t.Errorf("strokes = %d, want 0", len(canvas.strokes))
	}
	if len(canvas.texts) != 0 {
		t.Errorf("texts = %d, want 0", len(canvas.texts))
	}
}

func TestRenderSingleValueTextPosition(t *testing.T) {
	ws := sheettest.Grid(1, 1, 10, 15)
	ws.RowsData[0].Cells[1] = &sheettest.Cell{Value: "Hi"}

	_, canvas := renderOnto(t, ws, Options{})

	if len(canvas.texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(canvas.texts))
	}
	line := canvas.texts[0]
	ppp := 192.0 / 72.0
	// Default left/bottom alignment with 2pt padding: x at the padded
	// left edge, baseline at the padded bottom edge.
	if !almostEqual(line.X, 2*ppp) {
		t.Errorf("x = %v, want %v", line.X, 2*ppp)
	}
	if !almostEqual(line.Y, 40-2*ppp) {
		t.Errorf("y = %v, want %v", line.Y, 40-2*ppp)
	}
	if line.HAlign != "left" || line.VAlign != "bottom" {
		t.Errorf("alignment = %s/%s", line.HAlign, line.VAlign)
	}
	if line.Value != "Hi" {
		t.Errorf("value = %q", line.Value)
	}
}

func TestRenderMergedPaintsOnce(t *testing.T) {
	// Merged A1:B2 on a 3x3 grid paints once at the combined rect; the
	// five cells outside the merge paint individually.
	ws := sheettest.Grid(3, 3, 10, 15)
	ws.MergeRefs = []string{"A1:B2"}

	_, canvas := renderOnto(t, ws, Options{})

	colWidth := 156.0
	rowHeight := 40.0

	// fills[0] is the canvas background; fills[1] is the merged cell
	// (merged phase paints before the row phase).
	if len(canvas.fills) != 1+1+5 {
		t.Fatalf("fills = %d, want 7", len(canvas.fills))
	}
	mergedRect := canvas.fills[1].rect
	want := units.Rect{X: 0, Y: 0, Width: 2 * colWidth, Height: 2 * rowHeight}
	if mergedRect != want {
		t.Errorf("merged rect = %+v, want %+v", mergedRect, want)
	}
}

func TestRenderHiddenColumn(t *testing.T) {
	ws := sheettest.Grid(1, 3, 10, 15)
	info := ws.ColInfo[2]
	info.Hidden = true
	ws.ColInfo[2] = info

	_, canvas := renderOnto(t, ws, Options{})
	if !almostEqual(canvas.width, 2*156) {
		t.Errorf("width = %v, want two columns", canvas.width)
	}
}

func TestRenderOverflowOrder(t *testing.T) {
	// A1 holds a value far wider than its cell; B1 is empty; A2 is short.
	// Paint order: empty cells, fitting cells, overflowing cells.
	ws := sheettest.Grid(2, 2, 10, 15)
	ws.RowsData[0].Cells[1] = &sheettest.Cell{Value: "an extremely long value that cannot fit one narrow column"}
	ws.RowsData[1].Cells[1] = &sheettest.Cell{Value: "hi"}

	_, canvas := renderOnto(t, ws, Options{})

	if len(canvas.fills) != 5 { // background + 4 cells
		t.Fatalf("fills = %d, want 5", len(canvas.fills))
	}
	// Cell fills after the background: two empty cells (B1, B2), then the
	// fitting A2, then the overflowing A1.
	rects := canvas.fills[1:]
	if !almostEqual(rects[2].rect.X, 0) || !almostEqual(rects[2].rect.Y, 40) {
		t.Errorf("third cell fill should be A2, got %+v", rects[2].rect)
	}
	if !almostEqual(rects[3].rect.X, 0) || !almostEqual(rects[3].rect.Y, 0) {
		t.Errorf("last cell fill should be the overflowing A1, got %+v", rects[3].rect)
	}
}

func TestRenderBorders(t *testing.T) {
	ws := sheettest.Grid(1, 1, 10, 15)
	ws.RowsData[0].Cells[1] = &sheettest.Cell{Borders: sheet.Border{
		Left:   &sheet.BorderSide{ColorARGB: "FF000000", Style: "thin"},
		Bottom: &sheet.BorderSide{ColorARGB: "FF000000", Style: "dashed"},
	}}

	_, canvas := renderOnto(t, ws, Options{})

	if len(canvas.strokes) != 2 {
		t.Fatalf("strokes = %d, want 2", len(canvas.strokes))
	}
	ppp := 192.0 / 72.0

	left := canvas.strokes[0]
	if !almostEqual(left.x1, 0) || !almostEqual(left.x2, 0) || !almostEqual(left.y2, 40) {
		t.Errorf("left stroke = %+v", left)
	}
	if !almostEqual(left.width, ppp) || len(left.dash) != 0 {
		t.Errorf("thin stroke: width %v dash %v", left.width, left.dash)
	}

	bottom := canvas.strokes[1]
	if !almostEqual(bottom.y1, 40) || !almostEqual(bottom.y2, 40) {
		t.Errorf("bottom stroke = %+v", bottom)
	}
	if len(bottom.dash) != 1 || !almostEqual(bottom.dash[0], 4*ppp) {
		t.Errorf("dashed segments = %v", bottom.dash)
	}
}

func TestRenderMultilineText(t *testing.T) {
	// An unwrapped value paints one line per embedded newline-separated
	// part.
	ws := sheettest.Grid(1, 1, 10, 15)
	ws.RowsData[0].Cells[1] = &sheettest.Cell{
		Value: "one\ntwo\nthree",
		Align: &sheet.Alignment{Horizontal: "left", Vertical: "top"},
	}

	_, canvas := renderOnto(t, ws, Options{})
	if len(canvas.texts) != 3 {
		t.Fatalf("lines = %d, want 3", len(canvas.texts))
	}
	// Lines advance by the line height.
	lh := canvas.texts[1].Y - canvas.texts[0].Y
	if !almostEqual(lh, 10*192.0/72.0*1.2) {
		t.Errorf("line advance = %v", lh)
	}
}

func TestRenderShrinkToFitPassesMaxWidth(t *testing.T) {
	ws := sheettest.Grid(1, 1, 10, 15)
	ws.RowsData[0].Cells[1] = &sheettest.Cell{
		Value: "squeeze this long value",
		Align: &sheet.Alignment{ShrinkToFit: true},
	}

	_, canvas := renderOnto(t, ws, Options{})
	if len(canvas.texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(canvas.texts))
	}
	ppp := 192.0 / 72.0
	if !almostEqual(canvas.texts[0].MaxWidth, 156-2*2*ppp) {
		t.Errorf("maxWidth = %v", canvas.texts[0].MaxWidth)
	}
}

func TestRenderEmptySheetIsNoop(t *testing.T) {
	r := newTestRenderer(t)
	canvas := &recordingCanvas{}
	wb := &sheettest.Workbook{Sheets: []*sheettest.Worksheet{{SheetName: "Empty", Cols: 2, DefRowHeight: 15}}}

	drew, err := r.RenderTo(context.Background(), canvas, wb, SheetSelector{}, Options{})
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if drew || len(canvas.fills) != 0 {
		t.Error("empty sheet should be a no-op")
	}
}

func TestRenderMissingSheetIsNoop(t *testing.T) {
	r := newTestRenderer(t)
	canvas := &recordingCanvas{}
	wb := &sheettest.Workbook{Sheets: []*sheettest.Worksheet{sheettest.Grid(1, 1, 10, 15)}}

	drew, err := r.RenderTo(context.Background(), canvas, wb, SelectByName("Nope"), Options{})
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if drew {
		t.Error("missing sheet should be a no-op")
	}
}

func TestRenderInvalidOptions(t *testing.T) {
	r := newTestRenderer(t)
	wb := &sheettest.Workbook{Sheets: []*sheettest.Worksheet{sheettest.Grid(1, 1, 10, 15)}}

	_, err := r.RenderTo(context.Background(), &recordingCanvas{}, wb, SheetSelector{}, Options{BackgroundColor: "no-such-color"})
	if err == nil {
		t.Error("invalid background color should fail")
	}
}

func base64PNG(t *testing.T) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(pngBytes(t, 2, 2))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRenderPictures(t *testing.T) {
	ws := sheettest.Grid(3, 3, 10, 15)
	ws.PicturesData = []sheet.Picture{
		// tl anchored at (1,1) native with a 96x96 extent: drawn at the
		// top-left of cell (2,2) sized 192x192.
		{ImageID: 7, Anchors: &sheet.PictureAnchors{
			TL:  &sheet.Anchor{Col: 1, Row: 1},
			Ext: &sheet.Extent{Width: 96, Height: 96},
		}},
		// Unknown payload: skipped.
		{ImageID: 8, Anchors: &sheet.PictureAnchors{TL: &sheet.Anchor{Col: 0, Row: 0}}},
		// Missing payload: skipped.
		{ImageID: 9, Ref: "A1"},
	}

	r := newTestRenderer(t)
	canvas := &recordingCanvas{}
	wb := &sheettest.Workbook{
		Sheets: []*sheettest.Worksheet{ws},
		Images: map[int]sheet.ImageData{
			7: {Buffer: pngBytes(t, 4, 4)},
			8: {Buffer: []byte("not an image")},
		},
	}

	drew, err := r.RenderTo(context.Background(), canvas, wb, SheetSelector{}, Options{})
	if err != nil || !drew {
		t.Fatalf("RenderTo: drew=%v err=%v", drew, err)
	}

	if len(canvas.images) != 1 {
		t.Fatalf("images drawn = %d, want 1", len(canvas.images))
	}
	got := canvas.images[0].rect
	want := units.Rect{X: 156, Y: 40, Width: 192, Height: 192}
	if got != want {
		t.Errorf("image rect = %+v, want %+v", got, want)
	}
}

func TestRenderPictureFromBase64(t *testing.T) {
	ws := sheettest.Grid(1, 1, 10, 15)
	ws.PicturesData = []sheet.Picture{{ImageID: 1, Ref: "A1"}}

	r := newTestRenderer(t)
	canvas := &recordingCanvas{}
	wb := &sheettest.Workbook{
		Sheets: []*sheettest.Worksheet{ws},
		Images: map[int]sheet.ImageData{1: {Base64: base64PNG(t)}},
	}

	drew, err := r.RenderTo(context.Background(), canvas, wb, SheetSelector{}, Options{})
	if err != nil || !drew {
		t.Fatalf("RenderTo: drew=%v err=%v", drew, err)
	}
	if len(canvas.images) != 1 {
		t.Errorf("images drawn = %d, want 1", len(canvas.images))
	}
}

func TestRenderProducesImage(t *testing.T) {
	// End to end through the gg canvas.
	ws := sheettest.Grid(2, 2, 10, 15)
	ws.RowsData[0].Cells[1] = &sheettest.Cell{
		Value:    "Hello",
		CellFill: &sheet.Fill{Type: "pattern", BgColorARGB: "FFFFCC00"},
	}
	wb := &sheettest.Workbook{Sheets: []*sheettest.Worksheet{ws}}

	r := newTestRenderer(t)
	img, err := r.Render(context.Background(), wb, SheetSelector{}, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img == nil {
		t.Fatal("Render returned nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() != 312 || bounds.Dy() != 80 {
		t.Errorf("image size = %dx%d, want 312x80", bounds.Dx(), bounds.Dy())
	}
	// A point in the filled cell clear of the text carries the declared
	// fill.
	c := color.RGBAModel.Convert(img.At(120, 8)).(color.RGBA)
	if c.R != 0xFF || c.G != 0xCC || c.B != 0x00 {
		t.Errorf("cell pixel = %+v, want the pattern fill", c)
	}
}
