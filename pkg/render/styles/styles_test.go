package styles

import (
	"image/color"
	"testing"

	"github.com/matzehuels/sheetshot/pkg/sheet"
)

func TestARGBToRGBA(t *testing.T) {
	tests := []struct {
		argb string
		want color.RGBA
		ok   bool
	}{
		{"FF0080C0", color.RGBA{0x00, 0x80, 0xC0, 0xFF}, true},
		{"00FFFFFF", color.RGBA{0xFF, 0xFF, 0xFF, 0x00}, true},
		{"80102030", color.RGBA{0x10, 0x20, 0x30, 0x80}, true},
		{"", color.RGBA{}, false},
		{"FFF", color.RGBA{}, false},
		{"GG0080C0", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ARGBToRGBA(tt.argb)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ARGBToRGBA(%q) = %+v, %v; want %+v, %v", tt.argb, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHexRGBA(t *testing.T) {
	// The ARGB prefix becomes the trailing alpha in the lowered form.
	c, ok := ARGBToRGBA("FF0080C0")
	if !ok {
		t.Fatal("ARGBToRGBA failed")
	}
	if got := HexRGBA(c); got != "#0080C0FF" {
		t.Errorf("HexRGBA = %q, want %q", got, "#0080C0FF")
	}

	c, _ = ARGBToRGBA("00102030")
	if got := HexRGBA(c); got != "#10203000" {
		t.Errorf("zero alpha preserved: got %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"white", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"lightgray", color.RGBA{0xD3, 0xD3, 0xD3, 0xFF}, true},
		{"Black", color.RGBA{0x00, 0x00, 0x00, 0xFF}, true},
		{"#fff", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"#0080C0", color.RGBA{0x00, 0x80, 0xC0, 0xFF}, true},
		{"#0080C080", color.RGBA{0x00, 0x80, 0xC0, 0x80}, true},
		{"chartreuse4", color.RGBA{}, false},
		{"#12345", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFontString(t *testing.T) {
	tests := []struct {
		font Font
		want string
	}{
		{Font{Name: "Arial", Generic: "sans-serif", PixelSize: 20}, "20px Arial sans-serif"},
		{Font{Name: "Arial", PixelSize: 26.666666666666668}, "26.666666666666668px Arial"},
		{Font{Name: "Courier", Generic: "monospace", PixelSize: 16, Bold: true}, "bold 16px Courier monospace"},
		{Font{Name: "Times", Generic: "serif", PixelSize: 12, Bold: true, Italic: true}, "italic bold 12px Times serif"},
	}
	for _, tt := range tests {
		if got := tt.font.String(); got != tt.want {
			t.Errorf("Font.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGenericFamily(t *testing.T) {
	if GenericFamily(1) != "serif" || GenericFamily(2) != "sans-serif" || GenericFamily(3) != "monospace" {
		t.Error("families 1/2/3 should map to serif/sans-serif/monospace")
	}
	if GenericFamily(0) != "" || GenericFamily(9) != "" {
		t.Error("unknown families should map to empty string")
	}
}

func TestLowerBackground(t *testing.T) {
	bg := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}

	if got := LowerBackground(nil, bg); got != bg {
		t.Errorf("nil fill: got %+v", got)
	}
	if got := LowerBackground(&sheet.Fill{Type: "gradient"}, bg); got != bg {
		t.Errorf("non-pattern fill: got %+v", got)
	}
	if got := LowerBackground(&sheet.Fill{Type: "pattern"}, bg); got != bg {
		t.Errorf("pattern without color: got %+v", got)
	}
	got := LowerBackground(&sheet.Fill{Type: "pattern", BgColorARGB: "FF00FF00"}, bg)
	if got != (color.RGBA{0x00, 0xFF, 0x00, 0xFF}) {
		t.Errorf("pattern fill: got %+v", got)
	}
}

func testBorderParams() BorderParams {
	ppp := 192.0 / 72.0
	widths := make(map[string]float64)
	for style, w := range DefaultBorderPointWidths() {
		widths[style] = w * ppp
	}
	segments := make(map[string][]float64)
	for style, segs := range DefaultBorderPointSegments() {
		scaled := make([]float64, len(segs))
		for i, s := range segs {
			scaled[i] = s * ppp
		}
		segments[style] = scaled
	}
	return BorderParams{
		FallbackColor: color.RGBA{0xD3, 0xD3, 0xD3, 0xFF},
		FallbackStyle: BorderNone,
		PixelWidths:   widths,
		PixelSegments: segments,
	}
}

func TestLowerBorders(t *testing.T) {
	p := testBorderParams()
	b := sheet.Border{
		Left:   &sheet.BorderSide{ColorARGB: "FF000000", Style: BorderThin},
		Top:    &sheet.BorderSide{Style: BorderDashed},
		Bottom: &sheet.BorderSide{ColorARGB: "FFFF0000", Style: BorderThick},
	}
	got := LowerBorders(b, p)

	if got.Left.Width != 192.0/72.0 {
		t.Errorf("thin width = %v, want %v", got.Left.Width, 192.0/72.0)
	}
	if got.Left.Color != (color.RGBA{0, 0, 0, 0xFF}) {
		t.Errorf("left color = %+v", got.Left.Color)
	}
	if len(got.Left.Segments) != 0 {
		t.Errorf("thin should stroke solid, got %v", got.Left.Segments)
	}

	// Top has no color: fallback color, dashed segments scaled.
	if got.Top.Color != p.FallbackColor {
		t.Errorf("top color = %+v, want fallback", got.Top.Color)
	}
	wantSegs := []float64{4 * 192.0 / 72.0}
	if len(got.Top.Segments) != 1 || got.Top.Segments[0] != wantSegs[0] {
		t.Errorf("dashed segments = %v, want %v", got.Top.Segments, wantSegs)
	}

	// Right is undeclared: fallback style none, zero width.
	if got.Right.Style != BorderNone || got.Right.Width != 0 || len(got.Right.Segments) != 0 {
		t.Errorf("undeclared side should lower to none: %+v", got.Right)
	}

	if got.Bottom.Width != 3*192.0/72.0 {
		t.Errorf("thick width = %v", got.Bottom.Width)
	}
}

func testTextParams() TextParams {
	return TextParams{
		FallbackColor:    color.RGBA{0, 0, 0, 0xFF},
		FallbackFontName: "Arial",
		FallbackFontSize: 10,
		FallbackAlignment: Alignment{
			Horizontal:    "left",
			Vertical:      "bottom",
			TextDirection: "inherit",
		},
		LineHeightFactor: 1.2,
		PixelPerPoint:    192.0 / 72.0,
	}
}

func TestLowerTextDefaults(t *testing.T) {
	p := testTextParams()
	got := LowerText(nil, nil, p)

	if got.Font.Name != "Arial" {
		t.Errorf("font name = %q", got.Font.Name)
	}
	wantPx := 10 * p.PixelPerPoint
	if got.Font.PixelSize != wantPx {
		t.Errorf("pixel size = %v, want %v", got.Font.PixelSize, wantPx)
	}
	if got.LineHeight != wantPx*1.2 {
		t.Errorf("line height = %v, want %v", got.LineHeight, wantPx*1.2)
	}
	if got.Alignment.Horizontal != "left" || got.Alignment.Vertical != "bottom" {
		t.Errorf("alignment = %+v", got.Alignment)
	}
}

func TestLowerTextDeclared(t *testing.T) {
	p := testTextParams()
	font := &sheet.FontSpec{
		Name: "Courier New", Family: 3, Size: 12,
		Bold: true, Italic: true, ColorARGB: "FF112233",
	}
	align := &sheet.Alignment{
		Horizontal: "center", Vertical: "middle",
		WrapText: true, ShrinkToFit: true, Indent: 2, TextRotation: 45,
	}
	got := LowerText(font, align, p)

	if got.Font.Name != "Courier New" || !got.Font.Bold || !got.Font.Italic {
		t.Errorf("font = %+v", got.Font)
	}
	if got.Font.Generic != "monospace" {
		t.Errorf("generic = %q", got.Font.Generic)
	}
	if got.Color != (color.RGBA{0x11, 0x22, 0x33, 0xFF}) {
		t.Errorf("color = %+v", got.Color)
	}
	a := got.Alignment
	if a.Horizontal != "center" || a.Vertical != "middle" || !a.WrapText || !a.ShrinkToFit {
		t.Errorf("alignment = %+v", a)
	}
	if a.Indent != 2 || a.TextRotation != 45 {
		t.Errorf("passthrough fields = %+v", a)
	}
}

func TestLowerTextInvalidAlignment(t *testing.T) {
	p := testTextParams()
	align := &sheet.Alignment{Horizontal: "justify", Vertical: "distributed"}
	got := LowerText(nil, align, p)
	if got.Alignment.Horizontal != "left" || got.Alignment.Vertical != "bottom" {
		t.Errorf("unrecognised alignment should fall back: %+v", got.Alignment)
	}
}
