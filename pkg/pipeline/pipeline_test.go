package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/sheetshot/pkg/cache"
	"github.com/matzehuels/sheetshot/pkg/errors"
)

// workbookBytes builds a small two-sheet workbook in memory.
func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "hello")
	f.SetCellValue("Sheet1", "B2", "world")
	f.NewSheet("Numbers")
	f.SetCellValue("Numbers", "A1", 12345)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r, err := NewRunner(c)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func TestOptionsValidation(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("missing input should fail")
	}

	o = Options{Bytes: []byte("x"), Format: "bmp"}
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("unsupported format should fail")
	}

	o = Options{Bytes: []byte("x"), Scale: -1}
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("negative scale should fail")
	}

	o = Options{Bytes: []byte("x")}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options: %v", err)
	}
	if o.Format != FormatPNG {
		t.Errorf("format default = %q", o.Format)
	}
	if o.Logger == nil {
		t.Error("logger default missing")
	}
}

func TestExecuteProducesPNG(t *testing.T) {
	runner := newTestRunner(t, nil)
	result, err := runner.Execute(context.Background(), Options{Bytes: workbookBytes(t)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.SheetName != "Sheet1" {
		t.Errorf("sheet = %q", result.SheetName)
	}
	img, err := png.Decode(bytes.NewReader(result.Artifact))
	if err != nil {
		t.Fatalf("artifact is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != result.Stats.Width || img.Bounds().Dy() != result.Stats.Height {
		t.Errorf("stats size %dx%d != artifact %v", result.Stats.Width, result.Stats.Height, img.Bounds())
	}
	if result.CacheHit {
		t.Error("first run should not hit the cache")
	}
}

func TestExecuteBySheetName(t *testing.T) {
	runner := newTestRunner(t, nil)
	result, err := runner.Execute(context.Background(), Options{
		Bytes: workbookBytes(t),
		Sheet: "Numbers",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.SheetName != "Numbers" {
		t.Errorf("sheet = %q", result.SheetName)
	}
}

func TestExecuteMissingSheet(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Execute(context.Background(), Options{
		Bytes: workbookBytes(t),
		Sheet: "Nope",
	})
	if !errors.Is(err, errors.ErrCodeSheetNotFound) {
		t.Errorf("err = %v, want SHEET_NOT_FOUND", err)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Execute(context.Background(), Options{Input: "/no/such/file.xlsx"})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := newTestRunner(t, fileCache)
	data := workbookBytes(t)

	first, err := runner.Execute(context.Background(), Options{Bytes: data})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := runner.Execute(context.Background(), Options{Bytes: data})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.Artifact, second.Artifact) {
		t.Error("cached artifact differs")
	}

	// Refresh bypasses the cache.
	third, err := runner.Execute(context.Background(), Options{Bytes: data, Refresh: true})
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	// Different options miss.
	scaled, err := runner.Execute(context.Background(), Options{Bytes: data, Scale: 0.5})
	if err != nil {
		t.Fatalf("scaled Execute: %v", err)
	}
	if scaled.CacheHit {
		t.Error("different scale should miss the cache")
	}
}

func TestExecuteWithScale(t *testing.T) {
	runner := newTestRunner(t, nil)
	base, err := runner.Execute(context.Background(), Options{Bytes: workbookBytes(t)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	scaled, err := runner.Execute(context.Background(), Options{Bytes: workbookBytes(t), Scale: 0.5})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	baseImg, _ := png.Decode(bytes.NewReader(base.Artifact))
	scaledImg, _ := png.Decode(bytes.NewReader(scaled.Artifact))
	if scaledImg.Bounds().Dx() >= baseImg.Bounds().Dx() {
		t.Errorf("scaled width %d should be below base %d", scaledImg.Bounds().Dx(), baseImg.Bounds().Dx())
	}
}

func TestLoadRenderOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.toml")
	content := `
dpi = 96
background_color = "#EEEEEE"
text_fallback_font_name = "Helvetica"

[border_point_widths]
thin = 2.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, err := LoadRenderOptions(path)
	if err != nil {
		t.Fatalf("LoadRenderOptions: %v", err)
	}
	if opts.DPI != 96 || opts.BackgroundColor != "#EEEEEE" || opts.TextFallbackFontName != "Helvetica" {
		t.Errorf("options = %+v", opts)
	}
	if opts.BorderPointWidths["thin"] != 2.0 {
		t.Errorf("border widths = %v", opts.BorderPointWidths)
	}
}

func TestLoadRenderOptionsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.toml")
	if err := os.WriteFile(path, []byte("no_such_option = 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadRenderOptions(path); err == nil {
		t.Error("unknown key should fail")
	}
}
