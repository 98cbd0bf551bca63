// Package render paints a pixel-accurate facsimile of one worksheet onto a
// 2D raster surface.
//
// # Overview
//
// A draw takes a workbook (see the sheet package), a sheet selector, and
// Options, and paints background, borders, text and embedded images the way
// a spreadsheet application lays them out: column widths in character
// units, row heights in points, merged regions painted once at their
// bounding rectangle, and anchor-positioned pictures.
//
//	renderer, err := render.New()
//	if err != nil {
//	    return err // fonts unavailable: the renderer cannot run
//	}
//	img, err := renderer.Render(ctx, workbook, render.SelectByName("Data"), render.Options{})
//
// # Paint order
//
// Cells paint in two phases: merged ranges in declaration order, then the
// remaining cells row by row. Within each phase, empty cells paint first,
// then cells whose value fits their width, then overflowing cells, so long
// values spill over blank neighbours the way a spreadsheet displays them.
// Overflow is deliberately not clipped against non-empty neighbours.
//
// Images composite after all cells: decodes run concurrently, draws are
// sequential, and the draw returns only after every picture settles.
//
// # Errors
//
// The renderer favours a partial, best-effort raster over aborting.
// Malformed references, unresolved anchors, unknown image formats and
// unreadable cell values are skipped silently; only invalid options and a
// cancelled context surface as errors.
//
// Key subpackages:
//   - [units]: character-unit/point/EMU/pixel conversions
//   - [layout]: visible bands, merge index, cell and anchor rectangles
//   - [styles]: lowering workbook styling to canvas primitives
//   - [text]: the shared measurement surface and line breaking
//   - [sink]: raster encoding to PNG/JPEG with presentation scaling
//
// [units]: github.com/matzehuels/sheetshot/pkg/render/units
// [layout]: github.com/matzehuels/sheetshot/pkg/render/layout
// [styles]: github.com/matzehuels/sheetshot/pkg/render/styles
// [text]: github.com/matzehuels/sheetshot/pkg/render/text
// [sink]: github.com/matzehuels/sheetshot/pkg/render/sink
package render
