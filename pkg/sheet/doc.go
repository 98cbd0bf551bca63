// Package sheet defines the workbook object model read by the renderer.
//
// The renderer never parses spreadsheet bytes itself; it consumes a
// [Workbook] produced elsewhere (see the xlsx package for the excelize-backed
// implementation). The model is a capability set: the renderer only depends
// on the read operations declared here and never mutates the workbook.
//
// # Coordinates
//
// Cell positions are 1-based in both axes, matching the A1 reference
// notation. [ParseCellRef] and [ParseRangeRef] convert textual references
// into positions; ranges are normalised so Start is the top-left corner.
//
// # Units
//
// Column widths are in character units (the width of one character of the
// document's default font), row heights in points, and drawing-anchor
// offsets in EMUs. The render/units package converts all of these to pixels.
package sheet
