// Package pipeline provides the load → render → encode pipeline for
// sheetshot.
//
// This package implements the complete workbook-to-artifact flow used by
// the CLI and by library consumers. By centralizing this logic, every
// entry point gets the same caching, logging and option handling.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: open the workbook bytes through the xlsx adapter
//  2. Render: draw the selected worksheet onto a raster
//  3. Encode: serialise the raster (PNG/JPEG), applying the presentation
//     scale
//
// Rendered artifacts are cached by workbook content hash and resolved
// options, so re-rendering an unchanged sheet is a cache read.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(cache.NewNullCache())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "report.xlsx",
//	    Sheet:  "Q3",
//	    Format: pipeline.FormatPNG,
//	})
//	os.WriteFile("report.png", result.Artifact, 0644)
package pipeline

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/render"
	"github.com/matzehuels/sheetshot/pkg/render/sink"
)

// Format constants for output formats.
const (
	FormatPNG  = sink.FormatPNG
	FormatJPEG = sink.FormatJPEG
)

// DefaultCacheTTL bounds how long rendered artifacts stay reusable.
const DefaultCacheTTL = 0 // no expiration; keyed by content hash

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input is the workbook path. Bytes wins when both are set.
	Input string
	Bytes []byte

	// Sheet selects the worksheet by name; SheetIndex by 1-based index.
	// Both unset selects the first worksheet.
	Sheet      string
	SheetIndex int

	// Format is the output encoding (png, jpeg). Defaults to png.
	Format string

	// Scale is the optional presentation scale applied at encode time.
	Scale float64

	// Render carries the draw options.
	Render render.Options

	// Refresh bypasses the artifact cache.
	Refresh bool

	// Logger receives pipeline progress; defaults to a discarding logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && len(o.Bytes) == 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "input path or bytes required")
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if err := sink.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "scale must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Render.Logger = o.Logger
	if err := o.Render.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// selector returns the render selector for these options.
func (o *Options) selector() render.SheetSelector {
	if o.Sheet != "" {
		return render.SelectByName(o.Sheet)
	}
	if o.SheetIndex != 0 {
		return render.SelectByIndex(o.SheetIndex)
	}
	return render.SheetSelector{}
}

// sheetKey is the cache-key form of the selector.
func (o *Options) sheetKey() string {
	if o.Sheet != "" {
		return o.Sheet
	}
	if o.SheetIndex != 0 {
		return strconv.Itoa(o.SheetIndex)
	}
	return "1"
}
