package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetshot/pkg/pipeline"
	"github.com/matzehuels/sheetshot/pkg/render"
	"github.com/matzehuels/sheetshot/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path; derived from the input if empty
	sheet      string  // worksheet name
	sheetIndex int     // 1-based worksheet index
	format     string  // output format: "png" or "jpeg"
	dpi        float64 // raster density
	scale      float64 // presentation scale applied at encode time
	background string  // canvas background color
	config     string  // TOML file with render options
	noCache    bool    // disable the artifact cache
	refresh    bool    // bypass cache reads, overwrite the entry
}

// renderCommand creates the render command for turning a worksheet into an
// image.
//
// Default settings:
//   - sheet: the workbook's first worksheet
//   - format: png (derived from the output extension when given)
//   - dpi: 192
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.xlsx]",
		Short: "Render a worksheet to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension)")
	cmd.Flags().StringVarP(&opts.sheet, "sheet", "s", "", "worksheet name (default: first sheet)")
	cmd.Flags().IntVar(&opts.sheetIndex, "sheet-index", 0, "1-based worksheet index")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png (default), jpeg")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "raster density (default 192)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "presentation scale for the encoded output")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color (name or hex)")
	cmd.Flags().StringVar(&opts.config, "config", "", "TOML file with render options")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runRender executes the render pipeline and writes the artifact.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)

	renderOptions := render.Options{}
	if opts.config != "" {
		loaded, err := pipeline.LoadRenderOptions(opts.config)
		if err != nil {
			return err
		}
		renderOptions = loaded
		logger.Debugf("Loaded render options from %s", opts.config)
	}
	if opts.dpi != 0 {
		renderOptions.DPI = opts.dpi
	}
	if opts.background != "" {
		renderOptions.BackgroundColor = opts.background
	}

	format := opts.format
	if format == "" {
		format = formatFromPath(opts.output)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := startSpinner(ctx, fmt.Sprintf("Rendering %s", filepath.Base(input)))
	result, err := runner.Execute(ctx, pipeline.Options{
		Input:      input,
		Sheet:      opts.sheet,
		SheetIndex: opts.sheetIndex,
		Format:     format,
		Scale:      opts.scale,
		Render:     renderOptions,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", result.SheetName))

	outputPath := opts.output
	if outputPath == "" {
		outputPath = outputPathFor(input, format)
	}
	if err := writeArtifact(outputPath, result.Artifact); err != nil {
		return err
	}

	printSuccess("Generated %s", outputPath)
	printStats(result.Stats.Width, result.Stats.Height, len(result.Artifact), result.CacheHit)
	return nil
}

// writeArtifact writes the encoded raster; "-" streams to stdout.
func writeArtifact(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// formatFromPath derives the output format from a path's extension,
// defaulting to PNG.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpeg", ".jpg":
		return sink.FormatJPEG
	default:
		return sink.FormatPNG
	}
}

// outputPathFor replaces the input's extension with the format extension.
func outputPathFor(input, format string) string {
	ext := "." + format
	if format == sink.FormatJPEG {
		ext = ".jpg"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
