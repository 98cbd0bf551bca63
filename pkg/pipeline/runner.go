package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/sheetshot/pkg/cache"
	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/observability"
	"github.com/matzehuels/sheetshot/pkg/render"
	"github.com/matzehuels/sheetshot/pkg/render/sink"
	"github.com/matzehuels/sheetshot/pkg/sheet"
	"github.com/matzehuels/sheetshot/pkg/xlsx"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifact is the encoded raster.
	Artifact []byte

	// SheetName is the worksheet that was drawn. On a cache hit nothing is
	// drawn and SheetName holds the selector instead: the requested name,
	// or the 1-based index as a string.
	SheetName string

	// Stats contains timing and size information. It is zero on a cache hit.
	Stats Stats

	// CacheHit reports whether the artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime   time.Duration
	RenderTime time.Duration
	EncodeTime time.Duration
	Width      int
	Height     int
}

// Runner executes the pipeline. It owns a renderer (and with it the shared
// measurement surface) and an artifact cache; one Runner serves many runs.
type Runner struct {
	renderer *render.Renderer
	cache    cache.Cache
	keyer    cache.Keyer
}

// NewRunner creates a pipeline runner. A nil cache disables caching.
func NewRunner(c cache.Cache) (*Runner, error) {
	r, err := render.New()
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{renderer: r, cache: c, keyer: cache.NewDefaultKeyer()}, nil
}

// Execute runs load → render → encode for one worksheet.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	loadStart := time.Now()
	data := opts.Bytes
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(opts.Input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Input)
		}
	}

	key := r.artifactKey(data, &opts)
	if !opts.Refresh {
		if cached, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			logger.Debug("artifact cache hit", "key", key)
			return &Result{Artifact: cached, SheetName: opts.sheetKey(), CacheHit: true}, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	wb, err := xlsx.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	loadTime := time.Since(loadStart)

	ws, ok := selectedSheet(wb, opts)
	if !ok {
		return nil, errors.New(errors.ErrCodeSheetNotFound, "no worksheet %q", opts.sheetKey())
	}

	renderStart := time.Now()
	img, err := r.renderer.Render(ctx, wb, opts.selector(), opts.Render)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New(errors.ErrCodeSheetNotFound, "worksheet %q has no drawable rows", ws.Name())
	}
	renderTime := time.Since(renderStart)

	encodeStart := time.Now()
	artifact, err := sink.Encode(img, opts.Format, opts.Scale)
	if err != nil {
		return nil, err
	}
	encodeTime := time.Since(encodeStart)

	if err := r.cache.Set(ctx, key, artifact, DefaultCacheTTL); err != nil {
		logger.Warn("artifact cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifact))
	}

	bounds := img.Bounds()
	logger.Debug("pipeline complete",
		"sheet", ws.Name(),
		"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"bytes", len(artifact))

	return &Result{
		Artifact:  artifact,
		SheetName: ws.Name(),
		Stats: Stats{
			LoadTime:   loadTime,
			RenderTime: renderTime,
			EncodeTime: encodeTime,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		},
	}, nil
}

// artifactKey derives the cache key for this run.
func (r *Runner) artifactKey(data []byte, opts *Options) string {
	return r.keyer.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{
		Sheet:       opts.sheetKey(),
		Format:      opts.Format,
		DPI:         opts.Render.DPI,
		Scale:       opts.Scale,
		OptionsHash: cache.Hash([]byte(opts.Render.Fingerprint())),
	})
}

// selectedSheet resolves the selector for error reporting before the draw.
func selectedSheet(wb *xlsx.Workbook, opts Options) (sheet.Worksheet, bool) {
	switch {
	case opts.Sheet != "":
		return wb.WorksheetByName(opts.Sheet)
	case opts.SheetIndex != 0:
		return wb.Worksheet(opts.SheetIndex)
	default:
		return wb.Worksheet(1)
	}
}
