package render

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/render/styles"
	"github.com/matzehuels/sheetshot/pkg/render/units"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCharacterUnit is the width of one column character unit in
	// points, measured against the document reference font.
	DefaultCharacterUnit = 5.85

	// DefaultDPI is the raster density.
	DefaultDPI = 192.0

	// DefaultTextFontSize is the fallback font size in points.
	DefaultTextFontSize = 10.0

	// DefaultTextLineHeight is the line height multiplier.
	DefaultTextLineHeight = 1.2

	// DefaultFallbackColWidth is the column width in character units when
	// neither the column nor the sheet declares one.
	DefaultFallbackColWidth = 13.0

	// DefaultCellPointPadding is the cell text inset in points.
	DefaultCellPointPadding = 2.0
)

const (
	// DefaultBorderFallbackColor colors undeclared border sides.
	DefaultBorderFallbackColor = "lightgray"

	// DefaultBorderFallbackStyle styles undeclared border sides.
	DefaultBorderFallbackStyle = styles.BorderNone

	// DefaultTextFallbackColor colors undeclared cell text.
	DefaultTextFallbackColor = "black"

	// DefaultTextFontName is the fallback font family.
	DefaultTextFontName = "Arial"

	// DefaultBackgroundColor fills the raster and unfilled cells.
	DefaultBackgroundColor = "white"
)

// =============================================================================
// Options
// =============================================================================

// Options configures a draw. The zero value is valid: ValidateAndSetDefaults
// fills every unset field. Options can be loaded from TOML for CLI use.
type Options struct {
	// Scale
	CharacterUnit float64 `toml:"character_unit"`
	DPI           float64 `toml:"dpi"`

	// Borders
	BorderFallbackColor string               `toml:"border_fallback_color"`
	BorderFallbackStyle string               `toml:"border_fallback_style"`
	BorderPointWidths   map[string]float64   `toml:"border_point_widths"`
	BorderPointSegments map[string][]float64 `toml:"border_point_segments"`

	// Text
	TextFallbackColor         string  `toml:"text_fallback_color"`
	TextFallbackFontName      string  `toml:"text_fallback_font_name"`
	TextFallbackFontSize      float64 `toml:"text_fallback_font_size"`
	TextFallbackHorizontal    string  `toml:"text_fallback_horizontal"`
	TextFallbackVertical      string  `toml:"text_fallback_vertical"`
	TextFallbackWrapText      bool    `toml:"text_fallback_wrap_text"`
	TextFallbackShrinkToFit   bool    `toml:"text_fallback_shrink_to_fit"`
	TextFallbackIndent        int     `toml:"text_fallback_indent"`
	TextFallbackTextDirection string  `toml:"text_fallback_text_direction"`
	TextFallbackTextRotation  int     `toml:"text_fallback_text_rotation"`
	TextLineHeight            float64 `toml:"text_line_height"`

	// Canvas
	BackgroundColor  string  `toml:"background_color"`
	FallbackColWidth float64 `toml:"fallback_col_width"`
	CellPointPadding float64 `toml:"cell_point_padding"`

	// Logger receives draw progress; defaults to a discarding logger.
	Logger *log.Logger `toml:"-"`

	validated bool
}

// validBorderStyles is the set of accepted border style names.
var validBorderStyles = map[string]bool{
	styles.BorderNone:             true,
	styles.BorderHair:             true,
	styles.BorderThin:             true,
	styles.BorderDouble:           true,
	styles.BorderDotted:           true,
	styles.BorderDashed:           true,
	styles.BorderDashDot:          true,
	styles.BorderDashDotDot:       true,
	styles.BorderMedium:           true,
	styles.BorderMediumDashDot:    true,
	styles.BorderMediumDashDotDot: true,
	styles.BorderMediumDashed:     true,
	styles.BorderSlantDashDot:     true,
	styles.BorderThick:            true,
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.CharacterUnit == 0 {
		o.CharacterUnit = DefaultCharacterUnit
	}
	if o.CharacterUnit < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "character_unit must be positive")
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "dpi must be positive")
	}

	if o.BorderFallbackColor == "" {
		o.BorderFallbackColor = DefaultBorderFallbackColor
	}
	if o.BorderFallbackStyle == "" {
		o.BorderFallbackStyle = DefaultBorderFallbackStyle
	}
	if !validBorderStyles[o.BorderFallbackStyle] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid border_fallback_style: %q", o.BorderFallbackStyle)
	}
	if o.BorderPointWidths == nil {
		o.BorderPointWidths = styles.DefaultBorderPointWidths()
	}
	if o.BorderPointSegments == nil {
		o.BorderPointSegments = styles.DefaultBorderPointSegments()
	}

	if o.TextFallbackColor == "" {
		o.TextFallbackColor = DefaultTextFallbackColor
	}
	if o.TextFallbackFontName == "" {
		o.TextFallbackFontName = DefaultTextFontName
	}
	if o.TextFallbackFontSize == 0 {
		o.TextFallbackFontSize = DefaultTextFontSize
	}
	if o.TextFallbackHorizontal == "" {
		o.TextFallbackHorizontal = "left"
	}
	if o.TextFallbackVertical == "" {
		o.TextFallbackVertical = "bottom"
	}
	if o.TextFallbackTextDirection == "" {
		o.TextFallbackTextDirection = "inherit"
	}
	if o.TextLineHeight == 0 {
		o.TextLineHeight = DefaultTextLineHeight
	}

	if o.BackgroundColor == "" {
		o.BackgroundColor = DefaultBackgroundColor
	}
	if o.FallbackColWidth == 0 {
		o.FallbackColWidth = DefaultFallbackColWidth
	}
	if o.CellPointPadding == 0 {
		o.CellPointPadding = DefaultCellPointPadding
	}

	for _, pair := range []struct{ name, value string }{
		{"border_fallback_color", o.BorderFallbackColor},
		{"text_fallback_color", o.TextFallbackColor},
		{"background_color", o.BackgroundColor},
	} {
		if _, ok := styles.ParseColor(pair.value); !ok {
			return errors.New(errors.ErrCodeInvalidOptions, "invalid %s: %q", pair.name, pair.value)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Fingerprint returns a deterministic string over every value field, used
// to key artifact caches. The logger is excluded.
func (o *Options) Fingerprint() string {
	return fmt.Sprintf("cu=%g dpi=%g bfc=%s bfs=%s bpw=%v bps=%v tfc=%s tfn=%s tfs=%g tfh=%s tfv=%s tfw=%t tfsf=%t tfi=%d tfd=%s tfr=%d tlh=%g bg=%s fcw=%g cpp=%g",
		o.CharacterUnit, o.DPI,
		o.BorderFallbackColor, o.BorderFallbackStyle, sortedWidths(o.BorderPointWidths), sortedSegments(o.BorderPointSegments),
		o.TextFallbackColor, o.TextFallbackFontName, o.TextFallbackFontSize,
		o.TextFallbackHorizontal, o.TextFallbackVertical, o.TextFallbackWrapText,
		o.TextFallbackShrinkToFit, o.TextFallbackIndent, o.TextFallbackTextDirection,
		o.TextFallbackTextRotation, o.TextLineHeight,
		o.BackgroundColor, o.FallbackColWidth, o.CellPointPadding)
}

// sortedWidths renders a width map in stable key order.
func sortedWidths(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s:%g", k, m[k])
	}
	return out
}

// sortedSegments renders a segment map in stable key order.
func sortedSegments(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s:%v", k, m[k])
	}
	return out
}

// =============================================================================
// Resolved Parameters
// =============================================================================

// drawParams are the options lowered to pixel values, computed once per
// draw so per-cell work never rescales.
type drawParams struct {
	scale       units.Scale
	background  color.RGBA
	border      styles.BorderParams
	text        styles.TextParams
	cellPadding float64 // pixels
}

// resolveParams lowers validated options into pre-scaled parameters.
func resolveParams(o *Options) drawParams {
	scale := units.NewScale(o.CharacterUnit, o.DPI)

	background, _ := styles.ParseColor(o.BackgroundColor)
	borderColor, _ := styles.ParseColor(o.BorderFallbackColor)
	textColor, _ := styles.ParseColor(o.TextFallbackColor)

	widths := make(map[string]float64, len(o.BorderPointWidths))
	for style, w := range o.BorderPointWidths {
		widths[style] = scale.PointsToPixels(w)
	}
	segments := make(map[string][]float64, len(o.BorderPointSegments))
	for style, segs := range o.BorderPointSegments {
		scaled := make([]float64, len(segs))
		for i, s := range segs {
			scaled[i] = scale.PointsToPixels(s)
		}
		segments[style] = scaled
	}

	return drawParams{
		scale:      scale,
		background: background,
		border: styles.BorderParams{
			FallbackColor: borderColor,
			FallbackStyle: o.BorderFallbackStyle,
			PixelWidths:   widths,
			PixelSegments: segments,
		},
		text: styles.TextParams{
			FallbackColor:    textColor,
			FallbackFontName: o.TextFallbackFontName,
			FallbackFontSize: o.TextFallbackFontSize,
			FallbackAlignment: styles.Alignment{
				Horizontal:    o.TextFallbackHorizontal,
				Vertical:      o.TextFallbackVertical,
				WrapText:      o.TextFallbackWrapText,
				ShrinkToFit:   o.TextFallbackShrinkToFit,
				Indent:        o.TextFallbackIndent,
				TextDirection: o.TextFallbackTextDirection,
				TextRotation:  o.TextFallbackTextRotation,
			},
			LineHeightFactor: o.TextLineHeight,
			PixelPerPoint:    scale.PixelPerPoint,
		},
		cellPadding: scale.PointsToPixels(o.CellPointPadding),
	}
}
