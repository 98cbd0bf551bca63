// Package text measures and wraps cell values for drawing.
//
// A single Measurer is shared for the lifetime of the renderer, the same
// way a browser renderer keeps one offscreen measurement context. It is
// guarded by the font resolver's own locking and is safe to share across
// draws.
package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/sheetshot/pkg/fonts"
	"github.com/matzehuels/sheetshot/pkg/render/styles"
)

// Measurer measures text widths against resolved font faces.
type Measurer struct {
	fonts *fonts.Resolver
}

// NewMeasurer builds the shared measurement surface. An error here is
// fatal: the renderer cannot run without measurable fonts.
func NewMeasurer() (*Measurer, error) {
	resolver, err := fonts.NewResolver()
	if err != nil {
		return nil, err
	}
	return &Measurer{fonts: resolver}, nil
}

// TextWidth returns the advance width of s in pixels under f.
func (m *Measurer) TextWidth(f styles.Font, s string) float64 {
	return fixedToFloat(font.MeasureString(m.Face(f), s))
}

// Face resolves f to a drawable face, sharing the measurement cache.
func (m *Measurer) Face(f styles.Font) font.Face {
	return m.fonts.Face(f)
}

// Ascent returns the ascent of f in pixels, used to convert a top edge to
// a text baseline.
func (m *Measurer) Ascent(f styles.Font) float64 {
	return fixedToFloat(m.Face(f).Metrics().Ascent)
}

// Descent returns the descent of f in pixels.
func (m *Measurer) Descent(f styles.Font) float64 {
	return fixedToFloat(m.Face(f).Metrics().Descent)
}

// Lines breaks value into drawable lines under f, wrapping at width when
// wrap is set. See [Break] for the breaking rules.
func (m *Measurer) Lines(f styles.Font, value string, width float64, wrap bool) []string {
	return Break(func(s string) float64 { return m.TextWidth(f, s) }, value, width, wrap)
}

// fixedToFloat converts a 26.6 fixed-point value to pixels, keeping the
// sub-pixel precision rather than rounding.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
