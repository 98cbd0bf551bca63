// Package fonts resolves lowered font selections to drawable faces.
//
// Resolution is best-effort: a font named by the workbook is looked up on
// the host system first (via findfont's fuzzy matching); when that fails,
// or the file cannot be parsed, the embedded Go font family stands in so a
// draw never aborts over a missing font. Faces are cached per resolver for
// the lifetime of the renderer.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/render/styles"
)

// Resolver loads and caches font faces. It is safe for concurrent use.
type Resolver struct {
	mu       sync.Mutex
	embedded map[embeddedKey]*truetype.Font
	system   map[string]*truetype.Font // keyed by family name; nil = lookup failed
	faces    map[string]font.Face      // keyed by styles.Font.String()
}

type embeddedKey struct {
	mono   bool
	bold   bool
	italic bool
}

// NewResolver parses the embedded fallback fonts. Failure here is fatal for
// the renderer: without a fallback face no text can be measured or drawn.
func NewResolver() (*Resolver, error) {
	sources := map[embeddedKey][]byte{
		{false, false, false}: goregular.TTF,
		{false, true, false}:  gobold.TTF,
		{false, false, true}:  goitalic.TTF,
		{false, true, true}:   gobolditalic.TTF,
		{true, false, false}:  gomono.TTF,
		{true, true, false}:   gomonobold.TTF,
		{true, false, true}:   gomonoitalic.TTF,
		{true, true, true}:    gomonobolditalic.TTF,
	}
	embedded := make(map[embeddedKey]*truetype.Font, len(sources))
	for key, data := range sources {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "parse embedded font")
		}
		embedded[key] = f
	}
	return &Resolver{
		embedded: embedded,
		system:   make(map[string]*truetype.Font),
		faces:    make(map[string]font.Face),
	}, nil
}

// Face returns a drawable face for the lowered font. The face size is the
// font's pixel size; faces are hinted for raster output.
func (r *Resolver) Face(f styles.Font) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := f.String()
	if face, ok := r.faces[key]; ok {
		return face
	}

	face := truetype.NewFace(r.lookupLocked(f), &truetype.Options{
		// Size is interpreted at the given DPI; at 72 DPI points equal pixels.
		Size:    f.PixelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[key] = face
	return face
}

// lookupLocked picks the best available truetype font for f.
func (r *Resolver) lookupLocked(f styles.Font) *truetype.Font {
	if f.Name != "" {
		ft, seen := r.system[f.Name]
		if !seen {
			ft = loadSystemFont(f.Name)
			r.system[f.Name] = ft
		}
		if ft != nil {
			return ft
		}
	}
	return r.embedded[embeddedKey{
		mono:   f.Generic == "monospace",
		bold:   f.Bold,
		italic: f.Italic,
	}]
}

// loadSystemFont locates and parses a system font by family name.
// Returns nil when the font is missing or unparseable.
func loadSystemFont(name string) *truetype.Font {
	path, err := findfont.Find(name + ".ttf")
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	ft, err := truetype.Parse(data)
	if err != nil {
		return nil
	}
	return ft
}
