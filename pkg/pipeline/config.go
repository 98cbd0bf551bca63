package pipeline

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/render"
)

// LoadRenderOptions reads render options from a TOML file. Unset keys keep
// their defaults; unknown keys are rejected so typos surface immediately.
//
// Example file:
//
//	dpi = 144
//	background_color = "#F7F7F7"
//	text_fallback_font_name = "Helvetica"
//
//	[border_point_widths]
//	thin = 1.5
func LoadRenderOptions(path string) (render.Options, error) {
	var opts render.Options
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return render.Options{}, errors.Wrap(errors.ErrCodeInvalidOptions, err, "load options from %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return render.Options{}, errors.New(errors.ErrCodeInvalidOptions, "unknown option %q in %s", undecoded[0].String(), path)
	}
	return opts, nil
}
