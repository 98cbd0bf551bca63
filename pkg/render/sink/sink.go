// Package sink encodes rendered rasters into output formats.
//
// The raster is drawn at the configured DPI; an optional presentation
// scale resizes the encoded output without re-rendering, mirroring how a
// display surface is given a presentation size separate from its pixel
// buffer.
package sink

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/sheetshot/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// jpegQuality balances fidelity against size for sheet captures.
const jpegQuality = 90

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid format: %q (must be 'png' or 'jpeg')", format)
	}
	return nil
}

// Encode serialises img in the given format. A positive scale other than 1
// resizes the output to (width*scale, height*scale) with Lanczos
// resampling; zero leaves the raster at its drawn size.
func Encode(img image.Image, format string, scale float64) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	if scale > 0 && scale != 1 {
		bounds := img.Bounds()
		w := int(math.Round(float64(bounds.Dx()) * scale))
		h := int(math.Round(float64(bounds.Dy()) * scale))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncode, err, "encode png")
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncode, err, "encode jpeg")
		}
	}
	return buf.Bytes(), nil
}
