package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sheetshot/pkg/errors"
	"github.com/matzehuels/sheetshot/pkg/observability"
	"github.com/matzehuels/sheetshot/pkg/render/layout"
	"github.com/matzehuels/sheetshot/pkg/render/units"
	"github.com/matzehuels/sheetshot/pkg/sheet"
)

// pictureJob pairs a resolved placement with its payload.
type pictureJob struct {
	id   int
	rect units.Rect
	data sheet.ImageData

	decoded image.Image // filled by the decode pass; nil = skipped
}

// drawPictures composites the sheet's embedded images over the painted
// cells. Decoding runs concurrently; drawing happens afterwards in
// placement order so the output is deterministic. Undecodable or
// unplaceable pictures are skipped. The context cancels in-flight decodes
// when the caller abandons the draw.
func (r *Renderer) drawPictures(ctx context.Context, canvas Canvas, wb sheet.Workbook, ws sheet.Worksheet, l *layout.Layout, logger *log.Logger) error {
	var jobs []*pictureJob
	for _, p := range ws.Pictures() {
		rect, ok := l.PictureRect(p)
		if !ok {
			logger.Debug("skipping picture with unresolved placement", "image", p.ImageID)
			continue
		}
		data, ok := wb.Image(p.ImageID)
		if !ok {
			logger.Debug("skipping picture with missing payload", "image", p.ImageID)
			continue
		}
		jobs = append(jobs, &pictureJob{id: p.ImageID, rect: rect, data: data})
	}
	if len(jobs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, kind, err := decodeImage(job.data)
			size := len(job.data.Buffer) + len(job.data.Base64)
			observability.Render().OnImageDecode(gctx, job.id, kind, size, err)
			if err != nil {
				// Best-effort: a bad payload drops this picture only.
				logger.Debug("skipping undecodable picture", "image", job.id, "kind", kind, "err", err)
				return nil
			}
			job.decoded = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, job := range jobs {
		if job.decoded == nil {
			continue
		}
		canvas.DrawImage(job.decoded, job.rect)
	}
	return nil
}

// decodeImage turns an image payload into a bitmap. The returned kind is
// the sniffed format name, or "unknown".
func decodeImage(data sheet.ImageData) (image.Image, string, error) {
	raw := data.Buffer
	if len(raw) == 0 && data.Base64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(data.Base64)
		if err != nil {
			return nil, "unknown", err
		}
		raw = decoded
	}

	kind := sniffImageType(raw)
	if kind == "unknown" {
		return nil, kind, errors.New(errors.ErrCodeImageDecode, "unknown image type")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, kind, errors.Wrap(errors.ErrCodeImageDecode, err, "decode %s image", kind)
	}
	return img, kind, nil
}

// sniffImageType classifies image bytes by their magic numbers.
func sniffImageType(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "png"
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpeg"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "gif"
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return "bmp"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	default:
		return "unknown"
	}
}
