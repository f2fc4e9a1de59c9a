package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// ErrNotReady is returned when the visual handle has no pixels yet
// (not decoded, or no frame has arrived).
var ErrNotReady = errors.New("visual handle has zero dimensions")

// Surface renders visual handles onto a reusable off-screen buffer and
// encodes them as JPEG. The buffer is resized to the target dimensions
// on every call, so callers must not assume a stable size between
// captures. Not safe for concurrent use; capture calls never overlap
// in the scan loop.
type Surface struct {
	maxWidth int
	quality  int
	buf      *image.RGBA
}

func NewSurface(maxWidth, quality int) *Surface {
	return &Surface{maxWidth: maxWidth, quality: quality}
}

// Capture renders img onto the surface, downscaling to the configured
// max width, and returns the compressed frame. A nil or zero-dimension
// handle fails; the caller treats that as a skipped sample.
func (s *Surface) Capture(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrNotReady
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, ErrNotReady
	}

	targetW, targetH := w, h
	if w > s.maxWidth {
		targetW = s.maxWidth
		targetH = h * s.maxWidth / w
		if targetH == 0 {
			targetH = 1
		}
	}

	if s.buf == nil || s.buf.Bounds().Dx() != targetW || s.buf.Bounds().Dy() != targetH {
		s.buf = image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	}
	draw.CatmullRom.Scale(s.buf, s.buf.Bounds(), img, bounds, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, s.buf, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return out.Bytes(), nil
}
