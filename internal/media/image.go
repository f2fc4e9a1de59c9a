package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
)

// ImageSource wraps a single decoded still image. It has no timeline;
// Seek is a no-op and the source is ready as soon as decoding succeeds.
type ImageSource struct {
	img image.Image
}

func NewImageSource(path string) (*ImageSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return NewImageSourceFromBytes(data)
}

func NewImageSourceFromBytes(data []byte) (*ImageSource, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &ImageSource{img: img}, nil
}

func (s *ImageSource) Kind() Kind        { return KindImage }
func (s *ImageSource) Ready() bool       { return s.img != nil }
func (s *ImageSource) HasTimeline() bool { return false }

func (s *ImageSource) Duration(ctx context.Context) (time.Duration, error) {
	return 0, ErrNoTimeline
}

func (s *ImageSource) Seek(ctx context.Context, offset time.Duration) error {
	return nil
}

func (s *ImageSource) Frame() image.Image { return s.img }

func (s *ImageSource) Close() error { return nil }
