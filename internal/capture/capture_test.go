package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 210, A: 255})
		}
	}
	return img
}

func TestCaptureNilHandle(t *testing.T) {
	s := NewSurface(800, 85)
	if _, err := s.Capture(nil); err != ErrNotReady {
		t.Errorf("Capture(nil) error = %v, want ErrNotReady", err)
	}
}

func TestCaptureZeroDimensions(t *testing.T) {
	s := NewSurface(800, 85)
	if _, err := s.Capture(image.NewRGBA(image.Rect(0, 0, 0, 0))); err != ErrNotReady {
		t.Errorf("Capture(0x0) error = %v, want ErrNotReady", err)
	}
}

func TestCaptureDownscalesWideFrames(t *testing.T) {
	s := NewSurface(400, 85)
	data, err := s.Capture(solidImage(1600, 900))
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode captured frame: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != 400 {
		t.Errorf("width = %d, want 400", b.Dx())
	}
	if b.Dy() != 225 {
		t.Errorf("height = %d, want 225 (aspect preserved)", b.Dy())
	}
}

func TestCaptureKeepsSmallFrames(t *testing.T) {
	s := NewSurface(800, 85)
	data, err := s.Capture(solidImage(320, 240))
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode captured frame: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("dimensions = %dx%d, want 320x240", b.Dx(), b.Dy())
	}
}

func TestSurfaceReuseAcrossSizes(t *testing.T) {
	s := NewSurface(400, 85)

	sizes := [][2]int{{1600, 900}, {320, 240}, {800, 800}, {1600, 900}}
	for _, sz := range sizes {
		data, err := s.Capture(solidImage(sz[0], sz[1]))
		if err != nil {
			t.Fatalf("Capture(%dx%d) error = %v", sz[0], sz[1], err)
		}
		if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
			t.Fatalf("decode %dx%d capture: %v", sz[0], sz[1], err)
		}
	}
}
