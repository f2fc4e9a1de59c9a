package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"
)

func encodeTestJPEG(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestJPEGScannerSplitsConcatenatedFrames(t *testing.T) {
	var stream bytes.Buffer
	frames := [][]byte{
		encodeTestJPEG(t, 0),
		encodeTestJPEG(t, 128),
		encodeTestJPEG(t, 255),
	}
	for _, f := range frames {
		stream.Write(f)
	}

	s := newJPEGScanner(&stream)
	for i := range frames {
		frame, err := s.Next()
		if err != nil {
			t.Fatalf("Next() frame %d: %v", i, err)
		}
		if _, err := jpeg.Decode(bytes.NewReader(frame)); err != nil {
			t.Errorf("frame %d does not decode: %v", i, err)
		}
	}

	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() after last frame = %v, want io.EOF", err)
	}
}

func TestJPEGScannerSkipsLeadingGarbage(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0x00, 0x13, 0x37, 0xFF, 0x00})
	stream.Write(encodeTestJPEG(t, 64))

	s := newJPEGScanner(&stream)
	frame, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(frame)); err != nil {
		t.Errorf("frame does not decode: %v", err)
	}
}

func TestJPEGScannerTruncatedFrame(t *testing.T) {
	full := encodeTestJPEG(t, 90)
	s := newJPEGScanner(bytes.NewReader(full[:len(full)-4]))

	if _, err := s.Next(); err == nil {
		t.Error("expected an error for a truncated frame")
	}
}
