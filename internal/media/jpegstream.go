package media

import (
	"bufio"
	"fmt"
	"io"
)

// maxFrameSize caps a single MJPEG frame read from the pipe.
const maxFrameSize = 10 * 1024 * 1024

// jpegScanner splits a stream of concatenated JPEG images, as produced
// by ffmpeg's image2pipe muxer, into individual frames.
type jpegScanner struct {
	r *bufio.Reader
}

func newJPEGScanner(r io.Reader) *jpegScanner {
	return &jpegScanner{r: bufio.NewReaderSize(r, 512*1024)}
}

// Next returns the next complete JPEG frame. io.EOF signals a normal
// end of the stream.
func (s *jpegScanner) Next() ([]byte, error) {
	if err := s.findStart(); err != nil {
		return nil, err
	}
	return s.readToEnd()
}

// findStart scans forward to the SOI marker (FF D8).
func (s *jpegScanner) findStart() error {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		if b != 0xFF {
			continue
		}
		b, err = s.r.ReadByte()
		if err != nil {
			return err
		}
		if b == 0xD8 {
			return nil
		}
	}
}

// readToEnd reads until the EOI marker (FF D9) and returns the frame
// including both markers.
func (s *jpegScanner) readToEnd() ([]byte, error) {
	data := []byte{0xFF, 0xD8}

	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, err
		}
		data = append(data, b)

		if b == 0xFF {
			next, err := s.r.ReadByte()
			if err != nil {
				return nil, err
			}
			data = append(data, next)
			if next == 0xD9 {
				return data, nil
			}
		}

		if len(data) > maxFrameSize {
			return nil, fmt.Errorf("jpeg frame exceeds %d bytes", maxFrameSize)
		}
	}
}
