package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	durationProbeAttempts = 3
	durationProbeWait     = 500 * time.Millisecond
)

// VideoSource is a seekable video file or URL. Frames are extracted one
// at a time with ffmpeg; the duration is probed with ffprobe and may be
// unknown right after the file lands, so the probe retries before
// giving up.
type VideoSource struct {
	url         string
	seekTimeout time.Duration
	width       int

	// grab extracts one frame; swapped out in tests.
	grab func(ctx context.Context, url string, offset time.Duration, width int) ([]byte, error)

	mu       sync.Mutex
	frame    image.Image
	duration time.Duration
}

func NewVideoSource(url string, seekTimeout time.Duration, width int) *VideoSource {
	return &VideoSource{
		url:         url,
		seekTimeout: seekTimeout,
		width:       width,
		grab:        grabFrame,
	}
}

func (s *VideoSource) Kind() Kind        { return KindVideo }
func (s *VideoSource) Ready() bool       { return s.url != "" }
func (s *VideoSource) HasTimeline() bool { return true }

// Duration returns the video's total duration, probing with ffprobe.
// An initially unknown duration is retried after a short wait.
func (s *VideoSource) Duration(ctx context.Context) (time.Duration, error) {
	s.mu.Lock()
	if s.duration > 0 {
		d := s.duration
		s.mu.Unlock()
		return d, nil
	}
	s.mu.Unlock()

	for attempt := 1; attempt <= durationProbeAttempts; attempt++ {
		d, err := probeDuration(ctx, s.url)
		if err == nil {
			s.mu.Lock()
			s.duration = d
			s.mu.Unlock()
			return d, nil
		}
		if attempt < durationProbeAttempts {
			slog.Warn("duration probe failed, retrying", "url", s.url, "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(durationProbeWait):
			}
		}
	}
	return 0, ErrDurationUnknown
}

// Seek extracts the frame at the given offset and makes it the current
// visual sample. A timed-out extraction is treated as best-effort
// success: the previous frame is kept so the run does not stall.
func (s *VideoSource) Seek(ctx context.Context, offset time.Duration) error {
	grabCtx, cancel := context.WithTimeout(ctx, s.seekTimeout)
	defer cancel()

	data, err := s.grab(grabCtx, s.url, offset, s.width)
	if err != nil {
		if errors.Is(grabCtx.Err(), context.DeadlineExceeded) {
			slog.Warn("seek timed out, keeping previous frame", "offset", offset)
			return nil
		}
		return fmt.Errorf("seek to %s: %w", offset, err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode frame at %s: %w", offset, err)
	}

	s.mu.Lock()
	s.frame = img
	s.mu.Unlock()
	return nil
}

func (s *VideoSource) Frame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *VideoSource) Close() error { return nil }

// probeDuration asks ffprobe for the container duration in seconds.
func probeDuration(ctx context.Context, url string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		url,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	raw := strings.TrimSpace(string(output))
	if raw == "" || raw == "N/A" {
		return 0, ErrDurationUnknown
	}

	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// grabFrame extracts a single JPEG frame at the given offset.
func grabFrame(ctx context.Context, url string, offset time.Duration, width int) ([]byte, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", offset.Seconds()),
		"-i", url,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-1", width),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "5",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("no frame at offset %s", offset)
	}
	return stdout.Bytes(), nil
}
