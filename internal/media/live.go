package media

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// LiveSource is a continuous stream (RTSP, HTTP, device) with no end.
// A background ffmpeg process extracts MJPEG frames into a latest-frame
// slot; the source becomes ready once the first frame arrives. Close
// terminates the process, releasing the device/stream handle.
type LiveSource struct {
	url string
	fps int

	mu     sync.Mutex
	latest []byte
	cancel context.CancelFunc
	cmd    *exec.Cmd
	err    error
}

func NewLiveSource(url string, fps int) *LiveSource {
	if fps <= 0 {
		fps = 5
	}
	return &LiveSource{url: url, fps: fps}
}

func (s *LiveSource) Kind() Kind        { return KindLive }
func (s *LiveSource) HasTimeline() bool { return false }

func (s *LiveSource) Duration(ctx context.Context) (time.Duration, error) {
	return 0, ErrNoTimeline
}

func (s *LiveSource) Seek(ctx context.Context, offset time.Duration) error {
	return nil
}

// Ready reports whether at least one frame has arrived.
func (s *LiveSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest != nil
}

// Start launches the background extraction. It returns once the
// process is running; frames arrive asynchronously.
func (s *LiveSource) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	args := []string{
		"-hide_banner",
		"-loglevel", "warning",
	}

	if strings.HasPrefix(s.url, "rtsp://") || strings.HasPrefix(s.url, "rtsps://") {
		args = append(args,
			"-rtsp_transport", "tcp",
			"-stimeout", "5000000",
			"-timeout", "5000000",
		)
	} else if strings.HasPrefix(s.url, "http://") || strings.HasPrefix(s.url, "https://") {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
			"-timeout", "10000000",
		)
	}

	args = append(args,
		"-i", s.url,
		"-vf", fmt.Sprintf("fps=%d", s.fps),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "5",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.cmd = cmd
	s.mu.Unlock()

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			slog.Warn("ffmpeg stderr", "output", scanner.Text())
		}
	}()

	go s.readFrames(ctx, stdout)

	return nil
}

// WaitReady blocks until the first frame arrives or the context ends.
func (s *LiveSource) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Ready() {
			return nil
		}
		s.mu.Lock()
		err := s.err
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("stream failed before first frame: %w", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("stream not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *LiveSource) readFrames(ctx context.Context, r io.Reader) {
	scanner := newJPEGScanner(r)
	for {
		if ctx.Err() != nil {
			return
		}
		frame, err := scanner.Next()
		if err != nil {
			if err != io.EOF && ctx.Err() == nil {
				slog.Warn("live frame read", "error", err)
			}
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
		s.mu.Lock()
		s.latest = frame
		s.mu.Unlock()
	}
}

// Frame decodes and returns the most recent frame, or nil if none has
// arrived yet.
func (s *LiveSource) Frame() image.Image {
	s.mu.Lock()
	data := s.latest
	s.mu.Unlock()

	if data == nil {
		return nil
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Warn("decode live frame", "error", err)
		return nil
	}
	return img
}

// Close terminates the ffmpeg process and releases the stream handle.
func (s *LiveSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return nil
}
