package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSeekTimeoutKeepsPreviousFrame(t *testing.T) {
	src := NewVideoSource("clip.mp4", 20*time.Millisecond, 320)
	src.grab = func(ctx context.Context, url string, offset time.Duration, width int) ([]byte, error) {
		return encodeTestJPEG(t, 50), nil
	}
	if err := src.Seek(context.Background(), 0); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	previous := src.Frame()
	if previous == nil {
		t.Fatal("Frame() = nil after a successful seek")
	}

	// The extraction hangs past the seek timeout.
	src.grab = func(ctx context.Context, url string, offset time.Duration, width int) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := src.Seek(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("timed-out seek should be best-effort success, got %v", err)
	}
	if src.Frame() != previous {
		t.Error("timed-out seek must keep the previous frame")
	}
}

func TestSeekFailurePropagates(t *testing.T) {
	src := NewVideoSource("clip.mp4", time.Second, 320)
	src.grab = func(ctx context.Context, url string, offset time.Duration, width int) ([]byte, error) {
		return nil, errors.New("no frame at offset")
	}
	if err := src.Seek(context.Background(), 0); err == nil {
		t.Error("a non-timeout extraction failure should surface")
	}
	if src.Frame() != nil {
		t.Error("failed seek must not install a frame")
	}
}

func TestSeekRejectsUndecodableFrame(t *testing.T) {
	src := NewVideoSource("clip.mp4", time.Second, 320)
	src.grab = func(ctx context.Context, url string, offset time.Duration, width int) ([]byte, error) {
		return []byte("not a jpeg"), nil
	}
	if err := src.Seek(context.Background(), 0); err == nil {
		t.Error("expected a decode error")
	}
}
