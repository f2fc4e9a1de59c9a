package media

import (
	"context"
	"errors"
	"image"
	"time"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindLive  Kind = "live"
)

// ErrNoTimeline is returned by Duration on sources without a timeline.
var ErrNoTimeline = errors.New("source has no timeline")

// ErrDurationUnknown is returned when a video's duration cannot be
// determined even after retrying.
var ErrDurationUnknown = errors.New("video duration unknown")

// Source is the uniform capability contract over the three media kinds.
// Frame returns the current visual sample (nil when none is available
// yet); Seek advances sources with a timeline and is a no-op otherwise.
// Close releases any device or process handle; a source must be closed
// before another one is adopted.
type Source interface {
	Kind() Kind
	Ready() bool
	HasTimeline() bool
	Duration(ctx context.Context) (time.Duration, error)
	Seek(ctx context.Context, offset time.Duration) error
	Frame() image.Image
	Close() error
}
