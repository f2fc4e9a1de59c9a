package scan

import (
	"context"
	"log/slog"

	"github.com/your-org/lookout/internal/models"
)

// EventSink receives every observable change of a run: status
// transitions, progress ticks, log entries and the accepted result.
// Events are published in sample order from the single scan goroutine.
type EventSink interface {
	Publish(ctx context.Context, evt models.ScanEvent)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ctx context.Context, evt models.ScanEvent)

func (f SinkFunc) Publish(ctx context.Context, evt models.ScanEvent) { f(ctx, evt) }

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Publish(context.Context, models.ScanEvent) {}

// LogSink mirrors run log entries and status changes to slog. Used by
// the CLI where no event bus is wired.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, evt models.ScanEvent) {
	switch evt.Type {
	case models.ScanEventLog:
		slog.Info("scan", "run_id", evt.RunID, "entry", evt.Message)
	case models.ScanEventStatus:
		slog.Info("scan status", "run_id", evt.RunID, "status", evt.Status)
	case models.ScanEventResult:
		slog.Info("scan result", "run_id", evt.RunID,
			"person", evt.PersonName, "confidence", evt.Confidence)
	}
}
