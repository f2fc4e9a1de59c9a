package models

import (
	"time"

	"github.com/google/uuid"
)

type ScanEventType string

const (
	ScanEventStatus   ScanEventType = "status"
	ScanEventProgress ScanEventType = "progress"
	ScanEventLog      ScanEventType = "log"
	ScanEventResult   ScanEventType = "result"
)

// ScanEvent is the message published to NATS for each observable change
// in a scan run: status transitions, progress ticks, log entries and the
// final accepted result.
type ScanEvent struct {
	RunID      uuid.UUID     `json:"run_id"`
	Type       ScanEventType `json:"type"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     string        `json:"status,omitempty"`
	Progress   int           `json:"progress,omitempty"`
	Indefinite bool          `json:"indefinite,omitempty"`
	Message    string        `json:"message,omitempty"`

	// Result fields, set only for ScanEventResult.
	PersonID    *uuid.UUID `json:"person_id,omitempty"`
	PersonName  string     `json:"person_name,omitempty"`
	Confidence  float64    `json:"confidence,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
	Box         *[4]int    `json:"box_2d,omitempty"` // ymin, xmin, ymax, xmax on a 0-1000 scale
}
