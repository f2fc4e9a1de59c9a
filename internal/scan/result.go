package scan

import (
	"time"

	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/models"
)

// Result is the run's stored verdict, projected back onto the full
// person record for display. Ephemeral: overwritten by the next run or
// cleared by an explicit dismissal.
type Result struct {
	Verdict  match.Verdict  `json:"verdict"`
	Person   *models.Person `json:"person,omitempty"`
	Position time.Duration  `json:"position"`
	Live     bool           `json:"live"`
	At       time.Time      `json:"at"`
}

// OverlayRect is a proportional rectangle for positioning a box over
// the rendered frame, each field a percentage of the frame dimension.
type OverlayRect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlay converts the verdict's 0-1000 bounding box into percentages:
// each coordinate divided by 10. Returns nil when no box is present,
// in which case no overlay is drawn.
func (r *Result) Overlay() *OverlayRect {
	if r == nil || r.Verdict.Box == nil {
		return nil
	}
	box := r.Verdict.Box
	ymin, xmin, ymax, xmax := box[0], box[1], box[2], box[3]
	return &OverlayRect{
		Top:    float64(ymin) / 10,
		Left:   float64(xmin) / 10,
		Width:  float64(xmax-xmin) / 10,
		Height: float64(ymax-ymin) / 10,
	}
}
