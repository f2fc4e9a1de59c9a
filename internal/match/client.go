package match

import (
	"context"
	"encoding/json"
	"fmt"
)

// Candidate is one roster entry sent to the matching service: the
// record's identity text plus its reference photo.
type Candidate struct {
	ID          string
	Name        string
	Attire      string
	Description string
	Photo       []byte // JPEG reference image
}

// Verdict is the structured answer for one frame checked against the
// whole roster. Box coordinates are ymin, xmin, ymax, xmax on a fixed
// 0-1000 scale regardless of source resolution.
type Verdict struct {
	Found       bool    `json:"found"`
	PersonID    string  `json:"person_id"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
	Box         *[4]int `json:"box_2d"`
}

// NegativeVerdict is the locally-synthesized stand-in for a failed
// match call: the run treats the failure as "no match this sample".
func NegativeVerdict(reason string) *Verdict {
	return &Verdict{Found: false, Confidence: 0, Explanation: reason}
}

// Matcher submits one frame plus the roster and returns a verdict.
// One call is in flight at a time; implementations do not cache or
// retry.
type Matcher interface {
	MatchBatch(ctx context.Context, candidates []Candidate, frame []byte) (*Verdict, error)
}

// parseVerdict decodes and validates the service's JSON response.
func parseVerdict(data []byte) (*Verdict, error) {
	var v Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 100 {
		v.Confidence = 100
	}
	if !v.Found {
		v.PersonID = ""
		v.Box = nil
	}
	return &v, nil
}
