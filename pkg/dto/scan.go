package dto

import "github.com/google/uuid"

// StartScanRequest selects the media source for a new scan run.
type StartScanRequest struct {
	Kind string `json:"kind" binding:"required,oneof=image video live"`
	URL  string `json:"url"`
	FPS  int    `json:"fps"`
}

type OverlayResponse struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ScanResultResponse struct {
	Found       bool             `json:"found"`
	Person      *PersonResponse  `json:"person,omitempty"`
	Confidence  float64          `json:"confidence"`
	Explanation string           `json:"explanation"`
	Box         *[4]int          `json:"box_2d,omitempty"`
	Overlay     *OverlayResponse `json:"overlay,omitempty"`
	Position    float64          `json:"position_seconds"`
	Live        bool             `json:"live"`
}

type ScanResponse struct {
	ID         uuid.UUID           `json:"id"`
	SourceKind string              `json:"source_kind"`
	Status     string              `json:"status"`
	Progress   int                 `json:"progress"`
	Indefinite bool                `json:"indefinite"`
	Position   float64             `json:"position_seconds"`
	Samples    int                 `json:"samples"`
	Log        []string            `json:"log"`
	Result     *ScanResultResponse `json:"result,omitempty"`
}
