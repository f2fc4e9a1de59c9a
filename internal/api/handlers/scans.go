package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lookout/internal/media"
	"github.com/your-org/lookout/internal/scan"
	"github.com/your-org/lookout/pkg/dto"
)

type ScanHandler struct {
	manager *scan.Manager
}

func NewScanHandler(manager *scan.Manager) *ScanHandler {
	return &ScanHandler{manager: manager}
}

// Start begins a scan run. Image uploads come in as multipart with a
// "frame" file part; everything else is a JSON body with a source URL.
func (h *ScanHandler) Start(c *gin.Context) {
	spec, err := h.bindSpec(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.manager.Start(c.Request.Context(), spec)
	switch {
	case errors.Is(err, scan.ErrScanActive):
		c.JSON(http.StatusConflict, gin.H{"error": "a scan is already running"})
		return
	case errors.Is(err, scan.ErrEmptyRoster):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no missing persons to search for", "scan": viewToResponse(view)})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, viewToResponse(view))
}

func (h *ScanHandler) bindSpec(c *gin.Context) (scan.SourceSpec, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		file, _, err := c.Request.FormFile("frame")
		if err != nil {
			return scan.SourceSpec{}, errors.New("image file required in \"frame\" field")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return scan.SourceSpec{}, err
		}
		return scan.SourceSpec{Kind: media.KindImage, Data: data}, nil
	}

	var req dto.StartScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return scan.SourceSpec{}, err
	}
	return scan.SourceSpec{Kind: media.Kind(req.Kind), URL: req.URL, FPS: req.FPS}, nil
}

// Current returns a snapshot of the active run.
func (h *ScanHandler) Current(c *gin.Context) {
	view, err := h.manager.Current()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan started"})
		return
	}
	c.JSON(http.StatusOK, viewToResponse(view))
}

// Cancel flags the active run for cancellation. The run winds down at
// its next iteration boundary, so the response may still show "running".
func (h *ScanHandler) Cancel(c *gin.Context) {
	if err := h.manager.Cancel(c.Request.Context()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan started"})
		return
	}
	view, _ := h.manager.Current()
	c.JSON(http.StatusOK, viewToResponse(view))
}

// Restart re-runs the current source from the beginning.
func (h *ScanHandler) Restart(c *gin.Context) {
	view, err := h.manager.Restart(c.Request.Context())
	switch {
	case errors.Is(err, scan.ErrNoScan):
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan started"})
		return
	case errors.Is(err, scan.ErrScanActive):
		c.JSON(http.StatusConflict, gin.H{"error": "a scan is already running"})
		return
	case errors.Is(err, scan.ErrEmptyRoster):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no missing persons to search for", "scan": viewToResponse(view)})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, viewToResponse(view))
}

// DismissResult clears the stored verdict without touching the run.
func (h *ScanHandler) DismissResult(c *gin.Context) {
	if err := h.manager.DismissResult(); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan started"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func viewToResponse(v scan.View) dto.ScanResponse {
	resp := dto.ScanResponse{
		ID:         v.ID,
		SourceKind: string(v.SourceKind),
		Status:     string(v.Status),
		Progress:   v.Progress,
		Indefinite: v.Indefinite,
		Position:   v.Position.Seconds(),
		Samples:    v.Samples,
		Log:        v.Log,
	}
	if v.Result != nil {
		resp.Result = resultToResponse(v.Result)
	}
	return resp
}

func resultToResponse(r *scan.Result) *dto.ScanResultResponse {
	resp := &dto.ScanResultResponse{
		Found:       r.Verdict.Found,
		Confidence:  r.Verdict.Confidence,
		Explanation: r.Verdict.Explanation,
		Box:         r.Verdict.Box,
		Position:    r.Position.Seconds(),
		Live:        r.Live,
	}
	if r.Person != nil {
		pr := personToResponse(r.Person)
		resp.Person = &pr
	}
	if overlay := r.Overlay(); overlay != nil {
		resp.Overlay = &dto.OverlayResponse{
			Top:    overlay.Top,
			Left:   overlay.Left,
			Width:  overlay.Width,
			Height: overlay.Height,
		}
	}
	return resp
}
