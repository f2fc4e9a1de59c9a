package scan

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/lookout/internal/media"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Run is the mutable state of one orchestration pass. The log grows by
// prepending (newest entry first) and is bounded; the cancellation flag
// is polled cooperatively at iteration boundaries, never mid-call.
type Run struct {
	ID         uuid.UUID
	SourceKind media.Kind

	mu         sync.Mutex
	status     Status
	progress   int
	indefinite bool
	position   time.Duration
	samples    int
	log        []string
	logLimit   int
	result     *Result

	cancelled atomic.Bool
}

func newRun(kind media.Kind, logLimit int) *Run {
	if logLimit <= 0 {
		logLimit = 500
	}
	return &Run{
		ID:         uuid.New(),
		SourceKind: kind,
		status:     StatusIdle,
		logLimit:   logLimit,
	}
}

// Cancel sets the cancellation flag. It takes effect at the next
// iteration boundary; in-flight work completes and is discarded.
func (r *Run) Cancel() {
	r.cancelled.Store(true)
}

func (r *Run) Cancelled() bool {
	return r.cancelled.Load()
}

func (r *Run) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Run) setStatus(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// appendLog prepends an entry, dropping the oldest past the cap.
func (r *Run) appendLog(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log = append([]string{entry}, r.log...)
	if len(r.log) > r.logLimit {
		r.log = r.log[:r.logLimit]
	}
}

func (r *Run) setProgress(p int) {
	r.mu.Lock()
	r.progress = p
	r.mu.Unlock()
}

// setCycling records the live-stream progress indicator: a percentage
// that cycles with the sample counter and never reaches 100.
func (r *Run) setCycling(sample int) {
	r.mu.Lock()
	r.indefinite = true
	r.progress = (sample % 10) * 10
	r.mu.Unlock()
}

func (r *Run) setPosition(pos time.Duration) {
	r.mu.Lock()
	r.position = pos
	r.mu.Unlock()
}

func (r *Run) bumpSamples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples++
	return r.samples
}

func (r *Run) setResult(res *Result) {
	r.mu.Lock()
	r.result = res
	r.mu.Unlock()
}

// DismissResult clears the stored result without touching run status,
// progress or log.
func (r *Run) DismissResult() {
	r.setResult(nil)
}

// View is an immutable snapshot of a run for display.
type View struct {
	ID         uuid.UUID      `json:"id"`
	SourceKind media.Kind     `json:"source_kind"`
	Status     Status         `json:"status"`
	Progress   int            `json:"progress"`
	Indefinite bool           `json:"indefinite"`
	Position   time.Duration  `json:"position"`
	Samples    int            `json:"samples"`
	Log        []string       `json:"log"`
	Result     *Result        `json:"result,omitempty"`
}

func (r *Run) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	logCopy := make([]string, len(r.log))
	copy(logCopy, r.log)

	return View{
		ID:         r.ID,
		SourceKind: r.SourceKind,
		Status:     r.status,
		Progress:   r.progress,
		Indefinite: r.indefinite,
		Position:   r.position,
		Samples:    r.samples,
		Log:        logCopy,
		Result:     r.result,
	}
}
