package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/lookout/internal/capture"
	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/media"
	"github.com/your-org/lookout/internal/models"
	"github.com/your-org/lookout/internal/observability"
	"github.com/your-org/lookout/internal/records"
)

var (
	// ErrEmptyRoster means no record is eligible for scanning; the run
	// never starts and no match call is made.
	ErrEmptyRoster = errors.New("roster empty: no missing persons to scan for")
	// ErrScanActive is returned when a run is already in progress.
	ErrScanActive = errors.New("scan already running")
)

// PhotoLoader fetches a candidate's reference photo by its storage key.
type PhotoLoader func(ctx context.Context, key string) ([]byte, error)

// ArchiveFunc persists the frame of an accepted match. Optional.
type ArchiveFunc func(ctx context.Context, key string, frame []byte) error

type Config struct {
	SampleInterval  time.Duration
	LiveDelay       time.Duration
	AcceptThreshold float64
	LogLimit        int
}

// Deps are the orchestrator's collaborators. Sink and Archive may be
// nil; Photos is required (candidates without a loadable reference
// photo are skipped).
type Deps struct {
	Source  media.Source
	Matcher match.Matcher
	Records records.Store
	Photos  PhotoLoader
	Surface *capture.Surface
	Sink    EventSink
	Archive ArchiveFunc
}

// Orchestrator owns one scan run over one media source: it drives the
// source through its timeline (or single frame, or indefinite loop),
// submits one frame at a time to the matcher, and terminates the run on
// acceptance, exhaustion or cancellation. Sampling is strictly
// sequential: at most one match call is in flight, and the next sample
// is never dispatched before the previous verdict is handled.
type Orchestrator struct {
	deps Deps
	cfg  Config

	run  *Run
	done chan struct{}
}

func New(deps Deps, cfg Config) *Orchestrator {
	if deps.Sink == nil {
		deps.Sink = NopSink{}
	}
	if cfg.AcceptThreshold == 0 {
		cfg.AcceptThreshold = 75
	}
	return &Orchestrator{deps: deps, cfg: cfg}
}

// Run returns the current run state, or nil before the first Start.
func (o *Orchestrator) Run() *Run { return o.run }

// Done reports completion of the active run's goroutine.
func (o *Orchestrator) Done() <-chan struct{} { return o.done }

// Start begins a fresh run. Restarting after a terminal state resets
// progress, log and result, clears the cancellation flag, and
// re-derives behavior from the source's current kind. An empty roster
// aborts before any match call is dispatched.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.run != nil && o.run.Status() == StatusRunning {
		return ErrScanActive
	}

	run := newRun(o.deps.Source.Kind(), o.cfg.LogLimit)
	o.run = run

	roster, err := o.deps.Records.ListMissing(ctx)
	if err != nil {
		o.logf(ctx, run, "ABORT: roster unavailable: %v", err)
		return fmt.Errorf("list roster: %w", err)
	}
	if len(roster) == 0 {
		o.logf(ctx, run, "ABORT: roster empty — no missing persons registered")
		return ErrEmptyRoster
	}

	candidates, err := o.buildCandidates(ctx, run, roster)
	if err != nil {
		return err
	}

	run.setStatus(StatusRunning)
	o.publishStatus(ctx, run)
	o.logf(ctx, run, "scan started: %d missing person(s) on roster, source %s", len(candidates), run.SourceKind)

	observability.ScansStarted.WithLabelValues(string(run.SourceKind)).Inc()
	observability.ActiveScans.Inc()

	// The run outlives the caller (an HTTP handler returns as soon as
	// the run is accepted); only the cancellation flag ends it early.
	runCtx := context.WithoutCancel(ctx)

	o.done = make(chan struct{})
	go func() {
		defer close(o.done)
		defer observability.ActiveScans.Dec()

		switch o.deps.Source.Kind() {
		case media.KindImage:
			o.runImage(runCtx, run, candidates)
		case media.KindVideo:
			o.runVideo(runCtx, run, candidates)
		case media.KindLive:
			o.runLive(runCtx, run, candidates)
		}

		observability.ScansFinished.WithLabelValues(
			string(run.SourceKind), string(run.Status())).Inc()
	}()

	return nil
}

// Cancel requests cooperative cancellation of the active run.
func (o *Orchestrator) Cancel(ctx context.Context) {
	if o.run == nil {
		return
	}
	o.run.Cancel()
	o.logf(ctx, o.run, "cancellation requested")
}

// buildCandidates projects the MISSING roster into match candidates,
// loading each reference photo. Records whose photo cannot be loaded
// are skipped with a log entry.
func (o *Orchestrator) buildCandidates(ctx context.Context, run *Run, roster []models.Person) ([]match.Candidate, error) {
	candidates := make([]match.Candidate, 0, len(roster))
	for _, p := range roster {
		photo, err := o.deps.Photos(ctx, p.PhotoKey)
		if err != nil {
			o.logf(ctx, run, "skipping %s: reference photo unavailable (%v)", p.Name, err)
			continue
		}
		candidates = append(candidates, match.Candidate{
			ID:          p.ID.String(),
			Name:        p.Name,
			Attire:      p.Attire,
			Description: p.Description,
			Photo:       photo,
		})
	}
	if len(candidates) == 0 {
		o.logf(ctx, run, "ABORT: no roster entry has a usable reference photo")
		return nil, ErrEmptyRoster
	}
	return candidates, nil
}

// runImage: exactly one capture, one match call, progress 100,
// COMPLETED regardless of verdict.
func (o *Orchestrator) runImage(ctx context.Context, run *Run, candidates []match.Candidate) {
	if run.Cancelled() {
		o.finish(ctx, run, StatusCancelled)
		return
	}

	verdict, frame := o.sample(ctx, run, candidates)
	run.setProgress(100)
	o.publishProgress(ctx, run)

	if verdict == nil {
		// The only sample failed; the run aborts gracefully.
		o.logf(ctx, run, "scan aborted: could not capture the image")
		o.finish(ctx, run, StatusCompleted)
		return
	}

	if verdict.Found {
		// Single-frame path: the verdict is always surfaced as the run
		// result; the FOUND transition still requires acceptance.
		o.record(ctx, run, verdict, frame, o.accepted(verdict))
	} else {
		o.logf(ctx, run, "no match in image (confidence %.0f)", verdict.Confidence)
	}

	o.finish(ctx, run, StatusCompleted)
}

// runVideo iterates the timeline in fixed steps, stopping at the first
// accepted verdict or at exhaustion. The cancellation flag is checked
// at every iteration boundary before dispatching the next sample.
func (o *Orchestrator) runVideo(ctx context.Context, run *Run, candidates []match.Candidate) {
	duration, err := o.deps.Source.Duration(ctx)
	if err != nil {
		o.logf(ctx, run, "ABORT: video duration unavailable: %v", err)
		o.finish(ctx, run, StatusCompleted)
		return
	}
	o.logf(ctx, run, "video duration %s, sampling every %s", duration, o.cfg.SampleInterval)

	for pos := time.Duration(0); pos <= duration; pos += o.cfg.SampleInterval {
		if run.Cancelled() {
			// Stop immediately, no final result.
			o.finish(ctx, run, StatusCancelled)
			return
		}

		run.setPosition(pos)

		// Progress tracks the timeline position, not sample outcomes, so
		// a skipped sample still advances it. Capped below 100 until the
		// loop naturally exhausts.
		if duration > 0 {
			p := int(pos * 100 / duration)
			if p > 99 {
				p = 99
			}
			run.setProgress(p)
			o.publishProgress(ctx, run)
		}

		if err := o.deps.Source.Seek(ctx, pos); err != nil {
			o.logf(ctx, run, "seek to %s failed, skipping sample: %v", pos, err)
			continue
		}

		verdict, frame := o.sample(ctx, run, candidates)

		// A flag set while the call was in flight discards its verdict.
		if run.Cancelled() {
			o.finish(ctx, run, StatusCancelled)
			return
		}
		if verdict == nil {
			continue
		}

		if o.accepted(verdict) {
			o.record(ctx, run, verdict, frame, true)
			o.finish(ctx, run, StatusCompleted)
			return
		}
		if verdict.Found {
			o.logf(ctx, run, "possible match at %s below threshold (confidence %.0f), continuing", pos, verdict.Confidence)
		}
	}

	run.setProgress(100)
	o.publishProgress(ctx, run)
	o.logf(ctx, run, "timeline exhausted — no match found")
	o.finish(ctx, run, StatusCompleted)
}

// runLive loops until an accepted verdict or cancellation, waiting a
// fixed delay between cycles. Progress cycles rather than accumulating.
func (o *Orchestrator) runLive(ctx context.Context, run *Run, candidates []match.Candidate) {
	for cycle := 0; ; cycle++ {
		if run.Cancelled() {
			o.finish(ctx, run, StatusCancelled)
			return
		}

		run.setCycling(cycle)
		o.publishProgress(ctx, run)

		verdict, frame := o.sample(ctx, run, candidates)

		if run.Cancelled() {
			o.finish(ctx, run, StatusCancelled)
			return
		}

		if verdict != nil {
			if o.accepted(verdict) {
				o.record(ctx, run, verdict, frame, true)
				o.finish(ctx, run, StatusCompleted)
				return
			}
			if verdict.Found {
				o.logf(ctx, run, "possible match below threshold (confidence %.0f), continuing", verdict.Confidence)
			}
		}

		time.Sleep(o.cfg.LiveDelay)
	}
}

// sample captures the current frame and submits it to the matcher.
// Capture failure skips the sample (nil verdict); a match call failure
// degrades to a locally-synthesized negative verdict. Never fatal.
func (o *Orchestrator) sample(ctx context.Context, run *Run, candidates []match.Candidate) (*match.Verdict, []byte) {
	n := run.bumpSamples()

	frame, err := o.deps.Surface.Capture(o.deps.Source.Frame())
	if err != nil {
		o.logf(ctx, run, "sample %d: capture failed (%v), skipping", n, err)
		return nil, nil
	}
	observability.FramesSampled.WithLabelValues(string(run.SourceKind)).Inc()

	start := time.Now()
	verdict, err := o.deps.Matcher.MatchBatch(ctx, candidates, frame)
	observability.MatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.MatchCalls.WithLabelValues("error").Inc()
		o.logf(ctx, run, "sample %d: match service failed (%v), treating as no match", n, err)
		return match.NegativeVerdict(fmt.Sprintf("match service unavailable: %v", err)), frame
	}

	if verdict.Found {
		observability.MatchCalls.WithLabelValues("found").Inc()
		o.logf(ctx, run, "sample %d: candidate match reported (confidence %.0f)", n, verdict.Confidence)
	} else {
		observability.MatchCalls.WithLabelValues("not_found").Inc()
		o.logf(ctx, run, "sample %d: no match", n)
	}

	return verdict, frame
}

// accepted applies the acceptance policy: found with confidence
// strictly above the threshold.
func (o *Orchestrator) accepted(v *match.Verdict) bool {
	return v.Found && v.Confidence > o.cfg.AcceptThreshold
}

// record stores the verdict as the run result, projecting the matched
// identifier back to the full record. When accept is true it also
// requests the FOUND transition and archives the matched frame.
func (o *Orchestrator) record(ctx context.Context, run *Run, v *match.Verdict, frame []byte, accept bool) {
	var person *models.Person

	id, err := uuid.Parse(v.PersonID)
	if err != nil {
		o.logf(ctx, run, "matcher returned unknown identifier %q", v.PersonID)
	} else if person, err = o.deps.Records.Get(ctx, id); err != nil {
		o.logf(ctx, run, "matched record %s not in store: %v", v.PersonID, err)
		person = nil
	}

	view := run.Snapshot()
	res := &Result{
		Verdict:  *v,
		Person:   person,
		Position: view.Position,
		Live:     run.SourceKind == media.KindLive,
		At:       time.Now(),
	}
	run.setResult(res)

	if accept && person != nil {
		if err := o.deps.Records.RequestStatusChange(ctx, person.ID, models.StatusFound); err != nil {
			o.logf(ctx, run, "status change for %s failed: %v", person.Name, err)
		} else {
			o.logf(ctx, run, "MATCH CONFIRMED: %s (confidence %.0f) — status set to FOUND", person.Name, v.Confidence)
		}

		if o.deps.Archive != nil {
			key := fmt.Sprintf("matches/%s/%s.jpg", run.ID, person.ID)
			if err := o.deps.Archive(ctx, key, frame); err != nil {
				o.logf(ctx, run, "archive matched frame: %v", err)
			}
		}
	} else if person != nil {
		o.logf(ctx, run, "match for %s stored below acceptance threshold (confidence %.0f)", person.Name, v.Confidence)
	}

	evt := models.ScanEvent{
		RunID:       run.ID,
		Type:        models.ScanEventResult,
		Timestamp:   time.Now(),
		Confidence:  v.Confidence,
		Explanation: v.Explanation,
		Box:         v.Box,
	}
	if person != nil {
		evt.PersonID = &person.ID
		evt.PersonName = person.Name
	}
	o.deps.Sink.Publish(ctx, evt)
}

func (o *Orchestrator) finish(ctx context.Context, run *Run, s Status) {
	run.setStatus(s)
	o.publishStatus(ctx, run)
}

func (o *Orchestrator) logf(ctx context.Context, run *Run, format string, args ...any) {
	entry := fmt.Sprintf(format, args...)
	run.appendLog(entry)
	o.deps.Sink.Publish(ctx, models.ScanEvent{
		RunID:     run.ID,
		Type:      models.ScanEventLog,
		Timestamp: time.Now(),
		Message:   entry,
	})
}

func (o *Orchestrator) publishStatus(ctx context.Context, run *Run) {
	o.deps.Sink.Publish(ctx, models.ScanEvent{
		RunID:     run.ID,
		Type:      models.ScanEventStatus,
		Timestamp: time.Now(),
		Status:    string(run.Status()),
	})
}

func (o *Orchestrator) publishProgress(ctx context.Context, run *Run) {
	view := run.Snapshot()
	o.deps.Sink.Publish(ctx, models.ScanEvent{
		RunID:      run.ID,
		Type:       models.ScanEventProgress,
		Timestamp:  time.Now(),
		Progress:   view.Progress,
		Indefinite: view.Indefinite,
	})
}
