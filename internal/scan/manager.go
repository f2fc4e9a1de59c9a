package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/your-org/lookout/internal/capture"
	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/media"
	"github.com/your-org/lookout/internal/records"
)

// ErrNoScan is returned when no scan has been started yet.
var ErrNoScan = errors.New("no scan")

const liveReadyTimeout = 10 * time.Second

// SourceSpec describes the media input for a scan. Data carries an
// uploaded image; URL is a filesystem path or a network URL for the
// other kinds (YouTube links are resolved before ffmpeg sees them).
type SourceSpec struct {
	Kind media.Kind `json:"kind"`
	URL  string     `json:"url,omitempty"`
	Data []byte     `json:"-"`
	FPS  int        `json:"fps,omitempty"`
}

// ManagerDeps are the long-lived collaborators shared by every run.
type ManagerDeps struct {
	Matcher match.Matcher
	Records records.Store
	Photos  PhotoLoader
	Sink    EventSink
	Archive ArchiveFunc
}

// ManagerConfig carries source construction knobs alongside the
// orchestrator config.
type ManagerConfig struct {
	Orchestrator Config
	SeekTimeout  time.Duration
	FrameWidth   int
	JPEGQuality  int
}

// Manager owns the active media source and its orchestrator. At most
// one source is active; adopting a new one always releases the previous
// source's device/process handle first and discards the previous run's
// progress, log and result.
type Manager struct {
	deps ManagerDeps
	cfg  ManagerConfig

	mu     sync.Mutex
	source media.Source
	orch   *Orchestrator
}

func NewManager(deps ManagerDeps, cfg ManagerConfig) *Manager {
	return &Manager{deps: deps, cfg: cfg}
}

// Start adopts the described source and begins a scan run on it.
func (m *Manager) Start(ctx context.Context, spec SourceSpec) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.orch != nil && m.orch.Run() != nil && m.orch.Run().Status() == StatusRunning {
		return View{}, ErrScanActive
	}

	source, err := m.openSource(ctx, spec)
	if err != nil {
		return View{}, err
	}

	// Release the previous source before adopting the new one.
	if m.source != nil {
		if cerr := m.source.Close(); cerr != nil {
			slog.Warn("close previous source", "error", cerr)
		}
	}
	m.source = source

	surface := capture.NewSurface(m.cfg.FrameWidth, m.cfg.JPEGQuality)
	m.orch = New(Deps{
		Source:  source,
		Matcher: m.deps.Matcher,
		Records: m.deps.Records,
		Photos:  m.deps.Photos,
		Surface: surface,
		Sink:    m.deps.Sink,
		Archive: m.deps.Archive,
	}, m.cfg.Orchestrator)

	if err := m.orch.Start(ctx); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// Restart re-runs the current source from the top, resetting all run
// state. Only valid after a terminal state.
func (m *Manager) Restart(ctx context.Context) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.orch == nil {
		return View{}, ErrNoScan
	}
	if err := m.orch.Start(ctx); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// Cancel sets the active run's cancellation flag.
func (m *Manager) Cancel(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.orch == nil || m.orch.Run() == nil {
		return ErrNoScan
	}
	m.orch.Cancel(ctx)
	return nil
}

// Current returns a snapshot of the active run.
func (m *Manager) Current() (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orch == nil || m.orch.Run() == nil {
		return View{}, ErrNoScan
	}
	return m.snapshotLocked(), nil
}

// DismissResult clears the stored result; run status, log and progress
// are untouched.
func (m *Manager) DismissResult() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orch == nil || m.orch.Run() == nil {
		return ErrNoScan
	}
	m.orch.Run().DismissResult()
	return nil
}

// Close releases the active source.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.orch != nil && m.orch.Run() != nil {
		m.orch.Run().Cancel()
	}
	if m.source != nil {
		_ = m.source.Close()
		m.source = nil
	}
}

func (m *Manager) snapshotLocked() View {
	return m.orch.Run().Snapshot()
}

func (m *Manager) openSource(ctx context.Context, spec SourceSpec) (media.Source, error) {
	switch spec.Kind {
	case media.KindImage:
		if spec.Data != nil {
			return media.NewImageSourceFromBytes(spec.Data)
		}
		if strings.HasPrefix(spec.URL, "http://") || strings.HasPrefix(spec.URL, "https://") {
			data, err := fetchBytes(ctx, spec.URL)
			if err != nil {
				return nil, err
			}
			return media.NewImageSourceFromBytes(data)
		}
		return media.NewImageSource(spec.URL)

	case media.KindVideo:
		url, err := resolveURL(ctx, spec.URL)
		if err != nil {
			return nil, err
		}
		return media.NewVideoSource(url, m.cfg.SeekTimeout, m.cfg.FrameWidth), nil

	case media.KindLive:
		url, err := resolveURL(ctx, spec.URL)
		if err != nil {
			return nil, err
		}
		source := media.NewLiveSource(url, spec.FPS)
		// The extraction process must outlive the request that started
		// the scan; Close is what releases it.
		if err := source.Start(context.WithoutCancel(ctx)); err != nil {
			return nil, fmt.Errorf("acquire stream: %w", err)
		}
		readyCtx, cancel := context.WithTimeout(ctx, liveReadyTimeout)
		defer cancel()
		if err := source.WaitReady(readyCtx); err != nil {
			_ = source.Close()
			return nil, fmt.Errorf("acquire stream: %w", err)
		}
		return source, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", spec.Kind)
	}
}

func resolveURL(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", errors.New("source url required")
	}
	if media.IsYouTubeURL(url) {
		resolved, err := media.ResolveYouTubeURL(ctx, url)
		if err != nil {
			return "", fmt.Errorf("resolve youtube url: %w", err)
		}
		return resolved, nil
	}
	return url, nil
}

func fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
