package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/media"
	"github.com/your-org/lookout/internal/models"
	"github.com/your-org/lookout/internal/records"
)

func testJPEGBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestManager(t *testing.T, matcher match.Matcher) (*Manager, *records.MemoryStore) {
	t.Helper()
	store := records.NewMemoryStore()
	store.Add(models.Person{Name: "Alex Doe", PhotoKey: "photos/alex.jpg"})

	m := NewManager(ManagerDeps{
		Matcher: matcher,
		Records: store,
		Photos: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("reference-jpeg"), nil
		},
	}, ManagerConfig{
		Orchestrator: Config{LiveDelay: time.Millisecond},
		FrameWidth:   100,
		JPEGQuality:  80,
	})
	t.Cleanup(m.Close)
	return m, store
}

func waitTerminal(t *testing.T, m *Manager) View {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		v, err := m.Current()
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if v.Status != StatusRunning {
			return v
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("scan did not reach a terminal state")
	return View{}
}

func TestManagerImageUploadScan(t *testing.T) {
	matcher := &scriptedMatcher{fn: func(int) (*match.Verdict, error) {
		return notFound(), nil
	}}
	m, _ := newTestManager(t, matcher)

	view, err := m.Start(context.Background(), SourceSpec{
		Kind: media.KindImage,
		Data: testJPEGBytes(t),
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view.SourceKind != media.KindImage {
		t.Errorf("SourceKind = %s, want image", view.SourceKind)
	}

	final := waitTerminal(t, m)
	if final.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", final.Status)
	}
	if matcher.callCount() != 1 {
		t.Errorf("match calls = %d, want 1", matcher.callCount())
	}
}

func TestManagerNoScanYet(t *testing.T) {
	m, _ := newTestManager(t, &scriptedMatcher{fn: func(int) (*match.Verdict, error) {
		return notFound(), nil
	}})

	if _, err := m.Current(); !errors.Is(err, ErrNoScan) {
		t.Errorf("Current() error = %v, want ErrNoScan", err)
	}
	if err := m.Cancel(context.Background()); !errors.Is(err, ErrNoScan) {
		t.Errorf("Cancel() error = %v, want ErrNoScan", err)
	}
	if err := m.DismissResult(); !errors.Is(err, ErrNoScan) {
		t.Errorf("DismissResult() error = %v, want ErrNoScan", err)
	}
	if _, err := m.Restart(context.Background()); !errors.Is(err, ErrNoScan) {
		t.Errorf("Restart() error = %v, want ErrNoScan", err)
	}
}

func TestManagerRestartAfterCompletion(t *testing.T) {
	matcher := &scriptedMatcher{fn: func(int) (*match.Verdict, error) {
		return notFound(), nil
	}}
	m, _ := newTestManager(t, matcher)

	if _, err := m.Start(context.Background(), SourceSpec{Kind: media.KindImage, Data: testJPEGBytes(t)}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	first := waitTerminal(t, m)

	if _, err := m.Restart(context.Background()); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	second := waitTerminal(t, m)

	if second.ID == first.ID {
		t.Error("restart should mint a fresh run")
	}
	if matcher.callCount() != 2 {
		t.Errorf("match calls = %d, want 2 across both runs", matcher.callCount())
	}
}

func TestManagerRejectsUnknownKind(t *testing.T) {
	m, _ := newTestManager(t, &scriptedMatcher{fn: func(int) (*match.Verdict, error) {
		return notFound(), nil
	}})

	if _, err := m.Start(context.Background(), SourceSpec{Kind: "hologram"}); err == nil {
		t.Error("expected an error for an unknown source kind")
	}
}

func TestManagerRequiresURLForVideo(t *testing.T) {
	m, _ := newTestManager(t, &scriptedMatcher{fn: func(int) (*match.Verdict, error) {
		return notFound(), nil
	}})

	if _, err := m.Start(context.Background(), SourceSpec{Kind: media.KindVideo}); err == nil {
		t.Error("expected an error for a video source without a URL")
	}
}
