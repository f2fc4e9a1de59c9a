package scan

import (
	"fmt"
	"testing"

	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/media"
)

func TestLogPrependsNewestFirst(t *testing.T) {
	r := newRun(media.KindVideo, 10)
	r.appendLog("first")
	r.appendLog("second")
	r.appendLog("third")

	v := r.Snapshot()
	want := []string{"third", "second", "first"}
	for i := range want {
		if v.Log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, v.Log[i], want[i])
		}
	}
}

func TestLogDropsOldestPastCap(t *testing.T) {
	r := newRun(media.KindLive, 5)
	for i := 0; i < 8; i++ {
		r.appendLog(fmt.Sprintf("entry %d", i))
	}

	v := r.Snapshot()
	if len(v.Log) != 5 {
		t.Fatalf("log length = %d, want 5", len(v.Log))
	}
	if v.Log[0] != "entry 7" {
		t.Errorf("newest entry = %q, want %q", v.Log[0], "entry 7")
	}
	if v.Log[4] != "entry 3" {
		t.Errorf("oldest kept entry = %q, want %q", v.Log[4], "entry 3")
	}
}

func TestCyclingProgressNeverReaches100(t *testing.T) {
	r := newRun(media.KindLive, 0)
	for cycle := 0; cycle < 25; cycle++ {
		r.setCycling(cycle)
		v := r.Snapshot()
		if v.Progress < 0 || v.Progress >= 100 {
			t.Fatalf("cycle %d: progress = %d, want 0-90", cycle, v.Progress)
		}
		if !v.Indefinite {
			t.Fatal("cycling progress must be flagged indefinite")
		}
	}
}

func TestOverlayFromBox(t *testing.T) {
	res := &Result{Verdict: match.Verdict{
		Found: true,
		Box:   &[4]int{250, 100, 750, 400}, // ymin, xmin, ymax, xmax
	}}

	o := res.Overlay()
	if o == nil {
		t.Fatal("Overlay() = nil, want rect")
	}
	if o.Top != 25 || o.Left != 10 || o.Width != 30 || o.Height != 50 {
		t.Errorf("overlay = %+v, want {Top:25 Left:10 Width:30 Height:50}", o)
	}
}

func TestOverlayWithoutBox(t *testing.T) {
	res := &Result{Verdict: match.Verdict{Found: true}}
	if res.Overlay() != nil {
		t.Error("verdict without a box must produce no overlay")
	}

	var nilRes *Result
	if nilRes.Overlay() != nil {
		t.Error("nil result must produce no overlay")
	}
}
