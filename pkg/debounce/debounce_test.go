package debounce

import (
	"testing"
	"time"

	"github.com/Travisun/hexo-goose-builder/pkg/strategy"
)

const themeDir = "/site/themes/goose"

func testDebouncer(window time.Duration) *Debouncer {
	cfg := strategy.NewConfig(themeDir, strategy.UserPatterns{}, "/site/_config.yml", "/site/tailwind.config.js")
	return New(cfg, window)
}

func TestRecordSkipLeavesNoPending(t *testing.T) {
	d := testDebouncer(50 * time.Millisecond)

	if st := d.Record(themeDir+"/README.md", "change"); st != strategy.Skip {
		t.Fatalf("expected Skip, got %v", st)
	}
	if d.HasPending() {
		t.Error("skip must not set a pending change")
	}
}

func TestLastWriteWins(t *testing.T) {
	d := testDebouncer(100 * time.Millisecond)

	jsPath := themeDir + "/layout/components/a.js"
	cssPath := themeDir + "/layout/tailwind.css"

	if st := d.Record(jsPath, "change"); st != strategy.JSOnly {
		t.Fatalf("expected JSOnly for %s, got %v", jsPath, st)
	}
	time.Sleep(20 * time.Millisecond)
	if st := d.Record(cssPath, "change"); st != strategy.CSSOnly {
		t.Fatalf("expected CSSOnly for %s, got %v", cssPath, st)
	}

	select {
	case <-d.C():
	case <-time.After(2 * time.Second):
		t.Fatal("quiet window never elapsed")
	}

	pending := d.TakePending()
	if pending == nil {
		t.Fatal("expected a pending change after the quiet window")
	}
	if pending.Strategy != strategy.CSSOnly || pending.Path != cssPath {
		t.Errorf("expected latest change to win, got {%v %s}", pending.Strategy, pending.Path)
	}
}

func TestTakePendingClearsSlot(t *testing.T) {
	d := testDebouncer(time.Hour) // timer never fires during the test

	d.Record(themeDir+"/layout/tailwind.css", "change")
	if !d.HasPending() {
		t.Fatal("expected a pending change")
	}

	if p := d.TakePending(); p == nil {
		t.Fatal("expected TakePending to return the change")
	}
	if d.HasPending() {
		t.Error("TakePending must clear the slot")
	}
	if p := d.TakePending(); p != nil {
		t.Errorf("second TakePending must return nil, got %+v", p)
	}
}

func TestTimerRestartsPerChange(t *testing.T) {
	d := testDebouncer(120 * time.Millisecond)

	// Keep recording inside the quiet window; the signal must not fire
	// until the burst ends.
	for i := 0; i < 3; i++ {
		d.Record(themeDir+"/layout/tailwind.css", "change")
		select {
		case <-d.C():
			t.Fatal("quiet window fired during an active burst")
		case <-time.After(60 * time.Millisecond):
		}
	}

	select {
	case <-d.C():
	case <-time.After(2 * time.Second):
		t.Fatal("quiet window never elapsed after the burst")
	}
}

func TestSignalCoalesces(t *testing.T) {
	d := testDebouncer(30 * time.Millisecond)

	d.Record(themeDir+"/layout/tailwind.css", "change")
	time.Sleep(80 * time.Millisecond)
	d.Record(themeDir+"/layout/tailwind.css", "change")
	time.Sleep(80 * time.Millisecond)

	// Two elapsed windows, an unconsumed signal coalesces into one.
	select {
	case <-d.C():
	default:
		t.Fatal("expected a buffered signal")
	}
	select {
	case <-d.C():
		t.Error("expected signals to coalesce into a single one")
	default:
	}
}
