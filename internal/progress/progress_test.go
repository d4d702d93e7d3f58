package progress

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSubscribeReceivesPhaseChanges(t *testing.T) {
	pr := NewProgressReporterWithInterval(time.Hour)
	ch := pr.Subscribe()

	pr.UpdateScanProgress(&ScanProgress{Phase: PhaseCollecting})
	pr.UpdateScanProgress(&ScanProgress{Phase: PhaseHashing, Total: 10})

	for _, want := range []Phase{PhaseCollecting, PhaseHashing} {
		select {
		case got := <-ch:
			if got.Phase != want {
				t.Errorf("got phase %s, want %s", got.Phase, want)
			}
		default:
			t.Fatalf("expected update for phase %s", want)
		}
	}
}

func TestUpdatesWithinPhaseAreThrottled(t *testing.T) {
	pr := NewProgressReporterWithInterval(time.Hour)
	ch := pr.Subscribe()

	pr.UpdateScanProgress(&ScanProgress{Phase: PhaseHashing, Total: 100})
	for i := 1; i < 50; i++ {
		pr.UpdateScanProgress(&ScanProgress{Phase: PhaseHashing, Done: i, Total: 100})
	}
	pr.UpdateScanProgress(&ScanProgress{Phase: PhaseHashing, Done: 100, Total: 100})

	var received []*ScanProgress
	for len(ch) > 0 {
		received = append(received, <-ch)
	}

	// phase start, one update from the initial burst token, completion
	if len(received) > 3 {
		t.Errorf("expected throttled updates, got %d", len(received))
	}
	if last := received[len(received)-1]; last.Done != 100 {
		t.Errorf("completion update not delivered, last Done = %d", last.Done)
	}
	if got := pr.GetScanProgress(); got.Done != 100 {
		t.Errorf("GetScanProgress().Done = %d, want 100", got.Done)
	}
}

func TestUnthrottledReporterDeliversEverything(t *testing.T) {
	pr := NewProgressReporterWithInterval(0)
	ch := pr.Subscribe()

	for i := 0; i < 5; i++ {
		pr.UpdateScanProgress(&ScanProgress{Phase: PhaseComparing, Done: i, Total: 10})
	}
	if len(ch) != 5 {
		t.Errorf("expected 5 updates, got %d", len(ch))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()
	pr.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}

	// Updates after unsubscribing must not panic on the closed channel
	pr.UpdateScanProgress(&ScanProgress{Phase: PhaseComplete})
}

func TestFraction(t *testing.T) {
	tests := []struct {
		p    *ScanProgress
		want float64
	}{
		{nil, 0},
		{&ScanProgress{Done: 5}, 0},
		{&ScanProgress{Done: 5, Total: 10}, 0.5},
		{&ScanProgress{Done: 20, Total: 10}, 1},
	}
	for _, tt := range tests {
		if got := tt.p.Fraction(); got != tt.want {
			t.Errorf("Fraction() = %v, want %v", got, tt.want)
		}
	}
}

func TestFormatScanProgress(t *testing.T) {
	start := time.Now()
	tests := []struct {
		p    *ScanProgress
		want string
	}{
		{nil, "Initializing"},
		{&ScanProgress{Phase: PhaseCollecting, Done: 3, StartTime: start}, "3 found"},
		{&ScanProgress{Phase: PhaseHashing, Done: 2, Total: 4, Duplicates: 1, StartTime: start}, "2/4, 1 duplicates"},
		{&ScanProgress{Phase: PhaseExtracting, Done: 1, Total: 3, StartTime: start}, "Extracting text... 1/3"},
		{&ScanProgress{Phase: PhaseComparing, Done: 6, Total: 10, StartTime: start}, "6/10"},
		{&ScanProgress{Phase: PhaseComplete, StartTime: start}, "Scan complete"},
		{&ScanProgress{Phase: PhaseError, Error: errors.New("boom")}, "boom"},
	}

	for _, tt := range tests {
		if got := FormatScanProgress(tt.p); !strings.Contains(got, tt.want) {
			t.Errorf("FormatScanProgress() = %q, want substring %q", got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{90 * time.Second, "1m30s"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3h4m5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
