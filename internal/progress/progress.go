package progress

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseHashing    Phase = "hashing"
	PhaseExtracting Phase = "extracting"
	PhaseComparing  Phase = "comparing"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// DefaultUpdateInterval is the minimum spacing of per-item notifications
const DefaultUpdateInterval = 100 * time.Millisecond

// ScanProgress represents progress during a scan
type ScanProgress struct {
	Phase       Phase
	CurrentPath string
	Done        int
	Total       int
	Duplicates  int
	Warnings    int
	StartTime   time.Time
	Error       error
}

// Fraction returns completion of the current phase in [0,1]
func (p *ScanProgress) Fraction() float64 {
	if p == nil || p.Total <= 0 {
		return 0
	}
	f := float64(p.Done) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// ProgressReporter provides thread-safe progress reporting
type ProgressReporter struct {
	scanProgress *ScanProgress
	mu           sync.RWMutex
	listeners    []chan *ScanProgress
	limiter      *rate.Limiter
	lastPhase    Phase
}

// NewProgressReporter creates a progress reporter that notifies listeners
// at most once per DefaultUpdateInterval within a phase
func NewProgressReporter() *ProgressReporter {
	return NewProgressReporterWithInterval(DefaultUpdateInterval)
}

// NewProgressReporterWithInterval creates a progress reporter with a custom
// notification interval. A non-positive interval disables throttling.
func NewProgressReporterWithInterval(interval time.Duration) *ProgressReporter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &ProgressReporter{
		listeners: make([]chan *ScanProgress, 0),
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Subscribe returns a channel that receives progress updates
func (pr *ProgressReporter) Subscribe() <-chan *ScanProgress {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	ch := make(chan *ScanProgress, 10)
	pr.listeners = append(pr.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (pr *ProgressReporter) Unsubscribe(ch <-chan *ScanProgress) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i, listener := range pr.listeners {
		if listener == ch {
			close(listener)
			pr.listeners = append(pr.listeners[:i], pr.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScanProgress records update and notifies listeners. Phase changes
// and phase completion are always delivered; other updates are throttled.
func (pr *ProgressReporter) UpdateScanProgress(update *ScanProgress) {
	pr.mu.Lock()
	pr.scanProgress = update
	important := update.Phase != pr.lastPhase || (update.Total > 0 && update.Done >= update.Total)
	pr.lastPhase = update.Phase
	if !important && !pr.limiter.Allow() {
		pr.mu.Unlock()
		return
	}
	listeners := make([]chan *ScanProgress, len(pr.listeners))
	copy(listeners, pr.listeners)
	pr.mu.Unlock()

	// Notify all listeners (non-blocking)
	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// GetScanProgress returns the current scan progress
func (pr *ProgressReporter) GetScanProgress() *ScanProgress {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.scanProgress
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseCollecting:
		return fmt.Sprintf("Collecting files... %d found [%s]", p.Done, FormatDuration(elapsed))
	case PhaseHashing:
		return fmt.Sprintf("Reading files... %d/%d, %d duplicates [%s]",
			p.Done, p.Total, p.Duplicates, FormatDuration(elapsed))
	case PhaseExtracting:
		return fmt.Sprintf("Extracting text... %d/%d [%s]", p.Done, p.Total, FormatDuration(elapsed))
	case PhaseComparing:
		return fmt.Sprintf("Comparing pairs... %d/%d [%s]", p.Done, p.Total, FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete in %s", FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
