package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
)

// ScanFunc runs a scan; the view cancels ctx when the user quits
type ScanFunc func(ctx context.Context) (*scanner.Result, error)

// ScanViewModel shows a spinner, the current phase and a progress bar
// while a scan runs
type ScanViewModel struct {
	root      string
	spinner   spinner.Model
	bar       bprogress.Model
	updates   <-chan *progress.ScanProgress
	run       ScanFunc
	ctx       context.Context
	cancel    context.CancelFunc
	current   *progress.ScanProgress
	result    *scanner.Result
	err       error
	scanning  bool
	cancelled bool
	startTime time.Time
}

// ScanProgressMsg carries a progress update into the view
type ScanProgressMsg struct {
	Progress *progress.ScanProgress
}

// ScanCompleteMsg is sent when the scan returns
type ScanCompleteMsg struct {
	Result *scanner.Result
	Err    error
}

// NewScanViewModel creates a scan view for root fed by updates
func NewScanViewModel(ctx context.Context, root string, updates <-chan *progress.ScanProgress, run ScanFunc) *ScanViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	ctx, cancel := context.WithCancel(ctx)

	return &ScanViewModel{
		root:      root,
		spinner:   s,
		bar:       bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(40)),
		updates:   updates,
		run:       run,
		ctx:       ctx,
		cancel:    cancel,
		scanning:  true,
		startTime: time.Now(),
	}
}

// Init initializes the scan view
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForProgress,
		m.performScan,
	)
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The scan returns promptly once cancelled
			m.cancelled = true
			m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		m.current = msg.Progress
		return m, m.waitForProgress

	case ScanCompleteMsg:
		m.scanning = false
		m.result = msg.Result
		m.err = msg.Err
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.HeadingStyle.Render("🔍 Scanning for duplicates"))
	b.WriteString("\n")
	if m.root != "" {
		b.WriteString(styles.MutedStyle.Render("Root: "))
		b.WriteString(styles.PathStyle.Render(m.root))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if !m.scanning {
		switch {
		case m.err != nil:
			b.WriteString(styles.FailureStyle.Render(fmt.Sprintf("✗ Scan stopped: %v", m.err)))
		case m.result != nil:
			b.WriteString(styles.DoneStyle.Render("✓ Scan Complete!"))
			b.WriteString(fmt.Sprintf(" %s files, %s duplicates, %s pairs compared",
				styles.CountStyle.Render(fmt.Sprintf("%d", m.result.Files)),
				styles.CountStyle.Render(fmt.Sprintf("%d", len(m.result.Duplicates))),
				styles.CountStyle.Render(fmt.Sprintf("%d", len(m.result.Similarities))),
			))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(progress.FormatScanProgress(m.current))
	b.WriteString("\n\n")

	if m.current != nil && m.current.Total > 0 {
		b.WriteString(m.bar.ViewAs(m.current.Fraction()))
		b.WriteString("\n\n")
	}

	if m.current != nil && m.current.CurrentPath != "" {
		b.WriteString(styles.MutedStyle.Render("Current: "))
		b.WriteString(styles.PathStyle.Render(truncatePath(m.current.CurrentPath, 60)))
		b.WriteString("\n\n")
	}

	if m.cancelled {
		b.WriteString(styles.WarningStyle.Render("Cancelling..."))
	} else {
		b.WriteString(styles.HintStyle.Render("Press q or ctrl+c to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// Result returns the outcome once the view has finished
func (m *ScanViewModel) Result() (*scanner.Result, error) {
	if m.scanning {
		return nil, context.Canceled
	}
	return m.result, m.err
}

// performScan performs the actual scanning
func (m *ScanViewModel) performScan() tea.Msg {
	result, err := m.run(m.ctx)
	return ScanCompleteMsg{Result: result, Err: err}
}

func (m *ScanViewModel) waitForProgress() tea.Msg {
	select {
	case p, ok := <-m.updates:
		if !ok {
			return nil
		}
		return ScanProgressMsg{Progress: p}
	case <-m.ctx.Done():
		return nil
	}
}

// Helper function to truncate paths
func truncatePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}
