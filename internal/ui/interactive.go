package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/logging"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/models"
)

// RunScan scans root while rendering live progress to out. Quitting the
// view cancels the scan.
func RunScan(ctx context.Context, s *scanner.Scanner, root string, out io.Writer) (*scanner.Result, error) {
	pr := s.GetProgressReporter()
	updates := pr.Subscribe()
	defer pr.Unsubscribe(updates)

	m := models.NewScanViewModel(ctx, root, updates, func(ctx context.Context) (*scanner.Result, error) {
		return s.Scan(ctx, root)
	})

	// Log lines written while the view is drawing would tear it
	release := logging.Hold()
	p := tea.NewProgram(m, tea.WithOutput(out))
	final, err := p.Run()
	release()
	if err != nil {
		return nil, fmt.Errorf("error running scan view: %w", err)
	}

	view, ok := final.(*models.ScanViewModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	return view.Result()
}
