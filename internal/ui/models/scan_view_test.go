package models

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(run ScanFunc) (*ScanViewModel, chan *progress.ScanProgress) {
	updates := make(chan *progress.ScanProgress, 4)
	return NewScanViewModel(context.Background(), "/docs", updates, run), updates
}

func TestScanViewShowsProgress(t *testing.T) {
	m, _ := newTestModel(nil)

	_, cmd := m.Update(ScanProgressMsg{Progress: &progress.ScanProgress{
		Phase:       progress.PhaseHashing,
		Done:        3,
		Total:       6,
		CurrentPath: "/docs/report.pdf",
		StartTime:   time.Now(),
	}})
	assert.NotNil(t, cmd, "view keeps listening for updates")

	view := m.View()
	assert.Contains(t, view, "Reading files... 3/6")
	assert.Contains(t, view, "/docs/report.pdf")
	assert.Contains(t, view, "Root: /docs")
	assert.Contains(t, view, "ctrl+c to cancel")
}

func TestScanViewWaitsForUpdates(t *testing.T) {
	m, updates := newTestModel(nil)
	p := &progress.ScanProgress{Phase: progress.PhaseComparing}
	updates <- p

	msg := m.waitForProgress()
	require.IsType(t, ScanProgressMsg{}, msg)
	assert.Same(t, p, msg.(ScanProgressMsg).Progress)

	close(updates)
	assert.Nil(t, m.waitForProgress())
}

func TestScanViewComplete(t *testing.T) {
	result := &scanner.Result{
		Files:        3,
		Duplicates:   []scanner.DuplicatePair{{Anchor: "a", Duplicate: "b"}},
		Similarities: []scanner.SimilarityPair{{A: "a", B: "b", Score: 1}},
	}
	m, _ := newTestModel(func(ctx context.Context) (*scanner.Result, error) {
		return result, nil
	})

	msg := m.performScan()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	got, err := m.Result()
	require.NoError(t, err)
	assert.Same(t, result, got)
	assert.Contains(t, m.View(), "Scan Complete")
}

func TestScanViewCancel(t *testing.T) {
	m, _ := newTestModel(func(ctx context.Context) (*scanner.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Contains(t, m.View(), "Cancelling")

	// Before the scan reports back the view has no result
	_, err := m.Result()
	assert.ErrorIs(t, err, context.Canceled)

	m.Update(m.performScan())
	_, err = m.Result()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, m.View(), "Scan stopped")
}

func TestScanViewError(t *testing.T) {
	boom := errors.New("root vanished")
	m, _ := newTestModel(func(ctx context.Context) (*scanner.Result, error) {
		return nil, boom
	})

	m.Update(m.performScan())
	_, err := m.Result()
	assert.ErrorIs(t, err, boom)
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path   string
		maxLen int
		want   string
	}{
		{"/short", 10, "/short"},
		{"/a/very/long/path/file.txt", 12, ".../file.txt"},
		{"/dödel/fichier.txt", 14, "...fichier.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncatePath(tt.path, tt.maxLen))
	}
}
