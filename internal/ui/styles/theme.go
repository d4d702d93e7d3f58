// Package styles holds the colours and lipgloss styles shared by the scan
// view and the terminal reports.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
var (
	Accent  = lipgloss.Color("#0EA5A4")
	Subtle  = lipgloss.Color("#5EEAD4")
	Match   = lipgloss.Color("#22C55E")
	Caution = lipgloss.Color("#EAB308")
	Failure = lipgloss.Color("#DC2626")
	Path    = lipgloss.Color("#60A5FA")
	Muted   = lipgloss.Color("#94A3B8")
	Rule    = lipgloss.Color("#475569")
)

var (
	// HeadingStyle titles the scan view and the summary report
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginBottom(1)

	// SectionStyle labels the duplicate and similarity sections
	SectionStyle = lipgloss.NewStyle().
			Foreground(Subtle).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

	PathStyle = lipgloss.NewStyle().Foreground(Path)

	FailureStyle = lipgloss.NewStyle().
			Foreground(Failure).
			Bold(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(Match).
			Bold(true)

	CountStyle = lipgloss.NewStyle().Bold(true)

	HintStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	// WarningStyle renders skipped-file summaries and cancellation notices
	WarningStyle = lipgloss.NewStyle().Foreground(Caution)

	TableBorderStyle = lipgloss.NewStyle().Foreground(Rule)
)

// TableCellStyle styles one cell of a report table. The header row is
// accented and bestRow, the most similar pair, is bold. Pass -1 when no row
// stands out.
func TableCellStyle(row, bestRow int) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case row == table.HeaderRow:
		return style.Bold(true).Foreground(Accent)
	case row == bestRow:
		return style.Bold(true).Foreground(Match)
	}
	return style
}
