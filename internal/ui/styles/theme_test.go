package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Table Cell Tests
// =============================================================================

func TestTableCellStyle(t *testing.T) {
	tests := []struct {
		name    string
		row     int
		bestRow int
		bold    bool
		color   lipgloss.TerminalColor
	}{
		{"header", table.HeaderRow, 2, true, Accent},
		{"best pair", 2, 2, true, Match},
		{"plain row", 1, 2, false, lipgloss.NoColor{}},
		{"no best row", 0, -1, false, lipgloss.NoColor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := TableCellStyle(tt.row, tt.bestRow)
			assert.Equal(t, tt.bold, style.GetBold())
			assert.Equal(t, tt.color, style.GetForeground())
			assert.Equal(t, 1, style.GetPaddingLeft())
			assert.Equal(t, 1, style.GetPaddingRight())
		})
	}
}
