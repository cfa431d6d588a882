package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const noData = "No data"

// placeholder fills a cols x rows area with a centered "No data".
func placeholder(cols, rows int) string {
	return lipgloss.Place(max(cols, 1), max(rows, 1), lipgloss.Center, lipgloss.Center,
		Placeholder.Render(noData))
}

// frame wraps body in a bordered panel whose outer size is width x height.
func frame(title, body string, width, height int, focused bool) string {
	st := Panel
	if focused {
		st = FocusedPanel
	}
	inner := max(width-panelChrome, 1)
	head := PanelTitle.Render(truncate.StringWithTail(title, uint(inner), "…"))
	content := head + "\n" + body
	return st.Width(inner).Height(max(height-panelChrome, 1)).MaxHeight(height).Render(content)
}

// bodySize returns the drawable area inside frame, below the title line.
func bodySize(width, height int) (cols, rows int) {
	return max(width-panelChrome, 1), max(height-panelChrome-1, 1)
}

// spread places left and right at the two ends of a cols-wide line.
func spread(left, right string, cols int) string {
	gap := cols - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate.String(left+" "+right, uint(cols))
	}
	return left + strings.Repeat(" ", gap) + right
}
