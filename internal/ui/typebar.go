package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

const maxLabelWidth = 16

// renderTypeBars draws one horizontal bar per category with its count and
// mean magnitude. While a category is drilled into, it is highlighted and
// the others are dimmed.
func renderTypeBars(bars []stats.CategoryAggregate, s selection.State, g stats.Global, cursor int, focused bool, cols, rows int) string {
	if len(bars) == 0 {
		return placeholder(cols, rows)
	}
	labelW := 0
	peak := 0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Category))
		peak = max(peak, b.Count)
	}
	labelW = min(labelW, maxLabelWidth)

	var lines []string
	for i, b := range bars {
		count := fmt.Sprintf(" %s  μ%.2f", humanize.Comma(int64(b.Count)), b.MeanMagnitude)
		barW := max(cols-labelW-3-lipgloss.Width(count), 1)
		n := max(b.Count*barW/max(peak, 1), 1)

		label := truncate.StringWithTail(b.Category, uint(labelW), "…")
		label += strings.Repeat(" ", labelW-lipgloss.Width(label))
		switch {
		case focused && i == cursor:
			label = CursorItem.Render(label)
		case b.Category == s.SelectedCategory:
			label = SelectedItem.Render(label)
		case dimmedBar(b.Category, s):
			label = DimmedItem.Render(label)
		}

		mark := "  "
		if b.Category == s.SelectedCategory {
			mark = SelectedItem.Render("› ")
		}
		bar := barStyle(b.Category, s, g).Render(strings.Repeat("█", n))
		lines = append(lines, mark+label+" "+bar+AxisLabel.Render(count))
	}
	if len(lines) > rows {
		start := min(max(cursor-rows+1, 0), len(lines)-rows)
		lines = lines[start : start+rows]
	}
	return strings.Join(lines, "\n")
}

func dimmedBar(category string, s selection.State) bool {
	return s.SelectedCategory != "" && category != s.SelectedCategory
}

func barStyle(category string, s selection.State, g stats.Global) lipgloss.Style {
	if dimmedBar(category, s) {
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(g.CategoryColor(category)))
}
