package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

var barLevels = []rune(" ▁▂▃▄▅▆▇█")

// binColor is the fill of bin i: the first bar is lighter, the rest take
// the band of their midpoint.
func binColor(b stats.Bin, g stats.Global) lipgloss.Color {
	if b.Index == 0 {
		return lipgloss.Color(stats.FirstBinColor)
	}
	return bandColors[g.Band(b.Mid())]
}

// renderHistogram draws one vertical bar per bin. The selected bin is drawn
// in the highlight color and the cursor sits under its bar.
func renderHistogram(h filter.Histogram, g stats.Global, cursor int, focused bool, cols, rows int) string {
	if h.Empty() || len(h.Bins) == 0 {
		return placeholder(cols, rows)
	}
	barRows := max(rows-2, 1)
	slot := max(cols/len(h.Bins), 1)
	barWidth := max(slot-1, 1)

	peak := 0
	for _, b := range h.Bins {
		peak = max(peak, b.Count)
	}
	heights := make([]int, len(h.Bins))
	for i, b := range h.Bins {
		heights[i] = b.Count * barRows * 8 / max(peak, 1)
		if b.Count > 0 && heights[i] == 0 {
			heights[i] = 1
		}
	}

	var lines []string
	for line := 0; line < barRows; line++ {
		var sb strings.Builder
		floor := (barRows - 1 - line) * 8
		for i, b := range h.Bins {
			level := min(max(heights[i]-floor, 0), 8)
			color := binColor(b, g)
			if i == h.Selected {
				color = colorHighlight
			}
			cell := strings.Repeat(string(barLevels[level]), barWidth)
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(cell))
			sb.WriteString(strings.Repeat(" ", slot-barWidth))
		}
		lines = append(lines, sb.String())
	}

	marks := []rune(strings.Repeat(" ", slot*len(h.Bins)))
	if h.Selected >= 0 && h.Selected < len(h.Bins) {
		for x := h.Selected * slot; x < h.Selected*slot+barWidth; x++ {
			marks[x] = '━'
		}
	}
	if focused && cursor >= 0 && cursor < len(h.Bins) {
		marks[cursor*slot] = '▲'
	}
	lines = append(lines, SelectedItem.Render(string(marks)))

	lo := fmt.Sprintf("%.1f", h.Extent.Min)
	hi := fmt.Sprintf("%.1f", h.Extent.Max)
	lines = append(lines, AxisLabel.Render(spread(lo, hi, slot*len(h.Bins))))
	return strings.Join(lines, "\n")
}

// binLabel describes bin i for the panel title.
func binLabel(h filter.Histogram, i int) string {
	if i < 0 || i >= len(h.Bins) {
		return ""
	}
	b := h.Bins[i]
	return fmt.Sprintf("%.2f–%.2f · %d", b.X0, b.X1, b.Count)
}
