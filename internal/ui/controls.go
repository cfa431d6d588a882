package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// renderCategories draws the category checkbox list.
func renderCategories(g stats.Global, s selection.State, cursor int, focused bool, cols, rows int) string {
	if len(g.Categories) == 0 {
		return placeholder(cols, rows)
	}
	var lines []string
	for i, c := range g.Categories {
		box := "[ ]"
		if s.IsActive(c) {
			box = "[x]"
		}
		name := truncate.StringWithTail(c, uint(max(cols-6, 1)), "…")
		line := box + " " + swatch(lipgloss.Color(g.CategoryColor(c))) + " "
		switch {
		case focused && i == cursor:
			line += CursorItem.Render(name)
		case c == s.SelectedCategory:
			line += SelectedItem.Render(name)
		case !s.IsActive(c):
			line += InactiveItem.Render(name)
		default:
			line += name
		}
		lines = append(lines, line)
	}
	if len(lines) > rows {
		start := min(max(cursor-rows+1, 0), len(lines)-rows)
		lines = lines[start : start+rows]
	}
	return strings.Join(lines, "\n")
}

// renderLegend draws the three magnitude bands with their bounds.
func renderLegend(g stats.Global) string {
	names := [3]string{"low", "mid", "high"}
	var lines []string
	for b := stats.BandLow; b <= stats.BandHigh; b++ {
		ext := g.BandBounds(b)
		lines = append(lines, fmt.Sprintf("%s %-4s %.2f–%.2f", swatch(bandColors[b]), names[b], ext.Min, ext.Max))
	}
	return strings.Join(lines, "\n")
}

// newYearInputs returns the min and max year inputs, blurred.
func newYearInputs() [2]textinput.Model {
	var inputs [2]textinput.Model
	for i, prompt := range []string{"from ", "to   "} {
		ti := textinput.New()
		ti.Prompt = prompt
		ti.PromptStyle = InputPrompt
		ti.Placeholder = "year"
		ti.CharLimit = 6
		ti.Width = 6
		inputs[i] = ti
	}
	return inputs
}

func renderYearInputs(inputs [2]textinput.Model) string {
	return inputs[0].View() + "\n" + inputs[1].View()
}
