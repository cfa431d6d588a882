package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// renderTrend draws yearly counts as lines over the full data year extent.
// Picked years get a solid marker, the cursor year a dotted one.
func renderTrend(series []filter.Series, s selection.State, g stats.Global, cursor int, focused bool, cols, rows int) string {
	if len(series) == 0 {
		return placeholder(cols, rows)
	}
	c := NewCanvas(cols, max(rows-1, 1))
	w, h := c.Dots()
	lo, hi := float64(g.Years.Min), float64(g.Years.Max)

	peak := 0
	for _, sr := range series {
		for _, p := range sr.Points {
			peak = max(peak, p.Count)
		}
	}

	xOf := func(year int) int { return scale(float64(year), lo, hi, w) }
	yOf := func(n int) int { return h - 1 - scale(float64(n), 0, float64(peak), h) }

	for _, year := range s.PickedYears {
		x := xOf(year)
		for y := 0; y < h; y++ {
			c.SetLayer(x, y, colorHighlight, 3)
		}
	}
	if focused {
		x := xOf(cursor)
		for y := 0; y < h; y += 2 {
			c.SetLayer(x, y, colorSecondary, 3)
		}
	}

	drilled := s.SelectedCategory != ""
	for _, sr := range series {
		color, layer := colorSuccess, 1
		switch {
		case sr.Highlight:
			color, layer = lipgloss.Color(g.CategoryColor(sr.Category)), 2
		case drilled:
			color = colorMuted
		}
		prevX, prevY := -1, -1
		for _, p := range sr.Points {
			x, y := xOf(p.Year), yOf(p.Count)
			if prevX >= 0 {
				c.Line(prevX, prevY, x, y, color, layer)
			} else {
				c.SetLayer(x, y, color, layer)
			}
			prevX, prevY = x, y
		}
	}

	axis := spread(strconv.Itoa(g.Years.Min), strconv.Itoa(g.Years.Max), cols)
	return c.String() + "\n" + AxisLabel.Render(axis)
}

// trendLegend names the series drawn in the trend panel.
func trendLegend(series []filter.Series, g stats.Global) string {
	var parts []string
	for _, sr := range series {
		if sr.Category == filter.AllCategories {
			parts = append(parts, swatch(colorSuccess)+" all types")
			continue
		}
		if sr.Highlight {
			parts = append(parts, swatch(lipgloss.Color(g.CategoryColor(sr.Category)))+" "+sr.Category)
		}
	}
	return strings.Join(parts, "  ")
}

// yearLabel describes the cursor year for the panel title.
func yearLabel(series []filter.Series, year int) string {
	n := 0
	for _, sr := range series {
		if sr.Highlight || sr.Category == filter.AllCategories {
			for _, p := range sr.Points {
				if p.Year == year {
					n = p.Count
				}
			}
		}
	}
	return fmt.Sprintf("%d · %d", year, n)
}

// renderScatter plots magnitude against the axis value. x runs from 0 to the
// largest value present; y spans the global magnitude extent.
func renderScatter(points []filter.Point, axis filter.Axis, g stats.Global, cols, rows int) string {
	if len(points) == 0 {
		return placeholder(cols, rows)
	}
	c := NewCanvas(cols, max(rows-1, 1))
	w, h := c.Dots()

	xMax := 0.0
	for _, p := range points {
		xMax = max(xMax, p.X)
	}
	if xMax <= 0 {
		xMax = 1
	}
	for _, p := range points {
		x := scale(p.X, 0, xMax, w)
		y := h - 1 - scale(p.Y, g.MagExtent.Min, g.MagExtent.Max, h)
		c.Set(x, y, lipgloss.Color(g.CategoryColor(p.Category)))
	}

	unit := ""
	if axis == filter.AxisDepth {
		unit = " km"
	}
	labels := spread("0", fmt.Sprintf("%.0f%s", xMax, unit), cols)
	return c.String() + "\n" + AxisLabel.Render(labels)
}
