package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

func TestCanvasBraille(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, colorPrimary)
	c.Set(1, 3, colorPrimary)

	if got := c.Plain(); got != "⢁ " {
		t.Errorf("expected %q, got %q", "⢁ ", got)
	}
	if !c.Lit(1, 3) || c.Lit(2, 0) {
		t.Error("Lit disagrees with Set")
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(-1, 0, colorPrimary)
	c.Set(2, 0, colorPrimary)
	c.Set(0, 4, colorPrimary)
	if got := c.Plain(); got != " " {
		t.Errorf("expected blank canvas, got %q", got)
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Line(0, 0, 7, 0, colorPrimary, 0)
	for x := 0; x < 8; x++ {
		if !c.Lit(x, 0) {
			t.Errorf("dot %d should be lit", x)
		}
	}
	if c.Lit(0, 1) {
		t.Error("horizontal line should stay on row 0")
	}
}

func TestCanvasLayerKeepsHigherColor(t *testing.T) {
	c := NewCanvas(1, 1)
	c.SetLayer(0, 0, colorHighlight, 2)
	c.SetLayer(1, 0, colorMuted, 0)
	if c.fg[0] != colorHighlight {
		t.Errorf("lower layer should not repaint, got %v", c.fg[0])
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		v, lo, hi float64
		n, want   int
	}{
		{0, 0, 10, 11, 0},
		{10, 0, 10, 11, 10},
		{5, 0, 10, 11, 5},
		{-3, 0, 10, 11, 0},
		{42, 0, 10, 11, 10},
		{3, 3, 3, 9, 4},
	}
	for _, tt := range tests {
		if got := scale(tt.v, tt.lo, tt.hi, tt.n); got != tt.want {
			t.Errorf("scale(%v, %v, %v, %d) = %d, want %d", tt.v, tt.lo, tt.hi, tt.n, got, tt.want)
		}
	}
}

func TestPanelsShowPlaceholderWhenEmpty(t *testing.T) {
	g := stats.Summarize(nil)
	s := selection.State{}

	panels := map[string]string{
		"map":       renderMap(filter.Views{}, g, nil, 20, 5),
		"histogram": renderHistogram(filter.Histogram{Selected: -1}, g, 0, false, 40, 6),
		"trend":     renderTrend(nil, s, g, 0, false, 20, 5),
		"scatter":   renderScatter(nil, filter.AxisDepth, g, 20, 5),
		"typebars":  renderTypeBars(nil, s, g, 0, false, 30, 3),
	}
	for name, out := range panels {
		if !strings.Contains(out, noData) {
			t.Errorf("%s: expected %q placeholder, got %q", name, noData, out)
		}
	}
}

func TestRenderHistogramMarksSelection(t *testing.T) {
	bins := stats.HistogramBins([]float64{5, 5.5, 6, 7}, stats.Extent{Min: 5, Max: 7}, stats.DefaultBinCount)
	h := filter.Histogram{Bins: bins, Extent: stats.Extent{Min: 5, Max: 7}, Selected: 2, Total: 4}
	g := stats.Summarize(nil)

	out := renderHistogram(h, g, 4, true, 60, 8)
	if !strings.Contains(out, "━") {
		t.Error("selected bin should be underlined")
	}
	if !strings.Contains(out, "▲") {
		t.Error("focused histogram should show the cursor")
	}
	if !strings.Contains(out, "5.0") || !strings.Contains(out, "7.0") {
		t.Error("axis should show the global extent")
	}
	if got := binLabel(h, 2); got != "5.20–5.30 · 0" {
		t.Errorf("unexpected bin label %q", got)
	}
}

func TestRenderTypeBars(t *testing.T) {
	bars := []stats.CategoryAggregate{
		{Category: "Earthquake", Count: 12345, MeanMagnitude: 5.9},
		{Category: "Nuclear Explosion", Count: 12, MeanMagnitude: 5.6},
	}
	s := selection.State{SelectedCategory: "Nuclear Explosion"}
	out := renderTypeBars(bars, s, stats.Summarize(nil), 0, true, 60, 5)

	for _, want := range []string{"Earthquake", "12,345", "μ5.90", "›"} {
		if !strings.Contains(out, want) {
			t.Errorf("type bars should contain %q, got:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 2 {
		t.Errorf("expected one line per category, got %d", lines)
	}
}

func TestTypeBarsDimOthersWhileDrilled(t *testing.T) {
	g := stats.Summarize([]dataset.Record{
		{Category: "Earthquake", Magnitude: 6},
		{Category: "Explosion", Magnitude: 5.6},
	})

	open := selection.State{}
	for _, c := range g.Categories {
		if dimmedBar(c, open) {
			t.Errorf("%s dimmed without a drilldown", c)
		}
		if got := barStyle(c, open, g).GetForeground(); got != lipgloss.Color(g.CategoryColor(c)) {
			t.Errorf("%s bar color = %v, want its category color", c, got)
		}
	}

	drilled := selection.State{SelectedCategory: "Explosion"}
	if dimmedBar("Explosion", drilled) {
		t.Error("drilled category dimmed")
	}
	if got := barStyle("Explosion", drilled, g).GetForeground(); got != lipgloss.Color(g.CategoryColor("Explosion")) {
		t.Errorf("drilled bar color = %v", got)
	}
	if !dimmedBar("Earthquake", drilled) {
		t.Error("other category not dimmed")
	}
	if got := barStyle("Earthquake", drilled, g).GetForeground(); got != colorMuted {
		t.Errorf("other bar color = %v, want %v", got, colorMuted)
	}
}

func TestRenderLegend(t *testing.T) {
	g := stats.Global{MagExtent: stats.Extent{Min: 5.5, Max: 9.1}, Q1: 5.7, Q2: 6.1}
	out := renderLegend(g)
	for _, want := range []string{"low  5.50–5.70", "mid  5.70–6.10", "high 6.10–9.10"} {
		if !strings.Contains(out, want) {
			t.Errorf("legend should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderCategories(t *testing.T) {
	g := stats.Summarize(testStore(t).Records())
	s := selection.State{ActiveCategories: map[string]bool{"Earthquake": true}}
	out := renderCategories(g, s, 0, false, 26, 10)

	if !strings.Contains(out, "[x]") || !strings.Contains(out, "[ ]") {
		t.Errorf("expected checked and unchecked boxes, got:\n%s", out)
	}
	if strings.Count(out, "\n")+1 != len(g.Categories) {
		t.Errorf("expected one line per category, got:\n%s", out)
	}
}
