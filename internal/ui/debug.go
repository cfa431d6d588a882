package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/otel"
)

// DebugPanel adds two border and two padding lines.
const debugPanelChrome = 4

const recentEvents = 20

// debugOverlay summarizes the telemetry ring: commands reduced so far, the
// cost of the last derivation pass and the newest events.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}
	var lines []string
	lines = append(lines, commandSection(ring)...)
	lines = append(lines, "")
	lines = append(lines, renderSection(ring)...)
	lines = append(lines, "")
	lines = append(lines, eventSection(ring.Last(recentEvents))...)

	if limit := max(height-debugPanelChrome, 1); len(lines) > limit {
		lines = lines[:limit]
	}
	w := min(max(width-4, 20), 76)
	return DebugPanel.Width(w).Render(strings.Join(lines, "\n"))
}

func commandSection(ring *otel.RingBuffer) []string {
	applied, noop := ring.CommandStats()
	var names []string
	for name := range applied {
		names = append(names, name)
	}
	for name := range noop {
		if _, ok := applied[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	out := []string{DebugHeaderStyle.Render("Selection Commands")}
	if len(names) == 0 {
		return append(out, "  none yet")
	}
	for _, name := range names {
		out = append(out, fmt.Sprintf("  %-16s %d applied, %d no-op", name, applied[name], noop[name]))
	}
	return out
}

func renderSection(ring *otel.RingBuffer) []string {
	stats := ring.Stats()
	out := []string{
		DebugHeaderStyle.Render("Render"),
		fmt.Sprintf("  Passes:     %d", stats[otel.KindRenderPass]),
	}
	if last, ok := ring.LastOf(otel.KindRenderPass); ok {
		out = append(out, fmt.Sprintf("  Last pass:  %s (%s, %d on map)", formatDur(last.Dur), last.Command, last.Count))
	}
	return append(out,
		fmt.Sprintf("  Dataset:    %d loads, %d warnings, %d errors",
			stats[otel.KindDatasetLoad], stats[otel.KindDatasetWarn], stats[otel.KindDatasetError]),
		fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()),
	)
}

func eventSection(events []otel.Event) []string {
	out := []string{DebugHeaderStyle.Render("Recent Events")}
	now := time.Now()
	for _, e := range events {
		var b strings.Builder
		fmt.Fprintf(&b, "  %6s  %-18s", formatAge(now.Sub(e.Time)), e.Kind)
		if e.Command != "" {
			b.WriteString("  " + e.Command)
		}
		if e.Msg != "" {
			b.WriteString("  " + truncate.StringWithTail(e.Msg, 40, "…"))
		}
		if e.Err != "" {
			b.WriteString("  ERR:" + truncate.StringWithTail(e.Err, 30, "…"))
		}
		out = append(out, b.String())
	}
	return out
}

// formatAge renders an event age compactly; clock skew reads as 0ms.
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fm", d.Minutes())
}

func formatDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}

func debugStatusBar(width int) string {
	return StatusBar.Width(width).Render("  [DEBUG]  " + StatusBarKey.Render("D") + StatusBarText.Render(":close"))
}
