package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// Palette. The accent follows the high magnitude band so focus and
// selection read as part of the same scale as the map.
var (
	colorPrimary   = lipgloss.Color("#e34a33")
	colorSecondary = lipgloss.Color("245")
	colorMuted     = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("#fdbb84")
	colorSuccess   = lipgloss.Color("#7fc97f")
	colorOutline   = lipgloss.Color("238")
	colorDensity   = lipgloss.Color("#3b2f4a")
	colorInk       = lipgloss.Color("231")
	colorShade     = lipgloss.Color("236")
)

var bandColors = [3]lipgloss.Color{
	lipgloss.Color(stats.BandColors[stats.BandLow]),
	lipgloss.Color(stats.BandColors[stats.BandMid]),
	lipgloss.Color(stats.BandColors[stats.BandHigh]),
}

// panelChrome is the width and height taken by a panel border.
const panelChrome = 2

var (
	Panel        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted)
	FocusedPanel = Panel.BorderForeground(colorPrimary)
	PanelTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)

	Header    = lipgloss.NewStyle().Bold(true).Foreground(colorInk).Background(colorPrimary).Padding(0, 1)
	YearBadge = lipgloss.NewStyle().Foreground(colorHighlight).Background(colorShade).Padding(0, 1).MarginLeft(1)

	Placeholder  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	CursorItem   = lipgloss.NewStyle().Bold(true).Foreground(colorInk).Background(colorPrimary)
	SelectedItem = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight) // drilled category, picked years
	InactiveItem = lipgloss.NewStyle().Foreground(colorSecondary).Strikethrough(true)
	DimmedItem   = lipgloss.NewStyle().Foreground(colorMuted)
	AxisLabel    = lipgloss.NewStyle().Foreground(colorSecondary)
	InputPrompt  = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
)

var (
	StatusBar     = lipgloss.NewStyle().Foreground(colorInk).Background(colorShade).Padding(0, 1)
	StatusBarKey  = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	StatusBarText = lipgloss.NewStyle().Foreground(colorSecondary)

	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Padding(0, 1)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Padding(0, 1)
	LoadingStyle = lipgloss.NewStyle().Foreground(colorSuccess).Padding(1, 2)

	DebugPanel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(1, 2)
	DebugHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
)

func swatch(color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render("■")
}
