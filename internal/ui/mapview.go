package ui

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// densityLevels shade map cells by overlay density, weakest first.
var densityLevels = []struct {
	min   float64
	color lipgloss.Color
}{
	{0.15, colorDensity},
	{0.5, lipgloss.Color("#553d6b")},
	{0.8, lipgloss.Color("#74508f")},
}

// renderMap draws the map subset over the outline on an equirectangular
// projection. Markers grow with the magnitude band.
func renderMap(v filter.Views, g stats.Global, geom *dataset.Geometry, cols, rows int) string {
	if len(v.Map) == 0 {
		return placeholder(cols, rows)
	}
	c := NewCanvas(cols, rows)
	w, h := c.Dots()
	project := func(lat, lon float64) (int, int) {
		return scale(lon, -180, 180, w), scale(-lat, -90, 90, h)
	}

	if !v.Density.Empty() {
		for row := 0; row < rows; row++ {
			lat := 90 - (float64(row)+0.5)/float64(rows)*180
			for col := 0; col < cols; col++ {
				lon := -180 + (float64(col)+0.5)/float64(cols)*360
				d := v.Density.ValueAt(lat, lon)
				for _, lvl := range densityLevels {
					if d >= lvl.min {
						c.Shade(col, row, lvl.color)
					}
				}
			}
		}
	}

	if !geom.Empty() {
		for _, ring := range geom.Rings {
			for i := 1; i < len(ring); i++ {
				a, b := ring[i-1], ring[i]
				if math.Abs(a[0]-b[0]) > 180 {
					continue // antimeridian wrap
				}
				x0, y0 := project(a[1], a[0])
				x1, y1 := project(b[1], b[0])
				c.Line(x0, y0, x1, y1, colorOutline, -1)
			}
		}
	}

	for _, r := range v.Map {
		x, y := project(r.Latitude, r.Longitude)
		band := g.Band(r.Magnitude)
		color := bandColors[band]
		c.SetLayer(x, y, color, int(band))
		if band >= stats.BandMid {
			c.SetLayer(x+1, y, color, int(band))
		}
		if band == stats.BandHigh {
			c.SetLayer(x, y+1, color, int(band))
			c.SetLayer(x+1, y+1, color, int(band))
		}
	}
	return c.String()
}
