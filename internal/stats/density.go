package stats

import (
	"math"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
)

// MinDensityPoints is the smallest point set that produces a density grid.
const MinDensityPoints = 5

// Grid is an equirectangular density raster. Row 0 is the northern edge,
// column 0 the antimeridian at -180°. Cells are normalised to [0, 1].
type Grid struct {
	Cols  int
	Rows  int
	Cells []float64
}

// Empty reports whether the grid carries no density.
func (g Grid) Empty() bool { return len(g.Cells) == 0 }

// At returns the value of cell (col, row), 0 when out of range.
func (g Grid) At(col, row int) float64 {
	if g.Empty() || col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return 0
	}
	return g.Cells[row*g.Cols+col]
}

// ValueAt returns the density at a geographic position.
func (g Grid) ValueAt(lat, lon float64) float64 {
	if g.Empty() {
		return 0
	}
	col, row := cellOf(lat, lon, g.Cols, g.Rows)
	return g.At(col, row)
}

func cellOf(lat, lon float64, cols, rows int) (int, int) {
	col := int(math.Floor((lon + 180) / 360 * float64(cols)))
	row := int(math.Floor((90 - lat) / 180 * float64(rows)))
	return min(max(col, 0), cols-1), min(max(row, 0), rows-1)
}

// DensityGrid counts points per cell, smooths with a 3x3 box kernel and
// normalises by the maximum. Fewer than MinDensityPoints finite points yield
// an empty grid.
func DensityGrid(points []dataset.PlatePoint, cols, rows int) Grid {
	if cols <= 0 || rows <= 0 {
		return Grid{}
	}
	counts := make([]float64, cols*rows)
	n := 0
	for _, p := range points {
		if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
			continue
		}
		col, row := cellOf(p.Latitude, p.Longitude, cols, rows)
		counts[row*cols+col]++
		n++
	}
	if n < MinDensityPoints {
		return Grid{}
	}

	cells := make([]float64, cols*rows)
	peak := 0.0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			sum := 0.0
			for dr := -1; dr <= 1; dr++ {
				r := row + dr
				if r < 0 || r >= rows {
					continue
				}
				for dc := -1; dc <= 1; dc++ {
					// Longitude wraps.
					c := (col + dc + cols) % cols
					sum += counts[r*cols+c]
				}
			}
			cells[row*cols+col] = sum
			peak = math.Max(peak, sum)
		}
	}
	for i := range cells {
		cells[i] /= peak
	}
	return Grid{Cols: cols, Rows: rows, Cells: cells}
}
