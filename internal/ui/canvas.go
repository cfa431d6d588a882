package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBits maps a dot at (x%2, y%4) inside a cell to its bit in U+2800.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a character grid where every cell holds a 2x4 braille dot
// matrix, a foreground color and an optional background shade.
// Later writes to a cell replace its color unless the earlier write had a
// higher layer.
type Canvas struct {
	cols, rows int
	bits       []uint8
	fg         []lipgloss.Color
	layer      []int
	bg         []lipgloss.Color
}

// NewCanvas returns a canvas of cols x rows character cells.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	n := cols * rows
	return &Canvas{
		cols:  cols,
		rows:  rows,
		bits:  make([]uint8, n),
		fg:    make([]lipgloss.Color, n),
		layer: make([]int, n),
		bg:    make([]lipgloss.Color, n),
	}
}

// Dots returns the drawable resolution in braille dots.
func (c *Canvas) Dots() (w, h int) { return c.cols * 2, c.rows * 4 }

// Set lights the dot at (x, y) on layer 0.
func (c *Canvas) Set(x, y int, color lipgloss.Color) { c.SetLayer(x, y, color, 0) }

// SetLayer lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) SetLayer(x, y int, color lipgloss.Color, layer int) {
	w, h := c.Dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	i := (y/4)*c.cols + x/2
	c.bits[i] |= brailleBits[x%2][y%4]
	if c.fg[i] == "" || layer >= c.layer[i] {
		c.fg[i] = color
		c.layer[i] = layer
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	w, h := c.Dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return c.bits[(y/4)*c.cols+x/2]&brailleBits[x%2][y%4] != 0
}

// Shade sets the background of character cell (col, row).
func (c *Canvas) Shade(col, row int, color lipgloss.Color) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.bg[row*c.cols+col] = color
}

// Line draws a straight segment between two dots (Bresenham).
func (c *Canvas) Line(x0, y0, x1, y1 int, color lipgloss.Color, layer int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.SetLayer(x0, y0, color, layer)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Plain renders the dots without styling.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.glyph(row*c.cols + col))
		}
	}
	return b.String()
}

// String renders the canvas with colors, one styled run per stretch of
// cells sharing the same colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		start := row * c.cols
		var run strings.Builder
		runFg, runBg := c.fg[start], c.bg[start]
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle()
			if runFg != "" {
				st = st.Foreground(runFg)
			}
			if runBg != "" {
				st = st.Background(runBg)
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			i := start + col
			if c.fg[i] != runFg || c.bg[i] != runBg {
				flush()
				runFg, runBg = c.fg[i], c.bg[i]
			}
			run.WriteRune(c.glyph(i))
		}
		flush()
	}
	return b.String()
}

func (c *Canvas) glyph(i int) rune {
	if c.bits[i] == 0 {
		return ' '
	}
	return rune(0x2800 + int(c.bits[i]))
}

// scale maps v from [lo, hi] onto [0, n-1] dots. A zero-width domain maps
// everything to the middle.
func scale(v, lo, hi float64, n int) int {
	if n <= 1 {
		return 0
	}
	if hi <= lo {
		return (n - 1) / 2
	}
	p := int((v - lo) / (hi - lo) * float64(n-1))
	return min(max(p, 0), n-1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
