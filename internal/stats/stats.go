// Package stats holds the pure numeric helpers behind every view: extents,
// quantiles, magnitude bands, equal-width bins, aggregations and the density
// grid for the plate overlay.
//
// Nothing here knows about selection state. Functions take records or values
// in and return plain values out.
package stats

import (
	"math"
	"sort"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
)

// Quantile breakpoints partitioning magnitudes into three bands.
const (
	LowerBreak = 0.33
	UpperBreak = 0.66
)

// Band is a magnitude quantile band.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// BandColors are the fill colors of the three quantile bands, low to high.
var BandColors = [3]string{"#fee8c8", "#fdbb84", "#e34a33"}

// FirstBinColor is the lighter shade used for the leftmost histogram bar.
const FirstBinColor = "#fdd49e"

// CategoryPalette is indexed by a category's position in the sorted category list.
var CategoryPalette = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Extent is a closed numeric interval.
type Extent struct {
	Min float64
	Max float64
}

// Width returns Max - Min.
func (e Extent) Width() float64 { return e.Max - e.Min }

// Contains reports whether v lies in [Min, Max].
func (e Extent) Contains(v float64) bool { return v >= e.Min && v <= e.Max }

// ExtentOf returns the min and max of the finite values. ok is false when
// there are none.
func ExtentOf(values []float64) (ext Extent, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			ext = Extent{Min: v, Max: v}
			ok = true
			continue
		}
		if v < ext.Min {
			ext.Min = v
		}
		if v > ext.Max {
			ext.Max = v
		}
	}
	return ext, ok
}

// YearExtent is the inclusive range of years present in the dataset.
type YearExtent struct {
	Min int
	Max int
}

// Quantile returns the p-quantile of an ascending slice using linear
// interpolation between closest ranks (the R-7 method). NaN for empty input.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	i := float64(n-1) * p
	i0 := int(math.Floor(i))
	v0 := sorted[i0]
	v1 := sorted[i0+1]
	return v0 + (v1-v0)*(i-float64(i0))
}

// BandOf maps v to a band with threshold semantics: below q1 is low, below q2
// is mid, everything else is high.
func BandOf(v, q1, q2 float64) Band {
	switch {
	case v < q1:
		return BandLow
	case v < q2:
		return BandMid
	default:
		return BandHigh
	}
}

// Global is derived once from the full working dataset and never changes.
type Global struct {
	Magnitudes []float64 // ascending
	MagExtent  Extent
	Q1, Q2     float64
	Years      YearExtent
	Categories []string // ascending, distinct

	categoryIndex map[string]int
}

// Summarize computes the global statistics. Records are assumed valid.
func Summarize(records []dataset.Record) Global {
	g := Global{
		Magnitudes:    make([]float64, 0, len(records)),
		categoryIndex: make(map[string]int),
	}
	seen := make(map[string]bool)
	for i, r := range records {
		g.Magnitudes = append(g.Magnitudes, r.Magnitude)
		if i == 0 {
			g.Years = YearExtent{Min: r.Year, Max: r.Year}
		} else {
			g.Years.Min = min(g.Years.Min, r.Year)
			g.Years.Max = max(g.Years.Max, r.Year)
		}
		if !seen[r.Category] {
			seen[r.Category] = true
			g.Categories = append(g.Categories, r.Category)
		}
	}
	sort.Float64s(g.Magnitudes)
	sort.Strings(g.Categories)
	for i, c := range g.Categories {
		g.categoryIndex[c] = i
	}

	if n := len(g.Magnitudes); n > 0 {
		g.MagExtent = Extent{Min: g.Magnitudes[0], Max: g.Magnitudes[n-1]}
	}
	g.Q1 = Quantile(g.Magnitudes, LowerBreak)
	g.Q2 = Quantile(g.Magnitudes, UpperBreak)
	return g
}

// CategoryIndex returns the position of category in the global ordering.
func (g Global) CategoryIndex(category string) (int, bool) {
	i, ok := g.categoryIndex[category]
	return i, ok
}

// CategoryColor is stable for the lifetime of the dataset.
func (g Global) CategoryColor(category string) string {
	i, ok := g.categoryIndex[category]
	if !ok {
		return CategoryPalette[len(CategoryPalette)-1]
	}
	return CategoryPalette[i%len(CategoryPalette)]
}

// Band returns the quantile band of magnitude v.
func (g Global) Band(v float64) Band {
	return BandOf(v, g.Q1, g.Q2)
}

// BandBounds returns the magnitude interval covered by band b.
func (g Global) BandBounds(b Band) Extent {
	switch b {
	case BandLow:
		return Extent{Min: g.MagExtent.Min, Max: g.Q1}
	case BandMid:
		return Extent{Min: g.Q1, Max: g.Q2}
	default:
		return Extent{Min: g.Q2, Max: g.MagExtent.Max}
	}
}

// Breaks returns [min, Q1, Q2, max] for the legend.
func (g Global) Breaks() [4]float64 {
	return [4]float64{g.MagExtent.Min, g.Q1, g.Q2, g.MagExtent.Max}
}
