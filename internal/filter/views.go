package filter

import (
	"math"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// Axis picks the x value of a scatter panel.
type Axis int

const (
	AxisHorizontalDistance Axis = iota
	AxisDepth
)

func (a Axis) String() string {
	if a == AxisDepth {
		return "Depth"
	}
	return "Horizontal Distance"
}

func (a Axis) value(r dataset.Record) float64 {
	if a == AxisDepth {
		return r.DepthAlt
	}
	return r.HorizontalDistance
}

// Point is one scatter mark.
type Point struct {
	X        float64
	Y        float64 // magnitude
	Category string
}

// ScatterPoints maps records to (axis value, magnitude). Records without a
// finite axis value are dropped.
func ScatterPoints(records []dataset.Record, axis Axis) []Point {
	points := make([]Point, 0, len(records))
	for _, r := range records {
		x := axis.value(r)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		points = append(points, Point{X: x, Y: r.Magnitude, Category: r.Category})
	}
	return points
}

// AllCategories labels the single trend series drawn without a drilldown.
const AllCategories = "All"

// Series is one trend line.
type Series struct {
	Category  string
	Points    []stats.YearAggregate
	Highlight bool
}

// TrendSeries aggregates trend input by year. Without a drilldown there is a
// single series over every record; with one, there is a series per active
// category (in the given order) and the drilled one is highlighted.
func TrendSeries(trend []dataset.Record, s selection.State, order []string) []Series {
	if len(trend) == 0 {
		return nil
	}
	if s.SelectedCategory == "" {
		return []Series{{Category: AllCategories, Points: stats.AggregateByYear(trend)}}
	}

	var series []Series
	for _, c := range order {
		if !s.IsActive(c) {
			continue
		}
		pts := stats.AggregateByYear(ByCategory(trend, c))
		if len(pts) == 0 {
			continue
		}
		series = append(series, Series{Category: c, Points: pts, Highlight: c == s.SelectedCategory})
	}
	return series
}

// Histogram is the magnitude histogram input for one render pass.
type Histogram struct {
	Bins     []stats.Bin
	Extent   stats.Extent
	Selected int // selected bin index, -1 for none
	Total    int
}

// Empty reports whether no magnitudes fall in the histogram.
func (h Histogram) Empty() bool { return h.Total == 0 }

// Counts summarizes the size of each subset.
type Counts struct {
	Total int
	Core  int
	Mag   int
	Map   int
	Trend int
}

// Views is everything a render pass draws, derived in one go from the store
// and a snapshot.
type Views struct {
	State     selection.State
	Map       []dataset.Record
	Histogram Histogram
	Trend     []Series
	Distance  []Point
	Depth     []Point
	TypeBars  []stats.CategoryAggregate
	Density   stats.Grid // empty unless the overlay is on
	Counts    Counts
}

// Derive runs the full derivation pass.
func Derive(st *model.Store, s selection.State) Views {
	records := st.Records()
	g := st.Global()

	core := CoreFiltered(records, s)
	mag := ByMagnitudeBin(core, s.SelectedBin)
	mapped := ByCategory(mag, s.SelectedCategory)
	trend := TrendFiltered(records, s)

	mags := make([]float64, len(core))
	for i, rec := range core {
		mags[i] = rec.Magnitude
	}
	selected := -1
	if s.SelectedBin != nil {
		selected = s.SelectedBin.Index
	}

	v := Views{
		State: s,
		Map:   mapped,
		Histogram: Histogram{
			Bins:     stats.HistogramBins(mags, g.MagExtent, stats.DefaultBinCount),
			Extent:   g.MagExtent,
			Selected: selected,
			Total:    len(mags),
		},
		Trend:    TrendSeries(trend, s, g.Categories),
		Distance: ScatterPoints(mapped, AxisHorizontalDistance),
		Depth:    ScatterPoints(mapped, AxisDepth),
		TypeBars: stats.AggregateByCategory(mag, g.Categories),
		Counts: Counts{
			Total: len(records),
			Core:  len(core),
			Mag:   len(mag),
			Map:   len(mapped),
			Trend: len(trend),
		},
	}
	if s.DensityOverlay {
		v.Density = st.Density()
	}
	return v
}
