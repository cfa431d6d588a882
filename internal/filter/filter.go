// Package filter derives the subset every view draws from the Record Store
// and a selection snapshot. All functions are pure: records in, records out.
//
// Each view depends on a different slice of the selection:
//
//	CoreFiltered    year range + active categories
//	MagFiltered     CoreFiltered + selected magnitude bin
//	MapFiltered     MagFiltered + category drilldown (map, scatter)
//	TrendFiltered   active categories + selected bin, never the year range
//	HistogramInput  CoreFiltered magnitudes, never the bin itself
//	TypeBarInput    MagFiltered by category, never the drilldown
package filter

import (
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// Epsilon widens the right edge of a selected bin so a magnitude equal to
// the edge survives floating-point comparison.
const Epsilon = 1e-6

// ByYearRange keeps records whose year lies in r (inclusive).
func ByYearRange(records []dataset.Record, r selection.YearRange) []dataset.Record {
	result := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Year) {
			result = append(result, rec)
		}
	}
	return result
}

// ByCategories keeps records whose category is in active.
func ByCategories(records []dataset.Record, active map[string]bool) []dataset.Record {
	result := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if active[rec.Category] {
			result = append(result, rec)
		}
	}
	return result
}

// ByMagnitudeBin keeps records with magnitude in [bin.Min, bin.Max + Epsilon).
// A nil bin keeps everything.
func ByMagnitudeBin(records []dataset.Record, bin *selection.MagnitudeBin) []dataset.Record {
	result := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if inBin(rec.Magnitude, bin) {
			result = append(result, rec)
		}
	}
	return result
}

// ByCategory keeps records of one category. An empty category keeps everything.
func ByCategory(records []dataset.Record, category string) []dataset.Record {
	result := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if category == "" || rec.Category == category {
			result = append(result, rec)
		}
	}
	return result
}

func inBin(mag float64, bin *selection.MagnitudeBin) bool {
	return bin == nil || (mag >= bin.Min && mag < bin.Max+Epsilon)
}

// CoreFiltered applies the year range and the category checkboxes.
func CoreFiltered(records []dataset.Record, s selection.State) []dataset.Record {
	return ByCategories(ByYearRange(records, s.YearRange), s.ActiveCategories)
}

// MagFiltered is CoreFiltered restricted to the selected magnitude bin.
func MagFiltered(records []dataset.Record, s selection.State) []dataset.Record {
	return ByMagnitudeBin(CoreFiltered(records, s), s.SelectedBin)
}

// MapFiltered is MagFiltered restricted to the drilled-into category. This is
// what the map and the scatter panels draw.
func MapFiltered(records []dataset.Record, s selection.State) []dataset.Record {
	return ByCategory(MagFiltered(records, s), s.SelectedCategory)
}

// TrendFiltered ignores the year range: the trend chart is where years are
// picked, so it always shows the whole time axis.
func TrendFiltered(records []dataset.Record, s selection.State) []dataset.Record {
	result := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if s.ActiveCategories[rec.Category] && inBin(rec.Magnitude, s.SelectedBin) {
			result = append(result, rec)
		}
	}
	return result
}

// HistogramInput returns the CoreFiltered magnitudes. The selected bin is
// highlighted by the view, not removed here.
func HistogramInput(records []dataset.Record, s selection.State) []float64 {
	core := CoreFiltered(records, s)
	mags := make([]float64, len(core))
	for i, rec := range core {
		mags[i] = rec.Magnitude
	}
	return mags
}

// TypeBarInput aggregates MagFiltered by category in the global category
// order. The drilldown is not applied: the bar chart keeps every category and
// dims the others instead.
func TypeBarInput(records []dataset.Record, s selection.State, order []string) []stats.CategoryAggregate {
	return stats.AggregateByCategory(MagFiltered(records, s), order)
}
