package stats

import (
	"sort"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
)

// YearAggregate is one point of a trend line.
type YearAggregate struct {
	Year          int
	Count         int
	MeanMagnitude float64
}

// AggregateByYear groups records by year, ascending.
func AggregateByYear(records []dataset.Record) []YearAggregate {
	sums := make(map[int]*YearAggregate)
	for _, r := range records {
		a, ok := sums[r.Year]
		if !ok {
			a = &YearAggregate{Year: r.Year}
			sums[r.Year] = a
		}
		a.Count++
		a.MeanMagnitude += r.Magnitude
	}

	out := make([]YearAggregate, 0, len(sums))
	for _, a := range sums {
		a.MeanMagnitude /= float64(a.Count)
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// CategoryAggregate is one bar of the category chart.
type CategoryAggregate struct {
	Category      string
	Count         int
	MeanMagnitude float64
}

// AggregateByCategory groups records by category and emits them in the given
// order. Categories absent from records are omitted; categories absent from
// order are appended alphabetically.
func AggregateByCategory(records []dataset.Record, order []string) []CategoryAggregate {
	sums := make(map[string]*CategoryAggregate)
	for _, r := range records {
		a, ok := sums[r.Category]
		if !ok {
			a = &CategoryAggregate{Category: r.Category}
			sums[r.Category] = a
		}
		a.Count++
		a.MeanMagnitude += r.Magnitude
	}

	out := make([]CategoryAggregate, 0, len(sums))
	emit := func(c string) {
		if a, ok := sums[c]; ok {
			a.MeanMagnitude /= float64(a.Count)
			out = append(out, *a)
			delete(sums, c)
		}
	}
	for _, c := range order {
		emit(c)
	}
	if len(sums) > 0 {
		rest := make([]string, 0, len(sums))
		for c := range sums {
			rest = append(rest, c)
		}
		sort.Strings(rest)
		for _, c := range rest {
			emit(c)
		}
	}
	return out
}
