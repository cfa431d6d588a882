package filter

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

var nan = math.NaN()

func rec(id string, cat string, year int, mag, hdist, depth float64) dataset.Record {
	return dataset.Record{
		ID: id, Latitude: 1, Longitude: 2, Magnitude: mag, Year: year, Category: cat,
		Depth: depth, DepthAlt: depth, HorizontalDistance: hdist,
	}
}

func fixture(t *testing.T) (*model.Store, selection.Reducer) {
	t.Helper()
	st, err := model.NewStore([]dataset.Record{
		rec("E1", "Earthquake", 1965, 5.5, 10, 30),
		rec("E2", "Earthquake", 1980, 6.0, nan, 10),
		rec("E3", "Earthquake", 1995, 7.2, 3, nan),
		rec("X1", "Explosion", 1980, 5.6, 0.5, 0),
		rec("X2", "Explosion", 2010, 6.4, nan, nan),
		rec("N1", "Nuclear Explosion", 1960, 5.9, nan, 1),
		rec("E4", "Earthquake", 2016, 8.0, 1, 600),
	}, nil, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return st, selection.NewReducer(st.Global(), 1960)
}

func ids(records []dataset.Record) map[string]bool {
	out := make(map[string]bool, len(records))
	for _, r := range records {
		out[r.ID] = true
	}
	return out
}

func apply(t *testing.T, r selection.Reducer, s selection.State, cmds ...selection.Command) selection.State {
	t.Helper()
	for _, c := range cmds {
		s, _ = r.Reduce(s, c)
	}
	return s
}

func TestCoreFiltered(t *testing.T) {
	st, r := fixture(t)
	s := apply(t, r, r.Initial(),
		selection.SetYearInputs{Min: "1970", Max: "2000"},
		selection.ToggleCategory{Category: "Explosion"},
	)

	got := ids(CoreFiltered(st.Records(), s))
	if len(got) != 2 || !got["E2"] || !got["E3"] {
		t.Errorf("expected E2 and E3, got %v", got)
	}
}

func TestByYearRangeAndCategories(t *testing.T) {
	st, _ := fixture(t)

	years := ids(ByYearRange(st.Records(), selection.YearRange{Min: 1980, Max: 1995}))
	if len(years) != 3 || !years["E2"] || !years["E3"] || !years["X1"] {
		t.Errorf("years [1980, 1995]: got %v", years)
	}

	cats := ids(ByCategories(st.Records(), map[string]bool{"Nuclear Explosion": true, "Explosion": true}))
	if len(cats) != 3 || !cats["N1"] || !cats["X1"] || !cats["X2"] {
		t.Errorf("explosions: got %v", cats)
	}

	if got := ByCategories(st.Records(), nil); len(got) != 0 {
		t.Errorf("no active categories should keep nothing, got %d", len(got))
	}
}

func TestMagFilteredEpsilon(t *testing.T) {
	st, r := fixture(t)
	s := r.Initial()
	s.SelectedBin = &selection.MagnitudeBin{Index: 0, Min: 5.5, Max: 6.0, BinMin: 5.5, BinMax: 6.0}

	got := ids(MagFiltered(st.Records(), s))
	for _, id := range []string{"E1", "E2", "X1", "N1"} {
		if !got[id] {
			t.Errorf("expected %s in [5.5, 6.0 + ε)", id)
		}
	}
	if got["X2"] || got["E3"] || got["E4"] {
		t.Errorf("magnitudes above the bin leaked in: %v", got)
	}
}

func TestDrilldownNarrowsMapOnly(t *testing.T) {
	st, r := fixture(t)
	s := apply(t, r, r.Initial(),
		selection.ToggleCategory{Category: "Nuclear Explosion"},
		selection.DrillCategory{Category: "Earthquake"},
	)

	for _, rec := range MapFiltered(st.Records(), s) {
		if rec.Category != "Earthquake" {
			t.Errorf("map should only draw Earthquake, got %s", rec.ID)
		}
	}

	bars := TypeBarInput(st.Records(), s, st.Global().Categories)
	if len(bars) != 2 || bars[0].Category != "Earthquake" || bars[1].Category != "Explosion" {
		t.Fatalf("type bars should keep both active categories in global order, got %+v", bars)
	}
	if bars[0].Count != 4 || bars[1].Count != 2 {
		t.Errorf("unexpected counts %+v", bars)
	}
}

// The bar chart ignores the drilldown for its own totals even when a bin is
// also selected; this pins that behavior.
func TestTypeBarsIgnoreDrilldownWithBin(t *testing.T) {
	st, r := fixture(t)
	base := apply(t, r, r.Initial(), selection.ToggleBin{Index: 0})
	drilled := apply(t, r, base, selection.DrillCategory{Category: "Explosion"})

	a := TypeBarInput(st.Records(), base, st.Global().Categories)
	b := TypeBarInput(st.Records(), drilled, st.Global().Categories)
	if len(a) != len(b) {
		t.Fatalf("drilldown changed the bar set: %+v vs %+v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("bar %d changed under drilldown: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestTrendIgnoresYearRange(t *testing.T) {
	st, r := fixture(t)
	s := apply(t, r, r.Initial(), selection.SetYearInputs{Min: "1990", Max: "1995"})

	if n := len(TrendFiltered(st.Records(), s)); n != st.Len() {
		t.Errorf("trend should keep all %d records regardless of years, got %d", st.Len(), n)
	}

	s = apply(t, r, s, selection.ToggleCategory{Category: "Earthquake"})
	got := ids(TrendFiltered(st.Records(), s))
	if got["E1"] || !got["X2"] || !got["N1"] {
		t.Errorf("trend should still obey the category checkboxes: %v", got)
	}
}

func TestHistogramIgnoresBin(t *testing.T) {
	st, r := fixture(t)
	none := r.Initial()
	withBin := apply(t, r, none, selection.ToggleBin{Index: 19})

	if a, b := HistogramInput(st.Records(), none), HistogramInput(st.Records(), withBin); len(a) != len(b) {
		t.Errorf("histogram input changed with a bin selected: %d vs %d", len(a), len(b))
	}
	if n := len(MagFiltered(st.Records(), withBin)); n != 1 {
		t.Errorf("bin 19 should keep only the 8.0 record, got %d", n)
	}
}

func TestSubsetMonotonicity(t *testing.T) {
	st, r := fixture(t)
	g := st.Global()
	rng := rand.New(rand.NewSource(7))

	s := r.Initial()
	for step := 0; step < 500; step++ {
		var cmd selection.Command
		switch rng.Intn(5) {
		case 0:
			cmd = selection.PickYear{Year: 1960 + rng.Intn(57)}
		case 1:
			cmd = selection.ToggleCategory{Category: g.Categories[rng.Intn(len(g.Categories))]}
		case 2:
			cmd = selection.DrillCategory{Category: g.Categories[rng.Intn(len(g.Categories))]}
		case 3:
			cmd = selection.ToggleBin{Index: rng.Intn(stats.DefaultBinCount)}
		default:
			cmd = selection.SetYearMax{Year: 1960 + rng.Intn(57)}
		}
		s, _ = r.Reduce(s, cmd)

		all := ids(st.Records())
		core := ids(CoreFiltered(st.Records(), s))
		mag := ids(MagFiltered(st.Records(), s))
		mapped := ids(MapFiltered(st.Records(), s))
		for id := range mapped {
			if !mag[id] {
				t.Fatalf("step %d: %s in map but not mag", step, id)
			}
		}
		for id := range mag {
			if !core[id] {
				t.Fatalf("step %d: %s in mag but not core", step, id)
			}
		}
		for id := range core {
			if !all[id] {
				t.Fatalf("step %d: %s in core but not the dataset", step, id)
			}
		}
	}
}

func TestScatterPoints(t *testing.T) {
	st, _ := fixture(t)

	dist := ScatterPoints(st.Records(), AxisHorizontalDistance)
	if len(dist) != 4 {
		t.Errorf("expected 4 finite horizontal distances, got %d", len(dist))
	}
	depth := ScatterPoints(st.Records(), AxisDepth)
	if len(depth) != 5 {
		t.Errorf("expected 5 finite depths, got %d", len(depth))
	}
	for _, p := range depth {
		if math.IsNaN(p.X) {
			t.Fatal("NaN x leaked into scatter points")
		}
	}
}

func TestTrendSeries(t *testing.T) {
	st, r := fixture(t)
	order := st.Global().Categories

	s := r.Initial()
	series := TrendSeries(TrendFiltered(st.Records(), s), s, order)
	if len(series) != 1 || series[0].Category != AllCategories {
		t.Fatalf("expected a single overall series, got %+v", series)
	}
	if series[0].Points[0].Year != 1960 {
		t.Errorf("overall series should start at 1960, got %d", series[0].Points[0].Year)
	}

	s = apply(t, r, s, selection.DrillCategory{Category: "Explosion"})
	series = TrendSeries(TrendFiltered(st.Records(), s), s, order)
	if len(series) != 3 {
		t.Fatalf("expected one series per active category, got %d", len(series))
	}
	for _, sr := range series {
		if sr.Highlight != (sr.Category == "Explosion") {
			t.Errorf("series %s highlight=%v", sr.Category, sr.Highlight)
		}
	}

	if got := TrendSeries(nil, s, order); got != nil {
		t.Errorf("empty input should yield no series, got %+v", got)
	}
}

func TestDerive(t *testing.T) {
	st, r := fixture(t)
	s := apply(t, r, r.Initial(),
		selection.ToggleBin{Index: 0},
		selection.DrillCategory{Category: "Earthquake"},
	)
	v := Derive(st, s)

	if v.Histogram.Selected != 0 || len(v.Histogram.Bins) != stats.DefaultBinCount {
		t.Errorf("unexpected histogram: selected=%d bins=%d", v.Histogram.Selected, len(v.Histogram.Bins))
	}
	if v.Histogram.Total != st.Len() {
		t.Errorf("histogram should count every core record, got %d", v.Histogram.Total)
	}
	if v.Counts.Total != 7 || v.Counts.Core != 7 || v.Counts.Map != 1 {
		t.Errorf("unexpected counts %+v", v.Counts)
	}
	if len(v.Map) != 1 || v.Map[0].ID != "E1" {
		t.Errorf("expected only E1 on the map, got %+v", v.Map)
	}
	if !v.Density.Empty() {
		t.Error("density should be empty while the overlay is off")
	}

	none := Derive(st, apply(t, r, r.Initial(), selection.ToggleBin{Index: 10}))
	if len(none.Map) != 0 || len(none.TypeBars) != 0 {
		t.Errorf("empty bin should give empty map and bars, got %d %d", len(none.Map), len(none.TypeBars))
	}
	if none.Histogram.Empty() {
		t.Error("histogram keeps the full distribution even when the bin is empty")
	}
}

func TestMapPipelineMatchesFilters(t *testing.T) {
	st, r := fixture(t)
	s := apply(t, r, r.Initial(),
		selection.SetYearInputs{Min: "1965", Max: "2016"},
		selection.ToggleBin{Index: 4},
		selection.DrillCategory{Category: "Earthquake"},
	)

	out, counts, err := MapPipeline(s).Run(context.Background(), st.Records())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(counts) != 4 {
		t.Fatalf("expected 4 stage counts, got %d", len(counts))
	}
	if counts[1].Out != len(CoreFiltered(st.Records(), s)) {
		t.Errorf("category stage should equal CoreFiltered")
	}
	if counts[2].Out != len(MagFiltered(st.Records(), s)) {
		t.Errorf("bin stage should equal MagFiltered")
	}
	if len(out) != len(MapFiltered(st.Records(), s)) {
		t.Errorf("pipeline output should equal MapFiltered")
	}
	for i := 1; i < len(counts); i++ {
		if counts[i].In != counts[i-1].Out {
			t.Errorf("stage %d input does not chain from the previous output", i)
		}
	}
}

func TestPipelineCancelled(t *testing.T) {
	st, r := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := MapPipeline(r.Initial()).Run(ctx, st.Records()); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
