package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/logging"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

type summaryFlags struct {
	from       string
	to         string
	categories []string
	picks      []int
	drill      string
	bin        int
	mode       string
	asJSON     bool
}

type summaryReport struct {
	Source     string          `json:"source"`
	YearMin    int             `json:"year_min"`
	YearMax    int             `json:"year_max"`
	Picked     []int           `json:"picked_years,omitempty"`
	Categories []string        `json:"active_categories"`
	Drilldown  string          `json:"drilldown,omitempty"`
	Mode       string          `json:"mode"`
	Bin        *binReport      `json:"bin,omitempty"`
	Counts     filter.Counts   `json:"counts"`
	Stages     []stageReport   `json:"stages"`
	Breaks     [4]float64      `json:"breaks"`
	Histogram  []int           `json:"histogram"`
	TypeBars   []typeBarReport `json:"type_bars"`
	Warnings   []string        `json:"warnings,omitempty"`
}

type binReport struct {
	Index int     `json:"index"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type stageReport struct {
	Stage string `json:"stage"`
	In    int    `json:"in"`
	Out   int    `json:"out"`
}

type typeBarReport struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	MeanMagnitude float64 `json:"mean_magnitude"`
}

func newSummaryCmd(app *cliApp) *cobra.Command {
	f := summaryFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Apply a selection headlessly and print the derived views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, app, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "First year of the range")
	fs.StringVar(&f.to, "to", "", "Last year of the range")
	fs.StringSliceVar(&f.categories, "category", nil, "Keep only these categories active (repeatable)")
	fs.IntSliceVar(&f.picks, "pick", nil, "Pick up to two years, as clicking the trend chart")
	fs.StringVar(&f.drill, "drill", "", "Drill down into a category")
	fs.IntVar(&f.bin, "bin", -1, "Select a magnitude bin by index (0-19)")
	fs.StringVar(&f.mode, "mode", "", "Display mode for the detail panel: trend or scatter")
	fs.BoolVar(&f.asJSON, "json", false, "Print JSON")
	return cmd
}

// summaryCommands turns the flags into the command sequence a user would
// issue in the dashboard.
func summaryCommands(f summaryFlags, s selection.State, g stats.Global) ([]selection.Command, error) {
	var cmds []selection.Command
	if f.from != "" || f.to != "" {
		lo, hi := f.from, f.to
		if lo == "" {
			lo = fmt.Sprint(s.YearRange.Min)
		}
		if hi == "" {
			hi = fmt.Sprint(s.YearRange.Max)
		}
		cmds = append(cmds, selection.SetYearInputs{Min: lo, Max: hi})
	}
	if len(f.categories) > 0 {
		keep := make(map[string]bool)
		for _, c := range f.categories {
			if _, ok := g.CategoryIndex(c); !ok {
				return nil, fmt.Errorf("unknown category %q (have %s)", c, strings.Join(g.Categories, ", "))
			}
			keep[c] = true
		}
		for _, c := range g.Categories {
			if keep[c] != s.IsActive(c) {
				cmds = append(cmds, selection.ToggleCategory{Category: c})
			}
		}
	}
	for _, y := range f.picks {
		cmds = append(cmds, selection.PickYear{Year: y})
	}
	if f.drill != "" {
		if _, ok := g.CategoryIndex(f.drill); !ok {
			return nil, fmt.Errorf("unknown category %q", f.drill)
		}
		cmds = append(cmds, selection.DrillCategory{Category: f.drill})
	}
	if f.bin >= 0 {
		if f.bin >= stats.DefaultBinCount {
			return nil, fmt.Errorf("bin %d out of range [0, %d)", f.bin, stats.DefaultBinCount)
		}
		cmds = append(cmds, selection.ToggleBin{Index: f.bin})
	}
	if f.mode != "" {
		mode, err := selection.ParseMode(f.mode)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, selection.SetDisplayMode{Mode: mode})
	}
	return cmds, nil
}

func runSummary(cmd *cobra.Command, app *cliApp, f summaryFlags) error {
	ctx := cmd.Context()
	loader, closeLoader, err := app.newLoader(nil)
	if err != nil {
		return err
	}
	defer closeLoader()

	res, err := loader.Load(ctx, app.sources())
	if err != nil {
		return err
	}
	st := res.Store
	g := st.Global()

	reducer := selection.NewReducer(g, app.cfg.StartYear)
	s := reducer.Initial()
	cmds, err := summaryCommands(f, s, g)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		var changed bool
		s, changed = reducer.Reduce(s, c)
		logging.Debug("command", "cmd", c.Name(), "changed", changed)
	}

	views := filter.Derive(st, s)
	_, counts, err := filter.MapPipeline(s).Run(ctx, st.Records())
	if err != nil {
		return err
	}

	report := summaryReport{
		Source:     sourceLabel(res, loader, app.cfg.Data),
		YearMin:    s.YearRange.Min,
		YearMax:    s.YearRange.Max,
		Picked:     s.PickedYears,
		Categories: s.ActiveList(),
		Drilldown:  s.SelectedCategory,
		Mode:       s.DisplayMode.String(),
		Counts:     views.Counts,
		Breaks:     g.Breaks(),
		Warnings:   res.Warnings,
	}
	if b := s.SelectedBin; b != nil {
		report.Bin = &binReport{Index: b.Index, Min: b.Min, Max: b.Max}
	}
	for _, c := range counts {
		report.Stages = append(report.Stages, stageReport{Stage: c.Stage, In: c.In, Out: c.Out})
	}
	for _, b := range views.Histogram.Bins {
		report.Histogram = append(report.Histogram, b.Count)
	}
	for _, t := range views.TypeBars {
		report.TypeBars = append(report.TypeBars, typeBarReport{Category: t.Category, Count: t.Count, MeanMagnitude: t.MeanMagnitude})
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printSummary(out, report)
	return nil
}

func printSummary(w io.Writer, r summaryReport) {
	n := func(v int) string { return humanize.Comma(int64(v)) }

	fmt.Fprintf(w, "Source:      %s\n", r.Source)
	fmt.Fprintf(w, "Years:       %d – %d", r.YearMin, r.YearMax)
	if len(r.Picked) > 0 {
		fmt.Fprintf(w, "  (picked %v)", r.Picked)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Categories:  %s\n", strings.Join(r.Categories, ", "))
	if r.Drilldown != "" {
		fmt.Fprintf(w, "Drilldown:   %s\n", r.Drilldown)
	}
	if r.Bin != nil {
		fmt.Fprintf(w, "Bin:         #%d  %.2f – %.2f\n", r.Bin.Index, r.Bin.Min, r.Bin.Max)
	}
	fmt.Fprintf(w, "Mode:        %s\n", r.Mode)
	fmt.Fprintf(w, "Bands:       %.2f | %.2f | %.2f | %.2f\n", r.Breaks[0], r.Breaks[1], r.Breaks[2], r.Breaks[3])

	fmt.Fprintln(w, "\nPipeline:")
	for _, s := range r.Stages {
		fmt.Fprintf(w, "  %-10s %8s → %s\n", s.Stage, n(s.In), n(s.Out))
	}
	fmt.Fprintf(w, "  %-10s %8s (ignores years)\n", "trend", n(r.Counts.Trend))

	fmt.Fprintln(w, "\nTypes:")
	if len(r.TypeBars) == 0 {
		fmt.Fprintln(w, "  No data")
	}
	for _, t := range r.TypeBars {
		fmt.Fprintf(w, "  %-20s %8s  mean %.2f\n", t.Category, n(t.Count), t.MeanMagnitude)
	}

	for _, warn := range r.Warnings {
		fmt.Fprintln(w, "\n"+wordwrap.String("warning: "+warn, 78))
	}
}
