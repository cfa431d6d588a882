package filter

import (
	"context"
	"fmt"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
)

// Stage is one named step of a headless filter chain.
//
// Stages must respect context cancellation and must not modify their input
// slice.
type Stage interface {
	Name() string
	Run(ctx context.Context, records []dataset.Record) ([]dataset.Record, error)
}

// SyncStage adapts a per-record predicate to a Stage.
type SyncStage struct {
	name string
	keep func(dataset.Record) bool
}

// NewSyncStage creates a Stage from a predicate.
func NewSyncStage(name string, keep func(dataset.Record) bool) *SyncStage {
	return &SyncStage{name: name, keep: keep}
}

// Name returns the stage name.
func (s *SyncStage) Name() string { return s.name }

// Run keeps the records matching the predicate. Checks ctx every 1000 records.
func (s *SyncStage) Run(ctx context.Context, records []dataset.Record) ([]dataset.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]dataset.Record, 0, len(records))
	for i, rec := range records {
		if i > 0 && i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if s.keep(rec) {
			result = append(result, rec)
		}
	}
	return result, nil
}

// StageCount records how many records survived a stage.
type StageCount struct {
	Stage string
	In    int
	Out   int
}

// Pipeline runs stages in order, each receiving the previous output.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a Pipeline.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage and reports per-stage counts.
func (p *Pipeline) Run(ctx context.Context, records []dataset.Record) ([]dataset.Record, []StageCount, error) {
	counts := make([]StageCount, 0, len(p.stages))
	for _, st := range p.stages {
		out, err := st.Run(ctx, records)
		if err != nil {
			return nil, counts, fmt.Errorf("stage %s: %w", st.Name(), err)
		}
		counts = append(counts, StageCount{Stage: st.Name(), In: len(records), Out: len(out)})
		records = out
	}
	return records, counts, nil
}

// MapPipeline is the stage chain equivalent to MapFiltered. The cumulative
// output after "category", "bin" and "drilldown" equals CoreFiltered,
// MagFiltered and MapFiltered respectively.
func MapPipeline(s selection.State) *Pipeline {
	return NewPipeline(
		NewSyncStage("years", func(r dataset.Record) bool { return s.YearRange.Contains(r.Year) }),
		NewSyncStage("category", func(r dataset.Record) bool { return s.ActiveCategories[r.Category] }),
		NewSyncStage("bin", func(r dataset.Record) bool { return inBin(r.Magnitude, s.SelectedBin) }),
		NewSyncStage("drilldown", func(r dataset.Record) bool {
			return s.SelectedCategory == "" || r.Category == s.SelectedCategory
		}),
	)
}
