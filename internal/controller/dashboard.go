// Package controller sits between the Record Store and the UI.
//
//	┌─────────┐     ┌────────────┐     ┌──────┐
//	│  Model  │ ──> │ Dashboard  │ ──> │  UI  │
//	│ (Store) │     │ (Reduce +  │     │      │
//	└─────────┘     │  Derive)   │     └──────┘
//	                └────────────┘
//
// The UI turns gestures into selection commands and hands them to Dispatch.
// Dispatch reduces the command into a new snapshot and always runs one full
// derivation pass, so every view is rebuilt from the same snapshot.
//
// # Concurrency
//
// A Dashboard is owned by the Bubble Tea Update loop and is not safe for
// concurrent use.
package controller

import (
	"time"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/otel"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
)

// Dashboard holds the store, the current snapshot and its derived views.
type Dashboard struct {
	store   *model.Store
	reducer selection.Reducer
	state   selection.State
	views   filter.Views
	events  *otel.Logger
	passes  int
}

// New creates a Dashboard at the initial selection and runs the first pass.
// events may be nil.
func New(st *model.Store, startYear int, events *otel.Logger) *Dashboard {
	d := &Dashboard{
		store:   st,
		reducer: selection.NewReducer(st.Global(), startYear),
		events:  events,
	}
	d.state = d.reducer.Initial()
	d.render("init")
	return d
}

// Dispatch applies cmd and re-derives every view. It reports whether the
// selection changed; the views are rebuilt either way.
func (d *Dashboard) Dispatch(cmd selection.Command) (filter.Views, bool) {
	next, changed := d.reducer.Reduce(d.state, cmd)
	d.state = next

	d.events.Command(cmd.Name(), changed)

	d.render(cmd.Name())
	return d.views, changed
}

func (d *Dashboard) render(cause string) {
	start := time.Now()
	d.views = filter.Derive(d.store, d.state)
	d.passes++
	d.events.RenderPass(cause, d.views.Counts.Map, time.Since(start))
}

// State returns the current snapshot.
func (d *Dashboard) State() selection.State { return d.state }

// Views returns the views of the last pass.
func (d *Dashboard) Views() filter.Views { return d.views }

// Store returns the Record Store.
func (d *Dashboard) Store() *model.Store { return d.store }

// Passes returns how many derivation passes have run.
func (d *Dashboard) Passes() int { return d.passes }
