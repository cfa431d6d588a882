// Package model provides the Record Store for the dashboard.
//
// The Store is write-once: NewStore admits the valid records, derives the
// global statistics, and nothing mutates it afterwards. It is therefore safe
// to share between the UI goroutine and the load command without locking.
package model

import (
	"errors"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// ErrNoRecords is returned when a dataset has no usable records.
var ErrNoRecords = errors.New("dataset has no usable records")

// Density grid resolution: 4° cells.
const (
	DensityCols = 90
	DensityRows = 45
)

// Store holds the working dataset and everything derived from it once.
type Store struct {
	records  []dataset.Record
	global   stats.Global
	plates   []dataset.PlatePoint
	geometry *dataset.Geometry
	density  stats.Grid
}

// NewStore builds the Record Store. Records failing the admission rule are
// dropped; plates and geometry may be nil.
func NewStore(records []dataset.Record, plates []dataset.PlatePoint, geometry *dataset.Geometry) (*Store, error) {
	kept := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoRecords
	}

	return &Store{
		records:  kept,
		global:   stats.Summarize(kept),
		plates:   plates,
		geometry: geometry,
		density:  stats.DensityGrid(plates, DensityCols, DensityRows),
	}, nil
}

// Records returns the working dataset. Callers must not modify it.
func (s *Store) Records() []dataset.Record { return s.records }

// Global returns the statistics derived at load.
func (s *Store) Global() stats.Global { return s.global }

// Plates returns the overlay points, possibly empty.
func (s *Store) Plates() []dataset.PlatePoint { return s.plates }

// Geometry returns the map outline, possibly nil.
func (s *Store) Geometry() *dataset.Geometry { return s.geometry }

// Density returns the plate density grid. Empty when fewer than
// stats.MinDensityPoints plate points were loaded.
func (s *Store) Density() stats.Grid { return s.density }

// Len returns the number of records in the working dataset.
func (s *Store) Len() int { return len(s.records) }
