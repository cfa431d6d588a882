// Package dataset parses the raw inputs of the dashboard: the event catalog CSV,
// the optional plate point CSV, and optional GeoJSON map geometry.
//
// Parsing is lenient: a row that lacks a usable position,
// magnitude or year is dropped and counted, never reported as an error.
package dataset

import (
	"errors"
	"math"
)

// UnknownCategory is assigned to rows with an empty Type column.
const UnknownCategory = "Unknown"

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// excludedCategories never enter the working dataset, regardless of user filters.
var excludedCategories = map[string]bool{
	"Rock Burst": true,
	"Rock Blast": true,
}

// IsExcludedCategory reports whether category is removed from the working dataset by policy.
func IsExcludedCategory(category string) bool {
	return excludedCategories[category]
}

// Record is one cleaned catalog event. Records are immutable once loaded.
//
// Optional measurements (Depth, DepthAlt, HorizontalDistance) are NaN when absent.
type Record struct {
	ID                 string
	Latitude           float64
	Longitude          float64
	Magnitude          float64
	Depth              float64
	DepthAlt           float64
	HorizontalDistance float64
	Year               int
	Category           string
}

// Valid reports whether the record satisfies the working-dataset admission rule.
func (r Record) Valid() bool {
	return finite(r.Latitude) && finite(r.Longitude) && finite(r.Magnitude) &&
		!IsExcludedCategory(r.Category)
}

// PlatePoint is one point of the optional density overlay dataset.
type PlatePoint struct {
	Latitude  float64
	Longitude float64
	Plate     string
}

// ParseReport summarizes one CSV parse.
type ParseReport struct {
	Rows      int // data rows read (header excluded)
	Kept      int
	Malformed int // missing or non-numeric required fields
	Excluded  int // dropped by category policy
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
