// Package ui provides the Bubble Tea dashboard for seismic.
package ui

import "github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"

// DatasetLoaded is sent once the startup load finishes.
type DatasetLoaded struct {
	Result *model.Result
	Err    error
}
