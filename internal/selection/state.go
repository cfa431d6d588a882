// Package selection holds the cross-filter state of the dashboard and the
// single reducer that mutates it.
//
// A State is an immutable snapshot. Every user gesture becomes a typed
// Command; Reducer.Reduce applies it and returns a new snapshot, never
// touching the old one. The caller then re-derives every view from the new
// snapshot.
package selection

import (
	"fmt"
	"sort"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// DefaultStartYear is the earliest year shown when the dashboard opens.
const DefaultStartYear = 1965

// MaxPickedYears is how many trend years can be picked at once.
const MaxPickedYears = 2

// Mode selects what the lower panel shows.
type Mode int

const (
	ModeTrend Mode = iota
	ModeScatter
)

func (m Mode) String() string {
	switch m {
	case ModeTrend:
		return "trend"
	case ModeScatter:
		return "scatter"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "trend" or "scatter".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "trend":
		return ModeTrend, nil
	case "scatter":
		return ModeScatter, nil
	}
	return ModeTrend, fmt.Errorf("unknown display mode %q", s)
}

// YearRange is an inclusive year interval.
type YearRange struct {
	Min int
	Max int
}

// Contains reports whether year lies in the range.
func (r YearRange) Contains(year int) bool { return year >= r.Min && year <= r.Max }

func (r YearRange) String() string { return fmt.Sprintf("%d – %d", r.Min, r.Max) }

// MagnitudeBin is a selected histogram bin. Min and Max are the filtering
// bounds, clipped to the quantile band of the bin midpoint; BinMin and BinMax
// are the raw bin edges used for highlighting.
type MagnitudeBin struct {
	Index  int
	Min    float64
	Max    float64
	BinMin float64
	BinMax float64
}

// State is one snapshot of the cross-filter selection. Treat it as read-only:
// the reducer copies before every change.
type State struct {
	ActiveCategories map[string]bool
	YearRange        YearRange
	PickedYears      []int      // ascending, at most MaxPickedYears
	BaseYearRange    *YearRange // nil iff PickedYears is empty
	SelectedCategory string     // "" when nothing is drilled into
	SelectedBin      *MagnitudeBin
	DisplayMode      Mode
	DensityOverlay   bool
}

// IsActive reports whether category passes the checkbox filter.
func (s State) IsActive(category string) bool { return s.ActiveCategories[category] }

// IsPicked reports whether year is one of the picked trend years.
func (s State) IsPicked(year int) bool {
	for _, y := range s.PickedYears {
		if y == year {
			return true
		}
	}
	return false
}

// ActiveList returns the active categories in ascending order.
func (s State) ActiveList() []string {
	out := make([]string, 0, len(s.ActiveCategories))
	for c, on := range s.ActiveCategories {
		if on {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// HasBin reports whether histogram bin i is the selected one.
func (s State) HasBin(i int) bool { return s.SelectedBin != nil && s.SelectedBin.Index == i }

func (s State) clone() State {
	c := s
	c.ActiveCategories = make(map[string]bool, len(s.ActiveCategories))
	for k, v := range s.ActiveCategories {
		if v {
			c.ActiveCategories[k] = true
		}
	}
	if s.PickedYears != nil {
		c.PickedYears = append([]int(nil), s.PickedYears...)
	}
	if s.BaseYearRange != nil {
		b := *s.BaseYearRange
		c.BaseYearRange = &b
	}
	if s.SelectedBin != nil {
		b := *s.SelectedBin
		c.SelectedBin = &b
	}
	return c
}

// Equal reports whether two snapshots select exactly the same thing.
func (s State) Equal(o State) bool {
	if s.YearRange != o.YearRange || s.SelectedCategory != o.SelectedCategory ||
		s.DisplayMode != o.DisplayMode || s.DensityOverlay != o.DensityOverlay {
		return false
	}
	if len(s.PickedYears) != len(o.PickedYears) {
		return false
	}
	for i := range s.PickedYears {
		if s.PickedYears[i] != o.PickedYears[i] {
			return false
		}
	}
	if (s.BaseYearRange == nil) != (o.BaseYearRange == nil) ||
		(s.BaseYearRange != nil && *s.BaseYearRange != *o.BaseYearRange) {
		return false
	}
	if (s.SelectedBin == nil) != (o.SelectedBin == nil) ||
		(s.SelectedBin != nil && *s.SelectedBin != *o.SelectedBin) {
		return false
	}
	if countActive(s.ActiveCategories) != countActive(o.ActiveCategories) {
		return false
	}
	for c, on := range s.ActiveCategories {
		if on && !o.ActiveCategories[c] {
			return false
		}
	}
	return true
}

func countActive(m map[string]bool) int {
	n := 0
	for _, on := range m {
		if on {
			n++
		}
	}
	return n
}

// Validate checks the snapshot invariants against the dataset statistics.
func (s State) Validate(g stats.Global) error {
	r := s.YearRange
	if r.Min > r.Max {
		return fmt.Errorf("year range inverted: %v", r)
	}
	if r.Min < g.Years.Min || r.Max > g.Years.Max {
		return fmt.Errorf("year range %v outside data years [%d, %d]", r, g.Years.Min, g.Years.Max)
	}
	if len(s.PickedYears) > MaxPickedYears {
		return fmt.Errorf("%d picked years", len(s.PickedYears))
	}
	if n := len(s.PickedYears); n > 0 {
		want := YearRange{Min: s.PickedYears[0], Max: s.PickedYears[n-1]}
		if r != want {
			return fmt.Errorf("year range %v does not match picked years %v", r, s.PickedYears)
		}
	}
	if (s.BaseYearRange != nil) != (len(s.PickedYears) > 0) {
		return fmt.Errorf("base year range set=%v with %d picked years", s.BaseYearRange != nil, len(s.PickedYears))
	}
	if b := s.SelectedBin; b != nil {
		if b.Index < 0 || b.Index >= stats.DefaultBinCount {
			return fmt.Errorf("bin index %d out of range", b.Index)
		}
		if b.Min > b.Max {
			return fmt.Errorf("bin bounds inverted: [%v, %v]", b.Min, b.Max)
		}
	}
	return nil
}
