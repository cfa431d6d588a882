package selection

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// Reducer applies commands against the fixed statistics of one dataset.
type Reducer struct {
	global     stats.Global
	startYear  int
	categories map[string]bool
}

// NewReducer creates a Reducer. startYear <= 0 means DefaultStartYear.
func NewReducer(g stats.Global, startYear int) Reducer {
	if startYear <= 0 {
		startYear = DefaultStartYear
	}
	cats := make(map[string]bool, len(g.Categories))
	for _, c := range g.Categories {
		cats[c] = true
	}
	return Reducer{global: g, startYear: startYear, categories: cats}
}

// Initial returns the selection the dashboard opens with: every category
// active, years from the start year (or the earliest data year, if later) to
// the latest data year, trend mode.
func (r Reducer) Initial() State {
	active := make(map[string]bool, len(r.global.Categories))
	for _, c := range r.global.Categories {
		active[c] = true
	}
	return State{
		ActiveCategories: active,
		YearRange:        r.defaultRange(),
		DisplayMode:      ModeTrend,
	}
}

func (r Reducer) defaultRange() YearRange {
	y := r.global.Years
	lo := max(y.Min, r.startYear)
	if lo > y.Max {
		lo = y.Max
	}
	return YearRange{Min: lo, Max: y.Max}
}

// clamp orders and bounds a requested range to the data years.
func (r Reducer) clamp(a, b int) YearRange {
	y := r.global.Years
	lo := max(y.Min, min(a, b))
	lo = min(lo, y.Max)
	hi := min(y.Max, max(b, lo))
	return YearRange{Min: lo, Max: hi}
}

// Reduce applies cmd to s and returns the new snapshot and whether it differs
// from s. s itself is never modified. Unknown or invalid commands return s
// unchanged.
func (r Reducer) Reduce(s State, cmd Command) (State, bool) {
	next, ok := r.apply(s.clone(), cmd)
	if !ok {
		return s, false
	}
	if next.Equal(s) {
		return s, false
	}
	return next, true
}

func (r Reducer) apply(s State, cmd Command) (State, bool) {
	switch c := cmd.(type) {
	case SetYearMax:
		return r.setYears(s, s.YearRange.Min, c.Year), true

	case SetYearInputs:
		lo, ok1 := parseYearInput(c.Min)
		hi, ok2 := parseYearInput(c.Max)
		if !ok1 || !ok2 {
			return s, false
		}
		return r.setYears(s, lo, hi), true

	case ToggleCategory:
		if !r.categories[c.Category] {
			return s, false
		}
		if s.ActiveCategories[c.Category] {
			delete(s.ActiveCategories, c.Category)
		} else {
			s.ActiveCategories[c.Category] = true
		}
		return s, true

	case PickYear:
		return r.pickYear(s, c.Year)

	case DrillCategory:
		if !r.categories[c.Category] {
			return s, false
		}
		if s.SelectedCategory == c.Category {
			s.SelectedCategory = ""
		} else {
			s.SelectedCategory = c.Category
		}
		return s, true

	case ToggleBin:
		return r.toggleBin(s, c.Index)

	case SetDisplayMode:
		if c.Mode != ModeTrend && c.Mode != ModeScatter {
			return s, false
		}
		s.DisplayMode = c.Mode
		return s, true

	case ToggleDensity:
		s.DensityOverlay = !s.DensityOverlay
		return s, true

	case Reset:
		return r.Initial(), true
	}
	return s, false
}

// setYears applies a manual year edit. Manual edits take over from picked
// years: any picks and their saved base range are dropped first.
func (r Reducer) setYears(s State, lo, hi int) State {
	s.PickedYears = nil
	s.BaseYearRange = nil
	s.YearRange = r.clamp(lo, hi)
	return s
}

func (r Reducer) pickYear(s State, year int) (State, bool) {
	y := r.global.Years
	if year < y.Min || year > y.Max {
		return s, false
	}
	picked := s.IsPicked(year)
	if !picked && len(s.PickedYears) >= MaxPickedYears {
		return s, false
	}

	if len(s.PickedYears) == 0 {
		base := s.YearRange
		s.BaseYearRange = &base
	}
	if picked {
		kept := s.PickedYears[:0]
		for _, p := range s.PickedYears {
			if p != year {
				kept = append(kept, p)
			}
		}
		s.PickedYears = kept
	} else {
		s.PickedYears = append(s.PickedYears, year)
		sort.Ints(s.PickedYears)
	}

	if len(s.PickedYears) == 0 {
		if s.BaseYearRange != nil {
			s.YearRange = *s.BaseYearRange
		} else {
			s.YearRange = r.defaultRange()
		}
		s.PickedYears = nil
		s.BaseYearRange = nil
		return s, true
	}
	s.YearRange = YearRange{Min: s.PickedYears[0], Max: s.PickedYears[len(s.PickedYears)-1]}
	return s, true
}

func (r Reducer) toggleBin(s State, index int) (State, bool) {
	if index < 0 || index >= stats.DefaultBinCount {
		return s, false
	}
	if s.HasBin(index) {
		s.SelectedBin = nil
		return s, true
	}

	x0, x1 := stats.BinEdges(r.global.MagExtent, stats.DefaultBinCount, index)
	band := r.global.BandBounds(r.global.Band((x0 + x1) / 2))
	s.SelectedBin = &MagnitudeBin{
		Index:  index,
		Min:    math.Max(x0, band.Min),
		Max:    math.Min(x1, band.Max),
		BinMin: x0,
		BinMax: x1,
	}
	return s, true
}

// yearInputLimit bounds a parsed year before the int conversion. Anything
// beyond it is clamped to the data years anyway.
const yearInputLimit = 1e9

// parseYearInput parses and floors a year field. Blank, non-numeric and
// non-finite input is rejected.
func parseYearInput(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	v = math.Max(-yearInputLimit, math.Min(yearInputLimit, v))
	return int(math.Floor(v)), true
}
