package selection

// Command is a user gesture expressed as data.
type Command interface {
	// Name identifies the command in telemetry.
	Name() string
}

// SetYearMax moves the range slider to Year.
type SetYearMax struct{ Year int }

// SetYearInputs applies the two year-bound text inputs. Either blank or
// non-numeric input defers application.
type SetYearInputs struct{ Min, Max string }

// ToggleCategory flips a category checkbox.
type ToggleCategory struct{ Category string }

// PickYear toggles a year picked on the trend chart.
type PickYear struct{ Year int }

// DrillCategory toggles the category drilldown from the bar chart.
type DrillCategory struct{ Category string }

// ToggleBin toggles histogram bin Index.
type ToggleBin struct{ Index int }

// SetDisplayMode switches the lower panel between trend and scatter.
type SetDisplayMode struct{ Mode Mode }

// ToggleDensity flips the plate density overlay.
type ToggleDensity struct{}

// Reset returns to the initial selection.
type Reset struct{}

func (SetYearMax) Name() string     { return "SetYearMax" }
func (SetYearInputs) Name() string  { return "SetYearInputs" }
func (ToggleCategory) Name() string { return "ToggleCategory" }
func (PickYear) Name() string       { return "PickYear" }
func (DrillCategory) Name() string  { return "DrillCategory" }
func (ToggleBin) Name() string      { return "ToggleBin" }
func (SetDisplayMode) Name() string { return "SetDisplayMode" }
func (ToggleDensity) Name() string  { return "ToggleDensity" }
func (Reset) Name() string          { return "Reset" }
