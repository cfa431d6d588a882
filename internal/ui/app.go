package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/controller"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/filter"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/logging"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/otel"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/selection"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/stats"
)

// Focus is the panel that receives cursor keys.
type Focus int

const (
	FocusCategories Focus = iota
	FocusHistogram
	FocusTrend
	FocusTypeBars
	focusCount
)

func (f Focus) String() string {
	switch f {
	case FocusCategories:
		return "types"
	case FocusHistogram:
		return "magnitude"
	case FocusTrend:
		return "trend"
	default:
		return "type bars"
	}
}

const sidebarWidth = 28

// App is the root Bubble Tea model.
// App does not load data itself. It receives the Record Store via
// DatasetLoaded and owns the Dashboard from then on.
type App struct {
	load      func() tea.Cmd
	startYear int
	events    *otel.Logger
	ring      *otel.RingBuffer

	dash  *controller.Dashboard
	views filter.Views

	focus      Focus
	catCursor  int
	binCursor  int
	yearCursor int
	barCursor  int

	editing    bool
	inputs     [2]textinput.Model
	inputFocus int

	spinner  spinner.Model
	help     help.Model
	showHelp bool
	debug    bool

	loading  bool
	err      error
	warnings []string
	width    int
	height   int
	ready    bool
}

// NewApp creates an App. load returns the Cmd that produces DatasetLoaded;
// events and ring may be nil.
func NewApp(load func() tea.Cmd, startYear int, events *otel.Logger, ring *otel.RingBuffer) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorSuccess)

	return App{
		load:      load,
		startYear: startYear,
		events:    events,
		ring:      ring,
		inputs:    newYearInputs(),
		spinner:   s,
		help:      help.New(),
		loading:   load != nil,
	}
}

// Init starts the load and the spinner.
func (a App) Init() tea.Cmd {
	if a.load == nil {
		return nil
	}
	return tea.Batch(a.spinner.Tick, a.load())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case DatasetLoaded:
		return a.handleLoaded(msg), nil

	case tea.KeyMsg:
		if a.editing {
			return a.handleEditKey(msg)
		}
		return a.handleKeyMsg(msg)
	}

	return a, nil
}

func (a App) handleLoaded(msg DatasetLoaded) App {
	a.loading = false
	if msg.Err != nil {
		a.err = msg.Err
		logging.Error("dataset load failed", "err", msg.Err)
		return a
	}
	res := msg.Result
	if res == nil || res.Store == nil {
		a.err = model.ErrNoRecords
		return a
	}
	a.dash = controller.New(res.Store, a.startYear, a.events)
	a.views = a.dash.Views()
	a.warnings = res.Warnings
	a.yearCursor = a.views.State.YearRange.Max
	logging.Info("dashboard ready",
		"records", res.Store.Len(),
		"categories", len(res.Store.Global().Categories),
		"cache", res.FromCache,
		"elapsed", res.Elapsed)
	return a
}

// handleKeyMsg processes keyboard input outside the year editor.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return a, tea.Quit
	}
	// Without a dashboard only quit is meaningful.
	if a.dash == nil {
		return a, nil
	}

	// Clear any existing error on key press
	a.err = nil
	a.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindKeyPress,
		Comp:  "ui",
		Msg:   msg.String(),
		Extra: map[string]any{"focus": a.focus.String()},
	})

	if a.debug {
		if key.Matches(msg, keys.Debug) {
			a.debug = false
		}
		return a, nil
	}

	s := a.views.State
	g := a.dash.Store().Global()

	switch {
	case key.Matches(msg, keys.Debug):
		a.debug = true

	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp

	case key.Matches(msg, keys.NextPanel):
		a = a.cycleFocus(1)

	case key.Matches(msg, keys.PrevPanel):
		a = a.cycleFocus(-1)

	case key.Matches(msg, keys.Left):
		a = a.moveHorizontal(-1, g)

	case key.Matches(msg, keys.Right):
		a = a.moveHorizontal(1, g)

	case key.Matches(msg, keys.Up):
		a = a.moveVertical(-1, g)

	case key.Matches(msg, keys.Down):
		a = a.moveVertical(1, g)

	case key.Matches(msg, keys.Click):
		if cmd := a.clickCommand(g); cmd != nil {
			a = a.dispatch(cmd)
		}

	case key.Matches(msg, keys.Toggle):
		if a.focus == FocusCategories && a.catCursor < len(g.Categories) {
			a = a.dispatch(selection.ToggleCategory{Category: g.Categories[a.catCursor]})
		}

	case key.Matches(msg, keys.YearDown):
		a = a.dispatch(selection.SetYearMax{Year: s.YearRange.Max - 1})

	case key.Matches(msg, keys.YearUp):
		a = a.dispatch(selection.SetYearMax{Year: s.YearRange.Max + 1})

	case key.Matches(msg, keys.EditYears):
		return a.startEditing()

	case key.Matches(msg, keys.Mode):
		next := selection.ModeScatter
		if s.DisplayMode == selection.ModeScatter {
			next = selection.ModeTrend
		}
		a = a.dispatch(selection.SetDisplayMode{Mode: next})
		if !a.focusable(a.focus) {
			a = a.cycleFocus(1)
		}

	case key.Matches(msg, keys.Density):
		a = a.dispatch(selection.ToggleDensity{})

	case key.Matches(msg, keys.Reset):
		a = a.dispatch(selection.Reset{})
		a.yearCursor = a.views.State.YearRange.Max
	}
	return a, nil
}

// focusable reports whether f is on screen. The trend panel is hidden in
// scatter mode.
func (a App) focusable(f Focus) bool {
	return f != FocusTrend || a.views.State.DisplayMode != selection.ModeScatter
}

func (a App) cycleFocus(delta int) App {
	for range focusCount {
		a.focus = Focus((int(a.focus) + delta + int(focusCount)) % int(focusCount))
		if a.focusable(a.focus) {
			break
		}
	}
	return a
}

func (a App) moveHorizontal(delta int, g stats.Global) App {
	switch a.focus {
	case FocusHistogram:
		a.binCursor = min(max(a.binCursor+delta, 0), stats.DefaultBinCount-1)
	case FocusTrend:
		a.yearCursor = min(max(a.yearCursor+delta, g.Years.Min), g.Years.Max)
	}
	return a
}

func (a App) moveVertical(delta int, g stats.Global) App {
	switch a.focus {
	case FocusCategories:
		a.catCursor = min(max(a.catCursor+delta, 0), max(len(g.Categories)-1, 0))
	case FocusTypeBars:
		a.barCursor = min(max(a.barCursor+delta, 0), max(len(a.views.TypeBars)-1, 0))
	}
	return a
}

// clickCommand maps enter on the focused panel to a selection command.
func (a App) clickCommand(g stats.Global) selection.Command {
	switch a.focus {
	case FocusCategories:
		if a.catCursor < len(g.Categories) {
			return selection.ToggleCategory{Category: g.Categories[a.catCursor]}
		}
	case FocusHistogram:
		return selection.ToggleBin{Index: a.binCursor}
	case FocusTrend:
		if a.focusable(FocusTrend) {
			return selection.PickYear{Year: a.yearCursor}
		}
	case FocusTypeBars:
		if a.barCursor < len(a.views.TypeBars) {
			return selection.DrillCategory{Category: a.views.TypeBars[a.barCursor].Category}
		}
	}
	return nil
}

// dispatch applies cmd and keeps the list cursors inside the new views.
func (a App) dispatch(cmd selection.Command) App {
	views, changed := a.dash.Dispatch(cmd)
	a.views = views
	if n := len(a.views.TypeBars); a.barCursor >= n {
		a.barCursor = max(n-1, 0)
	}
	logging.Debug("command", "cmd", cmd.Name(), "changed", changed, "map", views.Counts.Map)
	return a
}

func (a App) startEditing() (tea.Model, tea.Cmd) {
	r := a.views.State.YearRange
	a.inputs[0].SetValue(fmt.Sprint(r.Min))
	a.inputs[1].SetValue(fmt.Sprint(r.Max))
	a.inputs[0].CursorEnd()
	a.inputs[1].CursorEnd()
	a.inputFocus = 0
	a.editing = true
	return a, a.inputs[0].Focus()
}

func (a App) stopEditing() App {
	a.editing = false
	a.inputs[0].Blur()
	a.inputs[1].Blur()
	return a
}

// handleEditKey routes keys to the year inputs. Enter applies both bounds
// through SetYearInputs, which ignores blank or unparseable input.
func (a App) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return a, tea.Quit

	case key.Matches(msg, keys.Cancel):
		return a.stopEditing(), nil

	case key.Matches(msg, keys.ApplyInput):
		a = a.dispatch(selection.SetYearInputs{Min: a.inputs[0].Value(), Max: a.inputs[1].Value()})
		return a.stopEditing(), nil

	case key.Matches(msg, keys.NextInput):
		a.inputs[a.inputFocus].Blur()
		a.inputFocus = 1 - a.inputFocus
		return a, a.inputs[a.inputFocus].Focus()
	}

	var cmd tea.Cmd
	a.inputs[a.inputFocus], cmd = a.inputs[a.inputFocus].Update(msg)
	return a, cmd
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.loading {
		return LoadingStyle.Render(a.spinner.View() + " Loading earthquake catalog…")
	}
	if a.dash == nil {
		msg := "no dataset loaded"
		if a.err != nil {
			msg = a.err.Error()
		}
		return ErrorStyle.Width(a.width).Render("Error: "+msg) + "\n" +
			StatusBarText.Render("  press q to quit")
	}
	if a.debug {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	bodyHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 8)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderSidebar(bodyHeight),
		a.renderMain(max(a.width-sidebarWidth, 30), bodyHeight))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (a App) renderHeader() string {
	s := a.views.State
	title := Header.Render("Seismic")
	badge := YearBadge.Render(s.YearRange.String())
	c := a.views.Counts
	counts := StatusBarText.Render(fmt.Sprintf("  %s of %s events · %s",
		humanize.Comma(int64(c.Map)), humanize.Comma(int64(c.Total)), s.DisplayMode))
	var extra []string
	if s.SelectedCategory != "" {
		extra = append(extra, "type: "+s.SelectedCategory)
	}
	if s.SelectedBin != nil {
		extra = append(extra, fmt.Sprintf("mag: %.2f–%.2f", s.SelectedBin.Min, s.SelectedBin.Max))
	}
	if len(s.PickedYears) > 0 {
		extra = append(extra, fmt.Sprintf("picked: %v", s.PickedYears))
	}
	if s.DensityOverlay {
		extra = append(extra, "plates")
	}
	line := title + badge + counts
	if len(extra) > 0 {
		line += SelectedItem.Render("  " + strings.Join(extra, " · "))
	}
	return truncate.String(line, uint(max(a.width, 1)))
}

func (a App) renderFooter() string {
	var lines []string
	if a.err != nil {
		lines = append(lines, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss)"))
	}
	for _, w := range a.warnings {
		lines = append(lines, WarningStyle.Render(truncate.StringWithTail("! "+w, uint(max(a.width-2, 1)), "…")))
	}
	var km help.KeyMap = keys
	if a.editing {
		km = editKeyMap{keys}
	}
	lines = append(lines, StatusBar.Width(a.width).Render(
		StatusBarKey.Render(a.focus.String())+"  "+a.help.View(km)))
	return strings.Join(lines, "\n")
}

func (a App) renderSidebar(height int) string {
	g := a.dash.Store().Global()

	legend := renderLegend(g)
	legendBox := frame("Magnitude bands", legend, sidebarWidth, lipgloss.Height(legend)+panelChrome+1, false)
	remaining := height - lipgloss.Height(legendBox)

	var yearBox string
	if a.editing {
		inputs := renderYearInputs(a.inputs)
		yearBox = frame("Years", inputs, sidebarWidth, lipgloss.Height(inputs)+panelChrome+1, true)
		remaining -= lipgloss.Height(yearBox)
	}

	catHeight := max(remaining, 5)
	cols, rows := bodySize(sidebarWidth, catHeight)
	cats := renderCategories(g, a.views.State, a.catCursor, a.focus == FocusCategories, cols, rows)
	parts := []string{frame("Types", cats, sidebarWidth, catHeight, a.focus == FocusCategories)}
	if yearBox != "" {
		parts = append(parts, yearBox)
	}
	parts = append(parts, legendBox)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderMain(width, height int) string {
	st := a.dash.Store()
	g := st.Global()
	v := a.views

	barsHeight := min(max(len(g.Categories), 1)+panelChrome+1, max(height/4, 4))
	mapHeight := max((height-barsHeight)/2, 6)
	chartHeight := max(height-barsHeight-mapHeight, 6)
	half := width / 2

	cols, rows := bodySize(width, mapHeight)
	mapTitle := fmt.Sprintf("Map · %s events", humanize.Comma(int64(v.Counts.Map)))
	mapBox := frame(mapTitle, renderMap(v, g, st.Geometry(), cols, rows), width, mapHeight, false)

	cols, rows = bodySize(half, chartHeight)
	histTitle := "Magnitude"
	if a.focus == FocusHistogram {
		histTitle += "  " + binLabel(v.Histogram, a.binCursor)
	}
	histBox := frame(histTitle,
		renderHistogram(v.Histogram, g, a.binCursor, a.focus == FocusHistogram, cols, rows),
		half, chartHeight, a.focus == FocusHistogram)

	var right string
	cols, rows = bodySize(width-half, chartHeight)
	if v.State.DisplayMode == selection.ModeScatter {
		quarter := (width - half) / 2
		cols, rows = bodySize(quarter, chartHeight)
		right = lipgloss.JoinHorizontal(lipgloss.Top,
			frame("Distance × Mag", renderScatter(v.Distance, filter.AxisHorizontalDistance, g, cols, rows),
				quarter, chartHeight, false),
			frame("Depth × Mag", renderScatter(v.Depth, filter.AxisDepth, g, cols, rows),
				width-half-quarter, chartHeight, false))
	} else {
		trendTitle := "Trend  " + trendLegend(v.Trend, g)
		if a.focus == FocusTrend {
			trendTitle = "Trend  " + yearLabel(v.Trend, a.yearCursor)
		}
		right = frame(trendTitle,
			renderTrend(v.Trend, v.State, g, a.yearCursor, a.focus == FocusTrend, cols, rows),
			width-half, chartHeight, a.focus == FocusTrend)
	}

	cols, rows = bodySize(width, barsHeight)
	barsBox := frame("Types · magnitude subset",
		renderTypeBars(v.TypeBars, v.State, g, a.barCursor, a.focus == FocusTypeBars, cols, rows),
		width, barsHeight, a.focus == FocusTypeBars)

	return lipgloss.JoinVertical(lipgloss.Left,
		mapBox,
		lipgloss.JoinHorizontal(lipgloss.Top, histBox, right),
		barsBox)
}

// Dashboard returns the dashboard, nil until the dataset has loaded.
func (a App) Dashboard() *controller.Dashboard { return a.dash }

// Focused returns the focused panel.
func (a App) Focused() Focus { return a.focus }

// Editing reports whether the year inputs have focus.
func (a App) Editing() bool { return a.editing }

// Err returns the last error shown on the error bar.
func (a App) Err() error { return a.err }
