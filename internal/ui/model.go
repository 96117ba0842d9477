package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/SridharX3/Earthquake-Visualizer/internal/basemap"
	"github.com/SridharX3/Earthquake-Visualizer/internal/loader"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/presets"
	"github.com/SridharX3/Earthquake-Visualizer/internal/selection"
)

// AppState represents the current state of the application
type AppState int

const (
	StateProvisioning AppState = iota // Downloading the land outline
	StateLoading                      // Waiting for the latest load
	StateDisplay                      // Showing results (possibly empty)
	StateError                        // Latest load failed
)

// inputMode is the overlay receiving keystrokes
type inputMode int

const (
	modeBrowse inputMode = iota
	modeDates
	modePresets
	modeSaveName
)

// pane is the focused half of the display
type pane int

const (
	paneList pane = iota
	paneMap
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	panStep       = 0.1
	selectionBuf  = 16
)

// Options wires a Model to the rest of the application
type Options struct {
	Loader         *loader.Loader
	Selection      *selection.Coordinator
	Presets        *presets.Repository // nil disables saved filters
	WindowDays     int                 // set when the initial filter is a relative window
	Clock          clockwork.Clock
	Logger         *zap.Logger
	DBPath         string
	BasemapEnabled bool
	BasemapURL     string
}

// Model is the main application model
type Model struct {
	state AppState
	mode  inputMode
	focus pane

	width  int
	height int

	loader      *loader.Loader
	sel         *selection.Coordinator
	selCh       <-chan selection.Event
	unsubscribe func()
	presets     *presets.Repository
	clock       clockwork.Clock
	logger      *zap.Logger

	// Current request and its published outcome
	filter     models.Filter
	windowDays int
	load       loader.State
	quakes     []models.Earthquake
	selectedID string

	// Components
	spinner    spinner.Model
	list       list.Model
	presetList list.Model
	startInput textinput.Model
	endInput   textinput.Model
	dateFocus  int
	dateErr    error
	nameInput  textinput.Model
	saveErr    error

	// Map
	basemap  *basemap.Basemap
	viewport basemap.Viewport

	// Provisioning
	dbPath            string
	basemapEnabled    bool
	basemapURL        string
	provisionStatus   string
	provisionChannels *provisioningStartedMsg

	notice string
}

// NewModel creates the application model. The loader's current filter is
// loaded as soon as the program starts.
func NewModel(opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Selection == nil {
		opts.Selection = selection.New()
	}
	if opts.BasemapURL == "" {
		opts.BasemapURL = basemap.DefaultSourceURL
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	ch, unsubscribe := opts.Selection.Channel(selectionBuf)
	st := opts.Loader.State()

	m := Model{
		state:          StateLoading,
		loader:         opts.Loader,
		sel:            opts.Selection,
		selCh:          ch,
		unsubscribe:    unsubscribe,
		presets:        opts.Presets,
		clock:          opts.Clock,
		logger:         opts.Logger,
		filter:         st.Filter,
		windowDays:     opts.WindowDays,
		load:           st,
		spinner:        s,
		basemap:        basemap.Empty(),
		viewport:       basemap.World(),
		dbPath:         opts.DBPath,
		basemapEnabled: opts.BasemapEnabled,
		basemapURL:     opts.BasemapURL,
	}
	lw, lh := m.listSize()
	m.list = createQuakeList(nil, "", m.clock.Now(), lw, lh)
	return m
}

// Close detaches the model from the selection coordinator
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForSelection(m.selCh), requestLoad(m.filter)}

	if m.basemapEnabled {
		needs, err := basemap.NeedsProvisioning(m.dbPath)
		switch {
		case err != nil:
			m.logger.Warn("checking basemap", zap.Error(err))
		case needs:
			cmds = append(cmds, initiateProvisioning(m.dbPath, m.basemapURL))
		default:
			cmds = append(cmds, loadBasemap(m.dbPath))
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listSize())
		if m.mode == modePresets {
			m.presetList.SetSize(m.width-4, m.height-4)
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case loadRequestedMsg:
		return m.beginLoad(msg.filter)

	case loadCompletedMsg:
		return m.completeLoad(msg.completion), nil

	case selectionMsg:
		m = m.applySelection(msg.event)
		return m, waitForSelection(m.selCh)

	case provisioningStartedMsg:
		m.state = StateProvisioning
		m.provisionStatus = "Preparing basemap..."
		m.provisionChannels = &msg
		return m, tea.Batch(
			m.spinner.Tick,
			waitForProvisionStatus(msg.progressChan),
			waitForProvisionResult(msg.resultChan),
		)

	case provisionStatusMsg:
		m.provisionStatus = string(msg)
		if m.provisionChannels != nil {
			return m, waitForProvisionStatus(m.provisionChannels.progressChan)
		}
		return m, nil

	case provisionResultMsg:
		m.provisionChannels = nil
		m.state = m.stateFromLoad()
		if msg.err != nil {
			// The map still shows markers without an outline
			m.logger.Warn("basemap provisioning failed", zap.Error(msg.err))
			m.notice = "Basemap unavailable: " + msg.err.Error()
			return m, m.tickIfLoading()
		}
		return m, tea.Batch(loadBasemap(m.dbPath), m.tickIfLoading())

	case basemapLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading basemap", zap.Error(msg.err))
			m.notice = "Basemap unavailable: " + msg.err.Error()
			return m, nil
		}
		m.basemap = msg.basemap
		return m, nil

	case presetsFetchedMsg:
		if msg.err != nil {
			m.notice = "Could not load saved filters: " + msg.err.Error()
			return m, nil
		}
		w, h := m.size()
		m.presetList = createPresetList(msg.presets, w-4, h-4)
		m.mode = modePresets
		return m, nil

	case presetSavedMsg:
		if msg.err != nil {
			m.saveErr = msg.err
			return m, nil
		}
		m.mode = modeBrowse
		m.notice = fmt.Sprintf("Saved filter %q", msg.preset.Name)
		return m, nil

	case presetDeletedMsg:
		if msg.err != nil {
			m.notice = "Could not delete filter: " + msg.err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("Deleted filter %q", msg.name)
		return m, fetchPresets(m.presets)

	case spinner.TickMsg:
		if m.state == StateLoading || m.state == StateProvisioning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// beginLoad starts a load for f unless the results on screen already
// answer it.
func (m Model) beginLoad(f models.Filter) (Model, tea.Cmd) {
	if m.state == StateDisplay && f.Equal(m.filter) {
		return m, nil
	}
	return m.reload(f)
}

// reload replaces the filter and starts a load for it. Results of any
// earlier load are cleared immediately.
func (m Model) reload(f models.Filter) (Model, tea.Cmd) {
	t := m.loader.Begin(f)
	m.load = m.loader.State()
	m.filter = f
	m.quakes = nil
	m.selectedID = ""
	m.notice = ""
	lw, lh := m.listSize()
	m.list = createQuakeList(nil, "", m.clock.Now(), lw, lh)
	if m.state != StateProvisioning {
		m.state = StateLoading
	}
	return m, tea.Batch(m.spinner.Tick, runLoad(m.loader, t))
}

// completeLoad publishes c unless a newer load has begun since
func (m Model) completeLoad(c loader.Completion) Model {
	st, applied := m.loader.Complete(c)
	if !applied {
		return m
	}

	m.load = st
	m.quakes = st.Result.Records
	lw, lh := m.listSize()
	m.list = createQuakeList(m.quakes, m.selectedID, m.clock.Now(), lw, lh)
	if m.state != StateProvisioning {
		m.state = m.stateFromLoad()
	}
	return m
}

// applySelection mirrors a coordinator event into the list and the map
func (m Model) applySelection(ev selection.Event) Model {
	idx := -1
	if ev.Cleared {
		m.selectedID = ""
	} else {
		idx = indexOf(m.quakes, ev.ID)
		if idx < 0 {
			return m
		}
		m.selectedID = ev.ID
		m.viewport = m.viewport.FocusOn(m.quakes[idx].Coordinates, focusZoom)
	}

	m.list.SetItems(quakeItems(m.quakes, m.selectedID, m.clock.Now()))
	if idx >= 0 {
		m.list.Select(idx)
	}
	return m
}

func (m Model) stateFromLoad() AppState {
	switch m.load.Result.Phase {
	case loader.PhaseFailed:
		return StateError
	case loader.PhaseSucceeded:
		return StateDisplay
	default:
		return StateLoading
	}
}

func (m Model) tickIfLoading() tea.Cmd {
	if m.state == StateLoading {
		return m.spinner.Tick
	}
	return nil
}

// handleKey routes a keystroke to the active overlay or the main view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeDates:
		return m.updateDateForm(msg)
	case modePresets:
		return m.updatePresetPicker(msg)
	case modeSaveName:
		return m.updateSaveForm(msg)
	}

	if m.state == StateProvisioning {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	now := m.clock.Now()

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit

	case "1", "2", "3", "4":
		p := models.WindowPresets[int(key[0]-'1')]
		m.windowDays = p.Days
		return m.beginLoad(p.Apply(m.filter, now))

	case "f":
		m.windowDays = 0
		return m.beginLoad(m.filter.WithFeed(nextFeed(m.filter.FeedType)))

	case "m":
		p := nextMagnitudePreset(m.filter)
		return m.beginLoad(m.filter.WithMagnitude(p.Min, p.Max))

	case "r":
		f := m.filter
		if m.windowDays > 0 {
			f = f.WithDateRange(now.AddDate(0, 0, -m.windowDays), now)
		}
		return m.reload(f)

	case "c":
		return m.openDateForm()

	case "p":
		if m.presets == nil {
			return m, nil
		}
		return m, fetchPresets(m.presets)

	case "s":
		if m.presets == nil {
			return m, nil
		}
		return m.openSaveForm()

	case "tab":
		if m.focus == paneList {
			m.focus = paneMap
		} else {
			m.focus = paneList
		}
		return m, nil

	case "esc":
		if m.selectedID != "" {
			m.sel.Clear()
		}
		return m, nil

	case "enter":
		if m.state != StateDisplay || len(m.quakes) == 0 {
			return m, nil
		}
		if m.focus == paneMap {
			if q, ok := nearestQuake(m.quakes, m.viewport.Center); ok {
				m.sel.Select(q.ID)
			}
			return m, nil
		}
		if item, ok := m.list.SelectedItem().(quakeItem); ok {
			m.sel.Select(item.quake.ID)
		}
		return m, nil
	}

	if m.focus == paneMap {
		switch msg.String() {
		case "up", "k":
			m.viewport = m.viewport.Pan(0, panStep)
		case "down", "j":
			m.viewport = m.viewport.Pan(0, -panStep)
		case "left", "h":
			m.viewport = m.viewport.Pan(-panStep, 0)
		case "right", "l":
			m.viewport = m.viewport.Pan(panStep, 0)
		case "+", "=":
			m.viewport = m.viewport.ZoomBy(2)
		case "-":
			m.viewport = m.viewport.ZoomBy(0.5)
		case "0":
			m.viewport = basemap.World()
		}
		return m, nil
	}

	if m.state == StateDisplay {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextFeed cycles through the preset feeds. A custom range moves to the first.
func nextFeed(current models.FeedType) models.FeedType {
	for i, f := range models.PresetFeeds {
		if f == current {
			return models.PresetFeeds[(i+1)%len(models.PresetFeeds)]
		}
	}
	return models.PresetFeeds[0]
}

// nextMagnitudePreset returns the preset after the one f uses
func nextMagnitudePreset(f models.Filter) models.MagnitudePreset {
	for i, p := range models.MagnitudePresets {
		if p.Matches(f) {
			return models.MagnitudePresets[(i+1)%len(models.MagnitudePresets)]
		}
	}
	return models.MagnitudePresets[0]
}

// View renders the UI
func (m Model) View() string {
	if m.state == StateProvisioning {
		return m.viewProvisioning()
	}

	switch m.mode {
	case modeDates:
		return m.viewDateForm()
	case modePresets:
		return m.presetList.View()
	case modeSaveName:
		return m.viewSaveForm()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View() + " Loading earthquakes...")
	case StateError:
		b.WriteString(m.viewError())
	case StateDisplay:
		b.WriteString(m.viewDisplay())
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// listSize is the inner size of the list pane
func (m Model) listSize() (int, int) {
	w, h := m.size()
	return max(w*2/5-4, 20), max(h-10, 5)
}

// mapSize is the inner size of the map pane
func (m Model) mapSize() (int, int) {
	w, h := m.size()
	lw, _ := m.listSize()
	mh := h - 10
	if m.selectedID != "" {
		mh -= detailHeight
	}
	return max(w-lw-10, 10), max(mh, 4)
}
