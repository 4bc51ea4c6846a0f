// Package tui provides the interactive Bubble Tea dashboard for msj.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/browser"
	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/history"
	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/palette"
	"github.com/theirongolddev/msj/internal/sites"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

// SitesLoadedMsg is sent when a scan of the sites directory finishes.
type SitesLoadedMsg struct {
	Sites    []sites.Site
	Err      error
	LoadTime time.Duration
}

// Options wires the app to its stores.
type Options struct {
	Config config.Config
	Store  *kvstore.Store
	// Journal may be nil; the journal tab then shows why it is unavailable.
	Journal    *journal.Journal
	JournalErr error
	// NeedSetup shows the first-run form once sites are loaded.
	NeedSetup bool
	Now       func() time.Time
}

const (
	tabSites = iota
	tabCalculator
	tabCalendar
	tabJournal
	tabHistory
	tabSettings
)

// formKind says which action a completed form feeds.
type formKind int

const (
	formNone formKind = iota
	formSetup
	formParams
	formProgress
	formTrade
)

// App is the root Bubble Tea model.
type App struct {
	cfg        config.Config
	kv         *kvstore.Store
	hist       *history.History
	jrnl       *journal.Journal
	journalErr error
	now        func() time.Time

	// Sites
	browser  *browser.Browser
	loaded   bool
	loadTime time.Duration
	scanErr  error
	lastScan time.Time
	scanning bool

	// Calculator
	params   model.Params
	progress model.Progress
	result   growth.Result

	pal palette.Vars

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string

	// Per-tab state
	sitesState   sitesState
	calState     calendarState
	journalState journalState
	histState    historyState
	settings     settingsState

	// Active huh form and the values it is bound to
	form      *huh.Form
	formKind  formKind
	setupVals *setupValues
	calcVals  *calcValues
	progVals  *progressValues
	tradeVals *tradeValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	tickInterval     = time.Second
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		cfg:        opts.Config,
		kv:         opts.Store,
		hist:       history.New(opts.Store),
		jrnl:       opts.Journal,
		journalErr: opts.JournalErr,
		now:        now,
		browser:    browser.New(nil),
		params:     opts.Config.Params(),
		needSetup:  opts.NeedSetup,
		spinner:    sp,
	}
	a.sitesState = newSitesState()
	a.histState = newHistoryState()
	a.journalState.date = growth.Day(now())

	a.loadStored()
	a.recompute()
	a.reloadHistory()
	a.reloadJournal()
	return a
}

// loadStored reads progress and the palette from the document store.
func (a *App) loadStored() {
	p, err := kvstore.Load[model.Progress](a.kv, kvstore.KeyProgress)
	if err != nil {
		p = model.DefaultProgress()
		a.flash = fmt.Sprintf("Progress unavailable: %v", err)
	}
	a.progress = p

	// Load falls back to the preset on error.
	a.pal, _ = palette.Load(a.kv)
	theme.SetPalette(a.pal)
}

// recompute runs the engine over the current params.
func (a *App) recompute() {
	a.result = growth.Compute(a.params.Input(a.now()))
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		scanSitesCmd(a.cfg.SitesDir()),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case SitesLoadedMsg:
		first := !a.loaded
		a.loaded = true
		a.scanning = false
		a.loadTime = msg.LoadTime
		a.lastScan = a.now()
		a.scanErr = msg.Err
		if msg.Err == nil {
			a.browser.SetCatalog(msg.Sites)
			a.sitesState.clamp(len(a.visibleSites()))
		}

		if first && a.needSetup {
			f := a.newSetupForm(len(msg.Sites))
			return a.openForm(formSetup, f)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		interval := time.Duration(a.cfg.Server.RescanSeconds) * time.Second
		if a.loaded && !a.scanning && interval > 0 && a.now().Sub(a.lastScan) >= interval {
			a.scanning = true
			cmds = append(cmds, scanSitesCmd(a.cfg.SitesDir()))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.updateTabKey("up")
	case tea.MouseButtonWheelDown:
		return a.updateTabKey("down")
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// Forms intercept all keys
	if a.form != nil {
		return a.updateForm(msg)
	}

	// Search inputs intercept all keys while focused
	if a.activeTab == tabSites && a.sitesState.searching {
		return a.updateSitesSearch(msg)
	}
	if a.activeTab == tabHistory && a.histState.searching {
		return a.updateHistorySearch(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.flash = ""
	if m, cmd, handled := a.handleTabKey(key); handled {
		return m, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.scanning {
			a.scanning = true
			return a, scanSitesCmd(a.cfg.SitesDir())
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// updateTabKey is used for mouse wheel events, which never fall through to tab switching.
func (a App) updateTabKey(key string) (tea.Model, tea.Cmd) {
	m, cmd, _ := a.handleTabKey(key)
	return m, cmd
}

// handleTabKey dispatches to the active tab. handled is false when the key
// should fall through to global bindings.
func (a App) handleTabKey(key string) (tea.Model, tea.Cmd, bool) {
	switch a.activeTab {
	case tabSites:
		return a.updateSitesKey(key)
	case tabCalculator:
		return a.updateCalculatorKey(key)
	case tabCalendar:
		return a.updateCalendarKey(key)
	case tabJournal:
		return a.updateJournalKey(key)
	case tabHistory:
		return a.updateHistoryKey(key)
	case tabSettings:
		return a.updateSettingsKey(key)
	}
	return a, nil, false
}

// openForm shows f and routes its completion to kind.
func (a App) openForm(kind formKind, f *huh.Form) (tea.Model, tea.Cmd) {
	a.form = f
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.form, a.formKind = nil, formNone
		a.applyForm(kind)
		return a, nil
	case huh.StateAborted:
		if a.formKind == formSetup {
			a.needSetup = false
		}
		a.form, a.formKind = nil, formNone
		return a, nil
	}
	return a, cmd
}

// applyForm commits the values of a completed form.
func (a *App) applyForm(kind formKind) {
	var err error
	switch kind {
	case formSetup:
		err = a.saveSetup()
		a.needSetup = false
	case formParams:
		a.applyParams()
	case formProgress:
		err = a.saveProgress()
	case formTrade:
		err = a.saveTrade()
	}
	if err != nil {
		a.flash = "Error: " + err.Error()
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  msj needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ msj"))
	b.WriteString(subtitleStyle.Render(" · savings planner"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Scanning " + a.cfg.SitesDir()))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

var helpSections = []struct {
	title    string
	bindings []binding
}{
	{"Navigation", []binding{
		{"s c a n h x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move selection"},
		{"r", "Rescan sites"},
	}},
	{"Sites", []binding{
		{"/", "Search sites"},
		{"Enter", "Open in current tab"},
		{"t w", "New / Close tab"},
		{"tab", "Next tab"},
		{"[ ]", "Back / Forward"},
		{"g", "Home"},
	}},
	{"Calculator", []binding{
		{"e", "Edit parameters"},
		{"p P", "Record / Clear progress"},
	}},
	{"Calendar & Journal", []binding{
		{"[ ]", "Previous / Next month or day"},
		{"t", "Back to today"},
		{"i d", "Add / Delete trade"},
	}},
	{"History & Settings", []binding{
		{"Enter", "Load entry / Edit setting"},
		{"d", "Delete entry"},
		{"R", "Reset palette"},
	}},
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range helpSections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabSites:
		return "[/]search [enter]open [t]ab [w]close [?]help [q]uit"
	case tabCalculator:
		return "[e]dit [p]rogress [P]clear [?]help [q]uit"
	case tabCalendar:
		return "[ ] month [t]oday [?]help [q]uit"
	case tabJournal:
		return "[ ] day [i]nsert [d]elete [?]help [q]uit"
	case tabHistory:
		return "[/]search [enter]load [d]elete [?]help [q]uit"
	}
	return "[enter]edit [R]eset palette [?]help [q]uit"
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := fmt.Sprintf("%d sites · scanned %s", len(a.browser.Catalog()), a.loadTime.Round(time.Millisecond))
	if a.scanning {
		info = "scanning…"
	}
	if a.flash != "" {
		info = a.flash
	}
	statusBar := components.RenderStatusBar(w, a.statusHints(), info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabSites:
		content = a.renderSitesTab(cw, contentH)
	case tabCalculator:
		content = a.renderCalculatorTab(cw)
	case tabCalendar:
		content = a.renderCalendarTab(cw)
	case tabJournal:
		content = a.renderJournalTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// scanSitesCmd scans the sites directory in the background.
func scanSitesCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		found, err := sites.Scan(dir)
		return SitesLoadedMsg{Sites: found, Err: err, LoadTime: time.Since(start)}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// listWindow returns the [start, end) slice of n rows to show with cursor
// visible in a viewport of height rows.
func listWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
