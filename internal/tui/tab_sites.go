package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/sites"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

// sitesState tracks the home page list of the focused browser tab.
type sitesState struct {
	cursor      int
	searching   bool
	searchInput textinput.Model
	searchQuery string
}

// siteTabs maps the built-in sites to the tab that renders them natively.
var siteTabs = map[string]int{
	"maintainer": tabCalculator,
	"journal":    tabJournal,
}

func newSearchInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	return ti
}

func newSitesState() sitesState {
	return sitesState{searchInput: newSearchInput("Search sites...")}
}

func (s *sitesState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
}

// visibleSites is the catalog filtered by the applied search query.
func (a App) visibleSites() []sites.Site {
	return sites.Search(a.browser.Catalog(), a.sitesState.searchQuery)
}

func (a App) updateSitesSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.sitesState.searchQuery = strings.TrimSpace(a.sitesState.searchInput.Value())
		a.sitesState.searching = false
		a.sitesState.cursor = 0
		return a, nil
	case "esc":
		a.sitesState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.sitesState.searchInput, cmd = a.sitesState.searchInput.Update(msg)
	return a, cmd
}

func (a App) updateSitesKey(key string) (tea.Model, tea.Cmd, bool) {
	b := a.browser
	home := b.Resolve().Home

	switch key {
	case "/":
		a.sitesState.searching = true
		a.sitesState.searchInput = newSearchInput("Search sites...")
		a.sitesState.searchInput.SetValue(a.sitesState.searchQuery)
		a.sitesState.searchInput.Focus()
		return a, a.sitesState.searchInput.Cursor.BlinkCmd(), true
	case "esc":
		if a.sitesState.searchQuery != "" {
			a.sitesState.searchQuery = ""
			a.sitesState.cursor = 0
		} else if !home {
			b.Home()
		}
		return a, nil, true
	case "j", "down":
		if home {
			a.sitesState.cursor++
			a.sitesState.clamp(len(a.visibleSites()))
		}
		return a, nil, true
	case "k", "up":
		if home && a.sitesState.cursor > 0 {
			a.sitesState.cursor--
		}
		return a, nil, true
	case "enter":
		if list := a.visibleSites(); home && len(list) > 0 {
			name := list[a.sitesState.cursor].Name
			b.Open(name)
			if tab, ok := siteTabs[name]; ok {
				a.activeTab = tab
			}
		}
		return a, nil, true
	case "t":
		b.NewTab()
		return a, nil, true
	case "w":
		if t := b.Active(); t != nil {
			b.Close(t.ID)
		}
		return a, nil, true
	case "tab":
		b.SwitchIndex((b.ActiveIndex() + 1) % len(b.Tabs()))
		return a, nil, true
	case "shift+tab":
		n := len(b.Tabs())
		b.SwitchIndex((b.ActiveIndex() - 1 + n) % n)
		return a, nil, true
	case "[":
		b.Back()
		return a, nil, true
	case "]":
		b.Forward()
		return a, nil, true
	case "g":
		b.Home()
		return a, nil, true
	}
	return a, nil, false
}

// renderBrowserTabs draws the strip of open tabs with back/forward hints.
func (a App) renderBrowserTabs(cw int) string {
	t := theme.Active
	b := a.browser

	activeStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true).Padding(0, 1)
	tabStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Padding(0, 1)
	navOn := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	navOff := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	nav := func(on bool, s string) string {
		if on {
			return navOn.Render(s)
		}
		return navOff.Render(s)
	}

	active := b.Active()
	var parts []string
	if active != nil {
		parts = append(parts, nav(active.CanGoBack(), "‹")+navOff.Render(" ")+nav(active.CanGoForward(), "›"))
	}
	tabW := max(12, (cw-10)/max(len(b.Tabs()), 1)-2)
	for _, tab := range b.Tabs() {
		title := cli.Truncate(tab.Title, tabW)
		if active != nil && tab.ID == active.ID {
			parts = append(parts, activeStyle.Render(title))
		} else {
			parts = append(parts, tabStyle.Render(title))
		}
	}
	return strings.Join(parts, navOff.Render(" "))
}

func (a App) renderSitesTab(cw, h int) string {
	var b strings.Builder
	b.WriteString(a.renderBrowserTabs(cw))
	b.WriteString("\n")

	page := a.browser.Resolve()
	switch {
	case page.Home:
		b.WriteString(a.renderSiteList(cw, h-1))
	case page.NotFound != "":
		b.WriteString(components.ContentCard("Not found",
			fmt.Sprintf("No site named %q. It may have been removed since the last scan.", page.NotFound), cw))
	default:
		b.WriteString(a.renderSitePage(page.Site, cw))
	}
	return b.String()
}

func (a App) renderSiteList(cw, h int) string {
	t := theme.Active
	list := a.visibleSites()

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	catStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)
	selTitle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	selDesc := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var body strings.Builder
	switch {
	case a.sitesState.searching:
		body.WriteString(a.sitesState.searchInput.View())
		body.WriteString("\n\n")
	case a.sitesState.searchQuery != "":
		body.WriteString(dimStyle.Render(fmt.Sprintf("Filter: %q  [esc] clear", a.sitesState.searchQuery)))
		body.WriteString("\n\n")
	}

	if len(list) == 0 {
		if a.scanErr != nil {
			body.WriteString(descStyle.Render("Scan failed: " + a.scanErr.Error()))
		} else {
			body.WriteString(descStyle.Render("No sites found in " + a.cfg.SitesDir()))
		}
		return components.ContentCard("Sites", body.String(), cw)
	}

	innerW := components.CardInnerWidth(cw)
	titleW := min(28, innerW/3)
	catW := 12
	descW := max(innerW-titleW-catW-4, 10)

	// Card border, title and the search lines take the rest.
	start, end := listWindow(len(list), a.sitesState.cursor, max(h-6, 3))
	for i := start; i < end; i++ {
		s := list[i]
		title := fmt.Sprintf("%-*s", titleW, cli.Truncate(s.Title, titleW))
		desc := fmt.Sprintf("%-*s", descW, cli.Truncate(s.Description, descW))
		cat := fmt.Sprintf("%*s", catW, cli.Truncate(s.Category, catW))
		if i == a.sitesState.cursor {
			body.WriteString(selTitle.Render("▸ " + title))
			body.WriteString(selDesc.Render("  " + desc + cat))
		} else {
			body.WriteString(titleStyle.Render("  " + title))
			body.WriteString(descStyle.Render("  " + desc))
			body.WriteString(catStyle.Render(cat))
		}
		if i < end-1 {
			body.WriteString("\n")
		}
	}

	title := fmt.Sprintf("Sites (%d)", len(list))
	return components.ContentCard(title, body.String(), cw)
}

func (a App) renderSitePage(s sites.Site, cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	linkStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Underline(true)

	row := func(label, value string, style lipgloss.Style) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + style.Render(value) + "\n"
	}

	var body strings.Builder
	body.WriteString(valueStyle.Render(s.Description))
	body.WriteString("\n\n")
	body.WriteString(row("Category", s.Category, valueStyle))
	body.WriteString(row("File", filepath.Join(a.cfg.SitesDir(), s.Name), valueStyle))
	body.WriteString(row("Address", fmt.Sprintf("http://%s/%s", a.cfg.Server.Addr, s.Path), linkStyle))
	body.WriteString("\n")
	body.WriteString(labelStyle.Render("Run `msj serve` to open it in a browser.  [ ] back/forward  [g] home"))

	tab := a.browser.Active()
	title := s.Title
	if tab != nil && len(tab.History) > 1 {
		title += fmt.Sprintf("  (%d/%d)", tab.HistoryIndex+1, len(tab.History))
	}
	return components.FocusedCard(title, body.String(), cw)
}

