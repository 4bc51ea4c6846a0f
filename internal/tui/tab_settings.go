package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/palette"
	"github.com/theirongolddev/msj/internal/tui/components"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldCurrency
	settingsFieldSitesDir
	settingsFieldAddr
	settingsFieldRescan
	settingsFieldPrimary
	settingsFieldSecondary
	settingsFieldBg
	settingsFieldText
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	pal := a.pal.Simple()

	switch a.settings.cursor {
	case settingsFieldTheme:
		names := make([]string, len(theme.All))
		for i, t := range theme.All {
			names[i] = t.Name
		}
		ti.Placeholder = strings.Join(names, ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = strings.Join(model.SupportedCurrencies, ", ")
		ti.SetValue(a.cfg.General.Currency)
	case settingsFieldSitesDir:
		ti.Placeholder = a.cfg.SitesDir()
		ti.SetValue(a.cfg.General.SitesDir)
	case settingsFieldAddr:
		ti.Placeholder = "127.0.0.1:8787"
		ti.SetValue(a.cfg.Server.Addr)
	case settingsFieldRescan:
		ti.Placeholder = "30 (seconds, 0 disables)"
		ti.SetValue(strconv.Itoa(a.cfg.Server.RescanSeconds))
	case settingsFieldPrimary:
		ti.Placeholder = "#rrggbb"
		ti.SetValue(pal.Primary)
	case settingsFieldSecondary:
		ti.Placeholder = "#rrggbb"
		ti.SetValue(pal.Secondary)
	case settingsFieldBg:
		ti.Placeholder = "#rrggbb"
		ti.SetValue(pal.Bg)
	case settingsFieldText:
		ti.Placeholder = "#rrggbb"
		ti.SetValue(pal.Text)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	case "R":
		vars, err := palette.Apply(a.kv, palette.VioletRose)
		a.pal = vars
		theme.SetPalette(vars)
		a.settings.saveErr = err
		a.settings.saved = err == nil
		return a, nil, true
	}
	return a, nil, false
}

// settingsSave validates and stores the edited field. Config fields go to the
// config file; colors go to the site palette.
func (a *App) settingsSave() error {
	val := strings.TrimSpace(a.settings.input.Value())
	cfg := a.cfg

	switch a.settings.cursor {
	case settingsFieldTheme:
		if theme.ByName(val).Name != val {
			return fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldCurrency:
		cur := model.CurrencyFor(val)
		cfg.General.Currency = cur.Code
		a.params.Currency = cur
	case settingsFieldSitesDir:
		cfg.General.SitesDir = val
	case settingsFieldAddr:
		cfg.Server.Addr = val
	case settingsFieldRescan:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("rescan interval must be a whole number of seconds")
		}
		cfg.Server.RescanSeconds = n
	default:
		return a.savePaletteField(val)
	}

	a.cfg = cfg
	return config.Save(cfg)
}

func (a *App) savePaletteField(val string) error {
	if !palette.ValidHex(val) {
		return fmt.Errorf("%q is not a #rrggbb color", val)
	}
	s := a.pal.Simple()
	switch a.settings.cursor {
	case settingsFieldPrimary:
		s.Primary = val
	case settingsFieldSecondary:
		s.Secondary = val
	case settingsFieldBg:
		s.Bg = val
	case settingsFieldText:
		s.Text = val
	}
	vars, err := palette.Apply(a.kv, s)
	if err != nil {
		return err
	}
	a.pal = vars
	theme.SetPalette(vars)
	return nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	swatch := func(hex string) string {
		return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ") +
			valueStyle.Render(" "+hex)
	}

	pal := a.pal.Simple()
	sitesDir := a.cfg.General.SitesDir
	if sitesDir == "" {
		sitesDir = "(default) " + a.cfg.SitesDir()
	}

	fields := []struct{ label, value string }{
		{"Theme", a.cfg.Appearance.Theme},
		{"Currency", a.cfg.General.Currency},
		{"Sites Directory", sitesDir},
		{"Server Address", a.cfg.Server.Addr},
		{"Rescan Interval", fmt.Sprintf("%ds", a.cfg.Server.RescanSeconds)},
		{"Primary", swatch(pal.Primary)},
		{"Secondary", swatch(pal.Secondary)},
		{"Background", swatch(pal.Bg)},
		{"Text", swatch(pal.Text)},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker+label+value); pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel  [R] reset palette"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Data directory:  ") + valueStyle.Render(a.cfg.DataDir()) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Sites found:     ") + valueStyle.Render(strconv.Itoa(len(a.browser.Catalog()))))
	if a.scanErr != nil {
		infoBody.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Scan failed: "+a.scanErr.Error()))
	}

	return components.ContentCard("Settings", formBody.String(), cw) + "\n" +
		components.ContentCard("General", infoBody.String(), cw)
}
