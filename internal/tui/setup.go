package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

// setupValues holds the first-run form answers.
type setupValues struct {
	currency string
	initial  string
	rate     string
	period   string
	theme    string
}

var errNotNumber = errors.New("enter a number")

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errNotNumber
	}
	return nil
}

func validateOptionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateNumber(s)
}

func validatePositive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errNotNumber
	}
	if v <= 0 {
		return model.ErrInvalidAmount
	}
	return nil
}

func periodOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("per day", string(growth.PerDay)),
		huh.NewOption("per month", string(growth.PerMonth)),
		huh.NewOption("per year", string(growth.PerYear)),
	}
}

func themeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		opts[i] = huh.NewOption(t.Name, t.Name)
	}
	return opts
}

func (a *App) newSetupForm(siteCount int) *huh.Form {
	a.setupVals = &setupValues{
		currency: a.cfg.General.Currency,
		initial:  strconv.FormatFloat(a.cfg.Calculator.Initial, 'f', -1, 64),
		rate:     strconv.FormatFloat(a.cfg.Calculator.RateValue, 'f', -1, 64),
		period:   string(growth.ParsePeriod(a.cfg.Calculator.RatePeriod)),
		theme:    a.cfg.Appearance.Theme,
	}
	v := a.setupVals

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to msj!").
				Description(fmt.Sprintf("Found %d sites in %s.\nA few defaults for the savings calculator.", siteCount, a.cfg.SitesDir())),
			huh.NewSelect[string]().
				Title("Currency").
				Options(huh.NewOptions(model.SupportedCurrencies...)...).
				Value(&v.currency),
			huh.NewInput().
				Title("Initial amount").
				Value(&v.initial).
				Validate(validateNumber),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Interest rate (%)").
				Value(&v.rate).
				Validate(validateNumber),
			huh.NewSelect[string]().
				Title("Rate applies").
				Options(periodOptions()...).
				Value(&v.period),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions()...).
				Value(&v.theme),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// saveSetup writes the first-run answers to the config file.
func (a *App) saveSetup() error {
	v := a.setupVals
	cfg := a.cfg

	cfg.General.Currency = v.currency
	cfg.Calculator.Initial, _ = strconv.ParseFloat(strings.TrimSpace(v.initial), 64)
	cfg.Calculator.RateValue, _ = strconv.ParseFloat(strings.TrimSpace(v.rate), 64)
	cfg.Calculator.RatePeriod = v.period
	cfg.Appearance.Theme = v.theme

	theme.SetActive(cfg.Appearance.Theme)
	a.cfg = cfg
	a.params = cfg.Params()
	a.recompute()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	a.flash = "Saved to " + config.ConfigPath()
	return nil
}
