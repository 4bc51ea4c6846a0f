package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/sites"
	"github.com/theirongolddev/msj/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	found, _ := sites.Scan(cfg.SitesDir())

	currency := cfg.General.Currency
	initial := strconv.FormatFloat(cfg.Calculator.Initial, 'f', -1, 64)
	rate := strconv.FormatFloat(cfg.Calculator.RateValue, 'f', -1, 64)
	period := string(growth.ParsePeriod(cfg.Calculator.RatePeriod))
	themeName := cfg.Appearance.Theme

	number := func(s string) error {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return errors.New("enter a number")
		}
		return nil
	}

	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to msj!").
				Description(fmt.Sprintf("Found %d sites in %s.", len(found), cfg.SitesDir())),
			huh.NewSelect[string]().
				Title("Currency").
				Options(huh.NewOptions(model.SupportedCurrencies...)...).
				Value(&currency),
			huh.NewInput().Title("Initial amount").Value(&initial).Validate(number),
			huh.NewInput().Title("Interest rate (%)").Value(&rate).Validate(number),
			huh.NewSelect[string]().
				Title("Rate applies").
				Options(
					huh.NewOption("per day", string(growth.PerDay)),
					huh.NewOption("per month", string(growth.PerMonth)),
					huh.NewOption("per year", string(growth.PerYear)),
				).
				Value(&period),
			huh.NewSelect[string]().Title("Color theme").Options(themes...).Value(&themeName),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	cfg.General.Currency = currency
	cfg.Calculator.Initial, _ = strconv.ParseFloat(strings.TrimSpace(initial), 64)
	cfg.Calculator.RateValue, _ = strconv.ParseFloat(strings.TrimSpace(rate), 64)
	cfg.Calculator.RatePeriod = period
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `msj setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
