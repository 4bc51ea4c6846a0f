package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Environment overrides use the %s prefix.\n", config.EnvPrefix)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory:  %s\n", cfg.DataDir())
	fmt.Printf("    Sites directory: %s\n", cfg.SitesDir())
	fmt.Printf("    Currency:        %s\n", cfg.General.Currency)
	fmt.Println()

	p := cfg.Params()
	fmt.Println("  [Calculator]")
	fmt.Printf("    Defaults:  %s\n", model.Title(p))
	fmt.Printf("    Days:      %s\n", p.DaysLabel())
	fmt.Printf("    Reinvest:  %s\n", cli.FormatPercent(p.Reinvest))
	fmt.Printf("    Contrib:   %s\n", contributionLabel(p))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	if cfg.Server.RescanSeconds > 0 {
		fmt.Printf("    Rescan:  every %ds\n", cfg.Server.RescanSeconds)
	} else {
		fmt.Println("    Rescan:  disabled")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `msj setup` to reconfigure.")
	return nil
}
