// Package cmd implements the msj CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/palette"
	"github.com/theirongolddev/msj/internal/store"
)

var (
	flagDataDir  string
	flagSitesDir string
	flagNoColor  bool
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "msj",
	Short: "Savings growth planner, trade journal and site launcher",
	Long:  "Project compound savings growth day by day, track progress against the plan, keep a trade journal and browse local sites.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		return nil
	},
	RunE: runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagSitesDir, "sites-dir", "", "Sites directory (default <data-dir>/sites)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	addProjectFlags(rootCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Config error, using defaults: %v\n", err)
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagSitesDir != "" {
		cfg.General.SitesDir = flagSitesDir
	}
	return cfg
}

// openStore opens the JSON document store and recolors CLI output from the
// stored theme.
func openStore(cfg config.Config) *kvstore.Store {
	s := kvstore.Open(cfg.DataDir())
	if vars, err := palette.Load(s); err == nil {
		cli.UsePalette(vars)
	} else if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Theme unavailable: %v\n", err)
	}
	return s
}

func journalPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir(), "journal.db")
}

// openJournal opens the trade database. Callers must close the returned DB.
func openJournal(cfg config.Config) (*journal.Journal, *store.DB, error) {
	db, err := store.Open(journalPath(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening journal: %w", err)
	}
	return journal.New(db), db, nil
}

func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
