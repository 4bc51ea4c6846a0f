package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/browser"
	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/sites"
)

var sitesCmd = &cobra.Command{
	Use:   "sites [QUERY]",
	Short: "List the sites found in the sites directory",
	Args:  cobra.ArbitraryArgs,
	RunE:  runSites,
}

var sitesOpenCmd = &cobra.Command{
	Use:   "open QUERY",
	Short: "Resolve the first site matching QUERY to its file and URL",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSitesOpen,
}

func init() {
	sitesCmd.AddCommand(sitesOpenCmd)
	rootCmd.AddCommand(sitesCmd)
}

func runSites(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	found, err := sites.Scan(cfg.SitesDir())
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.SitesDir(), err)
	}
	found = sites.Search(found, strings.Join(args, " "))
	if len(found) == 0 {
		fmt.Printf("\n  No sites found in %s\n", cfg.SitesDir())
		return nil
	}

	rows := make([][]string, 0, len(found))
	for _, s := range found {
		rows = append(rows, []string{s.Name, s.Title, cli.Truncate(s.Description, 48), s.Category})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("%d sites", len(found)),
		Headers: []string{"Name", "Title", "Description", "Category"},
		Rows:    rows,
	}))
	return nil
}

func runSitesOpen(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	found, err := sites.Scan(cfg.SitesDir())
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.SitesDir(), err)
	}

	b := browser.New(found)
	if !b.OpenFirstMatch(strings.Join(args, " ")) {
		return fmt.Errorf("no site matches %q", strings.Join(args, " "))
	}
	page := b.Resolve()
	if page.Site.Name == "" {
		return fmt.Errorf("no site matches %q", strings.Join(args, " "))
	}

	s := page.Site
	fmt.Printf("  %s\n", s.Title)
	fmt.Printf("  File: %s\n", filepath.Join(cfg.SitesDir(), s.Name))
	fmt.Printf("  URL:  http://%s/%s\n", cfg.Server.Addr, s.Path)
	return nil
}
