package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/palette"
)

var (
	flagThemePrimary   string
	flagThemeSecondary string
	flagThemeBg        string
	flagThemeText      string
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the stored color theme",
	RunE:  runThemeShow,
}

var themeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Derive and store a theme from four base colors",
	RunE:  runThemeSet,
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the violet-rose preset",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		v, err := palette.Apply(openStore(loadConfig()), palette.VioletRose)
		if err != nil {
			return err
		}
		printTheme(v)
		return nil
	},
}

var themeCSSCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the theme as CSS custom properties",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		v, err := palette.Load(openStore(loadConfig()))
		if err != nil {
			return err
		}
		fmt.Println(v.CSS())
		return nil
	},
}

func init() {
	themeSetCmd.Flags().StringVar(&flagThemePrimary, "primary", "", "Primary color (#rrggbb)")
	themeSetCmd.Flags().StringVar(&flagThemeSecondary, "secondary", "", "Secondary color (#rrggbb)")
	themeSetCmd.Flags().StringVar(&flagThemeBg, "bg", "", "Background color (#rrggbb)")
	themeSetCmd.Flags().StringVar(&flagThemeText, "text", "", "Text color (#rrggbb)")
	themeCmd.AddCommand(themeSetCmd, themeResetCmd, themeCSSCmd)
	rootCmd.AddCommand(themeCmd)
}

func runThemeShow(_ *cobra.Command, _ []string) error {
	v, err := palette.Load(openStore(loadConfig()))
	if err != nil {
		return err
	}
	printTheme(v)
	return nil
}

func runThemeSet(_ *cobra.Command, _ []string) error {
	kv := openStore(loadConfig())
	current, err := palette.Load(kv)
	if err != nil {
		return err
	}
	s := current.Simple()
	for _, f := range []struct {
		dst  *string
		val  string
		name string
	}{
		{&s.Primary, flagThemePrimary, "primary"},
		{&s.Secondary, flagThemeSecondary, "secondary"},
		{&s.Bg, flagThemeBg, "bg"},
		{&s.Text, flagThemeText, "text"},
	} {
		if f.val == "" {
			continue
		}
		if !palette.ValidHex(f.val) {
			return fmt.Errorf("--%s must be a #rrggbb color, got %q", f.name, f.val)
		}
		*f.dst = f.val
	}

	v, err := palette.Apply(kv, s)
	if err != nil {
		return err
	}
	printTheme(v)
	return nil
}

func printTheme(v palette.Vars) {
	swatch := func(name, hex string) {
		block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
		fmt.Printf("  %s %-10s %s\n", block, name, hex)
	}
	fmt.Println()
	swatch("primary", v.Primary)
	swatch("secondary", v.Secondary)
	swatch("bg", v.Bg)
	swatch("text", v.Text)
	fmt.Println()
}
