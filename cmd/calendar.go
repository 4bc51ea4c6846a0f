package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/calendar"
	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
)

var (
	flagCalendarMonths    int
	flagCalendarICS       string
	flagCalendarMilestone float64
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the projection as month calendars or export it as iCalendar",
	RunE:  runCalendar,
}

func init() {
	addProjectFlags(calendarCmd)
	calendarCmd.Flags().IntVar(&flagCalendarMonths, "months-shown", 3, "Number of months to render (0 for all)")
	calendarCmd.Flags().StringVar(&flagCalendarICS, "ics", "", "Write an .ics file instead of rendering (- for stdout)")
	calendarCmd.Flags().Float64Var(&flagCalendarMilestone, "milestone", 0, "Only export the day the balance first reaches this amount")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(c *cobra.Command, _ []string) error {
	cfg := loadConfig()
	kv := openStore(cfg)

	params, err := resolveParams(c, cfg, kv)
	if err != nil {
		return err
	}
	now := time.Now()
	res := growth.Compute(params.Input(now))

	if flagCalendarICS != "" {
		return exportICS(res.Projection.Entries, params.Currency, now)
	}

	progress, err := kvstore.Load[model.Progress](kv, kvstore.KeyProgress)
	if err != nil {
		infof("  Progress unavailable: %v\n", err)
	}

	months := calendar.Build(res.Projection.Entries, progress, now)
	if flagCalendarMonths > 0 && len(months) > flagCalendarMonths {
		months = months[:flagCalendarMonths]
	}

	fmt.Println()
	for _, m := range months {
		fmt.Print(cli.RenderMonth(m, params.Currency))
		fmt.Println()
	}
	if len(months) == 0 {
		fmt.Println("  Nothing to show.")
	}
	return nil
}

func exportICS(entries []growth.Entry, cur model.Currency, now time.Time) error {
	opts := calendar.ICSOptions{
		Name:      "msj savings plan",
		Format:    func(v float64) string { return cli.FormatMoney(v, cur) },
		Milestone: flagCalendarMilestone,
		Now:       now,
	}

	if flagCalendarICS == "-" {
		return calendar.WriteICS(os.Stdout, entries, opts)
	}

	f, err := os.Create(flagCalendarICS)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagCalendarICS, err)
	}
	if err := calendar.WriteICS(f, entries, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", flagCalendarICS, err)
	}
	infof("  Wrote %s\n", flagCalendarICS)
	return nil
}
