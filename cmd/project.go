package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/config"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/history"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
)

var (
	flagProjectSave    bool
	flagProjectJSON    bool
	flagProjectEntries int
	flagProjectHistory int64
)

// projectFlags maps calculator flags to the query keys model.ParseParams reads.
var projectFlags = []struct {
	flag, key, usage string
}{
	{"currency", "currency", "Currency code (USD, EUR, GBP, JPY, INR, IDR)"},
	{"symbol", "symbol", "Currency symbol override"},
	{"initial", "initial", "Initial amount"},
	{"rate", "rate", "Rate in percent"},
	{"period", "period", "Rate period: per_day, per_month or per_year"},
	{"years", "years", "Duration years"},
	{"months", "months", "Duration months (30 days each)"},
	{"days", "days", "Duration days"},
	{"weekends", "weekends", "Include every day of the week (true/false)"},
	{"weekdays", "weekdays", "Active weekdays when weekends=false, e.g. 1,2,3,4,5 or mon,tue"},
	{"reinvest", "reinvest", "Fraction of growth reinvested (0-1]"},
	{"contrib", "contrib", "Contribution type: none, deposit or withdraw"},
	{"contrib-amount", "contrib_amount", "Contribution amount"},
	{"contrib-frequency", "contrib_frequency", "Contribution frequency: daily, weekly or monthly"},
	{"start", "start", "Start date (YYYY-MM-DD, default today)"},
	{"target", "target", "Target amount; switches to days-to-target mode"},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project savings growth and show the summary",
	RunE:  runProject,
}

func addProjectFlags(c *cobra.Command) {
	fs := c.Flags()
	for _, f := range projectFlags {
		fs.String(f.flag, "", f.usage)
	}
	fs.Int64Var(&flagProjectHistory, "from-history", 0, "Start from the params of a history entry")
}

func init() {
	addProjectFlags(projectCmd)
	projectCmd.Flags().BoolVar(&flagProjectSave, "save", false, "Record the params in history")
	projectCmd.Flags().BoolVar(&flagProjectJSON, "json", false, "Print the projection as JSON")
	projectCmd.Flags().IntVar(&flagProjectEntries, "entries", 10, "Number of projected days to list (0 for none, -1 for all)")
	rootCmd.AddCommand(projectCmd)
}

// paramsFromFlags layers changed calculator flags over base.
func paramsFromFlags(fs *pflag.FlagSet, base model.Params) model.Params {
	q := url.Values{}
	for _, f := range projectFlags {
		if fl := fs.Lookup(f.flag); fl != nil && fl.Changed {
			q.Set(f.key, fl.Value.String())
		}
	}
	return model.ParseParams(q, base)
}

// resolveParams picks the base params (config or a history entry) and
// applies flag overrides.
func resolveParams(c *cobra.Command, cfg config.Config, kv *kvstore.Store) (model.Params, error) {
	base := cfg.Params()
	if fl := c.Flags().Lookup("from-history"); fl != nil && fl.Changed {
		entry, err := history.New(kv).Find(flagProjectHistory)
		if err != nil {
			return model.Params{}, err
		}
		base = entry.Params
	}
	return paramsFromFlags(c.Flags(), base), nil
}

type projectionJSON struct {
	Params     model.Params   `json:"params"`
	DailyRate  float64        `json:"dailyRate"`
	FinalDays  int            `json:"days"`
	Final      float64        `json:"finalAmount"`
	TargetMode bool           `json:"targetMode"`
	Reached    bool           `json:"reached"`
	Degenerate bool           `json:"degenerate,omitempty"`
	Entries    []growth.Entry `json:"entries"`
}

func runProject(c *cobra.Command, _ []string) error {
	cfg := loadConfig()
	kv := openStore(cfg)

	params, err := resolveParams(c, cfg, kv)
	if err != nil {
		return err
	}
	res := growth.Compute(params.Input(time.Now()))

	if flagProjectSave {
		entry, err := history.New(kv).Add(params)
		if err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		infof("  Saved to history as #%d\n", entry.ID)
	}

	if flagProjectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(projectionJSON{
			Params:     params,
			DailyRate:  res.DailyRate,
			FinalDays:  res.Summary.Days,
			Final:      res.Summary.FinalAmount,
			TargetMode: res.Summary.TargetMode,
			Reached:    res.Summary.Reached,
			Degenerate: res.Projection.Degenerate,
			Entries:    res.Projection.Entries,
		})
	}

	progress, err := kvstore.Load[model.Progress](kv, kvstore.KeyProgress)
	if err != nil {
		infof("  Progress unavailable: %v\n", err)
	}
	printProjection(params, res, progress)
	return nil
}

func printProjection(p model.Params, res growth.Result, progress model.Progress) {
	cur := p.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS PROJECTION"))
	fmt.Println()

	rows := [][]string{
		{"Initial", cli.FormatMoney(p.Initial, cur)},
		{"Rate", cli.FormatRate(p.RateValue, growth.ParsePeriod(p.RatePeriod).Label())},
		{"Daily rate", fmt.Sprintf("%.4f%%", res.DailyRate*100)},
		{"Reinvest", cli.FormatPercent(p.Reinvest)},
		{"Days", p.DaysLabel()},
		{"Start", cli.FormatDate(p.Start(time.Now()))},
	}
	if ct := growth.ParseContributionType(p.Contrib.Type); ct != growth.ContributeNone {
		rows = append(rows, []string{"Contribution",
			fmt.Sprintf("%s %s %s", ct, cli.FormatMoney(p.Contrib.Amount, cur), growth.ParseFrequency(p.Contrib.Frequency))})
	}
	rows = append(rows, []string{"---"})

	s := res.Summary
	if s.TargetMode {
		rows = append(rows, []string{"Target", cli.FormatMoney(p.Target, cur)})
		if s.Reached {
			rows = append(rows, []string{"Days to target", cli.FormatNumber(int64(s.Days))})
		} else {
			rows = append(rows, []string{"Days to target", "not reachable"})
		}
	} else {
		rows = append(rows, []string{"Horizon", cli.FormatNumber(int64(s.Days)) + " days"})
	}
	rows = append(rows, []string{"Final amount", cli.FormatMoney(s.FinalAmount, cur)})
	if p.Initial > 0 {
		rows = append(rows, []string{"Growth", cli.FormatDelta(s.FinalAmount-p.Initial, cur)})
	}

	entries := res.Projection.Entries
	if current, next, ok := growth.Focus(entries, progressDay(progress), time.Now()); ok {
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Current", fmt.Sprintf("day %d  %s", current.DayIndex, cli.FormatMoney(current.Amount, cur))})
		rows = append(rows, []string{"Next", fmt.Sprintf("day %d  %s", next.DayIndex, cli.FormatMoney(next.Amount, cur))})
	}
	if progress.IsSet {
		m := growth.LocateProgress(entries, progress.Amount)
		rows = append(rows, []string{"Progress", fmt.Sprintf("%s ≈ day %d", cli.FormatMoney(progress.Amount, cur), m.DayIndex)})
	}

	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Metric", "Value"}, Rows: rows}))

	if len(entries) > 1 {
		amounts := make([]float64, len(entries))
		for i, e := range entries {
			amounts[i] = e.Amount
		}
		fmt.Printf("\n  %s\n", cli.RenderSparkline(amounts, 50))
	}
	if s.TargetMode && p.Target > 0 && len(entries) > 0 {
		fmt.Printf("  %s\n", cli.RenderProgressBar(progressOr(progress, p.Initial), p.Target, 30))
	}

	if res.Projection.Degenerate {
		fmt.Fprintln(os.Stderr, "\n  No weekday is selected; the projection stops at day 1.")
	}

	printEntries(entries, cur)
}

func printEntries(entries []growth.Entry, cur model.Currency) {
	n := flagProjectEntries
	if n == 0 || len(entries) == 0 {
		return
	}
	if n < 0 || n > len(entries) {
		n = len(entries)
	}

	rows := make([][]string, 0, n)
	for i, e := range entries[:n] {
		change := "Start"
		if i > 0 {
			change = cli.FormatDelta(e.Amount-entries[i-1].Amount, cur)
		}
		rows = append(rows, []string{
			strconv.Itoa(e.DayIndex),
			cli.FormatDate(e.Date),
			cli.FormatMoney(e.Amount, cur),
			change,
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("First %d of %d days", n, len(entries)),
		Headers: []string{"Day", "Date", "Balance", "Change"},
		Rows:    rows,
	}))
}

func progressDay(p model.Progress) int {
	if p.IsSet {
		return p.Day
	}
	return 0
}

func progressOr(p model.Progress, fallback float64) float64 {
	if p.IsSet {
		return p.Amount
	}
	return fallback
}
