package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/journal"
	"github.com/theirongolddev/msj/internal/model"
	"github.com/theirongolddev/msj/internal/store"
)

var (
	flagJournalDate     string
	flagJournalSymbol   string
	flagJournalSide     string
	flagJournalEntry    float64
	flagJournalExit     float64
	flagJournalQuantity float64
	flagJournalNotes    string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the trades of a day",
	RunE:  runJournalDay,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a trade",
	RunE:  runJournalAdd,
}

var journalRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRm,
}

var journalMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show a month of trading as a calendar",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalMonth,
}

func init() {
	journalCmd.PersistentFlags().StringVar(&flagJournalDate, "date", "", "Trade date YYYY-MM-DD (default today)")

	journalAddCmd.Flags().StringVar(&flagJournalSymbol, "symbol", "", "Ticker symbol")
	journalAddCmd.Flags().StringVar(&flagJournalSide, "type", "Long", "Long or Short")
	journalAddCmd.Flags().Float64Var(&flagJournalEntry, "entry", 0, "Entry price")
	journalAddCmd.Flags().Float64Var(&flagJournalExit, "exit", 0, "Exit price")
	journalAddCmd.Flags().Float64Var(&flagJournalQuantity, "qty", 0, "Quantity")
	journalAddCmd.Flags().StringVar(&flagJournalNotes, "notes", "", "Free-form notes")
	_ = journalAddCmd.MarkFlagRequired("symbol")

	journalCmd.AddCommand(journalAddCmd, journalRmCmd, journalMonthCmd)
	rootCmd.AddCommand(journalCmd)
}

func journalDate() string {
	if flagJournalDate != "" {
		return flagJournalDate
	}
	return time.Now().Format(model.DateLayout)
}

func runJournalDay(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	j, db, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	date := journalDate()
	trades, stats, err := j.Day(date)
	if err != nil {
		return err
	}
	cur := cfg.Params().Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle("TRADES  " + date))
	fmt.Println()
	if len(trades) == 0 {
		fmt.Println("  " + cli.RenderMuted("No trades recorded."))
		return nil
	}

	rows := make([][]string, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []string{
			t.Symbol,
			string(t.Type),
			fmt.Sprintf("%.2f", t.Entry),
			fmt.Sprintf("%.2f", t.Exit),
			fmt.Sprintf("%g", t.Quantity),
			cli.RenderSignedMoney(t.ProfitLoss, cur),
			cli.Truncate(t.ID, 8),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", fmt.Sprintf("%d trades", stats.TotalTrades), "", "", "", cli.RenderSignedMoney(stats.Net, cur), ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Symbol", "Side", "Entry", "Exit", "Qty", "P/L", "ID"},
		Rows:    rows,
	}))
	fmt.Printf("  Profit %s  Loss %s\n",
		cli.FormatMoney(stats.Profit, cur), cli.FormatMoney(stats.Loss, cur))
	return nil
}

func runJournalAdd(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	j, db, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	t, err := j.Add(journal.Input{
		Date:     journalDate(),
		Symbol:   flagJournalSymbol,
		Type:     flagJournalSide,
		Entry:    flagJournalEntry,
		Exit:     flagJournalExit,
		Quantity: flagJournalQuantity,
		Notes:    flagJournalNotes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Recorded %s %s on %s: %s (id %s)\n",
		t.Type, t.Symbol, t.Date, cli.FormatDelta(t.ProfitLoss, cfg.Params().Currency), t.ID)
	return nil
}

func runJournalRm(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	j, db, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := j.Delete(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no trade with id %s", args[0])
		}
		return err
	}
	fmt.Println("  Trade deleted.")
	return nil
}

func runJournalMonth(_ *cobra.Command, args []string) error {
	month := time.Now()
	if len(args) == 1 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("month must be YYYY-MM, got %q", args[0])
		}
		month = t
	}

	cfg := loadConfig()
	j, db, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ms, days, err := j.Month(month.Year(), month.Month())
	if err != nil {
		return err
	}
	cur := cfg.Params().Currency

	fmt.Println()
	fmt.Print(cli.RenderJournalMonth(month.Year(), month.Month(), time.Now(), days))
	fmt.Println()

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	winRate := 0.0
	if ms.DaysTraded > 0 {
		winRate = float64(ms.WinDays) / float64(ms.DaysTraded)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Value"},
		Rows: [][]string{
			{"Days traded", fmt.Sprintf("%d", ms.DaysTraded)},
			{"Winning days", fmt.Sprintf("%d (%s)", ms.WinDays, cli.FormatPercent(winRate))},
			{"Trades", fmt.Sprintf("%d", ms.Trades)},
			{"Net P/L", cli.RenderSignedMoney(ms.Net, cur)},
		},
	}))
	if len(dates) > 0 {
		best, worst := dates[0], dates[0]
		for _, d := range dates {
			if days[d].Net > days[best].Net {
				best = d
			}
			if days[d].Net < days[worst].Net {
				worst = d
			}
		}
		fmt.Printf("  Best day %s %s   Worst day %s %s\n",
			best, cli.FormatDelta(days[best].Net, cur), worst, cli.FormatDelta(days[worst].Net, cur))
	}
	return nil
}
