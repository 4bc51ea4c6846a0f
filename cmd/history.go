package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/history"
	"github.com/theirongolddev/msj/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history [QUERY]",
	Short: "List saved calculations, newest first",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the params of a saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseHistoryID(args[0])
		if err != nil {
			return err
		}
		if err := history.New(openStore(loadConfig())).Delete(id); err != nil {
			return err
		}
		fmt.Printf("  Deleted #%d\n", id)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved calculation",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := history.New(openStore(loadConfig())).Clear(); err != nil {
			return err
		}
		fmt.Println("  History cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd, historyRmCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func parseHistoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid history id %q", s)
	}
	return id, nil
}

func runHistory(_ *cobra.Command, args []string) error {
	h := history.New(openStore(loadConfig()))
	entries, err := h.Search(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  " + cli.RenderMuted("No saved calculations."))
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			cli.FormatAgo(e.CreatedAt),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Calculation", "Created"},
		Rows:    rows,
	}))
	return nil
}

func runHistoryShow(_ *cobra.Command, args []string) error {
	id, err := parseHistoryID(args[0])
	if err != nil {
		return err
	}
	e, err := history.New(openStore(loadConfig())).Find(id)
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no history entry #%d", id)
	}
	if err != nil {
		return err
	}

	p := e.Params
	rows := [][]string{
		{"Created", e.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Currency", p.Currency.Code + " " + p.Currency.Symbol},
		{"Initial", cli.FormatMoney(p.Initial, p.Currency)},
		{"Rate", fmt.Sprintf("%v%% %s", p.RateValue, p.RatePeriod)},
		{"Duration", fmt.Sprintf("%dy %dm %dd", p.Years, p.Months, p.Days)},
		{"Days", p.DaysLabel()},
		{"Reinvest", cli.FormatPercent(p.Reinvest)},
		{"Contribution", contributionLabel(p)},
	}
	if p.StartDate != "" {
		rows = append(rows, []string{"Start", p.StartDate})
	}
	if p.Target > 0 {
		rows = append(rows, []string{"Target", cli.FormatMoney(p.Target, p.Currency)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Title: e.Title, Headers: []string{"Field", "Value"}, Rows: rows}))
	fmt.Printf("\n  Re-run with: msj project --from-history %d\n", e.ID)
	return nil
}

func contributionLabel(p model.Params) string {
	if p.Contrib.Type == "" || p.Contrib.Type == "none" {
		return "none"
	}
	return fmt.Sprintf("%s %s %s", p.Contrib.Type, cli.FormatMoney(p.Contrib.Amount, p.Currency), p.Contrib.Frequency)
}
