package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/cli"
	"github.com/theirongolddev/msj/internal/growth"
	"github.com/theirongolddev/msj/internal/kvstore"
	"github.com/theirongolddev/msj/internal/model"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show recorded savings progress",
	RunE:  runProgressShow,
}

var progressSetCmd = &cobra.Command{
	Use:   "set AMOUNT",
	Short: "Record your current balance and match it to a projection day",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressSet,
}

var progressClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recorded progress",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		kv := openStore(loadConfig())
		if err := kvstore.Save(kv, kvstore.KeyProgress, model.DefaultProgress()); err != nil {
			return err
		}
		fmt.Println("  Progress cleared.")
		return nil
	},
}

func init() {
	addProjectFlags(progressSetCmd)
	progressCmd.AddCommand(progressSetCmd, progressClearCmd)
	rootCmd.AddCommand(progressCmd)
}

func runProgressShow(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	kv := openStore(cfg)
	p, err := kvstore.Load[model.Progress](kv, kvstore.KeyProgress)
	if err != nil {
		return err
	}
	if !p.IsSet {
		fmt.Println("\n  " + cli.RenderMuted("No progress recorded. Run `msj progress set AMOUNT`."))
		return nil
	}

	cur := cfg.Params().Currency
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Progress", "Value"},
		Rows: [][]string{
			{"Amount", cli.FormatMoney(p.Amount, cur)},
			{"Day", strconv.Itoa(p.Day)},
			{"Daily rate", cli.FormatPercent(p.DailyRate)},
		},
	}))
	return nil
}

func runProgressSet(c *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		return model.ErrInvalidAmount
	}

	cfg := loadConfig()
	kv := openStore(cfg)
	params, err := resolveParams(c, cfg, kv)
	if err != nil {
		return err
	}
	res := growth.Compute(params.Input(time.Now()))
	if len(res.Projection.Entries) == 0 {
		return growth.ErrNoProjection
	}
	match := growth.LocateProgress(res.Projection.Entries, amount)

	p := model.Progress{
		Amount:    amount,
		Day:       match.DayIndex,
		IsSet:     true,
		DailyRate: res.DailyRate,
	}
	if err := kvstore.Save(kv, kvstore.KeyProgress, p); err != nil {
		return err
	}

	if match.Exceeded {
		fmt.Println("  Your savings are higher than the maximum projected amount!")
	} else {
		fmt.Printf("  Your current savings are approximately equal to day %d of the investment.\n", match.DayIndex)
	}
	return nil
}
