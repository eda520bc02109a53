package foodbot

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/ledger"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check diary integrity (day totals vs entry history)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			report, err := ledger.RunDoctor(st, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Users checked: %d\n", report.UsersChecked)
			fmt.Fprintf(out, "Days checked: %d\n", report.DaysChecked)
			if len(report.DriftedDays) == 0 {
				fmt.Fprintln(out, "Totals: all days match their history.")
			} else {
				fmt.Fprintf(out, "Drifted days: %s\n", strings.Join(report.DriftedDays, ", "))
				if doctorFix {
					fmt.Fprintf(out, "Repaired: %d\n", report.RepairedDays)
				} else {
					fmt.Fprintln(out, "Rerun with --fix to recompute totals from history.")
				}
			}
			if len(report.NegativeDays) > 0 {
				fmt.Fprintf(out, "Days with negative totals: %s\n", strings.Join(report.NegativeDays, ", "))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Recompute drifted totals from entry history")
}
