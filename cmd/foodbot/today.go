package foodbot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/ledger"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var (
	todayUser string
	todayDate string
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show a user's diary and calorie budget for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(todayUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			if todayDate != "" {
				day, err := ledger.GetDay(st, userID, todayDate)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", todayDate)
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %.0f kcal | P %.1fg | F %.1fg | C %.1fg\n", day.Calories, day.ProteinG, day.FatG, day.CarbsG)
				fmt.Fprintf(cmd.OutOrStdout(), "Entries: %d\n", len(day.History))
				return nil
			}

			sum, err := ledger.TodaySummary(st, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", sum.Date)
			for i, e := range sum.Entries {
				desc := e.Description
				if desc == "" {
					desc = "(no description)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s — %.0f kcal\n", i+1, desc, e.Calories)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %.0f kcal | P %.1fg | F %.1fg | C %.1fg\n", sum.KcalTotal, sum.ProteinG, sum.FatG, sum.CarbsG)
			fmt.Fprintf(cmd.OutOrStdout(), "Target: %d kcal, left: %.0f\n", sum.KcalTarget, sum.KcalLeft)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayUser, "user", "", "Telegram user id")
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
	_ = todayCmd.MarkFlagRequired("user")
}
