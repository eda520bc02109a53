package foodbot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/ledger"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var (
	weightUser string
	weightKg   float64
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Record and review a user's weigh-ins",
}

var weightLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record today's weigh-in",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(weightUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			prev, err := profile.RecordWeighIn(st, userID, weightKg, ledger.Today())
			if err != nil {
				return err
			}
			if prev == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.1f kg.\n", weightKg)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %.1f kg (%+.1f since last).\n", weightKg, weightKg-prev)
			return nil
		})
	},
}

var weightHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded weigh-ins",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(weightUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			records, err := profile.WeighIns(st, userID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No weigh-ins recorded.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %.1f kg\n", r.Date, r.WeightKg)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weightCmd)
	weightCmd.AddCommand(weightLogCmd, weightHistoryCmd)

	weightCmd.PersistentFlags().StringVar(&weightUser, "user", "", "Telegram user id")
	_ = weightCmd.MarkPersistentFlagRequired("user")

	weightLogCmd.Flags().Float64Var(&weightKg, "kg", 0, "Weight in kilograms")
	_ = weightLogCmd.MarkFlagRequired("kg")
}
