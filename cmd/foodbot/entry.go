package foodbot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/ledger"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var (
	entryUser    string
	addCalories  float64
	addProtein   float64
	addFat       float64
	addCarbs     float64
	addDesc      string
	resetConfirm bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage diary entries for a user",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a meal in today's diary",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(entryUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			day, err := ledger.AddEntry(st, userID, ledger.AddEntryInput{
				Calories:    addCalories,
				ProteinG:    addProtein,
				FatG:        addFat,
				CarbsG:      addCarbs,
				Description: addDesc,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded. Today: %.0f kcal, %d entries\n", day.Calories, len(day.History))
			return nil
		})
	},
}

var entryUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the most recently recorded meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(entryUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			day, err := ledger.UndoLast(st, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed. Today: %.0f kcal, %d entries\n", day.Calories, len(day.History))
			return nil
		})
	},
}

var entryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero today's diary, discarding its history",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(entryUser)
		if err != nil {
			return err
		}
		if !resetConfirm {
			return fmt.Errorf("reset discards today's history permanently; rerun with --yes")
		}
		return withStore(func(st store.Store) error {
			if err := ledger.ResetDay(st, userID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Today's diary zeroed.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryUndoCmd, entryResetCmd)

	entryCmd.PersistentFlags().StringVar(&entryUser, "user", "", "Telegram user id")
	_ = entryCmd.MarkPersistentFlagRequired("user")

	entryAddCmd.Flags().Float64Var(&addCalories, "calories", 0, "Calories (kcal)")
	entryAddCmd.Flags().Float64Var(&addProtein, "protein", 0, "Protein (g)")
	entryAddCmd.Flags().Float64Var(&addFat, "fat", 0, "Fat (g)")
	entryAddCmd.Flags().Float64Var(&addCarbs, "carbs", 0, "Carbs (g)")
	entryAddCmd.Flags().StringVar(&addDesc, "desc", "", "Free-text description")
	_ = entryAddCmd.MarkFlagRequired("calories")

	entryResetCmd.Flags().BoolVar(&resetConfirm, "yes", false, "Confirm the reset")
}
