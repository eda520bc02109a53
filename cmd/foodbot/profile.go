package foodbot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var profileUser string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect or edit a user's profile",
}

var profileGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the profile fields that are set",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(profileUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			p, err := profile.Get(st, userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.Age != nil {
				fmt.Fprintf(out, "age: %d\n", *p.Age)
			}
			if p.Sex != nil {
				fmt.Fprintf(out, "sex: %s\n", *p.Sex)
			}
			if p.HeightCm != nil {
				fmt.Fprintf(out, "height_cm: %g\n", *p.HeightCm)
			}
			if p.WeightKg != nil {
				fmt.Fprintf(out, "weight_kg: %g\n", *p.WeightKg)
			}
			if p.ActivityFactor != nil {
				fmt.Fprintf(out, "activity_factor: %g\n", *p.ActivityFactor)
			}
			if p.Goal != nil {
				fmt.Fprintf(out, "goal: %s\n", *p.Goal)
			}
			if p.KcalTarget != nil {
				fmt.Fprintf(out, "kcal_target: %d\n", *p.KcalTarget)
			}
			if p.ProteinTarget != nil {
				fmt.Fprintf(out, "protein_target: %.1f\n", *p.ProteinTarget)
			}
			if p.FatTarget != nil {
				fmt.Fprintf(out, "fat_target: %.1f\n", *p.FatTarget)
			}
			if p.CarbsTarget != nil {
				fmt.Fprintf(out, "carbs_target: %.1f\n", *p.CarbsTarget)
			}
			return nil
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set one profile field (age, sex, height_cm, weight_kg, activity_factor, goal, kcal_target)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(profileUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			if err := profile.SetField(st, userID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s for user %d.\n", args[0], userID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileGetCmd, profileSetCmd)
	profileCmd.PersistentFlags().StringVar(&profileUser, "user", "", "Telegram user id")
	_ = profileCmd.MarkPersistentFlagRequired("user")
}
