package foodbot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/targets"
)

var (
	targetUser  string
	targetQuick bool
	targetLevel int
	targetSave  bool
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Compute daily targets from a user's profile",
	Long:  "Computes the macro-aware daily targets from the stored profile. With --quick, uses the onboarding calorie-only formula (TDEE minus a flat 500 kcal) instead; the two produce different numbers on purpose.",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(targetUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			p, err := profile.Get(st, userID)
			if err != nil {
				return err
			}

			if targetQuick {
				if p.Sex == nil || p.WeightKg == nil || p.HeightCm == nil || p.Age == nil {
					return fmt.Errorf("profile is incomplete: need age, sex, height, and weight")
				}
				tdee, target, err := targets.QuickDeficit(targets.QuickInput{
					Sex:           *p.Sex,
					WeightKg:      *p.WeightKg,
					HeightCm:      *p.HeightCm,
					Age:           *p.Age,
					ActivityLevel: targetLevel,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Maintenance: ~%d kcal\n", tdee)
				fmt.Fprintf(cmd.OutOrStdout(), "Deficit target: %d kcal/day\n", target)
				if targetSave {
					if err := profile.SetField(st, userID, profile.FieldKcalTarget, fmt.Sprintf("%d", target)); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Saved as kcal_target.")
				}
				return nil
			}

			in, err := targets.FromProfile(p)
			if err != nil {
				return err
			}
			t, err := targets.Calculate(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calories: %.0f kcal/day\n", t.Calories)
			fmt.Fprintf(cmd.OutOrStdout(), "Protein: %.0f g\n", t.ProteinG)
			fmt.Fprintf(cmd.OutOrStdout(), "Fat: %.0f g\n", t.FatG)
			fmt.Fprintf(cmd.OutOrStdout(), "Carbs: %.0f g\n", t.CarbsG)
			if targetSave {
				if err := profile.SetTargets(st, userID, t); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Saved to profile.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.Flags().StringVar(&targetUser, "user", "", "Telegram user id")
	targetCmd.Flags().BoolVar(&targetQuick, "quick", false, "Use the calorie-only quick formula")
	targetCmd.Flags().IntVar(&targetLevel, "level", 1, "Activity level 1..5 for --quick")
	targetCmd.Flags().BoolVar(&targetSave, "save", false, "Store the result on the profile")
	_ = targetCmd.MarkFlagRequired("user")
}
