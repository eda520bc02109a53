package foodbot

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/access"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var (
	proUser string
	proDays int
)

var proCmd = &cobra.Command{
	Use:   "pro",
	Short: "Inspect or grant PRO access for a user",
}

var proStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the user's subscription and trial state",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(proUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			p, err := profile.Get(st, userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now := time.Now()
			if access.HasPro(p, now) {
				fmt.Fprintln(out, "PRO: active")
			} else {
				fmt.Fprintln(out, "PRO: inactive")
			}
			if p.SubscriptionEnd != nil {
				fmt.Fprintf(out, "Subscription end: %s\n", p.SubscriptionEnd.Format("2006-01-02"))
			}
			if p.TrialUsed != nil && *p.TrialUsed {
				fmt.Fprintln(out, "Trial: used")
			} else {
				fmt.Fprintln(out, "Trial: available")
			}
			for _, code := range p.UsedPromos {
				fmt.Fprintf(out, "Redeemed: %s\n", code)
			}
			return nil
		})
	},
}

var proGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant a subscription period directly",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(proUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			if err := access.Activate(st, userID, proDays, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted %d days of PRO to user %d.\n", proDays, userID)
			return nil
		})
	},
}

var proPromoCmd = &cobra.Command{
	Use:   "promo <code>",
	Short: "Redeem a promo code for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(proUser)
		if err != nil {
			return err
		}
		return withStore(func(st store.Store) error {
			days, err := access.RedeemPromo(st, userID, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Redeemed: %d days of PRO for user %d.\n", days, userID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(proCmd)
	proCmd.AddCommand(proStatusCmd, proGrantCmd, proPromoCmd)

	proCmd.PersistentFlags().StringVar(&proUser, "user", "", "Telegram user id")
	_ = proCmd.MarkPersistentFlagRequired("user")

	proGrantCmd.Flags().IntVar(&proDays, "days", access.SubscriptionDays, "Subscription length in days")
}
