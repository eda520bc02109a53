// Package access gates the paid features (photo and voice recognition)
// behind a PRO subscription. A user has PRO while a paid or promo
// subscription is active, or while the one-time trial is unused.
package access

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

// SubscriptionDays is the length of one purchased PRO period.
const SubscriptionDays = 30

// PriceRUB is the invoice amount in the currency's smallest unit (790 ₽).
const PriceRUB = 79000

// PromoCodes maps a code to the subscription days it grants. Each code is
// redeemable once per user.
// TODO: replace with generated one-time codes once there is a place to
// store them.
var PromoCodes = map[string]int{
	"KING30":  30,
	"KING365": 365,
}

// Promo redemption failures the bot turns into user-facing replies.
var (
	ErrPromoEmpty   = errors.New("promo code is empty")
	ErrPromoUsed    = errors.New("promo code already used")
	ErrPromoInvalid = errors.New("promo code is invalid")
)

// HasPro reports whether the profile may use paid features at the given
// moment: an active subscription, or the unused trial.
func HasPro(p model.Profile, now time.Time) bool {
	if p.SubscriptionEnd != nil && p.SubscriptionEnd.After(now) {
		return true
	}
	return p.TrialUsed == nil || !*p.TrialUsed
}

// Activate grants a subscription of the given length starting now and
// consumes the trial. Used by both payment and promo redemption.
func Activate(st store.Store, userID int64, days int, now time.Time) error {
	if days <= 0 {
		return fmt.Errorf("subscription days must be > 0, got %d", days)
	}
	end := now.AddDate(0, 0, days)
	used := true
	err := st.Update(userID, func(u *model.User) error {
		u.Profile.SubscriptionEnd = &end
		u.Profile.TrialUsed = &used
		return nil
	})
	if err != nil {
		return fmt.Errorf("activate subscription for user %d: %w", userID, err)
	}
	return nil
}

// RedeemPromo validates the code against PromoCodes and the user's
// redemption history, then activates the granted period. The redemption
// record and the activation land in one atomic update.
func RedeemPromo(st store.Store, userID int64, code string, now time.Time) (days int, err error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, ErrPromoEmpty
	}
	days, ok := PromoCodes[code]
	if !ok {
		return 0, ErrPromoInvalid
	}

	err = st.Update(userID, func(u *model.User) error {
		for _, used := range u.Profile.UsedPromos {
			if used == code {
				return ErrPromoUsed
			}
		}
		end := now.AddDate(0, 0, days)
		trialUsed := true
		u.Profile.SubscriptionEnd = &end
		u.Profile.TrialUsed = &trialUsed
		u.Profile.UsedPromos = append(u.Profile.UsedPromos, code)
		return nil
	})
	if errors.Is(err, ErrPromoUsed) {
		return 0, ErrPromoUsed
	}
	if err != nil {
		return 0, fmt.Errorf("redeem promo for user %d: %w", userID, err)
	}
	return days, nil
}
