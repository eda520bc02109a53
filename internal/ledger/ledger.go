// Package ledger maintains per-user daily nutrition totals and the ordered
// entry history behind them. All mutations go through the store's atomic
// Update, so the invariant "totals equal the sum of the history" survives
// concurrent calls for the same user.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

// ErrNoEntries is returned by UndoLast when today's history is empty.
// Distinguishable from a valid zero day: nothing was mutated.
var ErrNoEntries = errors.New("no entries to undo")

// ErrInvalidEntry wraps every AddEntry input rejection, so callers can
// tell a bad estimate (ask the user again) from storage degradation.
var ErrInvalidEntry = errors.New("invalid entry values")

// DefaultKcalTarget is used by summaries when the user has not set or
// computed a calorie target yet.
const DefaultKcalTarget = 2000

type AddEntryInput struct {
	Calories    float64
	ProteinG    float64
	FatG        float64
	CarbsG      float64
	Description string
	Kcal        *int
}

// Today returns the server-local calendar date the diary keys days by.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// AddEntry appends an entry to today's day and bumps the four totals by
// exactly the entry's values. Negative or non-finite macros are rejected,
// never clamped.
func AddEntry(st store.Store, userID int64, in AddEntryInput) (model.Day, error) {
	if err := validateMacro("calories", in.Calories); err != nil {
		return model.Day{}, err
	}
	if err := validateMacro("protein", in.ProteinG); err != nil {
		return model.Day{}, err
	}
	if err := validateMacro("fat", in.FatG); err != nil {
		return model.Day{}, err
	}
	if err := validateMacro("carbs", in.CarbsG); err != nil {
		return model.Day{}, err
	}

	entry := model.Entry{
		Calories:    in.Calories,
		ProteinG:    in.ProteinG,
		FatG:        in.FatG,
		CarbsG:      in.CarbsG,
		Description: strings.TrimSpace(in.Description),
		Kcal:        in.Kcal,
		AddedAt:     time.Now(),
	}

	var out model.Day
	err := st.Update(userID, func(u *model.User) error {
		d := dayFor(u, Today())
		d.History = append(d.History, entry)
		d.Calories += entry.Calories
		d.ProteinG += entry.ProteinG
		d.FatG += entry.FatG
		d.CarbsG += entry.CarbsG
		out = *d
		return nil
	})
	if err != nil {
		return model.Day{}, fmt.Errorf("add entry for user %d: %w", userID, err)
	}
	return out, nil
}

// UndoLast removes the most recently added entry of today's day and
// decrements the totals by exactly that entry's values.
func UndoLast(st store.Store, userID int64) (model.Day, error) {
	var out model.Day
	err := st.Update(userID, func(u *model.User) error {
		d := dayFor(u, Today())
		if len(d.History) == 0 {
			return ErrNoEntries
		}
		last := d.History[len(d.History)-1]
		d.History = d.History[:len(d.History)-1]
		d.Calories -= last.Calories
		d.ProteinG -= last.ProteinG
		d.FatG -= last.FatG
		d.CarbsG -= last.CarbsG
		out = *d
		return nil
	})
	if errors.Is(err, ErrNoEntries) {
		return model.Day{}, ErrNoEntries
	}
	if err != nil {
		return model.Day{}, fmt.Errorf("undo last entry for user %d: %w", userID, err)
	}
	return out, nil
}

// ResetDay replaces today's day with a zeroed one, discarding its history.
// There is no undo of a reset.
func ResetDay(st store.Store, userID int64) error {
	err := st.Update(userID, func(u *model.User) error {
		if u.Days == nil {
			u.Days = map[string]*model.Day{}
		}
		u.Days[Today()] = &model.Day{}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset day for user %d: %w", userID, err)
	}
	return nil
}

// GetDay returns the user's day for date (YYYY-MM-DD), a zero day if none
// was recorded. Empty date means today.
func GetDay(st store.Store, userID int64, date string) (model.Day, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = Today()
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return model.Day{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	var out model.Day
	err := st.View(userID, func(u *model.User) error {
		if d := u.Days[date]; d != nil {
			out = *d
		}
		return nil
	})
	if err != nil {
		return model.Day{}, fmt.Errorf("get day %s for user %d: %w", date, userID, err)
	}
	return out, nil
}

// TodaySummary combines today's day with the user's calorie target.
// KcalLeft goes negative when the user is over budget; callers surface
// that rather than hiding it.
func TodaySummary(st store.Store, userID int64) (model.DaySummary, error) {
	sum := model.DaySummary{Date: Today(), KcalTarget: DefaultKcalTarget}
	err := st.View(userID, func(u *model.User) error {
		if d := u.Days[sum.Date]; d != nil {
			sum.Entries = append([]model.Entry(nil), d.History...)
			sum.KcalTotal = d.Calories
			sum.ProteinG = d.ProteinG
			sum.FatG = d.FatG
			sum.CarbsG = d.CarbsG
		}
		if u.Profile.KcalTarget != nil {
			sum.KcalTarget = *u.Profile.KcalTarget
		}
		return nil
	})
	if err != nil {
		return model.DaySummary{}, fmt.Errorf("today summary for user %d: %w", userID, err)
	}
	sum.KcalLeft = float64(sum.KcalTarget) - sum.KcalTotal
	return sum, nil
}

func dayFor(u *model.User, date string) *model.Day {
	if u.Days == nil {
		u.Days = map[string]*model.Day{}
	}
	d := u.Days[date]
	if d == nil {
		d = &model.Day{}
		u.Days[date] = d
	}
	return d
}

func validateMacro(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidEntry, name)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must be >= 0", ErrInvalidEntry, name)
	}
	return nil
}
