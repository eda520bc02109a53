package ledger

import (
	"fmt"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

// DoctorReport summarizes diary integrity across all users.
type DoctorReport struct {
	UsersChecked int      `json:"users_checked"`
	DaysChecked  int      `json:"days_checked"`
	DriftedDays  []string `json:"drifted_days,omitempty"`
	RepairedDays int      `json:"repaired_days,omitempty"`
	NegativeDays []string `json:"negative_days,omitempty"`
}

const driftTolerance = 1e-6

// RunDoctor verifies that every day's totals equal the sum over its
// history. With fix set, drifted totals are recomputed from the history,
// which is the source of truth.
func RunDoctor(st store.Store, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	users, err := st.Users()
	if err != nil {
		return report, err
	}

	for _, userID := range users {
		report.UsersChecked++
		check := st.View
		if fix {
			// Only a repair run needs the write path; a dry run must not
			// rewrite untouched state.
			check = st.Update
		}
		err := check(userID, func(u *model.User) error {
			for date, d := range u.Days {
				report.DaysChecked++
				sum := sumHistory(d)
				key := fmt.Sprintf("%d/%s", userID, date)
				if drifted(d, sum) {
					report.DriftedDays = append(report.DriftedDays, key)
					if fix {
						d.Calories = sum.Calories
						d.ProteinG = sum.ProteinG
						d.FatG = sum.FatG
						d.CarbsG = sum.CarbsG
						report.RepairedDays++
					}
				}
				if d.Calories < 0 || d.ProteinG < 0 || d.FatG < 0 || d.CarbsG < 0 {
					report.NegativeDays = append(report.NegativeDays, key)
				}
			}
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("check user %d: %w", userID, err)
		}
	}
	return report, nil
}

func sumHistory(d *model.Day) model.Day {
	var sum model.Day
	for _, e := range d.History {
		sum.Calories += e.Calories
		sum.ProteinG += e.ProteinG
		sum.FatG += e.FatG
		sum.CarbsG += e.CarbsG
	}
	return sum
}

func drifted(d *model.Day, sum model.Day) bool {
	return abs(d.Calories-sum.Calories) > driftTolerance ||
		abs(d.ProteinG-sum.ProteinG) > driftTolerance ||
		abs(d.FatG-sum.FatG) > driftTolerance ||
		abs(d.CarbsG-sum.CarbsG) > driftTolerance
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
