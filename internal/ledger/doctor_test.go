package ledger_test

import (
	"testing"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/ledger"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
)

func TestDoctorDetectsAndRepairsDrift(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	mustAdd(t, st, 2, ledger.AddEntryInput{Calories: 400, ProteinG: 20, FatG: 10, CarbsG: 45})

	// Corrupt the totals behind the ledger's back.
	err := st.Update(2, func(u *model.User) error {
		for _, d := range u.Days {
			d.Calories += 250
		}
		return nil
	})
	if err != nil {
		t.Fatalf("corrupt day: %v", err)
	}

	report, err := ledger.RunDoctor(st, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(report.DriftedDays) != 1 {
		t.Fatalf("expected 1 drifted day, got %+v", report)
	}
	if report.RepairedDays != 0 {
		t.Fatalf("dry run must not repair, got %+v", report)
	}

	report, err = ledger.RunDoctor(st, true)
	if err != nil {
		t.Fatalf("doctor --fix: %v", err)
	}
	if report.RepairedDays != 1 {
		t.Fatalf("expected 1 repaired day, got %+v", report)
	}

	day, err := ledger.GetDay(st, 2, "")
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if day.Calories != 400 {
		t.Fatalf("expected repaired calories 400, got %g", day.Calories)
	}

	report, err = ledger.RunDoctor(st, false)
	if err != nil {
		t.Fatalf("doctor after fix: %v", err)
	}
	if len(report.DriftedDays) != 0 {
		t.Fatalf("expected clean report after fix, got %+v", report)
	}
}

func TestDoctorPassesOnHealthyStore(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	mustAdd(t, st, 1, ledger.AddEntryInput{Calories: 300, ProteinG: 15, FatG: 8, CarbsG: 30})
	mustAdd(t, st, 2, ledger.AddEntryInput{Calories: 550, ProteinG: 35, FatG: 20, CarbsG: 40})

	report, err := ledger.RunDoctor(st, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if report.UsersChecked != 2 || report.DaysChecked != 2 {
		t.Fatalf("expected 2 users / 2 days checked, got %+v", report)
	}
	if len(report.DriftedDays) != 0 || len(report.NegativeDays) != 0 {
		t.Fatalf("expected clean report, got %+v", report)
	}
}
