package sqlitestore_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store/sqlitestore"
)

func newTestStore(t *testing.T) (*sqlitestore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foodbot.db")
	st, err := sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestUpdateRoundTrip(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	addedAt := time.Date(2026, 8, 31, 13, 45, 0, 0, time.UTC)
	err := st.Update(77, func(u *model.User) error {
		sex := model.SexFemale
		kcal := 1650
		u.Profile.Sex = &sex
		u.Profile.KcalTarget = &kcal
		u.Days["2026-08-31"] = &model.Day{
			Calories: 420,
			ProteinG: 28,
			FatG:     12,
			CarbsG:   44,
			History: []model.Entry{
				{Calories: 420, ProteinG: 28, FatG: 12, CarbsG: 44, Description: "салат с курицей", AddedAt: addedAt},
			},
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = st.View(77, func(u *model.User) error {
		if u.Profile.Sex == nil || *u.Profile.Sex != model.SexFemale {
			t.Fatalf("sex lost: %+v", u.Profile)
		}
		if u.Profile.KcalTarget == nil || *u.Profile.KcalTarget != 1650 {
			t.Fatalf("kcal target lost: %+v", u.Profile)
		}
		if u.Profile.Age != nil {
			t.Fatalf("unset age must stay nil, got %+v", u.Profile.Age)
		}
		d := u.Days["2026-08-31"]
		if d == nil || d.Calories != 420 || len(d.History) != 1 {
			t.Fatalf("day mangled: %+v", d)
		}
		e := d.History[0]
		if e.Description != "салат с курицей" {
			t.Fatalf("description mangled: %q", e.Description)
		}
		if !e.AddedAt.Equal(addedAt) {
			t.Fatalf("added_at mangled: %v", e.AddedAt)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestHistoryOrderSurvivesRewrite(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	descriptions := []string{"завтрак", "обед", "полдник", "ужин"}
	for i, desc := range descriptions {
		err := st.Update(5, func(u *model.User) error {
			d := u.Days["2026-08-31"]
			if d == nil {
				d = &model.Day{}
				u.Days["2026-08-31"] = d
			}
			d.History = append(d.History, model.Entry{Calories: float64(100 * (i + 1)), Description: desc})
			d.Calories += float64(100 * (i + 1))
			return nil
		})
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	err := st.View(5, func(u *model.User) error {
		d := u.Days["2026-08-31"]
		if d == nil || len(d.History) != len(descriptions) {
			t.Fatalf("expected %d entries, got %+v", len(descriptions), d)
		}
		for i, desc := range descriptions {
			if d.History[i].Description != desc {
				t.Fatalf("entry %d out of order: expected %q, got %q", i, desc, d.History[i].Description)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestCallbackErrorRollsBack(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	err := st.Update(9, func(u *model.User) error {
		kcal := 1500
		u.Profile.KcalTarget = &kcal
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errFixture("boom")
	err = st.Update(9, func(u *model.User) error {
		kcal := 9999
		u.Profile.KcalTarget = &kcal
		return boom
	})
	if err == nil {
		t.Fatal("expected callback error to propagate")
	}

	err = st.View(9, func(u *model.User) error {
		if u.Profile.KcalTarget == nil || *u.Profile.KcalTarget != 1500 {
			t.Fatalf("rolled-back update leaked: %+v", u.Profile)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

type errFixture string

func (e errFixture) Error() string { return string(e) }

func TestReopenAppliesMigrationsIdempotently(t *testing.T) {
	t.Parallel()
	st, path := newTestStore(t)

	err := st.Update(1, func(u *model.User) error {
		kcal := 2200
		u.Profile.KcalTarget = &kcal
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st2, err := sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("reopen (migrations must be idempotent): %v", err)
	}
	defer st2.Close()
	err = st2.View(1, func(u *model.User) error {
		if u.Profile.KcalTarget == nil || *u.Profile.KcalTarget != 2200 {
			t.Fatalf("data lost across reopen: %+v", u.Profile)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view after reopen: %v", err)
	}
}

func TestUsersUnionOfProfilesAndDays(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore(t)

	// One user with only a profile, one with only a day.
	err := st.Update(201, func(u *model.User) error {
		kcal := 1800
		u.Profile.KcalTarget = &kcal
		return nil
	})
	if err != nil {
		t.Fatalf("seed profile user: %v", err)
	}
	err = st.Update(105, func(u *model.User) error {
		u.Days["2026-08-30"] = &model.Day{Calories: 300}
		return nil
	})
	if err != nil {
		t.Fatalf("seed day user: %v", err)
	}

	ids, err := st.Users()
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(ids) != 2 || ids[0] != 105 || ids[1] != 201 {
		t.Fatalf("expected [105 201], got %v", ids)
	}
}

func TestProAndWeighInFieldsRoundTrip(t *testing.T) {
	t.Parallel()
	st, path := newTestStore(t)

	end := time.Date(2026, 9, 30, 10, 0, 0, 0, time.UTC)
	used := true
	err := st.Update(33, func(u *model.User) error {
		u.Profile.SubscriptionEnd = &end
		u.Profile.TrialUsed = &used
		u.Profile.UsedPromos = []string{"KING30", "KING365"}
		u.Weights = []model.WeightRecord{
			{Date: "2026-08-24", WeightKg: 91.3},
			{Date: "2026-08-31", WeightKg: 90.1},
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st2, err := sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	err = st2.View(33, func(u *model.User) error {
		if u.Profile.SubscriptionEnd == nil || !u.Profile.SubscriptionEnd.Equal(end) {
			t.Fatalf("subscription end lost: %+v", u.Profile.SubscriptionEnd)
		}
		if u.Profile.TrialUsed == nil || !*u.Profile.TrialUsed {
			t.Fatalf("trial flag lost: %+v", u.Profile.TrialUsed)
		}
		if len(u.Profile.UsedPromos) != 2 {
			t.Fatalf("promo redemptions lost: %v", u.Profile.UsedPromos)
		}
		if len(u.Weights) != 2 || u.Weights[1].WeightKg != 90.1 {
			t.Fatalf("weigh-ins mangled: %+v", u.Weights)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view after reopen: %v", err)
	}
}
