package jsonstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store/jsonstore"
)

func TestUpdateRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")
	st, err := jsonstore.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = st.Update(100, func(u *model.User) error {
		age := 30
		u.Profile.Age = &age
		u.Days = map[string]*model.Day{
			"2026-08-31": {
				Calories: 800,
				ProteinG: 50,
				FatG:     15,
				CarbsG:   90,
				History: []model.Entry{
					{Calories: 500, ProteinG: 30, FatG: 10, CarbsG: 50, Description: "обед"},
					{Calories: 300, ProteinG: 20, FatG: 5, CarbsG: 40},
				},
			},
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// Reopen to force a real decode from disk.
	st2, err := jsonstore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	err = st2.View(100, func(u *model.User) error {
		if u.Profile.Age == nil || *u.Profile.Age != 30 {
			t.Fatalf("age did not survive round trip: %+v", u.Profile)
		}
		d := u.Days["2026-08-31"]
		if d == nil {
			t.Fatal("day missing after round trip")
		}
		if d.Calories != 800 || len(d.History) != 2 {
			t.Fatalf("day mangled: %+v", d)
		}
		if d.History[0].Description != "обед" {
			t.Fatalf("description mangled: %q", d.History[0].Description)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestViewOfUnknownUserIsZeroValue(t *testing.T) {
	t.Parallel()
	st, err := jsonstore.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = st.View(999, func(u *model.User) error {
		if u.Profile.Age != nil || len(u.Days) != 0 {
			t.Fatalf("expected zero user, got %+v", u)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestDecodesLegacyDocumentMissingNewerFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")

	// The oldest layout: a day with totals only, no history, and a profile
	// with just a kcal target. Newer fields must default, not error.
	legacy := `{
  "555": {
    "profile": {"kcal_target": 1700},
    "days": {"2025-12-01": {"calories": 950, "protein": 40, "fat": 30, "carbs": 100}}
  }
}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy doc: %v", err)
	}

	st, err := jsonstore.Open(path)
	if err != nil {
		t.Fatalf("open legacy doc: %v", err)
	}
	err = st.View(555, func(u *model.User) error {
		if u.Profile.KcalTarget == nil || *u.Profile.KcalTarget != 1700 {
			t.Fatalf("kcal target lost: %+v", u.Profile)
		}
		d := u.Days["2025-12-01"]
		if d == nil || d.Calories != 950 {
			t.Fatalf("legacy day lost: %+v", d)
		}
		if len(d.History) != 0 {
			t.Fatalf("history should default empty, got %+v", d.History)
		}
		if u.Profile.Age != nil || u.Profile.ProteinTarget != nil {
			t.Fatalf("absent fields must stay nil: %+v", u.Profile)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view legacy user: %v", err)
	}
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(`{"1": {`), 0o644); err != nil {
		t.Fatalf("write corrupt doc: %v", err)
	}
	if _, err := jsonstore.Open(path); err == nil {
		t.Fatal("expected error opening corrupt document")
	}
}

func TestFailedUpdateLeavesFileUntouched(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "users.json")
	st, err := jsonstore.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = st.Update(1, func(u *model.User) error {
		kcal := 2100
		u.Profile.KcalTarget = &kcal
		return nil
	})
	if err != nil {
		t.Fatalf("seed update: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	wantErr := os.ErrPermission // any sentinel will do
	err = st.Update(1, func(u *model.User) error {
		kcal := 9999
		u.Profile.KcalTarget = &kcal
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected callback error to propagate, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("failed update modified the persisted document")
	}
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	st, err := jsonstore.Open(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 5; i++ {
		err := st.Update(int64(i+1), func(u *model.User) error {
			kcal := 2000 + i
			u.Profile.KcalTarget = &kcal
			return nil
		})
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, f := range files {
		if strings.HasPrefix(f.Name(), ".users-") {
			t.Fatalf("temp file left behind: %s", f.Name())
		}
	}
}

func TestUsersListsSortedIDs(t *testing.T) {
	t.Parallel()
	st, err := jsonstore.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, id := range []int64{300, 5, 42} {
		err := st.Update(id, func(u *model.User) error { return nil })
		if err != nil {
			t.Fatalf("seed user %d: %v", id, err)
		}
	}
	ids, err := st.Users()
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	want := []int64{5, 42, 300}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}
