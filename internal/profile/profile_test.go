package profile_test

import (
	"path/filepath"
	"testing"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store/jsonstore"
)

func newTestStore(t *testing.T) *jsonstore.Store {
	t.Helper()
	st, err := jsonstore.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func TestSetFieldUpsertsIndependently(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	// Setting weight must not require any other field to exist.
	if err := profile.SetField(st, 10, profile.FieldWeightKg, "82.5"); err != nil {
		t.Fatalf("set weight: %v", err)
	}
	p, err := profile.Get(st, 10)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.WeightKg == nil || *p.WeightKg != 82.5 {
		t.Fatalf("expected weight 82.5, got %+v", p.WeightKg)
	}
	if p.Age != nil || p.Sex != nil {
		t.Fatalf("unset fields must stay nil, got %+v", p)
	}

	// Overwrite wins.
	if err := profile.SetField(st, 10, profile.FieldWeightKg, "80"); err != nil {
		t.Fatalf("overwrite weight: %v", err)
	}
	p, err = profile.Get(st, 10)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if *p.WeightKg != 80 {
		t.Fatalf("expected overwritten weight 80, got %g", *p.WeightKg)
	}
}

func TestSetFieldValidatesValues(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	cases := []struct {
		field string
		value string
	}{
		{profile.FieldAge, "-5"},
		{profile.FieldAge, "abc"},
		{profile.FieldSex, "yes"},
		{profile.FieldHeightCm, "0"},
		{profile.FieldWeightKg, "-70"},
		{profile.FieldActivityFactor, "2.5"},
		{profile.FieldGoal, "shred"},
		{profile.FieldKcalTarget, "0"},
		{"favorite_food", "pizza"},
	}
	for _, tc := range cases {
		if err := profile.SetField(st, 4, tc.field, tc.value); err == nil {
			t.Errorf("set %s=%q: expected error, got nil", tc.field, tc.value)
		}
	}
}

func TestSetFieldAcceptsCommaDecimals(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	if err := profile.SetField(st, 6, profile.FieldHeightCm, "172,5"); err != nil {
		t.Fatalf("set height with comma decimal: %v", err)
	}
	p, err := profile.Get(st, 6)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.HeightCm == nil || *p.HeightCm != 172.5 {
		t.Fatalf("expected height 172.5, got %+v", p.HeightCm)
	}
}

func TestCompletenessPoliciesStayDistinct(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	// Only a kcal target: quick flow complete, macro flow not.
	if err := profile.SetField(st, 8, profile.FieldKcalTarget, "1800"); err != nil {
		t.Fatalf("set kcal target: %v", err)
	}
	quick, err := profile.IsComplete(st, 8, profile.RequiredForQuickTarget)
	if err != nil {
		t.Fatalf("quick completeness: %v", err)
	}
	if !quick {
		t.Fatal("quick flow should be complete with only kcal_target")
	}
	macro, err := profile.IsComplete(st, 8, profile.RequiredForMacroTargets)
	if err != nil {
		t.Fatalf("macro completeness: %v", err)
	}
	if macro {
		t.Fatal("macro flow must not be complete with only kcal_target")
	}

	// Fill the macro field set; quick policy is unaffected by it.
	fields := map[string]string{
		profile.FieldAge:            "32",
		profile.FieldSex:            "male",
		profile.FieldHeightCm:       "180",
		profile.FieldWeightKg:       "90",
		profile.FieldActivityFactor: "1.2",
	}
	for f, v := range fields {
		if err := profile.SetField(st, 8, f, v); err != nil {
			t.Fatalf("set %s: %v", f, err)
		}
	}
	macro, err = profile.IsComplete(st, 8, profile.RequiredForMacroTargets)
	if err != nil {
		t.Fatalf("macro completeness: %v", err)
	}
	if !macro {
		t.Fatal("macro flow should be complete once all five fields are set")
	}
}

func TestSetTargetsStoresWholeSet(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	err := profile.SetTargets(st, 12, model.Targets{
		Calories: 1840.08,
		ProteinG: 153,
		FatG:     72,
		CarbsG:   145.02,
	})
	if err != nil {
		t.Fatalf("set targets: %v", err)
	}
	p, err := profile.Get(st, 12)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.KcalTarget == nil || *p.KcalTarget != 1840 {
		t.Fatalf("expected rounded kcal target 1840, got %+v", p.KcalTarget)
	}
	if p.ProteinTarget == nil || *p.ProteinTarget != 153 {
		t.Fatalf("expected protein target 153, got %+v", p.ProteinTarget)
	}
	if p.FatTarget == nil || *p.FatTarget != 72 {
		t.Fatalf("expected fat target 72, got %+v", p.FatTarget)
	}
	if p.CarbsTarget == nil || *p.CarbsTarget != 145.02 {
		t.Fatalf("expected carbs target 145.02, got %+v", p.CarbsTarget)
	}
}

func TestRecordWeighInUpdatesProfileWeight(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	if err := profile.SetField(st, 6, "weight_kg", "90"); err != nil {
		t.Fatalf("seed weight: %v", err)
	}

	prev, err := profile.RecordWeighIn(st, 6, 88.5, "2026-08-31")
	if err != nil {
		t.Fatalf("weigh-in: %v", err)
	}
	if prev != 90 {
		t.Fatalf("expected previous weight 90 from profile, got %g", prev)
	}

	prev, err = profile.RecordWeighIn(st, 6, 87.2, "2026-09-07")
	if err != nil {
		t.Fatalf("second weigh-in: %v", err)
	}
	if prev != 88.5 {
		t.Fatalf("expected previous weight 88.5 from history, got %g", prev)
	}

	p, err := profile.Get(st, 6)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.WeightKg == nil || *p.WeightKg != 87.2 {
		t.Fatalf("profile weight must follow the latest weigh-in, got %+v", p.WeightKg)
	}

	history, err := profile.WeighIns(st, 6)
	if err != nil {
		t.Fatalf("weigh-ins: %v", err)
	}
	if len(history) != 2 || history[0].WeightKg != 88.5 || history[1].Date != "2026-09-07" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestRecordWeighInRejectsNonPositive(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	for _, kg := range []float64{0, -70} {
		if _, err := profile.RecordWeighIn(st, 6, kg, "2026-08-31"); err == nil {
			t.Errorf("weight %g: expected error, got nil", kg)
		}
	}
	history, err := profile.WeighIns(st, 6)
	if err != nil {
		t.Fatalf("weigh-ins: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("rejected weigh-in recorded anyway: %+v", history)
	}
}
