// Package targets derives daily calorie and macro goals from a user's
// profile. Pure functions, no state.
//
// Two distinct policies exist and are deliberately kept apart:
//
//   - Calculate: the full macro-aware calculator (goal multipliers, macro
//     grams per kg, calorie floor, carbs remainder).
//   - QuickDeficit: the quick-mode onboarding formula (discrete activity
//     level, flat -500 kcal deficit, no macros).
//
// They produce different numbers for the same inputs; callers choose.
package targets

import (
	"fmt"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
)

const minCalories = 1200

type Input struct {
	Sex            string
	WeightKg       float64
	HeightCm       float64
	Age            int
	ActivityFactor float64
	Goal           string
}

// FromProfile builds a calculator Input from a stored profile, failing if
// any required field is missing.
func FromProfile(p model.Profile) (Input, error) {
	if p.Sex == nil || p.WeightKg == nil || p.HeightCm == nil || p.Age == nil || p.ActivityFactor == nil {
		return Input{}, fmt.Errorf("profile is incomplete: need age, sex, height, weight, and activity factor")
	}
	in := Input{
		Sex:            *p.Sex,
		WeightKg:       *p.WeightKg,
		HeightCm:       *p.HeightCm,
		Age:            *p.Age,
		ActivityFactor: *p.ActivityFactor,
		Goal:           model.GoalMaintain,
	}
	if p.Goal != nil {
		in.Goal = *p.Goal
	}
	return in, nil
}

// Calculate computes daily targets via Mifflin-St Jeor BMR, activity-scaled
// TDEE, and per-goal calorie/protein/fat policy. Carbs take whatever
// calories remain after protein and fat.
func Calculate(in Input) (model.Targets, error) {
	if in.Sex != model.SexMale && in.Sex != model.SexFemale {
		return model.Targets{}, fmt.Errorf("sex must be %q or %q, got %q", model.SexMale, model.SexFemale, in.Sex)
	}
	if in.WeightKg <= 0 {
		return model.Targets{}, fmt.Errorf("weight must be > 0, got %g", in.WeightKg)
	}
	if in.HeightCm <= 0 {
		return model.Targets{}, fmt.Errorf("height must be > 0, got %g", in.HeightCm)
	}
	if in.Age <= 0 {
		return model.Targets{}, fmt.Errorf("age must be > 0, got %d", in.Age)
	}
	if in.ActivityFactor <= 0 {
		return model.Targets{}, fmt.Errorf("activity factor must be > 0, got %g", in.ActivityFactor)
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if in.Sex == model.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	tdee := bmr * in.ActivityFactor

	var calories, proteinG, fatG float64
	switch in.Goal {
	case model.GoalLose:
		calories = tdee * 0.82
		proteinG = 1.7 * in.WeightKg
		fatG = 0.8 * in.WeightKg
	case model.GoalGain:
		calories = tdee * 1.12
		proteinG = 1.8 * in.WeightKg
		fatG = 0.9 * in.WeightKg
	case model.GoalHealth:
		calories = tdee * 0.95
		proteinG = 1.6 * in.WeightKg
		fatG = 0.9 * in.WeightKg
	case model.GoalMaintain, "":
		calories = tdee
		proteinG = 1.6 * in.WeightKg
		fatG = 0.9 * in.WeightKg
	default:
		return model.Targets{}, fmt.Errorf("unknown goal %q", in.Goal)
	}

	if calories < minCalories {
		calories = minCalories
	}
	carbsG := (calories - proteinG*4 - fatG*9) / 4
	if carbsG < 0 {
		carbsG = 0
	}

	return model.Targets{
		Calories: calories,
		ProteinG: proteinG,
		FatG:     fatG,
		CarbsG:   carbsG,
	}, nil
}

type QuickInput struct {
	Sex           string
	WeightKg      float64
	HeightCm      float64
	Age           int
	ActivityLevel int // 1..5
}

// QuickDeficit is the quick-mode onboarding formula: TDEE from a discrete
// activity level, then a flat 500 kcal deficit. Returns both maintenance
// and the deficit target, truncated to whole kcal.
func QuickDeficit(in QuickInput) (tdee, target int, err error) {
	if in.Sex != model.SexMale && in.Sex != model.SexFemale {
		return 0, 0, fmt.Errorf("sex must be %q or %q, got %q", model.SexMale, model.SexFemale, in.Sex)
	}
	if in.WeightKg <= 0 || in.HeightCm <= 0 || in.Age <= 0 {
		return 0, 0, fmt.Errorf("weight, height, and age must all be > 0")
	}
	factor, ok := profile.ActivityFactors[in.ActivityLevel]
	if !ok {
		return 0, 0, fmt.Errorf("activity level must be 1..5, got %d", in.ActivityLevel)
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if in.Sex == model.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	t := bmr * factor
	return int(t), int(t) - 500, nil
}
