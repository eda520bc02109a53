// Package profile stores per-user static attributes (age, sex, body
// measurements, goal, targets). Fields are upserted one at a time with no
// cross-field validation; completeness is a separate question answered per
// flow, because the quick calorie-only flow and the full macro flow need
// different field sets.
package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

// Field names accepted by SetField.
const (
	FieldAge            = "age"
	FieldSex            = "sex"
	FieldHeightCm       = "height_cm"
	FieldWeightKg       = "weight_kg"
	FieldActivityFactor = "activity_factor"
	FieldGoal           = "goal"
	FieldKcalTarget     = "kcal_target"
)

// ActivityFactors is the discrete set of accepted multipliers, indexed by
// the 1..5 level the onboarding flow asks for.
var ActivityFactors = map[int]float64{
	1: 1.2,
	2: 1.375,
	3: 1.55,
	4: 1.725,
	5: 1.9,
}

// RequiredFields names a completeness policy. The two flows in this system
// use different sets and must not be conflated.
type RequiredFields []string

var (
	// RequiredForMacroTargets is what the full macro-aware calculator needs.
	RequiredForMacroTargets = RequiredFields{FieldAge, FieldSex, FieldHeightCm, FieldWeightKg, FieldActivityFactor}
	// RequiredForQuickTarget is what the calorie-only diary flow needs.
	RequiredForQuickTarget = RequiredFields{FieldKcalTarget}
)

// SetField parses and upserts one profile field from its textual value.
func SetField(st store.Store, userID int64, field, value string) error {
	field = strings.TrimSpace(strings.ToLower(field))
	value = strings.TrimSpace(value)
	apply, err := parseField(field, value)
	if err != nil {
		return err
	}
	err = st.Update(userID, func(u *model.User) error {
		apply(&u.Profile)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s for user %d: %w", field, userID, err)
	}
	return nil
}

// SetTargets stores a computed macro target set on the profile.
func SetTargets(st store.Store, userID int64, t model.Targets) error {
	kcal := int(t.Calories + 0.5)
	err := st.Update(userID, func(u *model.User) error {
		u.Profile.KcalTarget = &kcal
		u.Profile.ProteinTarget = &t.ProteinG
		u.Profile.FatTarget = &t.FatG
		u.Profile.CarbsTarget = &t.CarbsG
		return nil
	})
	if err != nil {
		return fmt.Errorf("set targets for user %d: %w", userID, err)
	}
	return nil
}

// RecordWeighIn appends a dated weight record and moves the profile's
// current weight to it, so later target calculations use the fresh value.
func RecordWeighIn(st store.Store, userID int64, weightKg float64, date string) (previous float64, err error) {
	if weightKg <= 0 {
		return 0, fmt.Errorf("weight must be > 0, got %g", weightKg)
	}
	err = st.Update(userID, func(u *model.User) error {
		if n := len(u.Weights); n > 0 {
			previous = u.Weights[n-1].WeightKg
		} else if u.Profile.WeightKg != nil {
			previous = *u.Profile.WeightKg
		}
		u.Weights = append(u.Weights, model.WeightRecord{Date: date, WeightKg: weightKg})
		u.Profile.WeightKg = &weightKg
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record weigh-in for user %d: %w", userID, err)
	}
	return previous, nil
}

// WeighIns returns the user's weight history in recorded order.
func WeighIns(st store.Store, userID int64) ([]model.WeightRecord, error) {
	var out []model.WeightRecord
	err := st.View(userID, func(u *model.User) error {
		out = append([]model.WeightRecord(nil), u.Weights...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list weigh-ins for user %d: %w", userID, err)
	}
	return out, nil
}

// Get returns whatever fields have been set; missing fields stay nil.
func Get(st store.Store, userID int64) (model.Profile, error) {
	var p model.Profile
	err := st.View(userID, func(u *model.User) error {
		p = u.Profile
		return nil
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile for user %d: %w", userID, err)
	}
	return p, nil
}

// IsComplete reports whether every field of the given policy is set.
func IsComplete(st store.Store, userID int64, req RequiredFields) (bool, error) {
	p, err := Get(st, userID)
	if err != nil {
		return false, err
	}
	for _, f := range req {
		if !fieldSet(p, f) {
			return false, nil
		}
	}
	return true, nil
}

func fieldSet(p model.Profile, field string) bool {
	switch field {
	case FieldAge:
		return p.Age != nil
	case FieldSex:
		return p.Sex != nil
	case FieldHeightCm:
		return p.HeightCm != nil
	case FieldWeightKg:
		return p.WeightKg != nil
	case FieldActivityFactor:
		return p.ActivityFactor != nil
	case FieldGoal:
		return p.Goal != nil
	case FieldKcalTarget:
		return p.KcalTarget != nil
	default:
		return false
	}
}

func parseField(field, value string) (func(*model.Profile), error) {
	switch field {
	case FieldAge:
		age, err := strconv.Atoi(value)
		if err != nil || age <= 0 {
			return nil, fmt.Errorf("age must be a positive integer, got %q", value)
		}
		return func(p *model.Profile) { p.Age = &age }, nil
	case FieldSex:
		sex := strings.ToLower(value)
		if sex != model.SexMale && sex != model.SexFemale {
			return nil, fmt.Errorf("sex must be %q or %q, got %q", model.SexMale, model.SexFemale, value)
		}
		return func(p *model.Profile) { p.Sex = &sex }, nil
	case FieldHeightCm:
		h, err := parsePositiveFloat(value)
		if err != nil {
			return nil, fmt.Errorf("height must be a positive number, got %q", value)
		}
		return func(p *model.Profile) { p.HeightCm = &h }, nil
	case FieldWeightKg:
		w, err := parsePositiveFloat(value)
		if err != nil {
			return nil, fmt.Errorf("weight must be a positive number, got %q", value)
		}
		return func(p *model.Profile) { p.WeightKg = &w }, nil
	case FieldActivityFactor:
		f, err := parsePositiveFloat(value)
		if err != nil || !knownActivityFactor(f) {
			return nil, fmt.Errorf("activity factor must be one of 1.2, 1.375, 1.55, 1.725, 1.9, got %q", value)
		}
		return func(p *model.Profile) { p.ActivityFactor = &f }, nil
	case FieldGoal:
		goal := strings.ToLower(value)
		switch goal {
		case model.GoalLose, model.GoalMaintain, model.GoalGain, model.GoalHealth:
		default:
			return nil, fmt.Errorf("goal must be lose, maintain, gain, or health, got %q", value)
		}
		return func(p *model.Profile) { p.Goal = &goal }, nil
	case FieldKcalTarget:
		kcal, err := strconv.Atoi(value)
		if err != nil || kcal <= 0 {
			return nil, fmt.Errorf("kcal target must be a positive integer, got %q", value)
		}
		return func(p *model.Profile) { p.KcalTarget = &kcal }, nil
	default:
		return nil, fmt.Errorf("unknown profile field %q", field)
	}
}

func parsePositiveFloat(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("not a positive number: %q", value)
	}
	return f, nil
}

func knownActivityFactor(f float64) bool {
	for _, v := range ActivityFactors {
		if v == f {
			return true
		}
	}
	return false
}
