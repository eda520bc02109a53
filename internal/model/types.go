package model

import "time"

// Sex values accepted by profiles and the target calculator.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Goal values accepted by profiles and the target calculator.
const (
	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
	GoalHealth   = "health"
)

// Entry is one recorded meal. Immutable once appended to a Day; the only
// way to remove one is popping the tail of the day's history.
type Entry struct {
	Calories    float64   `json:"calories"`
	ProteinG    float64   `json:"protein"`
	FatG        float64   `json:"fat"`
	CarbsG      float64   `json:"carbs"`
	Description string    `json:"description,omitempty"`
	Kcal        *int      `json:"kcal,omitempty"`
	AddedAt     time.Time `json:"added_at,omitempty"`
}

// Day is one calendar day of a user's diary. The four totals always equal
// the element-wise sum over History.
type Day struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein"`
	FatG     float64 `json:"fat"`
	CarbsG   float64 `json:"carbs"`
	History  []Entry `json:"history,omitempty"`
}

// Profile holds per-user static attributes. Pointer fields distinguish
// "never set" from a zero value.
type Profile struct {
	Age             *int       `json:"age,omitempty"`
	Sex             *string    `json:"sex,omitempty"`
	HeightCm        *float64   `json:"height_cm,omitempty"`
	WeightKg        *float64   `json:"weight_kg,omitempty"`
	ActivityFactor  *float64   `json:"activity_factor,omitempty"`
	Goal            *string    `json:"goal,omitempty"`
	KcalTarget      *int       `json:"kcal_target,omitempty"`
	ProteinTarget   *float64   `json:"protein_target,omitempty"`
	FatTarget       *float64   `json:"fat_target,omitempty"`
	CarbsTarget     *float64   `json:"carbs_target,omitempty"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
	TrialUsed       *bool      `json:"trial_used,omitempty"`
	UsedPromos      []string   `json:"used_promos,omitempty"`
}

// WeightRecord is one weigh-in. Appended in chronological order.
type WeightRecord struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight_kg"`
}

// User is the full persisted state for one user id.
type User struct {
	Profile Profile         `json:"profile"`
	Days    map[string]*Day `json:"days,omitempty"`
	Weights []WeightRecord  `json:"weights,omitempty"`
}

// Targets is the output of the macro-aware target calculator.
type Targets struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// DaySummary combines a day's diary with the user's calorie budget.
// KcalLeft may be negative when the user is over budget.
type DaySummary struct {
	Date       string  `json:"date"`
	Entries    []Entry `json:"entries"`
	KcalTotal  float64 `json:"kcal_total"`
	ProteinG   float64 `json:"protein_g"`
	FatG       float64 `json:"fat_g"`
	CarbsG     float64 `json:"carbs_g"`
	KcalTarget int     `json:"kcal_target"`
	KcalLeft   float64 `json:"kcal_left"`
}
