package recognize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable means the recognizer's reply carried no usable calorie
// number. Callers must not turn this into a zero-value diary entry.
var ErrUnparsable = errors.New("could not extract nutrition from reply")

// Estimate is the structured result of a recognizer call.
type Estimate struct {
	Name     string
	Calories float64
	ProteinG float64
	FatG     float64
	CarbsG   float64
	Raw      string
}

// The model is asked to answer in this fixed labeled layout.
var (
	labelName     = "Название:"
	labelCalories = "Калории:"
	labelProtein  = "Белки:"
	labelFat      = "Жиры:"
	labelCarbs    = "Углеводы:"
)

var (
	numberRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
	kcalRe   = regexp.MustCompile(`(?i)(\d{1,5}(?:[.,]\d+)?)\s*(?:ккал|kcal)`)
)

// ParseEstimate extracts the labeled numbers from a recognizer reply.
// Falls back to a "350 ккал" style match when the calorie label is absent;
// with no calorie number at all it returns ErrUnparsable.
func ParseEstimate(text string) (Estimate, error) {
	est := Estimate{Raw: text}
	haveCalories := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelName):
			est.Name = strings.TrimSpace(strings.TrimPrefix(line, labelName))
		case strings.HasPrefix(line, labelCalories):
			if v, ok := firstNumber(strings.TrimPrefix(line, labelCalories)); ok && v >= 0 {
				est.Calories = v
				haveCalories = true
			}
		case strings.HasPrefix(line, labelProtein):
			if v, ok := firstNumber(strings.TrimPrefix(line, labelProtein)); ok && v >= 0 {
				est.ProteinG = v
			}
		case strings.HasPrefix(line, labelFat):
			if v, ok := firstNumber(strings.TrimPrefix(line, labelFat)); ok && v >= 0 {
				est.FatG = v
			}
		case strings.HasPrefix(line, labelCarbs):
			if v, ok := firstNumber(strings.TrimPrefix(line, labelCarbs)); ok && v >= 0 {
				est.CarbsG = v
			}
		}
	}

	if !haveCalories {
		if m := kcalRe.FindStringSubmatch(text); m != nil {
			if v, err := parseNumber(m[1]); err == nil {
				est.Calories = v
				haveCalories = true
			}
		}
	}
	if !haveCalories {
		return Estimate{}, ErrUnparsable
	}
	return est, nil
}

func firstNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := parseNumber(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
