package recognize_test

import (
	"errors"
	"testing"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/recognize"
)

func TestParseEstimateLabeledLayout(t *testing.T) {
	t.Parallel()

	reply := `Название: Гречка с курицей
Калории: 450
Белки: 38
Жиры: 12.5
Углеводы: 48`

	est, err := recognize.ParseEstimate(reply)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if est.Name != "Гречка с курицей" {
		t.Errorf("name: got %q", est.Name)
	}
	if est.Calories != 450 {
		t.Errorf("calories: expected 450, got %g", est.Calories)
	}
	if est.ProteinG != 38 {
		t.Errorf("protein: expected 38, got %g", est.ProteinG)
	}
	if est.FatG != 12.5 {
		t.Errorf("fat: expected 12.5, got %g", est.FatG)
	}
	if est.CarbsG != 48 {
		t.Errorf("carbs: expected 48, got %g", est.CarbsG)
	}
}

func TestParseEstimateCommaDecimalsAndUnits(t *testing.T) {
	t.Parallel()

	reply := `Название: Йогурт
Калории: 120,5 ккал
Белки: 10,2 г
Жиры: 3,1 г
Углеводы: 14,0 г`

	est, err := recognize.ParseEstimate(reply)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if est.Calories != 120.5 {
		t.Errorf("calories: expected 120.5, got %g", est.Calories)
	}
	if est.ProteinG != 10.2 {
		t.Errorf("protein: expected 10.2, got %g", est.ProteinG)
	}
}

func TestParseEstimateKcalFallback(t *testing.T) {
	t.Parallel()

	// No labeled lines, but a kcal figure in prose.
	est, err := recognize.ParseEstimate("Примерно 350 ккал в этой порции, точнее сложно сказать.")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if est.Calories != 350 {
		t.Errorf("calories: expected 350, got %g", est.Calories)
	}
	if est.ProteinG != 0 || est.FatG != 0 || est.CarbsG != 0 {
		t.Errorf("macros should default to zero, got %+v", est)
	}
}

func TestParseEstimateLatinKcal(t *testing.T) {
	t.Parallel()

	est, err := recognize.ParseEstimate("Roughly 520 kcal total.")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if est.Calories != 520 {
		t.Errorf("calories: expected 520, got %g", est.Calories)
	}
}

func TestParseEstimateUnparsable(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"Не могу определить еду на этом фото.",
		"Это не похоже на еду. Попробуй другое фото.",
		"Калории: неизвестно\nБелки: мало",
	}
	for _, reply := range cases {
		if _, err := recognize.ParseEstimate(reply); !errors.Is(err, recognize.ErrUnparsable) {
			t.Errorf("reply %q: expected ErrUnparsable, got %v", reply, err)
		}
	}
}

func TestParseEstimateIgnoresNegativeNumbers(t *testing.T) {
	t.Parallel()

	// A negative labeled value is nonsense from the model; the fallback
	// regex only matches unsigned figures, so this must fail cleanly
	// rather than produce a negative entry.
	reply := `Калории: -200
Белки: -5`
	if _, err := recognize.ParseEstimate(reply); !errors.Is(err, recognize.ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable for negative calories, got %v", err)
	}
}
