package mealplan

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("EmbedsProfile", func(t *testing.T) {
		p := DefaultProfile()
		p.Dietary = []DietaryTag{DietVegan, DietHalal}

		prompt := BuildPrompt(p)

		expected := "Generate a personalized 7-day meal plan for a 20 year old Female with weight 52kg, height 157cm, " +
			"activity level Sedentary, dietary preferences Vegan, Halal, and a fitness goal of Weight Loss."
		if !strings.HasPrefix(prompt, expected) {
			t.Errorf("Expected prompt to start with %q, got %q", expected, prompt)
		}
	})

	t.Run("FormattingContracts", func(t *testing.T) {
		prompt := BuildPrompt(DefaultProfile())

		for _, sub := range []string{
			"'DAY X: DAY_NAME'",
			"'DAY 1: MONDAY'",
			"'Breakfast:', 'Lunch:', 'Dinner:', or 'Snacks:' on its own line",
			DayDelimiter,
			MealDelimiter,
		} {
			if !strings.Contains(prompt, sub) {
				t.Errorf("Expected prompt to contain %q", sub)
			}
		}
	})

	t.Run("CycleClauseOnlyForFemaleWithPhase", func(t *testing.T) {
		p := DefaultProfile()
		if strings.Contains(BuildPrompt(p), "menstrual cycle") {
			t.Error("Did not expect the cycle clause for Not Applicable")
		}

		p.CyclePhase = PhaseLuteal
		if !strings.Contains(BuildPrompt(p), "User is in menstrual cycle phase Luteal give suggestions to support hormonal health.") {
			t.Error("Expected the cycle clause for a Female profile in the luteal phase")
		}

		p.Gender = GenderMale
		if strings.Contains(BuildPrompt(p), "menstrual cycle") {
			t.Error("Did not expect the cycle clause for a Male profile")
		}
	})

	t.Run("AdditionalPreferencesOnlyWhenSet", func(t *testing.T) {
		p := DefaultProfile()
		if strings.Contains(BuildPrompt(p), "Additional preferences") {
			t.Error("Did not expect an additional preferences clause")
		}

		p.AdditionalPreferences = "no mushrooms"
		if !strings.Contains(BuildPrompt(p), "Additional preferences: no mushrooms.") {
			t.Error("Expected the additional preferences clause")
		}
	})

	t.Run("FractionalMeasurements", func(t *testing.T) {
		p := DefaultProfile()
		p.WeightKg = 61.5
		p.HeightCm = 170.2

		prompt := BuildPrompt(p)
		if !strings.Contains(prompt, "weight 61.5kg, height 170.2cm") {
			t.Errorf("Unexpected measurements in %q", prompt)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		p := DefaultProfile()
		p.AdditionalPreferences = "likes tofu"
		if BuildPrompt(p) != BuildPrompt(p) {
			t.Error("Expected identical prompts for identical profiles")
		}
	})
}
