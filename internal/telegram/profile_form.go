package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"weekly-meal-planner/internal/mealplan"
)

// profileFormTemplate is shown by /help. Every line is optional.
const profileFormTemplate = `/plan
age: 20
gender: female
weight: 52
height: 157
activity: sedentary
diet: none
cycle: not applicable
goal: weight loss
notes: no mushrooms`

// parseProfileForm reads "key: value" lines on top of the default profile.
// Blank lines are skipped; unknown keys and lines without a colon are errors.
func parseProfileForm(text string) (mealplan.UserProfile, error) {
	p := mealplan.DefaultProfile()

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return mealplan.UserProfile{}, fmt.Errorf("line %d: expected \"key: value\", got %q", i+1, line)
		}
		if err := applyField(&p, strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
			return mealplan.UserProfile{}, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	return mealplan.NewUserProfile(p)
}

func applyField(p *mealplan.UserProfile, key, value string) error {
	var err error
	switch key {
	case "age":
		p.Age, err = strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("age must be a whole number, got %q", value)
		}
	case "gender":
		p.Gender, err = mealplan.ParseGender(value)
	case "weight":
		p.WeightKg, err = parseMeasure(value, "kg")
	case "height":
		p.HeightCm, err = parseMeasure(value, "cm")
	case "activity":
		p.Activity, err = mealplan.ParseActivity(value)
	case "diet", "dietary":
		p.Dietary, err = mealplan.ParseDietaryTags(value)
	case "cycle":
		p.CyclePhase, err = mealplan.ParseCyclePhase(value)
	case "goal":
		p.Goal, err = mealplan.ParseGoal(value)
	case "notes":
		p.AdditionalPreferences = value
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return err
}

func parseMeasure(value, unit string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(value), unit))
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number of %s, got %q", unit, value)
	}
	return f, nil
}
