package mealplan

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

// Sentinels shared between the prompt and the parsers. They must match bit for bit.
const (
	// CompletionMarker is present once the model has written the last day.
	CompletionMarker = "DAY 7:"
	// DayDelimiter closes each day's block.
	DayDelimiter = "-=*=-"
	// MealDelimiter closes each meal section.
	MealDelimiter = "𓇼 ⋆.˚ 𓆉 𓆝 𓆡⋆.˚ 𓇼"
)

//go:embed plan_prompt.md
var planPrompt string

var planTemplate = template.Must(template.New("plan").Parse(planPrompt))

type planPromptData struct {
	Age                   int
	Gender                Gender
	WeightKg              float64
	HeightCm              float64
	Activity              ActivityLevel
	DietaryList           string
	Goal                  FitnessGoal
	CyclePhase            CyclePhase
	AdditionalPreferences string
	MealDelimiter         string
	DayDelimiter          string
}

// BuildPrompt renders the generation request for a profile.
func BuildPrompt(p UserProfile) string {
	dietary := make([]string, len(p.Dietary))
	for i, d := range p.Dietary {
		dietary[i] = string(d)
	}

	data := planPromptData{
		Age:                   p.Age,
		Gender:                p.Gender,
		WeightKg:              p.WeightKg,
		HeightCm:              p.HeightCm,
		Activity:              p.Activity,
		DietaryList:           strings.Join(dietary, ", "),
		Goal:                  p.Goal,
		AdditionalPreferences: p.AdditionalPreferences,
		MealDelimiter:         MealDelimiter,
		DayDelimiter:          DayDelimiter,
	}
	if p.HasCyclePhase() {
		data.CyclePhase = p.CyclePhase
	}

	var buf bytes.Buffer
	// The template only reads plain fields, so Execute cannot fail here.
	_ = planTemplate.Execute(&buf, data)
	return buf.String()
}
