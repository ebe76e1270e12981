package mealplan

import (
	"regexp"
	"strings"
)

type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
	Snacks    MealType = "Snacks"
)

// MealTypes lists the sections in display order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snacks}

// MealSections always holds all four meal types. An empty string means the
// model wrote nothing recognisable for that meal.
type MealSections map[MealType]string

var mealPattern = regexp.MustCompile(`(?is)(breakfast|lunch|dinner|snacks?):\s*(.*?)(?:\s*` + regexp.QuoteMeta(MealDelimiter) + `|$)`)

// SegmentMeals splits one day's block into its meal sections.
// A later section with the same label replaces the earlier one.
func SegmentMeals(dayText string) MealSections {
	sections := MealSections{}
	for _, mt := range MealTypes {
		sections[mt] = ""
	}

	for _, m := range mealPattern.FindAllStringSubmatch(dayText, -1) {
		label := MealType(Capitalize(m[1]))
		if label == "Snack" {
			label = Snacks
		}
		sections[label] = strings.TrimSpace(m[2])
	}
	return sections
}

// Found reports whether the model wrote anything for mt.
func (s MealSections) Found(mt MealType) bool {
	return s[mt] != ""
}
