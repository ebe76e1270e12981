package app

import (
	"fmt"
	"strings"

	"weekly-meal-planner/internal/mealplan"
)

const daysPerRow = 4

func renderDaySelector(days []string, selected string) string {
	var sb strings.Builder
	sb.WriteString("\n=== DAYS ===\n")
	for i, day := range days {
		if day == selected {
			day = "[" + day + "]"
		}
		sb.WriteString(fmt.Sprintf("%-12s", day))
		if (i+1)%daysPerRow == 0 || i == len(days)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func renderMealSections(day string, sections mealplan.MealSections) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n=== %s'S MEAL PLAN ===\n", strings.ToUpper(day)))
	for _, mt := range mealplan.MealTypes {
		sb.WriteString(fmt.Sprintf("\n-- %s --\n", mt))
		if sections.Found(mt) {
			sb.WriteString(sections[mt])
		} else {
			sb.WriteString(fmt.Sprintf("No details found for %s.", strings.ToLower(string(mt))))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderRawPlan(text string) string {
	return "\n=== COMPLETE MEAL PLAN ===\n" + strings.TrimRight(text, "\n") + "\n"
}

func renderError(message string) string {
	return fmt.Sprintf("\n!!! %s\n", message)
}
