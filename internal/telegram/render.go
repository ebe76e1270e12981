package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"weekly-meal-planner/internal/mealplan"
	"weekly-meal-planner/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages longer than 4096 characters. Leave room for markup.
const maxMessageLength = 4000

const daysPerRow = 4

// Callback data sent by the plan keyboard.
const (
	callbackDay     = "day"
	callbackDayText = "text"
	callbackRaw     = "raw"
)

const stalePlanNotice = "That plan has been replaced. Use the buttons under your latest plan."

const helpText = `🥗 *Weekly Meal Planner*

Send /plan to get a personalised 7-day meal plan. Add any of these lines under the command to describe yourself:

` + "```\n" + profileFormTemplate + "\n```" + `

Options:
• gender: female, male
• activity: sedentary, lightly active, active, very active
• diet: vegan, vegetarian, halal, kosher, gluten-free, none (comma separated)
• cycle: not applicable, follicular, ovulatory, luteal, menstrual
• goal: weight loss, muscle gain, maintenance

Use the buttons under a plan to switch days.`

// planStamp identifies the plan a keyboard was rendered for.
func planStamp(state session.UiState) string {
	return strconv.FormatInt(state.GeneratedAt.UnixNano(), 10)
}

// callbackData joins an action, the plan stamp and an optional argument.
// Telegram caps callback data at 64 bytes.
func callbackData(action, stamp string, arg ...string) string {
	return strings.Join(append([]string{action, stamp}, arg...), "|")
}

// renderDaySelector lays the days out in rows of four, followed by the raw text buttons.
// Buttons carry the day's index so callback data stays short.
func renderDaySelector(days []string, selected, stamp string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for start := 0; start < len(days); start += daysPerRow {
		end := min(start+daysPerRow, len(days))
		row := make([]tgbotapi.InlineKeyboardButton, 0, end-start)
		for i := start; i < end; i++ {
			label := days[i]
			if label == selected {
				label = "• " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, callbackData(callbackDay, stamp, strconv.Itoa(i))))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📄 Day text", callbackData(callbackDayText, stamp)),
		tgbotapi.NewInlineKeyboardButtonData("📜 Full plan", callbackData(callbackRaw, stamp)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderMealSections formats one day as Markdown with a heading per meal.
func renderMealSections(day string, sections mealplan.MealSections) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *%s's Meal Plan*\n", escape(day)))

	for _, mt := range mealplan.MealTypes {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", mt))
		if sections.Found(mt) {
			sb.WriteString(escape(sections[mt]))
		} else {
			sb.WriteString(fmt.Sprintf("_No details found for %s._", strings.ToLower(string(mt))))
		}
		sb.WriteString("\n")
	}

	return truncate(sb.String(), maxMessageLength)
}

// renderRawPlan splits text into plain messages under the size limit,
// breaking on newlines where possible.
func renderRawPlan(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{"(empty plan)"}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > maxMessageLength {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			head, rest := splitRunes(line, maxMessageLength)
			chunks = append(chunks, head)
			line = rest
		}
		if utf8.RuneCountInString(current.String())+utf8.RuneCountInString(line) > maxMessageLength {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func renderError(message string) string {
	safe := strings.ReplaceAll(message, "`", "'")
	return fmt.Sprintf("❌ *Something went wrong:*\n```\n%s\n```", truncate(safe, maxMessageLength-64))
}

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	head, _ := splitRunes(text, limit-1)
	return head + "…"
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
