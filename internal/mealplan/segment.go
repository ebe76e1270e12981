package mealplan

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FullPlanKey holds the whole text when no day headers were found.
const FullPlanKey = "Full Plan"

// dayPattern captures "DAY <n>: <NAME>" headers and everything up to the day
// delimiter or the end of the text.
var dayPattern = regexp.MustCompile(`(?is)(DAY\s+\d+[\s:.\-]*([a-z]+))\s*(.*?)(?:\s*` + regexp.QuoteMeta(DayDelimiter) + `|$)`)

// DailyPlans maps a day name to that day's block of text.
// Days keep the order in which they first appeared.
type DailyPlans struct {
	days   []string
	blocks map[string]string
}

// Set stores block under day. An existing day keeps its position and gets the new block.
func (d *DailyPlans) Set(day, block string) {
	if d.blocks == nil {
		d.blocks = make(map[string]string)
	}
	if _, ok := d.blocks[day]; !ok {
		d.days = append(d.days, day)
	}
	d.blocks[day] = block
}

// Days returns the day names in order.
func (d DailyPlans) Days() []string {
	return append([]string(nil), d.days...)
}

// Block returns the text for day.
func (d DailyPlans) Block(day string) (string, bool) {
	block, ok := d.blocks[day]
	return block, ok
}

// Len returns the number of days.
func (d DailyPlans) Len() int {
	return len(d.days)
}

type dayEntry struct {
	Day  string `json:"day"`
	Text string `json:"text"`
}

// MarshalJSON encodes the plans as an ordered list.
func (d DailyPlans) MarshalJSON() ([]byte, error) {
	entries := make([]dayEntry, 0, len(d.days))
	for _, day := range d.days {
		entries = append(entries, dayEntry{Day: day, Text: d.blocks[day]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes the ordered list written by MarshalJSON.
func (d *DailyPlans) UnmarshalJSON(data []byte) error {
	var entries []dayEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*d = DailyPlans{}
	for _, e := range entries {
		d.Set(e.Day, e.Text)
	}
	return nil
}

// SegmentByDay splits generated text into per-day blocks.
// Each block is the header followed directly by the day's content, without
// the day delimiter. A repeated day name replaces the earlier block.
// Text without any day header comes back as a single FullPlanKey entry.
func SegmentByDay(text string) DailyPlans {
	var plans DailyPlans
	for _, m := range dayPattern.FindAllStringSubmatch(text, -1) {
		header := strings.TrimSpace(m[1])
		day := Capitalize(m[2])
		content := strings.TrimSpace(m[3])
		plans.Set(day, header+content)
	}
	if plans.Len() == 0 {
		plans.Set(FullPlanKey, text)
	}
	return plans
}

// Capitalize upper-cases the first letter of each word and lower-cases the
// rest. Day names and meal labels are keyed this way.
func Capitalize(word string) string {
	return cases.Title(language.Und).String(word)
}
