package session

import (
	"errors"
	"fmt"
	"time"

	"weekly-meal-planner/internal/mealplan"
)

var (
	// ErrNoPlan is returned when a chat asks to browse before generating a plan.
	ErrNoPlan = errors.New("no meal plan generated yet")
	// ErrUnknownDay is returned when selecting a day that is not in the stored plan.
	ErrUnknownDay = errors.New("unknown day")
)

// UiState is what a presentation layer remembers between interactions:
// the latest plan and the day being viewed. Generating a new plan replaces it.
type UiState struct {
	RawPlan     string              `json:"raw_plan"`
	StoredPlan  mealplan.DailyPlans `json:"stored_plan"`
	SelectedDay string              `json:"selected_day,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// WithPlan returns the state for a freshly generated plan with its first day selected.
func WithPlan(plan mealplan.Plan, now time.Time) UiState {
	state := UiState{
		RawPlan:     plan.RawText,
		StoredPlan:  plan.Days,
		GeneratedAt: now,
	}
	if days := plan.Days.Days(); len(days) > 0 {
		state.SelectedDay = days[0]
	}
	return state
}

// HasPlan reports whether a plan has been stored.
func (s UiState) HasPlan() bool {
	return s.StoredPlan.Len() > 0
}

// Select returns a copy of s with day selected.
func (s UiState) Select(day string) (UiState, error) {
	if !s.HasPlan() {
		return s, ErrNoPlan
	}
	if _, ok := s.StoredPlan.Block(day); !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	s.SelectedDay = day
	return s, nil
}

// SelectIndex selects the i-th day in plan order.
func (s UiState) SelectIndex(i int) (UiState, error) {
	if !s.HasPlan() {
		return s, ErrNoPlan
	}
	days := s.StoredPlan.Days()
	if i < 0 || i >= len(days) {
		return s, fmt.Errorf("%w: index %d", ErrUnknownDay, i)
	}
	return s.Select(days[i])
}

// CurrentBlock returns the selected day and its text.
func (s UiState) CurrentBlock() (string, string, error) {
	if !s.HasPlan() {
		return "", "", ErrNoPlan
	}
	block, ok := s.StoredPlan.Block(s.SelectedDay)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownDay, s.SelectedDay)
	}
	return s.SelectedDay, block, nil
}
