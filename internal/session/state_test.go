package session

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"weekly-meal-planner/internal/mealplan"
)

func samplePlan() mealplan.Plan {
	text := "DAY 1: MONDAY\nBreakfast: oats\n-=*=-\nDAY 2: TUESDAY\nLunch: soup\n-=*=-"
	return mealplan.Plan{RawText: text, Days: mealplan.SegmentByDay(text)}
}

func TestUiState(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ZeroStateHasNoPlan", func(t *testing.T) {
		var s UiState
		if s.HasPlan() {
			t.Error("Expected zero state to have no plan")
		}
		if _, _, err := s.CurrentBlock(); !errors.Is(err, ErrNoPlan) {
			t.Errorf("Expected ErrNoPlan, got %v", err)
		}
		if _, err := s.Select("Monday"); !errors.Is(err, ErrNoPlan) {
			t.Errorf("Expected ErrNoPlan, got %v", err)
		}
	})

	t.Run("WithPlanSelectsFirstDay", func(t *testing.T) {
		s := WithPlan(samplePlan(), now)

		day, block, err := s.CurrentBlock()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if day != "Monday" || block != "DAY 1: MONDAYBreakfast: oats" {
			t.Errorf("Unexpected selection %q: %q", day, block)
		}
		if !s.GeneratedAt.Equal(now) {
			t.Errorf("Expected GeneratedAt %v, got %v", now, s.GeneratedAt)
		}
	})

	t.Run("SelectIsCopyOnWrite", func(t *testing.T) {
		s := WithPlan(samplePlan(), now)

		next, err := s.Select("Tuesday")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if next.SelectedDay != "Tuesday" || s.SelectedDay != "Monday" {
			t.Errorf("Expected only the copy to change, got %q and %q", next.SelectedDay, s.SelectedDay)
		}
	})

	t.Run("SelectUnknownDay", func(t *testing.T) {
		s := WithPlan(samplePlan(), now)

		if _, err := s.Select("Friday"); !errors.Is(err, ErrUnknownDay) {
			t.Errorf("Expected ErrUnknownDay, got %v", err)
		}
		if _, err := s.SelectIndex(2); !errors.Is(err, ErrUnknownDay) {
			t.Errorf("Expected ErrUnknownDay for out of range index, got %v", err)
		}
	})

	t.Run("SelectIndex", func(t *testing.T) {
		s, err := WithPlan(samplePlan(), now).SelectIndex(1)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if s.SelectedDay != "Tuesday" {
			t.Errorf("Expected Tuesday, got %q", s.SelectedDay)
		}
	})

	t.Run("NewPlanOverwrites", func(t *testing.T) {
		s, _ := WithPlan(samplePlan(), now).Select("Tuesday")

		text := "no headers at all"
		s = WithPlan(mealplan.Plan{RawText: text, Days: mealplan.SegmentByDay(text)}, now)

		if s.SelectedDay != mealplan.FullPlanKey {
			t.Errorf("Expected Full Plan selected, got %q", s.SelectedDay)
		}
		if s.StoredPlan.Len() != 1 {
			t.Errorf("Expected previous days to be gone, got %v", s.StoredPlan.Days())
		}
	})

	t.Run("JSONRoundTrip", func(t *testing.T) {
		s, _ := WithPlan(samplePlan(), now).Select("Tuesday")

		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		var decoded UiState
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if !reflect.DeepEqual(decoded.StoredPlan.Days(), []string{"Monday", "Tuesday"}) || decoded.SelectedDay != "Tuesday" {
			t.Errorf("Unexpected decoded state %+v", decoded)
		}
	})
}
