package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"weekly-meal-planner/internal/mealplan"
	"weekly-meal-planner/internal/session"
	"weekly-meal-planner/internal/shared"

	"go.uber.org/zap"
)

// PlanGenerator produces a segmented plan for a profile.
type PlanGenerator interface {
	Generate(ctx context.Context, profile mealplan.UserProfile) mealplan.Plan
}

// MetricsRecorder persists token usage and prunes old records.
type MetricsRecorder interface {
	RecordMetas(ctx context.Context, metas []shared.AgentMeta) error
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

// App holds the CLI's dependencies.
type App struct {
	planner PlanGenerator
	metrics MetricsRecorder
	out     io.Writer
	log     *zap.Logger
}

// NewApp creates and initializes a new App instance.
func NewApp(planner PlanGenerator, metrics MetricsRecorder, out io.Writer, log *zap.Logger) *App {
	return &App{planner: planner, metrics: metrics, out: out, log: log}
}

// PlanOptions controls what GenerateMealPlan prints.
type PlanOptions struct {
	// Day limits the output to one day. Empty prints every day.
	Day string
	// Raw prints the model's text instead of the parsed sections.
	Raw bool
}

// GenerateMealPlan creates a meal plan for profile and prints it.
func (a *App) GenerateMealPlan(ctx context.Context, profile mealplan.UserProfile, opts PlanOptions) error {
	fmt.Fprintf(a.out, "Generating meal plan (%s, %s)...\n", profile.Goal, profile.Activity)

	plan := a.planner.Generate(ctx, profile)

	if err := a.metrics.RecordMetas(ctx, plan.Metas); err != nil {
		a.log.Warn("failed to record metrics", zap.Error(err))
	}

	if plan.Failed {
		if _, ok := plan.Days.Block(mealplan.FullPlanKey); ok {
			fmt.Fprint(a.out, renderError(plan.RawText))
			return errors.New("meal plan generation failed")
		}
		fmt.Fprint(a.out, renderError("the plan is incomplete, the model failed part way through"))
	}
	if opts.Raw {
		fmt.Fprint(a.out, renderRawPlan(plan.RawText))
		return nil
	}

	state := session.WithPlan(plan, time.Now())
	days := state.StoredPlan.Days()
	if opts.Day != "" {
		var err error
		if state, err = state.Select(canonicalDay(opts.Day)); err != nil {
			return fmt.Errorf("failed to show day: %w (available: %s)", err, strings.Join(days, ", "))
		}
		days = []string{state.SelectedDay}
	}

	fmt.Fprint(a.out, renderDaySelector(state.StoredPlan.Days(), state.SelectedDay))
	for _, day := range days {
		block, _ := state.StoredPlan.Block(day)
		fmt.Fprint(a.out, renderMealSections(day, mealplan.SegmentMeals(block)))
	}
	return nil
}

// CleanupMetrics removes metric records older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int) error {
	affected, err := a.metrics.Cleanup(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to clean up metrics: %w", err)
	}
	fmt.Fprintf(a.out, "Successfully removed %d old metric records.\n", affected)
	return nil
}

// canonicalDay matches the capitalization SegmentByDay produces.
func canonicalDay(day string) string {
	return mealplan.Capitalize(strings.TrimSpace(day))
}
