package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/database"
	"weekly-meal-planner/internal/llm"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/mealplan"
	"weekly-meal-planner/internal/metrics"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal("command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, command string, args []string) error {
	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)

	switch command {
	case "plan":
		profile, opts, err := parsePlanFlags(args)
		if err != nil {
			return err
		}

		textGen, closeGen, err := llm.NewFromConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize %s client: %w", cfg.LLMProvider, err)
		}
		defer closeGen()

		ctx, cancel := context.WithTimeout(ctx, cfg.GenerationTimeout)
		defer cancel()

		application := app.NewApp(mealplan.NewPlanner(textGen, log), metricsStore, os.Stdout, log)
		return application.GenerateMealPlan(ctx, profile, opts)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		_ = cleanupCmd.Parse(args)

		application := app.NewApp(nil, metricsStore, os.Stdout, log)
		return application.CleanupMetrics(ctx, *days)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func parsePlanFlags(args []string) (mealplan.UserProfile, app.PlanOptions, error) {
	d := mealplan.DefaultProfile()

	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	age := fs.Int("age", d.Age, "Age in years (10-100)")
	gender := fs.String("gender", string(d.Gender), "Female or Male")
	weight := fs.Float64("weight", d.WeightKg, "Weight in kg (30-200)")
	height := fs.Float64("height", d.HeightCm, "Height in cm (100-250)")
	activity := fs.String("activity", string(d.Activity), "Sedentary, Lightly Active, Active or Very Active")
	diet := fs.String("diet", string(mealplan.DietNone), "Comma separated: Vegan, Vegetarian, Halal, Kosher, Gluten-Free, None")
	cycle := fs.String("cycle", string(d.CyclePhase), "Menstrual cycle phase (Female only)")
	goal := fs.String("goal", string(d.Goal), "Weight Loss, Muscle Gain or Maintenance")
	notes := fs.String("notes", "", "Additional preferences")
	day := fs.String("day", "", "Only print this day")
	raw := fs.Bool("raw", false, "Print the model's text as is")
	_ = fs.Parse(args)

	p := mealplan.UserProfile{
		Age:                   *age,
		WeightKg:              *weight,
		HeightCm:              *height,
		AdditionalPreferences: *notes,
	}
	var err error
	if p.Gender, err = mealplan.ParseGender(*gender); err != nil {
		return p, app.PlanOptions{}, err
	}
	if p.Activity, err = mealplan.ParseActivity(*activity); err != nil {
		return p, app.PlanOptions{}, err
	}
	if p.Dietary, err = mealplan.ParseDietaryTags(*diet); err != nil {
		return p, app.PlanOptions{}, err
	}
	if p.CyclePhase, err = mealplan.ParseCyclePhase(*cycle); err != nil {
		return p, app.PlanOptions{}, err
	}
	if p.Goal, err = mealplan.ParseGoal(*goal); err != nil {
		return p, app.PlanOptions{}, err
	}

	profile, err := mealplan.NewUserProfile(p)
	if err != nil {
		return profile, app.PlanOptions{}, err
	}
	return profile, app.PlanOptions{Day: *day, Raw: *raw}, nil
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a 7-day meal plan (see plan -h for profile flags)")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
