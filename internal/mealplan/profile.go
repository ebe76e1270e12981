package mealplan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

type ActivityLevel string

const (
	ActivitySedentary     ActivityLevel = "Sedentary"
	ActivityLightlyActive ActivityLevel = "Lightly Active"
	ActivityActive        ActivityLevel = "Active"
	ActivityVeryActive    ActivityLevel = "Very Active"
)

type DietaryTag string

const (
	DietVegan      DietaryTag = "Vegan"
	DietVegetarian DietaryTag = "Vegetarian"
	DietHalal      DietaryTag = "Halal"
	DietKosher     DietaryTag = "Kosher"
	DietGlutenFree DietaryTag = "Gluten-Free"
	DietNone       DietaryTag = "None"
)

type CyclePhase string

const (
	PhaseNotApplicable CyclePhase = "Not Applicable"
	PhaseFollicular    CyclePhase = "Follicular"
	PhaseOvulatory     CyclePhase = "Ovulatory"
	PhaseLuteal        CyclePhase = "Luteal"
	PhaseMenstrual     CyclePhase = "Menstrual"
)

type FitnessGoal string

const (
	GoalWeightLoss  FitnessGoal = "Weight Loss"
	GoalMuscleGain  FitnessGoal = "Muscle Gain"
	GoalMaintenance FitnessGoal = "Maintenance"
)

var (
	Genders        = []Gender{GenderFemale, GenderMale}
	ActivityLevels = []ActivityLevel{ActivitySedentary, ActivityLightlyActive, ActivityActive, ActivityVeryActive}
	DietaryTags    = []DietaryTag{DietVegan, DietVegetarian, DietHalal, DietKosher, DietGlutenFree, DietNone}
	CyclePhases    = []CyclePhase{PhaseNotApplicable, PhaseFollicular, PhaseOvulatory, PhaseLuteal, PhaseMenstrual}
	FitnessGoals   = []FitnessGoal{GoalWeightLoss, GoalMuscleGain, GoalMaintenance}
)

func (g Gender) Valid() bool { return slices.Contains(Genders, g) }
func (a ActivityLevel) Valid() bool { return slices.Contains(ActivityLevels, a) }
func (d DietaryTag) Valid() bool { return slices.Contains(DietaryTags, d) }
func (c CyclePhase) Valid() bool { return slices.Contains(CyclePhases, c) }
func (f FitnessGoal) Valid() bool { return slices.Contains(FitnessGoals, f) }

// UserProfile is everything the prompt needs to know about the person.
// Build one with NewUserProfile; a built profile is treated as read-only.
type UserProfile struct {
	Age                   int           `validate:"min=10,max=100"`
	Gender                Gender        `validate:"enum"`
	WeightKg              float64       `validate:"min=30,max=200"`
	HeightCm              float64       `validate:"min=100,max=250"`
	Activity              ActivityLevel `validate:"enum"`
	Dietary               []DietaryTag  `validate:"min=1,dive,enum"`
	CyclePhase            CyclePhase    `validate:"enum"`
	Goal                  FitnessGoal   `validate:"enum"`
	AdditionalPreferences string        `validate:"max=1000"`
}

// DefaultProfile mirrors the defaults of the profile form.
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:        20,
		Gender:     GenderFemale,
		WeightKg:   52,
		HeightCm:   157,
		Activity:   ActivitySedentary,
		Dietary:    []DietaryTag{DietNone},
		CyclePhase: PhaseNotApplicable,
		Goal:       GoalWeightLoss,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(interface{ Valid() bool })
		return ok && e.Valid()
	})
	return v
}

// NewUserProfile normalizes and validates p and returns an independent copy.
// Empty dietary preferences become [None]; the cycle phase is forced to
// Not Applicable for anyone who is not Female.
func NewUserProfile(p UserProfile) (UserProfile, error) {
	p.Dietary = slices.Clone(p.Dietary)
	if len(p.Dietary) == 0 {
		p.Dietary = []DietaryTag{DietNone}
	}
	if p.CyclePhase == "" || p.Gender != GenderFemale {
		p.CyclePhase = PhaseNotApplicable
	}
	p.AdditionalPreferences = strings.TrimSpace(p.AdditionalPreferences)

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return UserProfile{}, fmt.Errorf("invalid profile fields: %s", strings.Join(fields, ", "))
		}
		return UserProfile{}, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

// HasCyclePhase reports whether the menstrual health clause applies.
func (p UserProfile) HasCyclePhase() bool {
	return p.Gender == GenderFemale && p.CyclePhase != PhaseNotApplicable
}

func ParseGender(s string) (Gender, error) { return parseEnum(s, Genders, "gender") }
func ParseActivity(s string) (ActivityLevel, error) { return parseEnum(s, ActivityLevels, "activity level") }
func ParseCyclePhase(s string) (CyclePhase, error) { return parseEnum(s, CyclePhases, "cycle phase") }
func ParseGoal(s string) (FitnessGoal, error) { return parseEnum(s, FitnessGoals, "fitness goal") }
func ParseDietaryTag(s string) (DietaryTag, error) { return parseEnum(s, DietaryTags, "dietary preference") }

// ParseDietaryTags parses a comma separated list such as "vegan, halal".
func ParseDietaryTags(s string) ([]DietaryTag, error) {
	var tags []DietaryTag
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tag, err := ParseDietaryTag(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func parseEnum[T ~string](s string, options []T, what string) (T, error) {
	s = strings.TrimSpace(s)
	for _, opt := range options {
		if strings.EqualFold(s, string(opt)) {
			return opt, nil
		}
	}
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = string(opt)
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q (expected one of: %s)", what, s, strings.Join(names, ", "))
}
