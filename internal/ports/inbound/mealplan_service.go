// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"
)

// MealPlanService defines the use cases of the diet planner
// This is the primary port that the CLI and other driving adapters use
type MealPlanService interface {
	// Loading
	Load(ctx context.Context) (*LoadReport, error)
	Reload(ctx context.Context) (*LoadReport, error)

	// Recipes
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, key string) (int, error)
	GetRecipe(ctx context.Context, key string) (*RecipeDTO, error)
	ListRecipes(ctx context.Context) ([]RecipeDTO, error)

	// Meals
	ScheduleMeal(ctx context.Context, cmd MealRef) (*MealDTO, error)
	UnscheduleMeal(ctx context.Context, cmd MealRef) (int, error)
	RescheduleMeal(ctx context.Context, cmd RescheduleMealCommand) (*MealDTO, error)
	GetMeals(ctx context.Context, start time.Time, days int) ([]MealDTO, error)

	// Compliance
	CheckPlan(ctx context.Context, start time.Time, days int) (*ComplianceDTO, error)
	CheckRecipes(ctx context.Context) error
	Calendar(ctx context.Context, start time.Time, days int) ([]DayDTO, error)

	// Diet policy
	GetPolicy(ctx context.Context) (*PolicyDTO, error)
	SetPolicy(ctx context.Context, cmd SetPolicyCommand) error
	AddFood(ctx context.Context, cmd AddFoodCommand) error
	RemoveFood(ctx context.Context, food string) (bool, error)
}

// Command objects for operations

// IngredientCommand is one ingredient line of a recipe
type IngredientCommand struct {
	Food     string  `validate:"required,singleline,max=100"`
	Quantity float64 `validate:"gte=0"`
	Unit     string  `validate:"required,unit"`
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	Name         string              `validate:"required,singleline,max=200"`
	Servings     int                 `validate:"gte=0"`
	Ingredients  []IngredientCommand `validate:"dive"`
	Instructions string
}

// UpdateRecipeCommand replaces the fields that are set; the name may only
// change in ways that keep the recipe key
type UpdateRecipeCommand struct {
	Key          string               `validate:"required"`
	Name         *string              `validate:"omitempty,singleline,max=200"`
	Servings     *int                 `validate:"omitempty,gte=0"`
	Ingredients  *[]IngredientCommand `validate:"omitempty,dive"`
	Instructions *string
}

// MealRef names a meal by recipe, date and category
type MealRef struct {
	RecipeKey string    `validate:"required"`
	Date      time.Time `validate:"required"`
	Category  string    `validate:"omitempty,category"`
}

// RescheduleMealCommand moves a meal to another recipe, date or category
type RescheduleMealCommand struct {
	From MealRef
	To   MealRef
}

// AddFoodCommand classifies a food in the diet policy
type AddFoodCommand struct {
	Food  string `validate:"required,singleline,max=100"`
	Class string `validate:"required,foodclass"`
}

// SetPolicyCommand replaces the whole diet policy
type SetPolicyCommand struct {
	Allowed    []string `validate:"dive,singleline"`
	Restricted []string `validate:"dive,singleline"`
	Banned     []string `validate:"dive,singleline"`
}

// Data Transfer Objects

// IngredientDTO is one ingredient line
type IngredientDTO struct {
	Food     string  `json:"food"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ComplianceDTO is the outcome of a compliance check
type ComplianceDTO struct {
	Passed             bool     `json:"passed"`
	RestrictedFraction float64  `json:"restricted_fraction"`
	RestrictedMass     float64  `json:"restricted_mass_g"`
	OtherMass          float64  `json:"other_mass_g"`
	Banned             []string `json:"banned,omitempty"`
	Severity           string   `json:"severity"`
}

// RecipeDTO represents a recipe for external consumption
type RecipeDTO struct {
	Key          string          `json:"key"`
	Name         string          `json:"name"`
	Filename     string          `json:"filename"`
	Servings     int             `json:"servings"`
	Ingredients  []IngredientDTO `json:"ingredients"`
	Instructions string          `json:"instructions"`
	Accept       bool            `json:"accept"`
	Percent      float64         `json:"percent"`
	Severity     string          `json:"severity"`
}

// MealDTO represents a scheduled meal
type MealDTO struct {
	RecipeKey    string          `json:"recipe_key"`
	Name         string          `json:"name"`
	Date         time.Time       `json:"date"`
	Category     string          `json:"category"`
	Servings     int             `json:"servings"`
	Ingredients  []IngredientDTO `json:"ingredients"`
	Instructions string          `json:"instructions"`
	Accept       bool            `json:"accept"`
	Percent      float64         `json:"percent"`
	Severity     string          `json:"severity"`
}

// DayDTO is one calendar day with its meals and compliance
type DayDTO struct {
	Date       time.Time     `json:"date"`
	Meals      []MealDTO     `json:"meals"`
	TotalMass  float64       `json:"total_mass_g"`
	Compliance ComplianceDTO `json:"compliance"`
}

// PolicyDTO lists the foods of each class
type PolicyDTO struct {
	Allowed    []string `json:"allowed"`
	Restricted []string `json:"restricted"`
	Banned     []string `json:"banned"`
}

// LoadReport summarises a load from storage
type LoadReport struct {
	Recipes        int      `json:"recipes"`
	Meals          int      `json:"meals"`
	SkippedRecipes []string `json:"skipped_recipes,omitempty"`
	SkippedMeals   []string `json:"skipped_meals,omitempty"`
}
