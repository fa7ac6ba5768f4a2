// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/brianvoe/gofakeit/v6"
)

var (
	massUnits   = []string{"gram", "kilogram", "ounce", "pound"}
	volumeUnits = []string{"milliliter", "cup", "tablespoon", "teaspoon"}
	categories  = []string{"breakfast", "lunch", "dinner", "snack"}
)

// PlanFactory creates recipes, ledgers and meals from a seeded faker, so a
// failing test can be replayed with the same seed
type PlanFactory struct {
	faker *gofakeit.Faker
}

// NewPlanFactory creates a factory with a fixed seed
func NewPlanFactory(seed int64) *PlanFactory {
	return &PlanFactory{faker: gofakeit.New(seed)}
}

// Food returns a random food name
func (f *PlanFactory) Food() string {
	switch f.faker.Number(0, 2) {
	case 0:
		return f.faker.Fruit()
	case 1:
		return f.faker.Vegetable()
	default:
		return f.faker.Noun()
	}
}

// Ingredient returns an ingredient command for food in a random unit
func (f *PlanFactory) Ingredient(food string) inbound.IngredientCommand {
	units := massUnits
	if f.faker.Bool() {
		units = volumeUnits
	}
	return inbound.IngredientCommand{
		Food:     food,
		Quantity: float64(f.faker.Number(1, 500)),
		Unit:     f.faker.RandomString(units),
	}
}

// Grams returns an ingredient command of food in grams
func Grams(food string, grams float64) inbound.IngredientCommand {
	return inbound.IngredientCommand{Food: food, Quantity: grams, Unit: "gram"}
}

// CreateRecipeCommand returns a random, valid create command with n ingredients
func (f *PlanFactory) CreateRecipeCommand(n int) inbound.CreateRecipeCommand {
	ingredients := make([]inbound.IngredientCommand, 0, n)
	seen := make(map[string]bool)
	for len(ingredients) < n {
		food := f.Food()
		if seen[food] {
			food = fmt.Sprintf("%s %d", food, len(ingredients))
		}
		seen[food] = true
		ingredients = append(ingredients, f.Ingredient(food))
	}

	return inbound.CreateRecipeCommand{
		Name:         f.faker.Adjective() + " " + f.faker.Dessert(),
		Servings:     f.faker.Number(1, 8),
		Ingredients:  ingredients,
		Instructions: f.faker.Sentence(12),
	}
}

// RecipeRecord returns a random stored recipe under key
func (f *PlanFactory) RecipeRecord(key string, n int) outbound.RecipeRecord {
	cmd := f.CreateRecipeCommand(n)
	lines := make([]outbound.IngredientRecord, 0, n)
	for _, in := range cmd.Ingredients {
		lines = append(lines, outbound.IngredientRecord{Quantity: in.Quantity, Units: in.Unit, Food: in.Food})
	}
	return outbound.RecipeRecord{
		Key:          key,
		Name:         cmd.Name,
		Servings:     cmd.Servings,
		Ingredients:  lines,
		Instructions: cmd.Instructions,
	}
}

// Category returns a random meal category
func (f *PlanFactory) Category() string {
	return f.faker.RandomString(categories)
}

// Date returns a random calendar date in 2024
func (f *PlanFactory) Date() time.Time {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, f.faker.Number(0, 365))
}

// MealRef returns a reference to a meal of recipeKey on a random date
func (f *PlanFactory) MealRef(recipeKey string) inbound.MealRef {
	return inbound.MealRef{RecipeKey: recipeKey, Date: f.Date(), Category: f.Category()}
}

// Date builds a UTC calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// RecipeBuilder provides a fluent interface for building create commands
type RecipeBuilder struct {
	cmd inbound.CreateRecipeCommand
}

// NewRecipeBuilder starts a recipe called name with one serving
func NewRecipeBuilder(name string) *RecipeBuilder {
	return &RecipeBuilder{cmd: inbound.CreateRecipeCommand{
		Name:        name,
		Servings:    1,
		Ingredients: []inbound.IngredientCommand{},
	}}
}

func (b *RecipeBuilder) WithServings(n int) *RecipeBuilder {
	b.cmd.Servings = n
	return b
}

func (b *RecipeBuilder) WithGrams(food string, grams float64) *RecipeBuilder {
	b.cmd.Ingredients = append(b.cmd.Ingredients, Grams(food, grams))
	return b
}

func (b *RecipeBuilder) WithIngredient(food string, quantity float64, unit string) *RecipeBuilder {
	b.cmd.Ingredients = append(b.cmd.Ingredients, inbound.IngredientCommand{Food: food, Quantity: quantity, Unit: unit})
	return b
}

func (b *RecipeBuilder) WithInstructions(text string) *RecipeBuilder {
	b.cmd.Instructions = text
	return b
}

// Build returns the command
func (b *RecipeBuilder) Build() inbound.CreateRecipeCommand {
	cmd := b.cmd
	cmd.Ingredients = append([]inbound.IngredientCommand{}, b.cmd.Ingredients...)
	return cmd
}
