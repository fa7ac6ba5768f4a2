package recipe

import (
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/ledger"
)

// Meal is a recipe scheduled on a calendar date in a category.
// It reads servings, ingredients and instructions through the recipe it references.
type Meal struct {
	recipe   *Recipe
	date     time.Time
	category Category

	accept  bool
	percent float64
}

// NewMeal schedules r on date in category
func NewMeal(r *Recipe, date time.Time, category Category) (*Meal, error) {
	if r == nil {
		return nil, validationError(ErrMissingRecipe)
	}
	key := NewMealKey(r.key, date, category)
	if err := key.Validate(); err != nil {
		return nil, err
	}

	return &Meal{
		recipe:   r,
		date:     key.Date,
		category: key.Category,
		accept:   true,
	}, nil
}

// Key returns the meal's identity
func (m *Meal) Key() MealKey {
	return MealKey{RecipeKey: m.recipe.key, Date: m.date, Category: m.category}
}

// Recipe returns the referenced recipe
func (m *Meal) Recipe() *Recipe {
	return m.recipe
}

// RecipeKey returns the key of the referenced recipe
func (m *Meal) RecipeKey() string {
	return m.recipe.key
}

// Date returns the calendar date, midnight UTC
func (m *Meal) Date() time.Time {
	return m.date
}

// Category returns the meal category
func (m *Meal) Category() Category {
	return m.category
}

func (m *Meal) Name() string                { return m.recipe.name }
func (m *Meal) Servings() int               { return m.recipe.servings }
func (m *Meal) Instructions() string        { return m.recipe.instructions }
func (m *Meal) Ingredients() *ledger.Ledger { return m.recipe.Ingredients() }

// Compliance returns the derived accept flag and restricted fraction
func (m *Meal) Compliance() (bool, float64) {
	return m.accept, m.percent
}

// Tag records the compliance outcome computed for this meal
func (m *Meal) Tag(accept bool, percent float64) {
	m.accept = accept
	m.percent = percent
}

// Equal reports whether both meals have the same recipe, date and category
func (m *Meal) Equal(other *Meal) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Key().Equal(other.Key())
}

// Before orders meals by date
func (m *Meal) Before(other *Meal) bool {
	return m.date.Before(other.date)
}

// In reports whether the meal falls in [start, end)
func (m *Meal) In(start, end time.Time) bool {
	return !m.date.Before(start) && m.date.Before(end)
}

// Bind returns a copy of the meal referencing r, which must share its key
func (m *Meal) Bind(r *Recipe) *Meal {
	c := *m
	c.recipe = r
	return &c
}
