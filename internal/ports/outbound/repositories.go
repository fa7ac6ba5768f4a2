// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"fmt"
)

// IngredientRecord is one (quantity, units, food) line of a recipe record
type IngredientRecord struct {
	Quantity float64
	Units    string
	Food     string
}

// RecipeRecord is the persisted form of a recipe
type RecipeRecord struct {
	Key          string
	Name         string
	Servings     int
	Ingredients  []IngredientRecord
	Instructions string
}

// MealRecord is one row of the meal index
type MealRecord struct {
	Filename string
	Date     string // ISO-8601 calendar date
	Category string
}

// DietRecord holds the three food lists of the diet policy
type DietRecord struct {
	Allowed    []string
	Restricted []string
	Banned     []string
}

// RecordError reports a single record that could not be read
type RecordError struct {
	Source string
	Err    error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// RecipeRepository defines the interface for recipe persistence
// One record per recipe, addressed by key
type RecipeRepository interface {
	// List returns every readable record. Records that cannot be read are
	// reported in the second result; the error is for the store as a whole.
	List(ctx context.Context) ([]RecipeRecord, []RecordError, error)
	Save(ctx context.Context, record RecipeRecord) error
	Delete(ctx context.Context, key string) error
}

// MealRepository persists the meal index as one table
type MealRepository interface {
	Load(ctx context.Context) ([]MealRecord, error)
	Save(ctx context.Context, meals []MealRecord) error
}

// DietRepository persists the diet policy
type DietRepository interface {
	Load(ctx context.Context) (DietRecord, error)
	Save(ctx context.Context, diet DietRecord) error
}

// Store groups the repositories of one storage backend
type Store interface {
	Recipes() RecipeRepository
	Meals() MealRepository
	Diet() DietRepository
	// Location names what the store reads from, for logs
	Location() string
	Close() error
}
