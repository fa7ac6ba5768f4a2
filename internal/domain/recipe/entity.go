// Package recipe contains the recipe and meal entities of the diet planner.
// A Recipe is dateless and reusable; a Meal schedules one on a calendar date.
package recipe

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/alchemorsel/dietplanner/internal/domain/ledger"
)

const maxNameLength = 200

// Recipe represents a named, reusable ingredient list.
// Its key is derived from the name once and never changes.
type Recipe struct {
	key          string
	name         string
	servings     int
	ingredients  *ledger.Ledger
	instructions string

	// Derived compliance tags, refreshed by the meal plan
	accept  bool
	percent float64
}

// New creates a Recipe with validation. A nil ledger becomes an empty one;
// a given ledger is copied.
func New(name string, servings int, ingredients *ledger.Ledger, instructions string) (*Recipe, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	if servings < 0 {
		return nil, validationError(ErrInvalidServings)
	}

	if err := validateIngredients(ingredients); err != nil {
		return nil, err
	}

	return &Recipe{
		key:          Slugify(name),
		name:         name,
		servings:     servings,
		ingredients:  ingredients.Clone(),
		instructions: instructions,
		accept:       true,
	}, nil
}

// Restore rebuilds a persisted recipe under its stored key. A blank name
// falls back to the key.
func Restore(key, name string, servings int, ingredients *ledger.Ledger, instructions string) (*Recipe, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, "/\\\r\n") {
		return nil, invalidArgument(ErrInvalidKey, "key", key)
	}
	if strings.TrimSpace(name) == "" {
		name = key
	}

	r, err := New(name, servings, ingredients, instructions)
	if err != nil {
		return nil, err
	}
	r.key = key
	return r, nil
}

// Key returns the recipe's identity key
func (r *Recipe) Key() string {
	return r.key
}

// Name returns the recipe's display name
func (r *Recipe) Name() string {
	return r.name
}

// Servings returns the number of servings
func (r *Recipe) Servings() int {
	return r.servings
}

// Ingredients returns a copy of the ingredient ledger
func (r *Recipe) Ingredients() *ledger.Ledger {
	return r.ingredients.Clone()
}

// Instructions returns the free-text instructions
func (r *Recipe) Instructions() string {
	return r.instructions
}

// Filename returns the name of the recipe's record file
func (r *Recipe) Filename() string {
	return r.key + FileExtension
}

// Compliance returns the derived accept flag and restricted fraction
func (r *Recipe) Compliance() (bool, float64) {
	return r.accept, r.percent
}

// Tag records the compliance outcome computed for this recipe
func (r *Recipe) Tag(accept bool, percent float64) {
	r.accept = accept
	r.percent = percent
}

// Equal reports whether both recipes share an identity key
func (r *Recipe) Equal(other *Recipe) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.key == other.key
}

// Revise returns a copy with new content under the same key. The name may
// change only if its slug stays the same.
func (r *Recipe) Revise(name string, servings int, ingredients *ledger.Ledger, instructions string) (*Recipe, error) {
	revised, err := New(name, servings, ingredients, instructions)
	if err != nil {
		return nil, err
	}
	if revised.key != r.key && revised.key != Slugify(r.name) {
		return nil, invalidArgument(ErrRecipeKeyChanged, "name", name)
	}
	revised.key = r.key
	return revised, nil
}

// Renamed returns a new recipe, with a new key, carrying this recipe's content
func (r *Recipe) Renamed(name string) (*Recipe, error) {
	return New(name, r.servings, r.ingredients, r.instructions)
}

// Clone returns a deep copy
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.ingredients = r.ingredients.Clone()
	return &c
}

func validateName(name string) error {
	if name == "" {
		return validationError(ErrBlankName)
	}
	if strings.ContainsAny(name, "\r\n") {
		return validationError(ErrNameLineBreak)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return validationError(ErrNameTooLong)
	}
	return nil
}

func validateIngredients(l *ledger.Ledger) error {
	for _, e := range l.Entries() {
		if e.Food == "" || strings.ContainsAny(e.Food, "\r\n") {
			return validationError(ErrInvalidFood)
		}
		m := e.Quantity.Magnitude
		if e.Quantity.Unit.IsZero() || m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return validationError(ErrInvalidQuantity).WithMetadata("food", e.Food)
		}
	}
	return nil
}
