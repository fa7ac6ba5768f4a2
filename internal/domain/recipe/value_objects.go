package recipe

import (
	"strings"
	"time"
)

// Value Objects - Immutable objects that describe aspects of the domain

// Category is the slot of the day a meal is eaten in
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnack     Category = "snack"
)

// DefaultCategory is used when no category is given
const DefaultCategory = CategorySnack

// Categories returns every meal category in day order
func Categories() []Category {
	return []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack}
}

// IsValid checks if the category is one of the fixed set
func (c Category) IsValid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack:
		return true
	}
	return false
}

// ParseCategory parses a category case-insensitively; blank means DefaultCategory
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultCategory, nil
	}
	c := Category(s)
	if !c.IsValid() {
		return "", invalidArgument(ErrInvalidCategory, "category", s)
	}
	return c, nil
}

// DateLayout is the ISO-8601 calendar date format used in records
const DateLayout = "2006-01-02"

// DateOf reduces t to its calendar date, as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 date, or an RFC 3339 timestamp reduced to its date
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return time.Time{}, invalidArgument(ErrInvalidDate, "date", s)
}

// FormatDate renders a date as ISO-8601
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MealKey identifies a meal: the same recipe, date and category make the same meal
type MealKey struct {
	RecipeKey string
	Date      time.Time
	Category  Category
}

// NewMealKey builds a normalised key
func NewMealKey(recipeKey string, date time.Time, category Category) MealKey {
	return MealKey{RecipeKey: recipeKey, Date: DateOf(date), Category: category}.Normalize()
}

// Normalize trims the recipe key, drops the time of day and lowercases the category
func (k MealKey) Normalize() MealKey {
	return MealKey{
		RecipeKey: strings.TrimSpace(k.RecipeKey),
		Date:      DateOf(k.Date),
		Category:  Category(strings.ToLower(strings.TrimSpace(string(k.Category)))),
	}
}

// Validate checks the category, recipe reference and date
func (k MealKey) Validate() error {
	if k.RecipeKey == "" {
		return validationError(ErrMissingRecipe)
	}
	if k.Date.IsZero() {
		return invalidArgument(ErrInvalidDate, "date", k.Date)
	}
	if !k.Category.IsValid() {
		return invalidArgument(ErrInvalidCategory, "category", string(k.Category))
	}
	return nil
}

// Equal compares two keys after normalisation
func (k MealKey) Equal(other MealKey) bool {
	a, b := k.Normalize(), other.Normalize()
	return a.RecipeKey == b.RecipeKey && a.Date.Equal(b.Date) && a.Category == b.Category
}

// String renders "recipe@date/category"
func (k MealKey) String() string {
	return k.RecipeKey + "@" + FormatDate(k.Date) + "/" + string(k.Category)
}
