package sqlite

import (
	"time"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/vmihailenco/msgpack/v5"
)

// RecipeModel represents the GORM model for recipes. The ingredient ledger
// is one msgpack-encoded column.
type RecipeModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Key          string `gorm:"column:recipe_key;type:varchar(255);uniqueIndex;not null"`
	Name         string `gorm:"type:varchar(255);not null"`
	Servings     int    `gorm:"default:0"`
	Ingredients  []byte `gorm:"type:blob"`
	Instructions string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MealModel is one row of the meal index; Position keeps file order
type MealModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Position int    `gorm:"index;not null"`
	Filename string `gorm:"type:varchar(255);not null"`
	Date     string `gorm:"type:varchar(32);not null;index"`
	Category string `gorm:"type:varchar(32)"`
}

// DietFoodModel lists one food under one class of the diet policy
type DietFoodModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Position int    `gorm:"index;not null"`
	Class    string `gorm:"type:varchar(16);not null;index"`
	Food     string `gorm:"type:varchar(255);not null"`
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (MealModel) TableName() string {
	return "meals"
}

func (DietFoodModel) TableName() string {
	return "diet_foods"
}

// ingredientLine is the msgpack form of one ledger entry
type ingredientLine struct {
	Quantity float64 `msgpack:"q"`
	Units    string  `msgpack:"u"`
	Food     string  `msgpack:"f"`
}

// RecipeToModel converts a record to its GORM model
func RecipeToModel(rec outbound.RecipeRecord) (*RecipeModel, error) {
	lines := make([]ingredientLine, 0, len(rec.Ingredients))
	for _, in := range rec.Ingredients {
		lines = append(lines, ingredientLine{Quantity: in.Quantity, Units: in.Units, Food: in.Food})
	}
	blob, err := msgpack.Marshal(lines)
	if err != nil {
		return nil, err
	}

	return &RecipeModel{
		Key:          rec.Key,
		Name:         rec.Name,
		Servings:     rec.Servings,
		Ingredients:  blob,
		Instructions: rec.Instructions,
	}, nil
}

// ModelToRecipe converts a GORM model back to a record
func ModelToRecipe(model *RecipeModel) (outbound.RecipeRecord, error) {
	var lines []ingredientLine
	if len(model.Ingredients) > 0 {
		if err := msgpack.Unmarshal(model.Ingredients, &lines); err != nil {
			return outbound.RecipeRecord{}, err
		}
	}

	ingredients := make([]outbound.IngredientRecord, 0, len(lines))
	for _, l := range lines {
		ingredients = append(ingredients, outbound.IngredientRecord{Quantity: l.Quantity, Units: l.Units, Food: l.Food})
	}

	return outbound.RecipeRecord{
		Key:          model.Key,
		Name:         model.Name,
		Servings:     model.Servings,
		Ingredients:  ingredients,
		Instructions: model.Instructions,
	}, nil
}
