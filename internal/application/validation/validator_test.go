package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/units"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) apperrors.ValidationErrors {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	list, ok := appErr.Metadata["validation_errors"].(apperrors.ValidationErrors)
	require.True(t, ok)
	return list
}

func TestValidator(t *testing.T) {
	v := New(units.NewConverter())

	t.Run("ValidCreateRecipe", func(t *testing.T) {
		cmd := inbound.CreateRecipeCommand{
			Name:     "Pancakes",
			Servings: 4,
			Ingredients: []inbound.IngredientCommand{
				{Food: "flour", Quantity: 1.5, Unit: "cups"},
				{Food: "milk", Quantity: 300, Unit: "ml"},
			},
		}

		assert.NoError(t, v.Struct(cmd))
	})

	t.Run("InvalidCreateRecipe", func(t *testing.T) {
		cmd := inbound.CreateRecipeCommand{
			Name:     "two\nlines",
			Servings: -1,
			Ingredients: []inbound.IngredientCommand{
				{Food: "", Quantity: 1, Unit: "parsec"},
			},
		}

		list := fieldErrors(t, v.Struct(cmd))

		tags := map[string]bool{}
		for _, fe := range list {
			tags[fe.Tag] = true
		}
		assert.True(t, tags["singleline"])
		assert.True(t, tags["gte"])
		assert.True(t, tags["required"])
		assert.True(t, tags["unit"])
	})

	t.Run("MealRefs", func(t *testing.T) {
		ok := inbound.MealRef{RecipeKey: "oatmeal", Date: time.Now(), Category: "Breakfast"}
		assert.NoError(t, v.Struct(ok))

		blankCategory := inbound.MealRef{RecipeKey: "oatmeal", Date: time.Now()}
		assert.NoError(t, v.Struct(blankCategory))

		list := fieldErrors(t, v.Struct(inbound.RescheduleMealCommand{
			From: ok,
			To:   inbound.MealRef{RecipeKey: "oatmeal", Category: "brunch"},
		}))
		require.Len(t, list, 2)
		assert.Contains(t, list.Error(), "Category must be one of")
	})

	t.Run("UpdateRecipeOptionalFields", func(t *testing.T) {
		assert.NoError(t, v.Struct(inbound.UpdateRecipeCommand{Key: "oatmeal"}))

		negative := -2
		list := fieldErrors(t, v.Struct(inbound.UpdateRecipeCommand{Key: "oatmeal", Servings: &negative}))
		require.Len(t, list, 1)
		assert.Equal(t, "gte", list[0].Tag)
	})

	t.Run("AddFood", func(t *testing.T) {
		assert.NoError(t, v.Struct(inbound.AddFoodCommand{Food: "sugar", Class: "Banned"}))

		list := fieldErrors(t, v.Struct(inbound.AddFoodCommand{Food: "sugar", Class: "evil"}))
		assert.Equal(t, "foodclass", list[0].Tag)
	})
}
