package memory

import (
	"context"
	"testing"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := outbound.RecipeRecord{Key: "b", Name: "B", Ingredients: []outbound.IngredientRecord{{Quantity: 1, Units: "gram", Food: "salt"}}}
	second := outbound.RecipeRecord{Key: "a", Name: "A", Ingredients: []outbound.IngredientRecord{}}
	require.NoError(t, s.Recipes().Save(ctx, first))
	require.NoError(t, s.Recipes().Save(ctx, second))

	first.Name = "B2"
	require.NoError(t, s.Recipes().Save(ctx, first))

	records, bad, err := s.Recipes().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bad)
	require.Len(t, records, 2)
	assert.Equal(t, "B2", records[0].Name)
	assert.Equal(t, "a", records[1].Key)

	records[0].Ingredients[0].Food = "changed"
	again, _, _ := s.Recipes().List(ctx)
	assert.Equal(t, "salt", again[0].Ingredients[0].Food)

	require.NoError(t, s.Recipes().Delete(ctx, "b"))
	records, _, _ = s.Recipes().List(ctx)
	assert.Len(t, records, 1)

	meals := []outbound.MealRecord{{Filename: "a.txt", Date: "2024-01-01", Category: "lunch"}}
	require.NoError(t, s.Meals().Save(ctx, meals))
	got, err := s.Meals().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, meals, got)

	policy := outbound.DietRecord{Allowed: []string{"kale"}, Restricted: []string{}, Banned: []string{"sugar"}}
	require.NoError(t, s.Diet().Save(ctx, policy))
	loaded, err := s.Diet().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, policy, loaded)

	require.NoError(t, s.Close())
	_, err = s.Meals().Load(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
