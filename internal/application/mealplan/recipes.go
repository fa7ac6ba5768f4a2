package mealplan

import (
	"context"

	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"go.uber.org/zap"
)

// CreateRecipe adds a new recipe and writes its file
func (s *Service) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	var dto *inbound.RecipeDTO
	err := s.run(ctx, "create_recipe", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}

		ingredients, err := ledgerFromCommands(s.conv, cmd.Ingredients)
		if err != nil {
			return err
		}
		r, err := recipe.New(cmd.Name, cmd.Servings, ingredients, cmd.Instructions)
		if err != nil {
			return err
		}

		next := s.plan.Clone()
		if err := next.AddRecipe(r); err != nil {
			return err
		}
		stored, _ := next.Recipe(r.Key())

		if err := s.commit(ctx, next, s.saveRecipe(stored)); err != nil {
			return err
		}

		s.logger.Info("Recipe created",
			zap.String("recipe_key", stored.Key()),
			zap.Int("ingredients", stored.Ingredients().Len()),
		)
		dto = s.recipeDTO(stored)
		return nil
	})
	return dto, err
}

// UpdateRecipe revises the fields set in cmd. The recipe key never changes.
func (s *Service) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	var dto *inbound.RecipeDTO
	err := s.run(ctx, "update_recipe", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}

		current, ok := s.plan.Recipe(cmd.Key)
		if !ok {
			return apperrors.NewRecipeNotFoundError(cmd.Key)
		}

		name := current.Name()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		servings := current.Servings()
		if cmd.Servings != nil {
			servings = *cmd.Servings
		}
		instructions := current.Instructions()
		if cmd.Instructions != nil {
			instructions = *cmd.Instructions
		}
		ingredients := current.Ingredients()
		if cmd.Ingredients != nil {
			var err error
			if ingredients, err = ledgerFromCommands(s.conv, *cmd.Ingredients); err != nil {
				return err
			}
		}

		revised, err := current.Revise(name, servings, ingredients, instructions)
		if err != nil {
			return err
		}

		next := s.plan.Clone()
		if err := next.ReplaceRecipe(revised); err != nil {
			return err
		}
		stored, _ := next.Recipe(revised.Key())

		if err := s.commit(ctx, next, s.saveRecipe(stored)); err != nil {
			return err
		}

		s.logger.Info("Recipe updated", zap.String("recipe_key", stored.Key()))
		dto = s.recipeDTO(stored)
		return nil
	})
	return dto, err
}

// DeleteRecipe removes a recipe and every meal that references it. It
// returns the number of meals removed; an unknown key is a no-op.
func (s *Service) DeleteRecipe(ctx context.Context, key string) (int, error) {
	removed := 0
	err := s.run(ctx, "delete_recipe", func(ctx context.Context) error {
		next := s.plan.Clone()
		n, ok := next.RemoveRecipe(key)
		if !ok {
			s.logger.Debug("Recipe not present, nothing to delete", zap.String("recipe_key", key))
			return nil
		}

		writes := []write{s.deleteRecipe(key)}
		if n > 0 {
			writes = append([]write{s.saveMeals(next)}, writes...)
		}
		if err := s.commit(ctx, next, writes...); err != nil {
			return err
		}

		s.logger.Info("Recipe deleted",
			zap.String("recipe_key", key),
			zap.Int("meals_removed", n),
		)
		removed = n
		return nil
	})
	return removed, err
}

// GetRecipe returns one recipe
func (s *Service) GetRecipe(ctx context.Context, key string) (*inbound.RecipeDTO, error) {
	var dto *inbound.RecipeDTO
	err := s.run(ctx, "get_recipe", func(ctx context.Context) error {
		r, ok := s.plan.Recipe(key)
		if !ok {
			return apperrors.NewRecipeNotFoundError(key)
		}
		dto = s.recipeDTO(r)
		return nil
	})
	return dto, err
}

// ListRecipes returns every recipe in load order
func (s *Service) ListRecipes(ctx context.Context) ([]inbound.RecipeDTO, error) {
	var dtos []inbound.RecipeDTO
	err := s.run(ctx, "list_recipes", func(ctx context.Context) error {
		recipes := s.plan.Recipes()
		dtos = make([]inbound.RecipeDTO, 0, len(recipes))
		for _, r := range recipes {
			dtos = append(dtos, *s.recipeDTO(r))
		}
		return nil
	})
	return dtos, err
}

func (s *Service) saveRecipe(r *recipe.Recipe) write {
	return write{what: "save recipe", fn: func(ctx context.Context) error {
		return s.store.Recipes().Save(ctx, recipeRecord(r))
	}}
}

func (s *Service) deleteRecipe(key string) write {
	return write{what: "delete recipe", fn: func(ctx context.Context) error {
		return s.store.Recipes().Delete(ctx, key)
	}}
}
