package mealplan

import (
	"context"

	"github.com/alchemorsel/dietplanner/internal/domain/plan"
	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"go.uber.org/zap"
)

// load builds a fresh plan from the store. Unreadable recipes and meals
// that do not resolve are skipped and logged; only store-level failures
// abort the load.
func (s *Service) load(ctx context.Context) (*inbound.LoadReport, error) {
	s.logger.Info("Loading meal plan", zap.String("store", s.store.Location()))

	dietRec, err := s.store.Diet().Load(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("load diet policy", err)
	}
	next := plan.New(s.checker, policyFromRecord(dietRec))

	records, bad, err := s.store.Recipes().List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list recipes", err)
	}

	report := &inbound.LoadReport{}
	for _, rerr := range bad {
		s.skipRecipe(report, rerr.Source, rerr.Err)
	}

	for _, rec := range records {
		r, err := recipeFromRecord(s.conv, rec)
		if err != nil {
			s.skipRecipe(report, rec.Key, err)
			continue
		}
		if err := next.AddRecipe(r); err != nil {
			s.skipRecipe(report, rec.Key, err)
		}
	}

	meals, err := s.store.Meals().Load(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("load meal index", err)
	}

	for _, rec := range meals {
		key, err := mealKeyFromRecord(rec)
		if err == nil {
			_, err = next.AddMeal(key)
		}
		if err != nil {
			source := rec.Filename + "@" + rec.Date + "/" + rec.Category
			report.SkippedMeals = append(report.SkippedMeals, source)
			s.metrics.RecordSkipped("meal")
			s.logger.Warn("Skipping meal",
				zap.String("meal", source),
				zap.Error(err),
			)
		}
	}

	next.ClearEvents()
	s.plan = next

	report.Recipes = len(next.Recipes())
	report.Meals = len(next.AllMeals())
	s.metrics.SetPlanSize(report.Recipes, report.Meals)

	s.logger.Info("Meal plan loaded",
		zap.Int("recipes", report.Recipes),
		zap.Int("meals", report.Meals),
		zap.Int("skipped_recipes", len(report.SkippedRecipes)),
		zap.Int("skipped_meals", len(report.SkippedMeals)),
	)
	return report, nil
}

func (s *Service) skipRecipe(report *inbound.LoadReport, source string, err error) {
	report.SkippedRecipes = append(report.SkippedRecipes, source)
	s.metrics.RecordSkipped("recipe")
	s.logger.Warn("Skipping recipe",
		zap.String("recipe", source),
		zap.Error(err),
	)
}

func mealKeyFromRecord(rec outbound.MealRecord) (recipe.MealKey, error) {
	date, err := recipe.ParseDate(rec.Date)
	if err != nil {
		return recipe.MealKey{}, err
	}
	category, err := recipe.ParseCategory(rec.Category)
	if err != nil {
		return recipe.MealKey{}, err
	}
	return recipe.NewMealKey(recipe.KeyFromFilename(rec.Filename), date, category), nil
}
