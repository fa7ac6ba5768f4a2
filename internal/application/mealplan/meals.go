package mealplan

import (
	"context"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/plan"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"go.uber.org/zap"
)

// ScheduleMeal adds a meal to the plan and rewrites the meal index
func (s *Service) ScheduleMeal(ctx context.Context, cmd inbound.MealRef) (*inbound.MealDTO, error) {
	var dto *inbound.MealDTO
	err := s.run(ctx, "schedule_meal", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}
		key, err := mealKeyFromRef(cmd)
		if err != nil {
			return err
		}

		next := s.plan.Clone()
		m, err := next.AddMeal(key)
		if err != nil {
			return err
		}
		if err := s.commit(ctx, next, s.saveMeals(next)); err != nil {
			return err
		}

		s.logger.Info("Meal scheduled",
			zap.String("recipe_key", m.RecipeKey()),
			zap.String("date", dateAttr(m.Date())),
			zap.String("category", string(m.Category())),
		)
		dto = s.mealDTO(m)
		return nil
	})
	return dto, err
}

// UnscheduleMeal removes the meals equal to cmd. Nothing is written when no
// meal matched.
func (s *Service) UnscheduleMeal(ctx context.Context, cmd inbound.MealRef) (int, error) {
	removed := 0
	err := s.run(ctx, "unschedule_meal", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}
		key, err := mealKeyFromRef(cmd)
		if err != nil {
			return err
		}

		next := s.plan.Clone()
		n := next.RemoveMeal(key)
		if n == 0 {
			return nil
		}
		if err := s.commit(ctx, next, s.saveMeals(next)); err != nil {
			return err
		}

		s.logger.Info("Meal unscheduled", zap.String("meal", key.Normalize().String()))
		removed = n
		return nil
	})
	return removed, err
}

// RescheduleMeal replaces one meal with another in a single step
func (s *Service) RescheduleMeal(ctx context.Context, cmd inbound.RescheduleMealCommand) (*inbound.MealDTO, error) {
	var dto *inbound.MealDTO
	err := s.run(ctx, "reschedule_meal", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}
		from, err := mealKeyFromRef(cmd.From)
		if err != nil {
			return err
		}
		to, err := mealKeyFromRef(cmd.To)
		if err != nil {
			return err
		}

		next := s.plan.Clone()
		m, err := next.ReplaceMeal(from, to)
		if err != nil {
			return err
		}
		if err := s.commit(ctx, next, s.saveMeals(next)); err != nil {
			return err
		}

		s.logger.Info("Meal rescheduled",
			zap.String("from", from.Normalize().String()),
			zap.String("to", m.Key().String()),
		)
		dto = s.mealDTO(m)
		return nil
	})
	return dto, err
}

// GetMeals returns the meals dated in [start, start+days)
func (s *Service) GetMeals(ctx context.Context, start time.Time, days int) ([]inbound.MealDTO, error) {
	var dtos []inbound.MealDTO
	err := s.run(ctx, "get_meals", func(ctx context.Context) error {
		if err := plan.ValidateWindow(days); err != nil {
			return err
		}
		dtos = s.mealDTOs(s.plan.Meals(start, days))
		return nil
	})
	return dtos, err
}
