package mealplan

import (
	"context"

	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"go.uber.org/zap"
)

// GetPolicy returns the food lists of the diet policy
func (s *Service) GetPolicy(ctx context.Context) (*inbound.PolicyDTO, error) {
	var dto *inbound.PolicyDTO
	err := s.run(ctx, "get_policy", func(ctx context.Context) error {
		dto = policyDTO(s.plan.Policy())
		return nil
	})
	return dto, err
}

// SetPolicy replaces the diet policy and re-tags every recipe and meal
func (s *Service) SetPolicy(ctx context.Context, cmd inbound.SetPolicyCommand) error {
	return s.run(ctx, "set_policy", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}

		next := s.plan.Clone()
		if err := next.SetPolicy(diet.NewPolicy(cmd.Allowed, cmd.Restricted, cmd.Banned)); err != nil {
			return err
		}
		if err := s.commit(ctx, next, s.saveDiet(next)); err != nil {
			return err
		}

		s.logger.Info("Diet policy replaced", zap.Int("foods", next.Policy().Len()))
		return nil
	})
}

// AddFood lists a food under a class, moving it out of any other class
func (s *Service) AddFood(ctx context.Context, cmd inbound.AddFoodCommand) error {
	return s.run(ctx, "add_food", func(ctx context.Context) error {
		if err := s.validator.Struct(cmd); err != nil {
			return err
		}
		class, err := diet.ParseClass(cmd.Class)
		if err != nil {
			return err
		}

		next := s.plan.Clone()
		if err := next.AddFood(cmd.Food, class); err != nil {
			return err
		}
		if err := s.commit(ctx, next, s.saveDiet(next)); err != nil {
			return err
		}

		s.logger.Info("Food classified",
			zap.String("food", cmd.Food),
			zap.String("class", string(class)),
		)
		return nil
	})
}

// RemoveFood unlists a food; it reports whether the food was listed
func (s *Service) RemoveFood(ctx context.Context, food string) (bool, error) {
	removed := false
	err := s.run(ctx, "remove_food", func(ctx context.Context) error {
		next := s.plan.Clone()
		ok, err := next.RemoveFood(food)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := s.commit(ctx, next, s.saveDiet(next)); err != nil {
			return err
		}

		s.logger.Info("Food unlisted", zap.String("food", food))
		removed = true
		return nil
	})
	return removed, err
}
