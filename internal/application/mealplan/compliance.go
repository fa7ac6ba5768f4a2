package mealplan

import (
	"context"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/plan"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"go.uber.org/zap"
)

// CheckPlan checks every meal dated in [start, start+days) against the diet
func (s *Service) CheckPlan(ctx context.Context, start time.Time, days int) (*inbound.ComplianceDTO, error) {
	var dto *inbound.ComplianceDTO
	err := s.run(ctx, "check_plan", func(ctx context.Context) error {
		if err := plan.ValidateWindow(days); err != nil {
			return err
		}
		result, err := s.plan.CheckPlan(start, days)
		if err != nil {
			return err
		}

		s.metrics.RecordCompliance("plan", result.Passed, result.RestrictedFraction)
		s.logger.Debug("Plan checked",
			zap.String("start", dateAttr(start)),
			zap.Int("days", days),
			zap.Bool("passed", result.Passed),
			zap.Float64("restricted_fraction", result.RestrictedFraction),
			zap.Strings("banned", result.Banned),
		)
		c := s.complianceDTO(result)
		dto = &c
		return nil
	})
	return dto, err
}

// CheckRecipes re-tags every recipe and meal with its own compliance
func (s *Service) CheckRecipes(ctx context.Context) error {
	return s.run(ctx, "check_recipes", func(ctx context.Context) error {
		next := s.plan.Clone()
		if err := next.CheckRecipes(); err != nil {
			return err
		}
		if err := s.commit(ctx, next); err != nil {
			return err
		}
		for _, r := range next.Recipes() {
			accept, percent := r.Compliance()
			s.metrics.RecordCompliance("item", accept, percent)
		}
		return nil
	})
}

// Calendar groups [start, start+days) by day with per-day compliance
func (s *Service) Calendar(ctx context.Context, start time.Time, days int) ([]inbound.DayDTO, error) {
	var dtos []inbound.DayDTO
	err := s.run(ctx, "calendar", func(ctx context.Context) error {
		if err := plan.ValidateWindow(days); err != nil {
			return err
		}
		plannedDays, err := s.plan.Days(start, days)
		if err != nil {
			return err
		}

		dtos = make([]inbound.DayDTO, 0, len(plannedDays))
		for _, d := range plannedDays {
			day, err := s.dayDTO(d)
			if err != nil {
				return err
			}
			s.metrics.RecordCompliance("day", d.Result.Passed, d.Result.RestrictedFraction)
			dtos = append(dtos, day)
		}
		return nil
	})
	return dtos, err
}
