package mealplan

import (
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/domain/ledger"
	"github.com/alchemorsel/dietplanner/internal/domain/plan"
	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/domain/units"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
)

// Record mapping

func recipeFromRecord(conv *units.Converter, rec outbound.RecipeRecord) (*recipe.Recipe, error) {
	l := ledger.New()
	for _, line := range rec.Ingredients {
		q, err := conv.Quantity(line.Quantity, line.Units)
		if err != nil {
			return nil, err
		}
		if err := l.Add(conv, line.Food, q); err != nil {
			return nil, err
		}
	}
	return recipe.Restore(rec.Key, rec.Name, rec.Servings, l, rec.Instructions)
}

func recipeRecord(r *recipe.Recipe) outbound.RecipeRecord {
	entries := r.Ingredients().Entries()
	lines := make([]outbound.IngredientRecord, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, outbound.IngredientRecord{
			Quantity: e.Quantity.Magnitude,
			Units:    e.Quantity.Unit.Name,
			Food:     e.Food,
		})
	}
	return outbound.RecipeRecord{
		Key:          r.Key(),
		Name:         r.Name(),
		Servings:     r.Servings(),
		Ingredients:  lines,
		Instructions: r.Instructions(),
	}
}

func mealRecords(p *plan.Plan) []outbound.MealRecord {
	meals := p.AllMeals()
	out := make([]outbound.MealRecord, 0, len(meals))
	for _, m := range meals {
		out = append(out, outbound.MealRecord{
			Filename: m.Recipe().Filename(),
			Date:     recipe.FormatDate(m.Date()),
			Category: string(m.Category()),
		})
	}
	return out
}

func policyFromRecord(rec outbound.DietRecord) *diet.Policy {
	return diet.NewPolicy(rec.Allowed, rec.Restricted, rec.Banned)
}

func dietRecord(p *diet.Policy) outbound.DietRecord {
	return outbound.DietRecord{
		Allowed:    p.Allowed(),
		Restricted: p.Restricted(),
		Banned:     p.Banned(),
	}
}

// Command mapping

func ledgerFromCommands(conv *units.Converter, lines []inbound.IngredientCommand) (*ledger.Ledger, error) {
	l := ledger.New()
	for _, line := range lines {
		q, err := conv.Quantity(line.Quantity, line.Unit)
		if err != nil {
			return nil, err
		}
		if err := l.Add(conv, line.Food, q); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func mealKeyFromRef(ref inbound.MealRef) (recipe.MealKey, error) {
	category, err := recipe.ParseCategory(ref.Category)
	if err != nil {
		return recipe.MealKey{}, err
	}
	return recipe.NewMealKey(ref.RecipeKey, ref.Date, category), nil
}

// DTO mapping

func ingredientDTOs(l *ledger.Ledger) []inbound.IngredientDTO {
	entries := l.Entries()
	out := make([]inbound.IngredientDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, inbound.IngredientDTO{
			Food:     e.Food,
			Quantity: e.Quantity.Magnitude,
			Unit:     e.Quantity.Unit.Name,
		})
	}
	return out
}

func (s *Service) recipeDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	accept, percent := r.Compliance()
	return &inbound.RecipeDTO{
		Key:          r.Key(),
		Name:         r.Name(),
		Filename:     r.Filename(),
		Servings:     r.Servings(),
		Ingredients:  ingredientDTOs(r.Ingredients()),
		Instructions: r.Instructions(),
		Accept:       accept,
		Percent:      percent,
		Severity:     string(s.grade(percent)),
	}
}

func (s *Service) mealDTO(m *recipe.Meal) *inbound.MealDTO {
	accept, percent := m.Compliance()
	return &inbound.MealDTO{
		RecipeKey:    m.RecipeKey(),
		Name:         m.Name(),
		Date:         m.Date(),
		Category:     string(m.Category()),
		Servings:     m.Servings(),
		Ingredients:  ingredientDTOs(m.Ingredients()),
		Instructions: m.Instructions(),
		Accept:       accept,
		Percent:      percent,
		Severity:     string(s.grade(percent)),
	}
}

func (s *Service) mealDTOs(meals []*recipe.Meal) []inbound.MealDTO {
	out := make([]inbound.MealDTO, 0, len(meals))
	for _, m := range meals {
		out = append(out, *s.mealDTO(m))
	}
	return out
}

func (s *Service) complianceDTO(result diet.Result) inbound.ComplianceDTO {
	return inbound.ComplianceDTO{
		Passed:             result.Passed,
		RestrictedFraction: result.RestrictedFraction,
		RestrictedMass:     result.RestrictedMass,
		OtherMass:          result.OtherMass,
		Banned:             result.Banned,
		Severity:           string(s.grade(result.RestrictedFraction)),
	}
}

func (s *Service) dayDTO(d plan.Day) (inbound.DayDTO, error) {
	total, err := d.Foods.Total(s.conv, units.MeasureUnit)
	if err != nil {
		return inbound.DayDTO{}, err
	}
	return inbound.DayDTO{
		Date:       d.Date,
		Meals:      s.mealDTOs(d.Meals),
		TotalMass:  total.Magnitude,
		Compliance: s.complianceDTO(d.Result),
	}, nil
}

func policyDTO(p *diet.Policy) *inbound.PolicyDTO {
	return &inbound.PolicyDTO{
		Allowed:    p.Allowed(),
		Restricted: p.Restricted(),
		Banned:     p.Banned(),
	}
}

func (s *Service) grade(fraction float64) diet.Severity {
	return diet.Grade(fraction, s.grading.Warning, s.grading.Severe)
}

func dateAttr(t time.Time) string {
	return recipe.FormatDate(t)
}
