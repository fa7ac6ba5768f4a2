// Package plan contains the meal plan aggregate: the recipes, the
// scheduled meals and the diet policy they are checked against.
package plan

import (
	"sort"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/domain/ledger"
	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/domain/shared"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/google/uuid"
)

// Plan owns every recipe, meal and the diet policy.
// Values it returns are copies; changes go through its methods.
type Plan struct {
	shared.AggregateRoot

	checker *diet.Checker
	policy  *diet.Policy
	recipes []*recipe.Recipe
	index   map[string]*recipe.Recipe
	// meals are kept in ascending date order; equal dates keep insertion order
	meals []*recipe.Meal
}

// New creates an empty plan. A nil policy lists nothing.
func New(checker *diet.Checker, policy *diet.Policy) *Plan {
	if policy == nil {
		policy = diet.EmptyPolicy()
	}
	return &Plan{
		checker: checker,
		policy:  policy.Clone(),
		recipes: []*recipe.Recipe{},
		index:   make(map[string]*recipe.Recipe),
		meals:   []*recipe.Meal{},
	}
}

// Checker returns the compliance checker of the plan
func (p *Plan) Checker() *diet.Checker {
	return p.checker
}

// Clone returns a deep copy, pending events included
func (p *Plan) Clone() *Plan {
	c := New(p.checker, p.policy)
	for _, r := range p.recipes {
		rc := r.Clone()
		c.recipes = append(c.recipes, rc)
		c.index[rc.Key()] = rc
	}
	for _, m := range p.meals {
		c.meals = append(c.meals, m.Bind(c.index[m.RecipeKey()]))
	}
	for _, e := range p.PendingEvents() {
		c.AddEvent(e)
	}
	return c
}

// AddRecipe adds a recipe; its key must be new to the plan
func (p *Plan) AddRecipe(r *recipe.Recipe) error {
	if _, exists := p.index[r.Key()]; exists {
		return apperrors.NewConflictError("recipe already exists").WithMetadata("recipe_key", r.Key())
	}

	stored := r.Clone()
	if err := p.tagRecipe(stored); err != nil {
		return err
	}

	p.recipes = append(p.recipes, stored)
	p.index[stored.Key()] = stored

	p.AddEvent(recipe.RecipeCreatedEvent{
		ID:        uuid.New(),
		RecipeKey: stored.Key(),
		Name:      stored.Name(),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// ReplaceRecipe swaps in new content for an existing key; meals
// referencing it read the new content from then on
func (p *Plan) ReplaceRecipe(r *recipe.Recipe) error {
	if _, exists := p.index[r.Key()]; !exists {
		return apperrors.NewRecipeNotFoundError(r.Key())
	}

	stored := r.Clone()
	if err := p.tagRecipe(stored); err != nil {
		return err
	}

	for i, existing := range p.recipes {
		if existing.Key() == stored.Key() {
			p.recipes[i] = stored
			break
		}
	}
	p.index[stored.Key()] = stored

	rebound := 0
	for i, m := range p.meals {
		if m.RecipeKey() != stored.Key() {
			continue
		}
		p.meals[i] = m.Bind(stored)
		accept, percent := stored.Compliance()
		p.meals[i].Tag(accept, percent)
		rebound++
	}

	p.AddEvent(recipe.RecipeUpdatedEvent{
		ID:        uuid.New(),
		RecipeKey: stored.Key(),
		Meals:     rebound,
		UpdatedAt: time.Now().UTC(),
	})
	return nil
}

// RemoveRecipe deletes a recipe and every meal referencing it. It returns
// the number of meals removed and whether the recipe existed; a missing
// recipe is a no-op.
func (p *Plan) RemoveRecipe(key string) (int, bool) {
	if _, exists := p.index[key]; !exists {
		return 0, false
	}

	delete(p.index, key)
	for i, r := range p.recipes {
		if r.Key() == key {
			p.recipes = append(p.recipes[:i], p.recipes[i+1:]...)
			break
		}
	}

	kept := p.meals[:0]
	removed := 0
	for _, m := range p.meals {
		if m.RecipeKey() == key {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	p.meals = kept

	p.AddEvent(recipe.RecipeDeletedEvent{
		ID:           uuid.New(),
		RecipeKey:    key,
		MealsRemoved: removed,
		DeletedAt:    time.Now().UTC(),
	})
	return removed, true
}

// Recipe returns a copy of the recipe with key
func (p *Plan) Recipe(key string) (*recipe.Recipe, bool) {
	r, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// HasRecipe reports whether key is a recipe of the plan
func (p *Plan) HasRecipe(key string) bool {
	_, ok := p.index[key]
	return ok
}

// Recipes returns copies of every recipe in insertion order
func (p *Plan) Recipes() []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, len(p.recipes))
	for _, r := range p.recipes {
		out = append(out, r.Clone())
	}
	return out
}

// AddMeal schedules the recipe named by key. It fails with RECIPE_NOT_FOUND
// for an unknown recipe and DUPLICATE_MEAL when an equal meal exists.
func (p *Plan) AddMeal(key recipe.MealKey) (*recipe.Meal, error) {
	m, err := p.prepareMeal(key, nil)
	if err != nil {
		return nil, err
	}

	p.insertMeal(m)
	p.AddEvent(recipe.MealScheduledEvent{
		ID:          uuid.New(),
		Meal:        m.Key(),
		ScheduledAt: time.Now().UTC(),
	})
	return view(m), nil
}

// RemoveMeal removes every meal equal to key and returns how many went.
// Removing a meal that is not scheduled is a no-op.
func (p *Plan) RemoveMeal(key recipe.MealKey) int {
	removed := p.dropMeal(key)
	if removed > 0 {
		p.AddEvent(recipe.MealUnscheduledEvent{
			ID:            uuid.New(),
			Meal:          key.Normalize(),
			UnscheduledAt: time.Now().UTC(),
		})
	}
	return removed
}

// ReplaceMeal swaps old for next in one step. If next cannot be scheduled
// the plan is left exactly as it was. A missing old meal makes this an add.
func (p *Plan) ReplaceMeal(old, next recipe.MealKey) (*recipe.Meal, error) {
	m, err := p.prepareMeal(next, &old)
	if err != nil {
		return nil, err
	}

	removed := p.dropMeal(old)
	p.insertMeal(m)

	if removed == 0 {
		p.AddEvent(recipe.MealScheduledEvent{
			ID:          uuid.New(),
			Meal:        m.Key(),
			ScheduledAt: time.Now().UTC(),
		})
	} else {
		p.AddEvent(recipe.MealRescheduledEvent{
			ID:            uuid.New(),
			From:          old.Normalize(),
			To:            m.Key(),
			RescheduledAt: time.Now().UTC(),
		})
	}
	return view(m), nil
}

// HasMeal reports whether a meal equal to key is scheduled
func (p *Plan) HasMeal(key recipe.MealKey) bool {
	for _, m := range p.meals {
		if m.Key().Equal(key) {
			return true
		}
	}
	return false
}

// AllMeals returns every meal in date order
func (p *Plan) AllMeals() []*recipe.Meal {
	out := make([]*recipe.Meal, 0, len(p.meals))
	for _, m := range p.meals {
		out = append(out, view(m))
	}
	return out
}

// Meals returns the meals dated in [start, start+days), in date order
func (p *Plan) Meals(start time.Time, days int) []*recipe.Meal {
	from, to := window(start, days)
	out := []*recipe.Meal{}
	for _, m := range p.meals {
		if m.In(from, to) {
			out = append(out, view(m))
		}
	}
	return out
}

// Foods merges the ingredient ledgers of the meals in the window
func (p *Plan) Foods(start time.Time, days int) (*ledger.Ledger, error) {
	from, to := window(start, days)
	var ledgers []*ledger.Ledger
	for _, m := range p.meals {
		if m.In(from, to) {
			ledgers = append(ledgers, m.Ingredients())
		}
	}
	return ledger.Sum(p.checker.Converter(), ledgers...)
}

// CheckPlan checks the merged ledger of the window against the policy
func (p *Plan) CheckPlan(start time.Time, days int) (diet.Result, error) {
	foods, err := p.Foods(start, days)
	if err != nil {
		return diet.Result{}, err
	}
	return p.checker.Check(foods, p.policy)
}

// CheckRecipes tags every meal and recipe with its own compliance
func (p *Plan) CheckRecipes() error {
	for _, r := range p.recipes {
		if err := p.tagRecipe(r); err != nil {
			return err
		}
	}
	for _, m := range p.meals {
		accept, percent := p.index[m.RecipeKey()].Compliance()
		m.Tag(accept, percent)
	}
	return nil
}

// Day is one calendar day of a window with its own compliance
type Day struct {
	Date   time.Time
	Meals  []*recipe.Meal
	Foods  *ledger.Ledger
	Result diet.Result
}

// Days groups the window by calendar day, one entry per day even when empty
func (p *Plan) Days(start time.Time, days int) ([]Day, error) {
	if err := ValidateWindow(days); err != nil {
		return nil, err
	}
	from, _ := window(start, days)
	out := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		foods, err := p.Foods(date, 1)
		if err != nil {
			return nil, err
		}
		result, err := p.checker.Check(foods, p.policy)
		if err != nil {
			return nil, err
		}
		out = append(out, Day{
			Date:   date,
			Meals:  p.Meals(date, 1),
			Foods:  foods,
			Result: result,
		})
	}
	return out, nil
}

// Policy returns a copy of the diet policy
func (p *Plan) Policy() *diet.Policy {
	return p.policy.Clone()
}

// SetPolicy replaces the diet policy and re-tags every item
func (p *Plan) SetPolicy(policy *diet.Policy) error {
	if policy == nil {
		policy = diet.EmptyPolicy()
	}
	previous := p.policy
	p.policy = policy.Clone()
	if err := p.CheckRecipes(); err != nil {
		p.policy = previous
		return err
	}
	return nil
}

// AddFood classifies a food in the policy and re-tags every item
func (p *Plan) AddFood(food string, class diet.Class) error {
	next := p.policy.Clone()
	if err := next.AddFood(food, class); err != nil {
		return err
	}
	return p.SetPolicy(next)
}

// RemoveFood unlists a food and re-tags every item; it reports whether it was listed
func (p *Plan) RemoveFood(food string) (bool, error) {
	next := p.policy.Clone()
	if !next.RemoveFood(food) {
		return false, nil
	}
	return true, p.SetPolicy(next)
}

// prepareMeal validates key and builds the meal without touching the plan.
// A meal equal to replacing does not count as a duplicate.
func (p *Plan) prepareMeal(key recipe.MealKey, replacing *recipe.MealKey) (*recipe.Meal, error) {
	key = key.Normalize()
	if err := key.Validate(); err != nil {
		return nil, err
	}

	r, ok := p.index[key.RecipeKey]
	if !ok {
		return nil, apperrors.NewRecipeNotFoundError(key.RecipeKey)
	}

	if p.HasMeal(key) && (replacing == nil || !replacing.Equal(key)) {
		return nil, apperrors.NewDuplicateMealError(key.RecipeKey, recipe.FormatDate(key.Date), string(key.Category))
	}

	m, err := recipe.NewMeal(r, key.Date, key.Category)
	if err != nil {
		return nil, err
	}
	accept, percent := r.Compliance()
	m.Tag(accept, percent)
	return m, nil
}

func (p *Plan) insertMeal(m *recipe.Meal) {
	i := sort.Search(len(p.meals), func(i int) bool {
		return m.Before(p.meals[i])
	})
	p.meals = append(p.meals, nil)
	copy(p.meals[i+1:], p.meals[i:])
	p.meals[i] = m
}

func (p *Plan) dropMeal(key recipe.MealKey) int {
	kept := p.meals[:0]
	removed := 0
	for _, m := range p.meals {
		if m.Key().Equal(key) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	p.meals = kept
	return removed
}

func (p *Plan) tagRecipe(r *recipe.Recipe) error {
	result, err := p.checker.Check(r.Ingredients(), p.policy)
	if err != nil {
		return err
	}
	r.Tag(result.Passed, result.RestrictedFraction)
	return nil
}

func window(start time.Time, days int) (time.Time, time.Time) {
	from := recipe.DateOf(start)
	if days < 0 {
		days = 0
	}
	return from, from.AddDate(0, 0, days)
}

// view detaches a meal from the plan's own recipe
func view(m *recipe.Meal) *recipe.Meal {
	return m.Bind(m.Recipe().Clone())
}
