// Package memory provides an in-memory meal plan store
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
)

// ErrClosed is returned by every repository of a closed store
var ErrClosed = errors.New("memory store closed")

// Store keeps records in maps guarded by one mutex. Records are copied
// in and out so callers never share slices with the store.
type Store struct {
	mutex   sync.RWMutex
	closed  bool
	seq     int
	recipes map[string]storedRecipe
	meals   []outbound.MealRecord
	diet    outbound.DietRecord
}

type storedRecipe struct {
	seq    int
	record outbound.RecipeRecord
}

var _ outbound.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		recipes: make(map[string]storedRecipe),
		meals:   []outbound.MealRecord{},
		diet:    outbound.DietRecord{Allowed: []string{}, Restricted: []string{}, Banned: []string{}},
	}
}

func (s *Store) Recipes() outbound.RecipeRepository { return (*recipeRepository)(s) }
func (s *Store) Meals() outbound.MealRepository     { return (*mealRepository)(s) }
func (s *Store) Diet() outbound.DietRepository      { return (*dietRepository)(s) }

// Location names the store in logs
func (s *Store) Location() string {
	return "memory"
}

// Close makes every later operation fail with ErrClosed
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return ErrClosed
	}
	return nil
}

type recipeRepository Store

// List returns recipes in the order they were first saved
func (r *recipeRepository) List(ctx context.Context) ([]outbound.RecipeRecord, []outbound.RecordError, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return nil, nil, err
	}

	stored := make([]storedRecipe, 0, len(r.recipes))
	for _, sr := range r.recipes {
		stored = append(stored, sr)
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	records := make([]outbound.RecipeRecord, 0, len(stored))
	for _, sr := range stored {
		records = append(records, copyRecipe(sr.record))
	}
	return records, nil, nil
}

func (r *recipeRepository) Save(ctx context.Context, rec outbound.RecipeRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return err
	}

	seq := r.seq
	if existing, ok := r.recipes[rec.Key]; ok {
		seq = existing.seq
	} else {
		r.seq++
	}
	r.recipes[rec.Key] = storedRecipe{seq: seq, record: copyRecipe(rec)}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return err
	}

	delete(r.recipes, key)
	return nil
}

type mealRepository Store

func (r *mealRepository) Load(ctx context.Context) ([]outbound.MealRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return nil, err
	}
	return append([]outbound.MealRecord{}, r.meals...), nil
}

func (r *mealRepository) Save(ctx context.Context, meals []outbound.MealRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return err
	}
	r.meals = append([]outbound.MealRecord{}, meals...)
	return nil
}

type dietRepository Store

func (r *dietRepository) Load(ctx context.Context) (outbound.DietRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return outbound.DietRecord{}, err
	}
	return copyDiet(r.diet), nil
}

func (r *dietRepository) Save(ctx context.Context, diet outbound.DietRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := (*Store)(r).check(ctx); err != nil {
		return err
	}
	r.diet = copyDiet(diet)
	return nil
}

func copyRecipe(rec outbound.RecipeRecord) outbound.RecipeRecord {
	rec.Ingredients = append([]outbound.IngredientRecord{}, rec.Ingredients...)
	return rec
}

func copyDiet(d outbound.DietRecord) outbound.DietRecord {
	return outbound.DietRecord{
		Allowed:    append([]string{}, d.Allowed...),
		Restricted: append([]string{}, d.Restricted...),
		Banned:     append([]string{}, d.Banned...),
	}
}
