package sqlite

import (
	"context"
	"fmt"

	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store implements outbound.Store on one SQLite database
type Store struct {
	db     *gorm.DB
	path   string
	logger *zap.Logger
}

var _ outbound.Store = (*Store)(nil)

// Open opens (and migrates) the database at path
func Open(path string, debug bool, log *zap.Logger) (*Store, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	db, err := SetupDatabase(path, level)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = MemoryPath
	}
	return &Store{db: db, path: path, logger: log.Named("sqlite-store")}, nil
}

func (s *Store) Recipes() outbound.RecipeRepository { return &recipeRepository{s} }
func (s *Store) Meals() outbound.MealRepository     { return &mealRepository{s} }
func (s *Store) Diet() outbound.DietRepository      { return &dietRepository{s} }

// Location returns the database path
func (s *Store) Location() string {
	return s.path
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type recipeRepository struct{ *Store }

// List returns recipes in insertion order; a row whose ledger cannot be
// decoded is reported, not fatal
func (r *recipeRepository) List(ctx context.Context) ([]outbound.RecipeRecord, []outbound.RecordError, error) {
	var models []RecipeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	records := make([]outbound.RecipeRecord, 0, len(models))
	var bad []outbound.RecordError
	for i := range models {
		rec, err := ModelToRecipe(&models[i])
		if err != nil {
			bad = append(bad, outbound.RecordError{Source: models[i].Key, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, bad, nil
}

// Save inserts or replaces the recipe row with the same key
func (r *recipeRepository) Save(ctx context.Context, rec outbound.RecipeRecord) error {
	model, err := RecipeToModel(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recipe %s: %w", rec.Key, err)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "servings", "ingredients", "instructions", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.Key, result.Error)
	}

	r.logger.Debug("Saved recipe row", zap.String("recipe_key", rec.Key))
	return nil
}

// Delete removes the recipe row; a missing row is not an error
func (r *recipeRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("recipe_key = ?", key).Delete(&RecipeModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", key, result.Error)
	}
	return nil
}

type mealRepository struct{ *Store }

func (r *mealRepository) Load(ctx context.Context) ([]outbound.MealRecord, error) {
	var models []MealModel
	if err := r.db.WithContext(ctx).Order("position").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}

	meals := make([]outbound.MealRecord, 0, len(models))
	for _, m := range models {
		meals = append(meals, outbound.MealRecord{Filename: m.Filename, Date: m.Date, Category: m.Category})
	}
	return meals, nil
}

// Save replaces the whole meal index in one transaction
func (r *mealRepository) Save(ctx context.Context, meals []outbound.MealRecord) error {
	models := make([]MealModel, 0, len(meals))
	for i, m := range meals {
		models = append(models, MealModel{Position: i, Filename: m.Filename, Date: m.Date, Category: m.Category})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MealModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save meals: %w", err)
	}
	return nil
}

type dietRepository struct{ *Store }

func (r *dietRepository) Load(ctx context.Context) (outbound.DietRecord, error) {
	var models []DietFoodModel
	if err := r.db.WithContext(ctx).Order("position").Find(&models).Error; err != nil {
		return outbound.DietRecord{}, fmt.Errorf("failed to load diet policy: %w", err)
	}

	rec := outbound.DietRecord{Allowed: []string{}, Restricted: []string{}, Banned: []string{}}
	for _, m := range models {
		switch diet.Class(m.Class) {
		case diet.ClassAllowed:
			rec.Allowed = append(rec.Allowed, m.Food)
		case diet.ClassRestricted:
			rec.Restricted = append(rec.Restricted, m.Food)
		case diet.ClassBanned:
			rec.Banned = append(rec.Banned, m.Food)
		default:
			r.logger.Warn("Ignoring diet row with unknown class",
				zap.String("class", m.Class),
				zap.String("food", m.Food),
			)
		}
	}
	return rec, nil
}

// Save replaces the whole policy in one transaction
func (r *dietRepository) Save(ctx context.Context, policy outbound.DietRecord) error {
	var models []DietFoodModel
	add := func(class diet.Class, foods []string) {
		for _, food := range foods {
			models = append(models, DietFoodModel{Position: len(models), Class: string(class), Food: food})
		}
	}
	add(diet.ClassAllowed, policy.Allowed)
	add(diet.ClassRestricted, policy.Restricted)
	add(diet.ClassBanned, policy.Banned)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&DietFoodModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save diet policy: %w", err)
	}
	return nil
}
