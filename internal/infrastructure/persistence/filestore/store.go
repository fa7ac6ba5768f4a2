// Package filestore keeps the meal plan in flat files under one data
// directory: one text file per recipe, a meal index table and a diet
// policy table.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"go.uber.org/zap"
)

// Default file layout inside the data directory
const (
	DefaultRecipeDir = "Recipes"
	DefaultMealsFile = "saved_meals.csv"
	DefaultDietFile  = "tracker.csv"
)

// Options locates the files of a store. Relative paths are resolved
// against DataDir.
type Options struct {
	DataDir   string
	RecipeDir string
	MealsFile string
	DietFile  string
}

// Store is a file-backed outbound.Store
type Store struct {
	dataDir   string
	recipeDir string
	mealsFile string
	dietFile  string
	logger    *zap.Logger

	recipes *recipeRepository
	meals   *mealRepository
	diet    *dietRepository
}

var _ outbound.Store = (*Store)(nil)

// New opens a store, creating the data and recipe directories if needed
func New(opts Options, logger *zap.Logger) (*Store, error) {
	if opts.DataDir == "" {
		opts.DataDir = "."
	}
	if opts.RecipeDir == "" {
		opts.RecipeDir = DefaultRecipeDir
	}
	if opts.MealsFile == "" {
		opts.MealsFile = DefaultMealsFile
	}
	if opts.DietFile == "" {
		opts.DietFile = DefaultDietFile
	}

	s := &Store{
		dataDir:   opts.DataDir,
		recipeDir: resolve(opts.DataDir, opts.RecipeDir),
		mealsFile: resolve(opts.DataDir, opts.MealsFile),
		dietFile:  resolve(opts.DataDir, opts.DietFile),
		logger:    logger.Named("filestore"),
	}

	for _, dir := range []string{s.dataDir, s.recipeDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.recipes = &recipeRepository{dir: s.recipeDir, logger: s.logger}
	s.meals = &mealRepository{path: s.mealsFile, logger: s.logger}
	s.diet = &dietRepository{path: s.dietFile, logger: s.logger}
	return s, nil
}

func (s *Store) Recipes() outbound.RecipeRepository { return s.recipes }
func (s *Store) Meals() outbound.MealRepository     { return s.meals }
func (s *Store) Diet() outbound.DietRepository      { return s.diet }

// Location returns the data directory
func (s *Store) Location() string {
	return s.dataDir
}

// Close is a no-op; files are opened per operation
func (s *Store) Close() error {
	return nil
}

// WatchPaths lists what a watcher must observe to see every external edit
func (s *Store) WatchPaths() []string {
	return []string{s.dataDir, s.recipeDir}
}

// Owns reports whether path is one of the files the store reads
func (s *Store) Owns(path string) bool {
	path = filepath.Clean(path)
	if path == s.mealsFile || path == s.dietFile {
		return true
	}
	return filepath.Dir(path) == s.recipeDir && isRecipeFile(filepath.Base(path))
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// writeFile replaces path atomically through a temporary file in the same directory
func writeFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// readFile returns nil data for a missing file
func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
