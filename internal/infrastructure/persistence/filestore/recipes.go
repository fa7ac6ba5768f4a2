package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"go.uber.org/zap"
)

// recipeRepository stores one file per recipe, named <key>.txt
type recipeRepository struct {
	dir    string
	logger *zap.Logger
}

// List reads every recipe file in filename order
func (r *recipeRepository) List(ctx context.Context) ([]outbound.RecipeRecord, []outbound.RecordError, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []outbound.RecipeRecord{}, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read recipe directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && isRecipeFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := make([]outbound.RecipeRecord, 0, len(names))
	var bad []outbound.RecordError
	for _, name := range names {
		data, err := readFile(ctx, filepath.Join(r.dir, name))
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, err
			}
			bad = append(bad, outbound.RecordError{Source: name, Err: err})
			continue
		}
		rec, err := decodeRecipe(recipe.KeyFromFilename(name), data)
		if err != nil {
			bad = append(bad, outbound.RecordError{Source: name, Err: err})
			continue
		}
		records = append(records, rec)
	}

	r.logger.Debug("Listed recipe files",
		zap.String("dir", r.dir),
		zap.Int("records", len(records)),
		zap.Int("unreadable", len(bad)),
	)
	return records, bad, nil
}

// Save writes the record to <key>.txt, replacing any previous file
func (r *recipeRepository) Save(ctx context.Context, rec outbound.RecipeRecord) error {
	path, err := r.path(rec.Key)
	if err != nil {
		return err
	}
	data, err := encodeRecipe(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recipe %s: %w", rec.Key, err)
	}
	if err := writeFile(ctx, path, data); err != nil {
		return err
	}

	r.logger.Debug("Saved recipe file", zap.String("path", path))
	return nil
}

// Delete removes <key>.txt; a missing file is not an error
func (r *recipeRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete recipe %s: %w", key, err)
	}

	r.logger.Debug("Deleted recipe file", zap.String("path", path))
	return nil
}

func (r *recipeRepository) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid recipe key %q", key)
	}
	return filepath.Join(r.dir, key+recipe.FileExtension), nil
}

func isRecipeFile(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.HasSuffix(name, recipe.FileExtension)
}
