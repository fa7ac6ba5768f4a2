package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"go.uber.org/zap"
)

var (
	mealColumns = []string{"filename", "date", "category"}
	dietColumns = []string{"allowed", "restricted", "banned"}
)

// mealRepository keeps the meal index as one CSV table
type mealRepository struct {
	path   string
	logger *zap.Logger
}

// Load reads the meal index; a missing file is an empty index
func (r *mealRepository) Load(ctx context.Context) ([]outbound.MealRecord, error) {
	rows, err := readTable(ctx, r.path, mealColumns)
	if err != nil {
		return nil, err
	}

	meals := make([]outbound.MealRecord, 0, len(rows))
	for _, row := range rows {
		if row[0] == "" && row[1] == "" && row[2] == "" {
			continue
		}
		meals = append(meals, outbound.MealRecord{Filename: row[0], Date: row[1], Category: row[2]})
	}
	return meals, nil
}

// Save rewrites the whole meal index
func (r *mealRepository) Save(ctx context.Context, meals []outbound.MealRecord) error {
	rows := make([][]string, 0, len(meals))
	for _, m := range meals {
		rows = append(rows, []string{m.Filename, m.Date, m.Category})
	}
	if err := writeTable(ctx, r.path, mealColumns, rows); err != nil {
		return err
	}

	r.logger.Debug("Saved meal index", zap.String("path", r.path), zap.Int("meals", len(meals)))
	return nil
}

// dietRepository keeps the policy as three ragged columns
type dietRepository struct {
	path   string
	logger *zap.Logger
}

// Load reads the policy; a missing file lists no foods
func (r *dietRepository) Load(ctx context.Context) (outbound.DietRecord, error) {
	rows, err := readTable(ctx, r.path, dietColumns)
	if err != nil {
		return outbound.DietRecord{}, err
	}

	rec := outbound.DietRecord{Allowed: []string{}, Restricted: []string{}, Banned: []string{}}
	for _, row := range rows {
		if row[0] != "" {
			rec.Allowed = append(rec.Allowed, row[0])
		}
		if row[1] != "" {
			rec.Restricted = append(rec.Restricted, row[1])
		}
		if row[2] != "" {
			rec.Banned = append(rec.Banned, row[2])
		}
	}
	return rec, nil
}

// Save writes the three lists side by side, padding short columns
func (r *dietRepository) Save(ctx context.Context, diet outbound.DietRecord) error {
	columns := [][]string{diet.Allowed, diet.Restricted, diet.Banned}
	height := 0
	for _, c := range columns {
		height = max(height, len(c))
	}

	rows := make([][]string, height)
	for i := range rows {
		row := make([]string, len(columns))
		for j, c := range columns {
			if i < len(c) {
				row[j] = c[i]
			}
		}
		rows[i] = row
	}
	if err := writeTable(ctx, r.path, dietColumns, rows); err != nil {
		return err
	}

	r.logger.Debug("Saved diet policy", zap.String("path", r.path), zap.Int("rows", height))
	return nil
}

// readTable reads a headed CSV file and returns its rows projected onto
// columns. Columns are matched by header name; absent ones read as "".
func readTable(ctx context.Context, path string, columns []string) ([][]string, error) {
	data, err := readFile(ctx, path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(columns))
		for j, name := range columns {
			if i, ok := index[name]; ok && i < len(record) {
				row[j] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeTable(ctx context.Context, path string, columns []string, rows [][]string) error {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(columns); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(ctx, path, b.Bytes())
}
