package filestore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
)

// Labels that open each block of a recipe file, in file order
const (
	labelName         = "Name: "
	labelServings     = "\n\nServings: "
	labelIngredients  = "\n\nIngredients:\n"
	labelInstructions = "\n\nInstructions:\n"
)

var labels = []string{labelName, labelServings, labelIngredients, labelInstructions}

var (
	ErrBadServings   = errors.New("servings is not a whole number")
	ErrBadIngredient = errors.New("ingredient line must be quantity,units,food")
)

// encodeRecipe renders a record in the labelled text format
func encodeRecipe(rec outbound.RecipeRecord) ([]byte, error) {
	var rows bytes.Buffer
	w := csv.NewWriter(&rows)
	for _, line := range rec.Ingredients {
		err := w.Write([]string{
			strconv.FormatFloat(line.Quantity, 'f', -1, 64),
			line.Units,
			line.Food,
		})
		if err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString(labelName)
	b.WriteString(rec.Name)
	b.WriteString(labelServings)
	b.WriteString(strconv.Itoa(rec.Servings))
	b.WriteString(labelIngredients)
	b.Write(bytes.TrimSuffix(rows.Bytes(), []byte("\n")))
	b.WriteString(labelInstructions)
	b.WriteString(rec.Instructions)
	return b.Bytes(), nil
}

// decodeRecipe parses the labelled text format. A missing block takes its
// default: blank name, zero servings, no ingredients, no instructions.
func decodeRecipe(key string, data []byte) (outbound.RecipeRecord, error) {
	blocks := splitBlocks(string(data))

	rec := outbound.RecipeRecord{
		Key:          key,
		Name:         strings.TrimSpace(blocks[labelName]),
		Instructions: blocks[labelInstructions],
		Ingredients:  []outbound.IngredientRecord{},
	}

	if s := strings.TrimSpace(blocks[labelServings]); s != "" {
		servings, err := parseServings(s)
		if err != nil {
			return outbound.RecipeRecord{}, err
		}
		rec.Servings = servings
	}

	lines, err := parseIngredients(blocks[labelIngredients])
	if err != nil {
		return outbound.RecipeRecord{}, err
	}
	rec.Ingredients = lines
	return rec, nil
}

// splitBlocks finds each label in order and maps it to the text up to the
// next label found. Labels match with either line ending; block text is
// returned as written.
func splitBlocks(text string) map[string]string {
	type mark struct {
		label      string
		start, end int
	}

	var marks []mark
	cursor := 0
	for _, label := range labels {
		i, n := indexLabel(text[cursor:], label)
		if i < 0 {
			continue
		}
		start := cursor + i
		marks = append(marks, mark{label: label, start: start, end: start + n})
		cursor = start + n
	}

	blocks := make(map[string]string, len(marks))
	for i, m := range marks {
		stop := len(text)
		if i+1 < len(marks) {
			stop = marks[i+1].start
		}
		blocks[m.label] = text[m.end:stop]
	}
	return blocks
}

// indexLabel returns the offset and length of the first occurrence of label
// written with LF or CRLF line endings
func indexLabel(text, label string) (int, int) {
	at := strings.Index(text, label)
	if !strings.Contains(label, "\n") {
		return at, len(label)
	}
	crlf := strings.ReplaceAll(label, "\n", "\r\n")
	if i := strings.Index(text, crlf); i >= 0 && (at < 0 || i < at) {
		return i, len(crlf)
	}
	return at, len(label)
}

func parseServings(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrBadServings, s)
	}
	return int(f), nil
}

func parseIngredients(block string) ([]outbound.IngredientRecord, error) {
	lines := []outbound.IngredientRecord{}
	if strings.TrimSpace(block) == "" {
		return lines, nil
	}

	r := csv.NewReader(strings.NewReader(block))
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadIngredient, err)
		}
		quantity, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity %q", ErrBadIngredient, row[0])
		}
		lines = append(lines, outbound.IngredientRecord{
			Quantity: quantity,
			Units:    strings.TrimSpace(row[1]),
			Food:     strings.TrimSpace(row[2]),
		})
	}
	return lines, nil
}
