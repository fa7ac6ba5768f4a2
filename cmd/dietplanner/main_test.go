package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DIETPLANNER_STORAGE_DRIVER", "file")
	t.Setenv("DIETPLANNER_STORAGE_DATA_DIR", dir)
	t.Setenv("DIETPLANNER_STORAGE_WATCH", "false")
	t.Setenv("DIETPLANNER_APP_LOG_LEVEL", "error")
	return dir
}

func invoke(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRun_Usage(t *testing.T) {
	setupDataDir(t)

	_, stderr, code := invoke(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: dietplanner")

	_, stderr, code = invoke(t, "bake")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "bake"`)
}

func TestRun_PlanWorkflow(t *testing.T) {
	setupDataDir(t)

	_, stderr, code := invoke(t, "add-food", "-class", "restricted", "-food", "sugar")
	require.Equal(t, 0, code, stderr)

	stdout, stderr, code := invoke(t, "add-recipe",
		"-name", "Sweet Oats",
		"-servings", "2",
		"-ingredient", "90 gram oats",
		"-ingredient", "10 gram sugar",
		"-instructions", "Cook.",
	)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "created sweet_oats")

	_, stderr, code = invoke(t, "schedule", "-recipe", "sweet_oats", "-date", "2024-01-03", "-category", "breakfast")
	require.Equal(t, 0, code, stderr)

	stdout, stderr, code = invoke(t, "meals", "-start", "2024-01-01", "-days", "7")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "2024-01-03")
	assert.Contains(t, stdout, "Sweet Oats")

	stdout, stderr, code = invoke(t, "check", "-start", "2024-01-01", "-days", "7")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "PASS restricted 10.0%")

	stdout, stderr, code = invoke(t, "week", "-date", "2024-01-03")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Mon 2024-01-01")
	assert.Contains(t, stdout, "Sun 2024-01-07")
	assert.Contains(t, stdout, "breakfast Sweet Oats")

	stdout, stderr, code = invoke(t, "delete-recipe", "-key", "sweet_oats")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "deleted sweet_oats and 1 meal(s)")
}

func TestRun_Errors(t *testing.T) {
	setupDataDir(t)

	_, stderr, code := invoke(t, "delete-recipe", "-key", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "RECIPE_NOT_FOUND")

	_, stderr, code = invoke(t, "add-recipe", "-name", "Bad", "-ingredient", "lots of sugar")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "bad quantity")

	_, stderr, code = invoke(t, "add-food", "-class", "forbidden", "-food", "kale")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "VALIDATION_FAILED")
}

func TestParseIngredient(t *testing.T) {
	in, err := parseIngredient("1.5 cup brown rice")
	require.NoError(t, err)
	assert.Equal(t, 1.5, in.Quantity)
	assert.Equal(t, "cup", in.Unit)
	assert.Equal(t, "brown rice", in.Food)

	_, err = parseIngredient("two cups")
	assert.Error(t, err)
}

func TestRun_Doctor(t *testing.T) {
	setupDataDir(t)

	stdout, stderr, code := invoke(t, "doctor")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "overall: healthy")
}

func TestRun_CalendarNavigation(t *testing.T) {
	setupDataDir(t)

	_, stderr, code := invoke(t, "add-recipe", "-name", "Toast", "-ingredient", "30 gram bread")
	require.Equal(t, 0, code, stderr)
	_, stderr, code = invoke(t, "schedule", "-recipe", "toast", "-date", "2024-01-10", "-category", "breakfast")
	require.Equal(t, 0, code, stderr)

	stdout, stderr, code := invoke(t, "calendar", "-start", "2024-01-01", "-days", "4", "-shift", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Tue 2024-01-09")
	assert.Contains(t, stdout, "Fri 2024-01-12")
	assert.NotContains(t, stdout, "2024-01-08")
	assert.Contains(t, stdout, "breakfast Toast")

	stdout, stderr, code = invoke(t, "week", "-date", "2024-01-17", "-shift", "-1")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Mon 2024-01-08")
	assert.Contains(t, stdout, "Sun 2024-01-14")
	assert.Contains(t, stdout, "breakfast Toast")

	_, stderr, code = invoke(t, "calendar", "-days", "4611686018427387904")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "INVALID_ARGUMENT")
}

func TestRun_DuplicateMeal_ShouldReportNothingChanged(t *testing.T) {
	setupDataDir(t)

	_, stderr, code := invoke(t, "add-recipe", "-name", "Toast", "-ingredient", "30 gram bread")
	require.Equal(t, 0, code, stderr)
	_, stderr, code = invoke(t, "schedule", "-recipe", "toast", "-date", "2024-01-10", "-category", "lunch")
	require.Equal(t, 0, code, stderr)

	_, stderr, code = invoke(t, "schedule", "-recipe", "toast", "-date", "2024-01-10", "-category", "lunch")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "DUPLICATE_MEAL")
	assert.Contains(t, stderr, "nothing changed")

	_, stderr, code = invoke(t, "add-food", "-class", "forbidden", "-food", "kale")
	assert.Equal(t, 1, code)
	assert.NotContains(t, stderr, "nothing changed")
}
