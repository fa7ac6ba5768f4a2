package container

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/shared"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/config"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/monitoring"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/alchemorsel/dietplanner/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testConfig(driver, dataDir string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "dietplanner",
			Version:     "test",
			Environment: "test",
			LogLevel:    "error",
			LogFormat:   "json",
		},
		Storage: config.StorageConfig{
			Driver:        driver,
			DataDir:       dataDir,
			RecipeDir:     "Recipes",
			MealsFile:     "saved_meals.csv",
			DietFile:      "tracker.csv",
			SQLitePath:    "plan.db",
			WatchDebounce: 20 * time.Millisecond,
		},
		Diet: config.DietConfig{
			RestrictedThreshold: 0.2,
			WarningThreshold:    0.2,
			SevereThreshold:     0.4,
			KitchenContext:      true,
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:    true,
			MetricsNamespace: "dietplanner_test",
			SamplingRate:     1,
		},
	}
}

func TestValidateApp(t *testing.T) {
	for _, driver := range []string{config.DriverFile, config.DriverSQLite, config.DriverMemory} {
		t.Run(driver, func(t *testing.T) {
			err := fx.ValidateApp(Module(testConfig(driver, t.TempDir())), fx.NopLogger)
			assert.NoError(t, err)
		})
	}
}

func TestModule_ShouldLoadAndServe(t *testing.T) {
	for _, driver := range []string{config.DriverFile, config.DriverSQLite, config.DriverMemory} {
		t.Run(driver, func(t *testing.T) {
			var (
				svc       inbound.MealPlanService
				collector *monitoring.MetricsCollector
			)
			app := fxtest.New(t,
				Module(testConfig(driver, t.TempDir())),
				fx.NopLogger,
				fx.Populate(&svc, &collector),
			)
			app.RequireStart()
			defer app.RequireStop()

			created, err := svc.CreateRecipe(context.Background(), inbound.CreateRecipeCommand{
				Name:        "Green Salad",
				Servings:    2,
				Ingredients: []inbound.IngredientCommand{{Food: "kale", Quantity: 100, Unit: "gram"}},
			})
			require.NoError(t, err)
			assert.Equal(t, "green_salad", created.Key)

			recipes, err := svc.ListRecipes(context.Background())
			require.NoError(t, err)
			assert.Len(t, recipes, 1)

			var out bytes.Buffer
			require.NoError(t, collector.WriteText(&out))
			assert.Contains(t, out.String(), "dietplanner_test_operations_total")
		})
	}
}

func TestModule_FileStoreShouldPersistAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(config.DriverFile, dir)

	var svc inbound.MealPlanService
	app := fxtest.New(t, Module(cfg), fx.NopLogger, fx.Populate(&svc))
	app.RequireStart()
	_, err := svc.CreateRecipe(context.Background(), inbound.CreateRecipeCommand{Name: "Toast"})
	require.NoError(t, err)
	app.RequireStop()

	_, err = os.Stat(filepath.Join(dir, "Recipes", "toast.txt"))
	require.NoError(t, err)

	app = fxtest.New(t, Module(cfg), fx.NopLogger, fx.Populate(&svc))
	app.RequireStart()
	defer app.RequireStop()

	got, err := svc.GetRecipe(context.Background(), "toast")
	require.NoError(t, err)
	assert.Equal(t, "Toast", got.Name)
}

func TestModule_WatcherShouldPickUpExternalEdits(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(config.DriverFile, dir)
	cfg.Storage.Watch = true

	var svc inbound.MealPlanService
	app := fxtest.New(t, Module(cfg), fx.NopLogger, fx.Populate(&svc))
	app.RequireStart()
	defer app.RequireStop()

	contents := "Name: Porridge\n\nServings: 1\n\nIngredients:\n50,gram,oats\n\nInstructions:\nStir."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Recipes", "porridge.txt"), []byte(contents), 0o644))

	assert.Eventually(t, func() bool {
		_, err := svc.GetRecipe(context.Background(), "porridge")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestModule_DisabledMetricsShouldUseNoop(t *testing.T) {
	cfg := testConfig(config.DriverMemory, "")
	cfg.Monitoring.EnableMetrics = false

	var recorder outbound.MetricsRecorder
	app := fxtest.New(t, Module(cfg), fx.NopLogger, fx.Populate(&recorder))
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, outbound.NoopMetrics{}, recorder)
}

func TestRegisterEventHandlers(t *testing.T) {
	var dispatcher shared.EventDispatcher
	app := fxtest.New(t, Module(testConfig(config.DriverMemory, "")), fx.NopLogger, fx.Populate(&dispatcher))
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, &shared.Dispatcher{}, dispatcher)
}

func TestHealthCheck_ShouldReportUnreadableRecipes(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(config.DriverFile, dir)

	var hc *healthcheck.HealthCheck
	app := fxtest.New(t, Module(cfg), fx.NopLogger, fx.Populate(&hc))
	app.RequireStart()
	defer app.RequireStop()

	response := hc.Check(context.Background())
	assert.Equal(t, healthcheck.StatusHealthy, response.Status)

	bad := "Name: Bad\n\nServings: several\n\nIngredients:\n\n\nInstructions:\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Recipes", "bad.txt"), []byte(bad), 0o644))

	response = hc.Check(context.Background())
	assert.Equal(t, healthcheck.StatusDegraded, response.Status)
	require.Len(t, response.Checks, 2)
	assert.Equal(t, "plan", response.Checks[0].Name)
	assert.Equal(t, "store", response.Checks[1].Name)
	assert.Equal(t, "1 unreadable recipe record(s)", response.Checks[1].Message)
}
