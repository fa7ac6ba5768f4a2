package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dietplanner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: dietplanner\n"))

	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "Recipes", cfg.Storage.RecipeDir)
	assert.Equal(t, "saved_meals.csv", cfg.Storage.MealsFile)
	assert.Equal(t, "tracker.csv", cfg.Storage.DietFile)
	assert.Equal(t, 250*time.Millisecond, cfg.Storage.WatchDebounce)
	assert.InDelta(t, 0.20, cfg.Diet.RestrictedThreshold, 1e-9)
	assert.InDelta(t, 0.40, cfg.Diet.SevereThreshold, 1e-9)
	assert.True(t, cfg.Diet.KitchenContext)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: sqlite
  sqlite_path: /tmp/plan.db
  watch: true
diet:
  restricted_threshold: 0.3
`)
	t.Setenv("DIETPLANNER_DIET_RESTRICTED_THRESHOLD", "0.25")
	t.Setenv("DIETPLANNER_APP_ENVIRONMENT", "production")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/plan.db", cfg.Storage.SQLitePath)
	assert.True(t, cfg.Storage.Watch)
	assert.InDelta(t, 0.25, cfg.Diet.RestrictedThreshold, 1e-9)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:        AppConfig{Name: "dietplanner"},
			Storage:    StorageConfig{Driver: DriverFile, DataDir: "."},
			Diet:       DietConfig{RestrictedThreshold: 0.2, WarningThreshold: 0.2, SevereThreshold: 0.4},
			Monitoring: MonitoringConfig{SamplingRate: 1},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"unknown driver":      func(c *Config) { c.Storage.Driver = "postgres" },
		"missing sqlite path": func(c *Config) { c.Storage.Driver = DriverSQLite },
		"threshold above one": func(c *Config) { c.Diet.RestrictedThreshold = 1.5 },
		"warning over severe": func(c *Config) { c.Diet.WarningThreshold = 0.5 },
		"negative density":    func(c *Config) { c.Diet.DensityGPerML = -1 },
		"negative debounce":   func(c *Config) { c.Storage.WatchDebounce = -time.Second },
		"missing name":        func(c *Config) { c.App.Name = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	memory := valid()
	memory.Storage = StorageConfig{Driver: DriverMemory}
	assert.NoError(t, memory.Validate())

	_, err := Load(writeConfig(t, "storage:\n  driver: nope\n"))
	assert.Error(t, err)
}
