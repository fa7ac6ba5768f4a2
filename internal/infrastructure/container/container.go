// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alchemorsel/dietplanner/internal/application/mealplan"
	"github.com/alchemorsel/dietplanner/internal/application/validation"
	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/domain/shared"
	"github.com/alchemorsel/dietplanner/internal/domain/units"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/config"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/monitoring"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/persistence/filestore"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/watcher"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/alchemorsel/dietplanner/pkg/healthcheck"
	"github.com/alchemorsel/dietplanner/pkg/logger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module builds the whole application around an already loaded config
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),

		// Infrastructure modules
		LoggerModule,
		StoreModule,
		MonitoringModule,

		// Domain and service modules
		DomainModule,
		ServiceModule,

		// Event modules
		EventModule,

		// Health checks
		HealthModule,

		// Lifecycle hooks
		LifecycleModule,
	)
}

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// StoreModule provides the storage backend selected by storage.driver
var StoreModule = fx.Provide(
	NewStore,
)

// NewStore opens the configured store
func NewStore(cfg *config.Config, log *zap.Logger) (outbound.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		store, err := filestore.New(filestore.Options{
			DataDir:   cfg.Storage.DataDir,
			RecipeDir: cfg.Storage.RecipeDir,
			MealsFile: cfg.Storage.MealsFile,
			DietFile:  cfg.Storage.DietFile,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return store, nil

	case config.DriverSQLite:
		path := cfg.Storage.SQLitePath
		if path != sqlite.MemoryPath && !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Storage.DataDir, path)
		}
		store, err := sqlite.Open(path, cfg.App.Debug, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store: %w", err)
		}
		return store, nil

	case config.DriverMemory:
		log.Info("Using in-memory store; changes are lost on exit")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *monitoring.MetricsCollector {
		return monitoring.NewMetricsCollector(cfg.Monitoring.MetricsNamespace, log)
	},
	func(cfg *config.Config, collector *monitoring.MetricsCollector) outbound.MetricsRecorder {
		if !cfg.Monitoring.EnableMetrics {
			return outbound.NoopMetrics{}
		}
		return collector
	},
	func(cfg *config.Config, log *zap.Logger) *monitoring.TracingProvider {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
	func(tp *monitoring.TracingProvider) trace.Tracer {
		return tp.Tracer()
	},
)

// DomainModule provides the unit converter and the compliance checker
var DomainModule = fx.Provide(
	func(cfg *config.Config) *units.Converter {
		if !cfg.Diet.KitchenContext {
			return units.NewConverter(units.WithoutKitchenContext())
		}
		return units.NewConverter(units.WithKitchenContext(cfg.Diet.DensityGPerML))
	},
	func(cfg *config.Config, conv *units.Converter) *diet.Checker {
		return diet.NewChecker(conv, cfg.Diet.RestrictedThreshold)
	},
	validation.New,
	func(cfg *config.Config) mealplan.Grading {
		return mealplan.Grading{
			Warning: cfg.Diet.WarningThreshold,
			Severe:  cfg.Diet.SevereThreshold,
		}
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	mealplan.NewService,
	func(s *mealplan.Service) inbound.MealPlanService {
		return s
	},
)

// EventModule provides event handling
var EventModule = fx.Options(
	fx.Provide(
		fx.Annotate(
			shared.NewDispatcher,
			fx.As(new(shared.EventDispatcher)),
		),
	),
	fx.Invoke(RegisterEventHandlers),
)

// RegisterEventHandlers logs the plan changes a user would want to hear about
func RegisterEventHandlers(dispatcher shared.EventDispatcher, log *zap.Logger) {
	log = log.Named("events")

	dispatcher.Register("recipe.deleted", func(event shared.DomainEvent) error {
		e, ok := event.(recipe.RecipeDeletedEvent)
		if !ok {
			return nil
		}
		log.Info("Recipe deleted",
			zap.String("recipe_key", e.RecipeKey),
			zap.Int("meals_removed", e.MealsRemoved),
		)
		return nil
	})
	dispatcher.Register("recipe.updated", func(event shared.DomainEvent) error {
		e, ok := event.(recipe.RecipeUpdatedEvent)
		if !ok {
			return nil
		}
		if e.Meals > 0 {
			log.Info("Recipe updated; scheduled meals follow the new content",
				zap.String("recipe_key", e.RecipeKey),
				zap.Int("meals", e.Meals),
			)
		}
		return nil
	})
}

// HealthModule provides the checks behind the doctor command
var HealthModule = fx.Provide(
	NewHealthCheck,
)

// NewHealthCheck registers a store check and a plan check
func NewHealthCheck(cfg *config.Config, store outbound.Store, service inbound.MealPlanService, log *zap.Logger) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)

	hc.Register("store", healthcheck.NewCustomChecker("store", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		meta := map[string]interface{}{"location": store.Location(), "driver": cfg.Storage.Driver}

		records, bad, err := store.Recipes().List(ctx)
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), meta
		}
		meals, err := store.Meals().Load(ctx)
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), meta
		}
		if _, err := store.Diet().Load(ctx); err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), meta
		}

		meta["recipes"] = len(records)
		meta["meals"] = len(meals)
		if len(bad) > 0 {
			sources := make([]string, 0, len(bad))
			for _, b := range bad {
				sources = append(sources, b.Source)
			}
			meta["unreadable"] = sources
			return healthcheck.StatusDegraded, fmt.Sprintf("%d unreadable recipe record(s)", len(bad)), meta
		}
		return healthcheck.StatusHealthy, "", meta
	}))

	hc.Register("plan", healthcheck.NewCustomChecker("plan", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		recipes, err := service.ListRecipes(ctx)
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}
		rejected := 0
		for _, r := range recipes {
			if !r.Accept {
				rejected++
			}
		}
		meta := map[string]interface{}{"recipes": len(recipes), "over_threshold": rejected}
		return healthcheck.StatusHealthy, "", meta
	}))

	return hc
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks loads the plan on start and releases resources on stop
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	store outbound.Store,
	service *mealplan.Service,
	tracing *monitoring.TracingProvider,
) {
	var fw *watcher.FileWatcher

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Debug("Starting diet planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("store", store.Location()),
			)

			if _, err := service.Load(ctx); err != nil {
				return fmt.Errorf("failed to load meal plan: %w", err)
			}

			if !cfg.Storage.Watch {
				return nil
			}
			files, ok := store.(*filestore.Store)
			if !ok {
				log.Warn("Watching is only supported by the file store",
					zap.String("driver", cfg.Storage.Driver),
				)
				return nil
			}

			var err error
			fw, err = watcher.NewFileWatcher(files.WatchPaths(), files.Owns, service, cfg.Storage.WatchDebounce, log)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", files.Location(), err)
			}
			fw.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Debug("Shutting down diet planner")

			if fw != nil {
				if err := fw.Stop(); err != nil {
					log.Error("Failed to stop file watcher", zap.Error(err))
				}
			}

			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown tracing", zap.Error(err))
			}

			if err := store.Close(); err != nil {
				log.Error("Failed to close store", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
