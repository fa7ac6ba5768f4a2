package monitoring

import (
	"io"
	"time"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

// MetricsCollector records meal plan metrics on its own registry
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Operation metrics
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	// Compliance metrics
	complianceChecksTotal *prometheus.CounterVec
	restrictedFraction    *prometheus.HistogramVec

	// Plan metrics
	eventsTotal  *prometheus.CounterVec
	skippedTotal *prometheus.CounterVec
	planRecipes  prometheus.Gauge
	planMeals    prometheus.Gauge
}

var _ outbound.MetricsRecorder = (*MetricsCollector)(nil)

// NewMetricsCollector creates a collector whose metrics are prefixed with namespace
func NewMetricsCollector(namespace string, logger *zap.Logger) *MetricsCollector {
	m := &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: prometheus.NewRegistry(),

		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of meal plan operations",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Meal plan operation duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		),
		complianceChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compliance_checks_total",
				Help:      "Total number of compliance checks by scope and result",
			},
			[]string{"scope", "result"},
		),
		restrictedFraction: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "restricted_fraction",
				Help:      "Restricted share of total mass per compliance check",
				Buckets:   []float64{0, 0.05, 0.1, 0.2, 0.3, 0.4, 0.6, 0.8, 1},
			},
			[]string{"scope"},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Total number of dispatched domain events",
			},
			[]string{"event"},
		),
		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_skipped_total",
				Help:      "Records skipped while loading the plan",
			},
			[]string{"kind"},
		),
		planRecipes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_recipes",
			Help:      "Number of recipes in the plan",
		}),
		planMeals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_meals",
			Help:      "Number of scheduled meals in the plan",
		}),
	}

	m.registry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.complianceChecksTotal,
		m.restrictedFraction,
		m.eventsTotal,
		m.skippedTotal,
		m.planRecipes,
		m.planMeals,
	)
	return m
}

// Registry returns the registry holding every collector metric
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation records one service operation
func (m *MetricsCollector) RecordOperation(operation, outcome string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCompliance records one compliance check
func (m *MetricsCollector) RecordCompliance(scope string, passed bool, fraction float64) {
	result := "failed"
	if passed {
		result = "passed"
	}
	m.complianceChecksTotal.WithLabelValues(scope, result).Inc()
	m.restrictedFraction.WithLabelValues(scope).Observe(fraction)
}

// RecordEvent counts a dispatched domain event
func (m *MetricsCollector) RecordEvent(name string) {
	m.eventsTotal.WithLabelValues(name).Inc()
}

// RecordSkipped counts a record skipped on load
func (m *MetricsCollector) RecordSkipped(kind string) {
	m.skippedTotal.WithLabelValues(kind).Inc()
}

// SetPlanSize updates the plan size gauges
func (m *MetricsCollector) SetPlanSize(recipes, meals int) {
	m.planRecipes.Set(float64(recipes))
	m.planMeals.Set(float64(meals))
}

// WriteText writes every metric in the Prometheus text format
func (m *MetricsCollector) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			m.logger.Error("Failed to encode metric family", zap.String("family", mf.GetName()), zap.Error(err))
			return err
		}
	}
	return nil
}
