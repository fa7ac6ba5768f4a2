package monitoring

import (
	"bytes"
	"testing"
	"time"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector("dietplanner", zap.NewNop())

	m.RecordOperation("schedule_meal", outbound.OutcomeSuccess, 2*time.Millisecond)
	m.RecordOperation("schedule_meal", outbound.OutcomeSuccess, time.Millisecond)
	m.RecordOperation("schedule_meal", outbound.OutcomeError, time.Millisecond)
	m.RecordCompliance("plan", true, 0.1)
	m.RecordCompliance("plan", false, 0.5)
	m.RecordCompliance("day", false, 0.3)
	m.RecordEvent("meal.scheduled")
	m.RecordSkipped("recipe")
	m.SetPlanSize(3, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("schedule_meal", outbound.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("schedule_meal", outbound.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.complianceChecksTotal.WithLabelValues("plan", "passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.complianceChecksTotal.WithLabelValues("day", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("meal.scheduled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedTotal.WithLabelValues("recipe")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.planRecipes))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.planMeals))
	assert.Equal(t, 2, testutil.CollectAndCount(m.restrictedFraction))

	var out bytes.Buffer
	require.NoError(t, m.WriteText(&out))
	assert.Contains(t, out.String(), "dietplanner_plan_meals 7")
	assert.Contains(t, out.String(), `dietplanner_operations_total{operation="schedule_meal",outcome="success"} 2`)
}

func TestCollectorsDoNotShareRegistry(t *testing.T) {
	a := NewMetricsCollector("dietplanner", zap.NewNop())
	b := NewMetricsCollector("dietplanner", zap.NewNop())

	a.RecordEvent("recipe.created")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.eventsTotal.WithLabelValues("recipe.created")))
}
