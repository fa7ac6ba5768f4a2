package outbound

import "time"

// Outcome labels for recorded operations
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// MetricsRecorder receives measurements from the application layer
type MetricsRecorder interface {
	// RecordOperation records one service operation and its duration
	RecordOperation(operation, outcome string, duration time.Duration)
	// RecordCompliance records a compliance check over scope ("plan", "day", "item")
	RecordCompliance(scope string, passed bool, fraction float64)
	// RecordEvent counts a dispatched domain event
	RecordEvent(name string)
	// RecordSkipped counts a record skipped while loading ("recipe", "meal")
	RecordSkipped(kind string)
	// SetPlanSize reports the current number of recipes and meals
	SetPlanSize(recipes, meals int)
}

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) RecordOperation(string, string, time.Duration) {}
func (NoopMetrics) RecordCompliance(string, bool, float64)        {}
func (NoopMetrics) RecordEvent(string)                            {}
func (NoopMetrics) RecordSkipped(string)                          {}
func (NoopMetrics) SetPlanSize(int, int)                          {}
