package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDisabledTracing(t *testing.T) {
	tp := NewTracingProvider(TracingConfig{ServiceName: "dietplanner"}, zap.NewNop())

	ctx, span := tp.Tracer().Start(context.Background(), "noop")
	span.End()

	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestEnabledTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := newTracingProvider(TracingConfig{ServiceName: "dietplanner", Enabled: true}, zap.NewNop(),
		sdktrace.WithSpanProcessor(recorder),
	)

	ctx, span := tp.Tracer().Start(context.Background(), "mealplan.load")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "mealplan.load", recorder.Ended()[0].Name())
	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestLogExporter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tp := NewTracingProvider(TracingConfig{ServiceName: "dietplanner", Enabled: true, SamplingRate: 1}, zap.New(core))

	_, span := tp.Tracer().Start(context.Background(), "mealplan.check_plan")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	entries := logs.FilterMessage("Span finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mealplan.check_plan", entries[0].ContextMap()["span"])
}
