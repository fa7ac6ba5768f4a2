package healthcheck

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fixed(status Status, message string) *CustomChecker {
	return NewCustomChecker("fixed", func(ctx context.Context) (Status, string, interface{}) {
		return status, message, nil
	})
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_OverallStatus(t *testing.T) {
	testCases := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"AllHealthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"OneDegraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"UnhealthyWins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hc := New("1.0.0", zap.NewNop())
			for i, s := range tc.statuses {
				hc.Register(string(rune('a'+i)), fixed(s, ""))
			}

			response := hc.Check(context.Background())

			assert.Equal(t, tc.want, response.Status)
			require.Len(t, response.Checks, len(tc.statuses))
			for i, check := range response.Checks {
				assert.Equal(t, string(rune('a'+i)), check.Name)
				assert.Equal(t, tc.statuses[i], check.Status)
			}
		})
	}
}

func TestHealthCheck_Check_ShouldLogFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	hc := New("1.0.0", zap.New(core))
	hc.Register("store", fixed(StatusUnhealthy, "permission denied"))
	hc.Register("plan", fixed(StatusHealthy, ""))

	hc.Check(context.Background())

	entries := logs.FilterMessage("Health check not healthy").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0].ContextMap()["check"])
}

func TestHealthCheck_Check_ShouldRespectTimeout(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.SetTimeout(20 * time.Millisecond)
	hc.Register("slow", NewCustomChecker("slow", func(ctx context.Context) (Status, string, interface{}) {
		<-ctx.Done()
		return StatusUnhealthy, ctx.Err().Error(), nil
	}))

	response := hc.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, response.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), response.Checks[0].Message)
}

func TestResponse_MarshalJSON(t *testing.T) {
	response := Response{
		Status:        StatusHealthy,
		Version:       "1.0.0",
		TotalDuration: 1500 * time.Millisecond,
		Checks:        []Check{{Name: "store", Status: StatusHealthy, Duration: 3 * time.Millisecond}},
	}

	data, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1500), decoded["total_duration_ms"])
	checks := decoded["checks"].([]interface{})
	assert.Equal(t, float64(3), checks[0].(map[string]interface{})["duration_ms"])
}
