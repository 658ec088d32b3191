package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneagent-ai/oneagent/internal/monitor/aggregation"
	"github.com/oneagent-ai/oneagent/internal/monitor/configuration"
	"github.com/oneagent-ai/oneagent/internal/monitor/event"
	"github.com/oneagent-ai/oneagent/internal/monitor/taxonomy"
	"github.com/oneagent-ai/oneagent/internal/monitor/window"
)

func newTestHandler(config configuration.EngineConfig) (*MetricsHandler, *event.Recorder) {
	windows := window.NewStore(1000)
	recorder := event.NewRecorder(taxonomy.NewClassifier(), windows, 1000)
	aggregator := aggregation.New(recorder, windows, config)
	return NewMetricsHandler(recorder, aggregator), recorder
}

func get(t *testing.T, handler http.Handler) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/monitoring/metrics", nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func duration(ms float64) *float64 {
	return &ms
}

func TestHandler_EmptyEngine(t *testing.T) {
	handler, _ := newTestHandler(configuration.EngineConfig{})
	rec, body := get(t, handler)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, 0.0, stats["totalOperations"])
	assert.Equal(t, 0.0, stats["components"])
	assert.Equal(t, 0.0, stats["recentEvents"])
	assert.GreaterOrEqual(t, stats["uptimeSeconds"].(float64), 0.0)

	// Empty collections render as empty, never null.
	assert.Equal(t, map[string]interface{}{}, data["operations"])
	assert.Equal(t, []interface{}{}, data["errors"])
	assert.Equal(t, []interface{}{}, data["errorBudgets"])
}

func TestHandler_Stats(t *testing.T) {
	handler, recorder := newTestHandler(configuration.EngineConfig{})

	recorder.TrackOperation("agents", "discoverAgents", event.StatusSuccess, event.Metadata{DurationMs: duration(10)})
	recorder.TrackOperation("agents", "discoverAgents", event.StatusSuccess, event.Metadata{DurationMs: duration(30)})
	recorder.TrackOperation("memory", "memorySearch", event.StatusError, event.Metadata{Error: "Too many requests"})

	_, body := get(t, handler)
	data := body["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, 3.0, stats["totalOperations"])
	assert.Equal(t, 2.0, stats["components"])
	assert.Equal(t, 2.0, stats["operations"])
	assert.Equal(t, 3.0, stats["recentEvents"])

	operations := data["operations"].(map[string]interface{})
	discover := operations["discoverAgents"].(map[string]interface{})
	assert.Equal(t, 2.0, discover["count"])
	assert.Equal(t, 20.0, discover["avgLatency"])
	assert.Equal(t, 30.0, discover["p95"])
	assert.Equal(t, 0.0, discover["errorRate"])

	search := operations["memorySearch"].(map[string]interface{})
	assert.Equal(t, 0.0, search["count"])
	assert.Equal(t, 1.0, search["errorRate"])
}

func TestHandler_Errors(t *testing.T) {
	handler, recorder := newTestHandler(configuration.EngineConfig{})

	recorder.TrackOperation("agents", "delegateTask", event.StatusError, event.Metadata{Error: "Too many requests"})
	recorder.TrackOperation("agents", "delegateTask", event.StatusSuccess, event.Metadata{DurationMs: duration(5)})
	recorder.TrackOperation("memory", "memorySearch", event.StatusError, event.Metadata{Error: "failed to parse JSON response"})

	_, body := get(t, handler)
	errors := body["data"].(map[string]interface{})["errors"].([]interface{})
	require.Len(t, errors, 2)

	first := errors[0].(map[string]interface{})
	assert.Equal(t, "agents", first["component"])
	assert.Equal(t, "delegateTask", first["operation"])
	assert.Equal(t, "rate_limited", first["errorCode"])
	assert.Equal(t, "Too many requests", first["message"])
	assert.InDelta(t, float64(time.Now().Unix()), first["timestampUnix"].(float64), 5)

	second := errors[1].(map[string]interface{})
	assert.Equal(t, "memory_serialization", second["errorCode"])
}

func TestHandler_ErrorLimit(t *testing.T) {
	handler, recorder := newTestHandler(configuration.EngineConfig{})

	for i := 0; i < recentErrorLimit+20; i++ {
		recorder.TrackOperation("agents", "delegateTask", event.StatusError, event.Metadata{Error: "boom"})
	}

	_, body := get(t, handler)
	errors := body["data"].(map[string]interface{})["errors"].([]interface{})
	assert.Len(t, errors, recentErrorLimit)
}

func TestHandler_ErrorBudgets(t *testing.T) {
	handler, recorder := newTestHandler(configuration.EngineConfig{
		DefaultSloWindow: 5 * time.Minute,
		Slos: map[string]configuration.SloTarget{
			"delegateTask": {TargetErrorRate: 0.5},
		},
	})

	recorder.TrackOperation("agents", "delegateTask", event.StatusError, event.Metadata{Error: "boom"})
	recorder.TrackOperation("agents", "delegateTask", event.StatusSuccess, event.Metadata{DurationMs: duration(5)})

	_, body := get(t, handler)
	budgets := body["data"].(map[string]interface{})["errorBudgets"].([]interface{})
	require.Len(t, budgets, 1)

	budget := budgets[0].(map[string]interface{})
	assert.Equal(t, "delegateTask", budget["operation"])
	assert.Equal(t, 0.5, budget["targetErrorRate"])
	assert.Equal(t, 0.5, budget["observedErrorRate"])
	assert.Equal(t, 1.0, budget["burnRate"])
	assert.Equal(t, 0.0, budget["remainingBudget"])
	assert.Equal(t, float64((5*time.Minute).Milliseconds()), budget["windowMs"])
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(configuration.EngineConfig{})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/monitoring/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestHandler_ReadOnly(t *testing.T) {
	handler, recorder := newTestHandler(configuration.EngineConfig{})
	recorder.TrackOperation("agents", "discoverAgents", event.StatusSuccess, event.Metadata{DurationMs: duration(10)})

	_, first := get(t, handler)
	_, second := get(t, handler)
	assert.Equal(t, first["data"].(map[string]interface{})["stats"].(map[string]interface{})["totalOperations"],
		second["data"].(map[string]interface{})["stats"].(map[string]interface{})["totalOperations"])
}
